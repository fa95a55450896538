package storage

import (
	"context"
	"strings"
)

// Namespaced prefixes every key with ns, giving each owner a private keyspace
type Namespaced struct {
	kv KV
	ns string
}

// NewNamespaced scopes kv to ns. Nesting concatenates prefixes.
func NewNamespaced(kv KV, ns string) *Namespaced {
	if inner, ok := kv.(*Namespaced); ok {
		return &Namespaced{kv: inner.kv, ns: inner.ns + ns}
	}
	return &Namespaced{kv: kv, ns: ns}
}

var _ KV = (*Namespaced)(nil)

// Namespace returns the key prefix
func (n *Namespaced) Namespace() string {
	return n.ns
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.kv.Get(ctx, n.ns+key)
}

func (n *Namespaced) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = n.ns + k
	}
	values, err := n.kv.GetMany(ctx, scoped...)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[strings.TrimPrefix(k, n.ns)] = v
	}
	return out, nil
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.kv.Set(ctx, n.ns+key, value)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.kv.Delete(ctx, n.ns+key)
}

func (n *Namespaced) Ping(ctx context.Context) error {
	return n.kv.Ping(ctx)
}
