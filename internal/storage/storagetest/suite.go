// Package storagetest holds the behavioral contract every KV backend must satisfy.
package storagetest

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/dotriacontordle/internal/storage"
)

// KVSuite runs the KV contract against the store returned by New.
// New is called once per test.
type KVSuite struct {
	suite.Suite
	New func() storage.KV

	kv  storage.KV
	ctx context.Context
}

func (s *KVSuite) SetupTest() {
	s.kv = s.New()
	s.ctx = context.Background()
}

func (s *KVSuite) TestSetAndGet() {
	s.Require().NoError(s.kv.Set(s.ctx, "alpha", "one"))

	got, err := s.kv.Get(s.ctx, "alpha")
	s.Require().NoError(err)
	s.Equal("one", got)
}

func (s *KVSuite) TestGetMissing() {
	_, err := s.kv.Get(s.ctx, "missing")
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *KVSuite) TestOverwrite() {
	s.Require().NoError(s.kv.Set(s.ctx, "alpha", "one"))
	s.Require().NoError(s.kv.Set(s.ctx, "alpha", "two"))

	got, err := s.kv.Get(s.ctx, "alpha")
	s.Require().NoError(err)
	s.Equal("two", got)
}

func (s *KVSuite) TestDelete() {
	s.Require().NoError(s.kv.Set(s.ctx, "alpha", "one"))
	s.Require().NoError(s.kv.Delete(s.ctx, "alpha"))

	_, err := s.kv.Get(s.ctx, "alpha")
	s.ErrorIs(err, storage.ErrNotFound)

	s.NoError(s.kv.Delete(s.ctx, "alpha"), "deleting a missing key is not an error")
}

func (s *KVSuite) TestGetMany() {
	s.Require().NoError(s.kv.Set(s.ctx, "a", "1"))
	s.Require().NoError(s.kv.Set(s.ctx, "c", "3"))

	got, err := s.kv.GetMany(s.ctx, "a", "b", "c")
	s.Require().NoError(err)
	s.Equal(map[string]string{"a": "1", "c": "3"}, got)

	got, err = s.kv.GetMany(s.ctx)
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *KVSuite) TestEmptyValueRoundTrips() {
	s.Require().NoError(s.kv.Set(s.ctx, "empty", ""))

	got, err := s.kv.Get(s.ctx, "empty")
	s.Require().NoError(err)
	s.Equal("", got)
}

func (s *KVSuite) TestPingAndProbe() {
	s.NoError(s.kv.Ping(s.ctx))
	s.NoError(storage.Probe(s.ctx, s.kv))

	got, err := s.kv.GetMany(s.ctx, "__dotriacontordle_probe__")
	s.Require().NoError(err)
	s.Empty(got, "probe cleans up after itself")
}

func (s *KVSuite) TestNamespacesAreIsolated() {
	alice := storage.NewNamespaced(s.kv, "player:alice:")
	bob := storage.NewNamespaced(s.kv, "player:bob:")

	s.Require().NoError(alice.Set(s.ctx, "stats", "a"))
	s.Require().NoError(bob.Set(s.ctx, "stats", "b"))

	got, err := alice.Get(s.ctx, "stats")
	s.Require().NoError(err)
	s.Equal("a", got)

	many, err := bob.GetMany(s.ctx, "stats", "other")
	s.Require().NoError(err)
	s.Equal(map[string]string{"stats": "b"}, many)

	raw, err := s.kv.Get(s.ctx, "player:alice:stats")
	s.Require().NoError(err)
	s.Equal("a", raw)

	_, err = s.kv.Get(s.ctx, "stats")
	s.ErrorIs(err, storage.ErrNotFound)
}
