package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mcoot/dotriacontordle/internal/model"
)

// DefaultRemoteURL is a Datamuse-compatible spelling lookup
const DefaultRemoteURL = "https://api.datamuse.com/words"

// RemoteConfig holds settings for the online lookup
type RemoteConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// DefaultRemoteConfig returns conservative defaults for the public endpoint
func DefaultRemoteConfig() RemoteConfig {
	return RemoteConfig{
		BaseURL:       DefaultRemoteURL,
		Timeout:       5 * time.Second,
		RatePerSecond: 5,
		Burst:         5,
	}
}

// Remote validates words with an HTTP spelling lookup.
// Any failure to get a definite answer is reported as model.ErrValidationUnavailable.
type Remote struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRemote creates a remote validator
func NewRemote(cfg RemoteConfig, logger *slog.Logger) *Remote {
	def := DefaultRemoteConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = def.RatePerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	return &Remote{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		logger:  logger,
	}
}

type remoteWord struct {
	Word string `json:"word"`
}

// Validate asks the remote service whether word is spelled exactly as given
func (r *Remote) Validate(ctx context.Context, word string, length int) (bool, error) {
	if !wellFormed(word, length) {
		return false, nil
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return false, r.unavailable(word, fmt.Errorf("rate limit: %w", err))
	}

	query := url.Values{}
	query.Set("sp", strings.ToLower(word))
	query.Set("max", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return false, r.unavailable(word, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return false, r.unavailable(word, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, r.unavailable(word, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var results []remoteWord
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return false, r.unavailable(word, fmt.Errorf("decoding response: %w", err))
	}

	for _, result := range results {
		if strings.EqualFold(result.Word, word) {
			return true, nil
		}
	}
	return false, nil
}

func (r *Remote) unavailable(word string, err error) error {
	r.logger.Warn("remote word lookup failed",
		slog.String("word", word),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%w: %v", model.ErrValidationUnavailable, err)
}
