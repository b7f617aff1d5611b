// Package refine implements the optional text refinement service used to
// polish partially decoded substitution output.
package refine

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/lukinkon/lukin/internal/cipher"
	"github.com/lukinkon/lukin/internal/lang"
)

// ErrUnavailable is returned whenever refinement cannot produce a result.
var ErrUnavailable = errors.New("refinement unavailable")

const (
	DefaultEndpoint  = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel     = "gemini-2.0-flash"
	DefaultAPIKeyEnv = "GEMINI_API_KEY"
	DefaultTimeout   = 30 * time.Second
)

// Config selects and configures the refiner.
type Config struct {
	Endpoint  string
	Model     string
	APIKeyEnv string
	Timeout   time.Duration
}

// Disabled never refines.
type Disabled struct{}

// Refine always reports ErrUnavailable.
func (Disabled) Refine(context.Context, string, lang.Language) (string, error) {
	return "", ErrUnavailable
}

// New returns a Client when an API key is present in the configured
// environment variable, and Disabled otherwise.
func New(cfg Config) cipher.Refiner {
	cfg = withDefaults(cfg)
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return Disabled{}
	}
	return NewClient(cfg, key)
}

// Available reports whether r can actually reach a service.
func Available(r cipher.Refiner) bool {
	switch r.(type) {
	case nil, Disabled, *Disabled:
		return false
	default:
		return true
	}
}

func withDefaults(cfg Config) Config {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = DefaultAPIKeyEnv
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg
}
