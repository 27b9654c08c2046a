package factory

import (
	"fmt"
	"strings"
	"time"

	"transcheck/internal/adapters/review/httpclient"
	"transcheck/internal/config"
	"transcheck/internal/ports"
)

// FromConfig builds the configured reviewer, or nil when review mode is not
// usable with the given settings (the checks mode still works without one).
func FromConfig(cfg config.ReviewConfig) (ports.Reviewer, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if cfg.Provider != "ollama" {
		if key == "" {
			return nil, nil
		}
		if strings.ContainsAny(key, " \n\r\t") {
			return nil, fmt.Errorf("review api key must be a single token without spaces")
		}
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	return httpclient.New(cfg.Provider, key, cfg.BaseURL, cfg.Model, timeout), nil
}
