package config

import (
	"errors"
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if cfg.PageBudget != DefaultPageBudget {
		t.Errorf("PageBudget = %d, want %d", cfg.PageBudget, DefaultPageBudget)
	}
	if cfg.CrawlDelay != DefaultCrawlDelay {
		t.Errorf("CrawlDelay = %v, want %v", cfg.CrawlDelay, DefaultCrawlDelay)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("BatchSize = %d, want %d", cfg.BatchSize, DefaultBatchSize)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.StartURLs = []string{"https://example.com"}
		return cfg
	}

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		if err := valid().Validate(); err != nil {
			t.Errorf("Validate() error = %v, want nil", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{
			name:   "no start URLs",
			mutate: func(c *Config) { c.StartURLs = nil },
			want:   ErrNoStartURL,
		},
		{
			name:   "zero page budget",
			mutate: func(c *Config) { c.PageBudget = 0 },
			want:   ErrInvalidPageBudget,
		},
		{
			name:   "budget above maximum",
			mutate: func(c *Config) { c.PageBudget = MaxPageBudget + 1 },
			want:   ErrInvalidPageBudget,
		},
		{
			name:   "negative crawl delay",
			mutate: func(c *Config) { c.CrawlDelay = -time.Second },
			want:   ErrInvalidCrawlDelay,
		},
		{
			name:   "zero timeout",
			mutate: func(c *Config) { c.Timeout = 0 },
			want:   ErrInvalidTimeout,
		},
		{
			name:   "zero batch size",
			mutate: func(c *Config) { c.BatchSize = 0 },
			want:   ErrInvalidBatchSize,
		},
		{
			name:   "conflicting report formats",
			mutate: func(c *Config) { c.JSONReport = true; c.MarkdownReport = true },
			want:   ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConfigValidateAllowsZeroDelay(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.StartURLs = []string{"https://example.com"}
	cfg.CrawlDelay = 0

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, zero delay should be allowed", err)
	}
}
