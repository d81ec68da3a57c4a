package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Temperature bounds accepted by both supported providers.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
)

// TopK bounds for the default result count.
const (
	MinTopK = 1
	MaxTopK = 20
)

// Validate checks the configuration for correctness.
// It returns the first violation found, wrapped around a sentinel error.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	switch c.Provider {
	case ProviderGoogleAI, ProviderOpenAI:
	default:
		return fmt.Errorf("%w: %q (supported: googleai, openai)", ErrInvalidProvider, c.Provider)
	}

	if strings.TrimSpace(c.ModelName) == "" {
		return fmt.Errorf("%w: model name is empty", ErrInvalidModelName)
	}
	if strings.TrimSpace(c.EmbedderModel) == "" {
		return fmt.Errorf("%w: embedder model is empty", ErrInvalidEmbedderModel)
	}

	if c.Temperature < MinTemperature || c.Temperature > MaxTemperature {
		return fmt.Errorf("%w: %g (valid range: %g-%g)",
			ErrInvalidTemperature, c.Temperature, MinTemperature, MaxTemperature)
	}

	if c.DefaultTopK < MinTopK || c.DefaultTopK > MaxTopK {
		return fmt.Errorf("%w: %d (valid range: %d-%d)",
			ErrInvalidTopK, c.DefaultTopK, MinTopK, MaxTopK)
	}

	if u, err := url.Parse(c.ReadmeURL); err != nil || u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("%w: %q", ErrInvalidReadmeURL, c.ReadmeURL)
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	return c.validateAPIKey()
}

// validateStorage checks the PostgreSQL connection settings.
func (c *Config) validateStorage() error {
	if strings.TrimSpace(c.PostgresHost) == "" {
		return fmt.Errorf("%w: host is empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if strings.TrimSpace(c.PostgresDBName) == "" {
		return fmt.Errorf("%w: database name is empty", ErrInvalidPostgresDBName)
	}
	return nil
}

// validateAPIKey verifies the provider's API key is present in the
// environment. Genkit plugins read these variables directly, so the key is
// never stored in Config.
func (c *Config) validateAPIKey() error {
	switch c.Provider {
	case ProviderOpenAI:
		if os.Getenv("OPENAI_API_KEY") == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY not set", ErrMissingAPIKey)
		}
	default:
		if os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("GOOGLE_API_KEY") == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY not set", ErrMissingAPIKey)
		}
	}
	return nil
}

// ValidateServe performs serve-mode validation on top of Validate.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIPort < 1 || c.APIPort > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}
	return nil
}
