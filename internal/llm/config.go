package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

// VendorConfig is the connection setting of one hosted provider.
type VendorConfig struct {
	APIKey  string
	Model   string // friendly alias or vendor model ID
	BaseURL string // empty uses the vendor endpoint
}

type (
	AnthropicConfig = VendorConfig
	OpenAIConfig    = VendorConfig
	GeminiConfig    = VendorConfig
)

// Config selects a provider and holds every vendor's settings.
type Config struct {
	Provider string

	Anthropic AnthropicConfig
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig

	// Timeout bounds one call; zero leaves the caller's deadline.
	Timeout time.Duration
}

// DefaultConfig uses the cheapest model of each vendor.
func DefaultConfig() Config {
	return Config{
		Provider:  ProviderAnthropic,
		Anthropic: AnthropicConfig{Model: "claude-haiku"},
		OpenAI:    OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:    GeminiConfig{Model: "gemini-flash"},
		Timeout:   30 * time.Second,
	}
}

// vendor returns the settings of the named provider, or nil for mock and
// unknown names.
func (c *Config) vendor(name string) *VendorConfig {
	switch name {
	case ProviderAnthropic:
		return &c.Anthropic
	case ProviderOpenAI:
		return &c.OpenAI
	case ProviderGemini:
		return &c.Gemini
	}
	return nil
}

// discoveryOrder lists the vendors' own key variables, first match wins.
var discoveryOrder = []struct{ provider, env string }{
	{ProviderGemini, "GEMINI_API_KEY"},
	{ProviderOpenAI, "OPENAI_API_KEY"},
	{ProviderAnthropic, "ANTHROPIC_API_KEY"},
}

// DiscoverConfig returns a Config for the first vendor whose standard
// API key variable is set.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, d := range discoveryOrder {
		if k := os.Getenv(d.env); k != "" {
			cfg.Provider = d.provider
			cfg.vendor(d.provider).APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

// ConfigFromEnv reads LEARNQUEST_LLM_PROVIDER and the
// LEARNQUEST_<VENDOR>_API_KEY / _BASE_URL variables. Without a named
// provider it falls back to DiscoverConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if p := os.Getenv("LEARNQUEST_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	} else if found, ok := DiscoverConfig(); ok {
		cfg = found
	}

	for name, prefix := range map[string]string{
		ProviderAnthropic: "LEARNQUEST_ANTHROPIC_",
		ProviderOpenAI:    "LEARNQUEST_OPENAI_",
		ProviderGemini:    "LEARNQUEST_GEMINI_",
	} {
		v := cfg.vendor(name)
		if k := os.Getenv(prefix + "API_KEY"); k != "" {
			v.APIKey = k
		}
		if u := os.Getenv(prefix + "BASE_URL"); u != "" {
			v.BaseURL = u
		}
	}
	return cfg
}

// WithOverrides returns a copy with the non-zero arguments applied. The
// model goes to the provider selected after the override.
func (c Config) WithOverrides(provider, model string, timeout time.Duration) Config {
	if provider != "" {
		c.Provider = provider
	}
	if v := c.vendor(c.Provider); v != nil && model != "" {
		v.Model = model
	}
	if timeout > 0 {
		c.Timeout = timeout
	}
	return c
}

// Validate checks the provider name and its API key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	v := c.vendor(c.Provider)
	if v == nil {
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if v.APIKey == "" {
		return fmt.Errorf("%s provider needs an API key (LEARNQUEST_%s_API_KEY)", c.Provider, strings.ToUpper(c.Provider))
	}
	return nil
}

// ModelID returns the resolved model ID of the selected provider.
func (c Config) ModelID() string {
	switch c.Provider {
	case ProviderAnthropic:
		return resolveModel(c.Anthropic.Model, anthropicAliases)
	case ProviderOpenAI:
		return resolveModel(c.OpenAI.Model, openaiAliases)
	case ProviderGemini:
		return resolveModel(c.Gemini.Model, geminiAliases)
	case ProviderMock:
		return ProviderMock
	}
	return ""
}
