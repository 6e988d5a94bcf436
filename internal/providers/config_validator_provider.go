package providers

import (
	"fmt"
	"github.com/gookit/validate"
	"pilot/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

// Validate checks every nested section of the config against its struct tags.
func (c *CnfValidator) Validate() error {
	sections := []struct {
		name string
		data interface{}
	}{
		{"webServer", &c.conf.WebServer},
		{"persistence", &c.conf.Persistence},
		{"logger", &c.conf.Logger},
		{"ai", &c.conf.AI},
		{"quota", &c.conf.Quota},
		{"scheduler", &c.conf.Scheduler},
	}

	for _, section := range sections {
		v := validate.Struct(section.data)
		if !v.Validate() {
			return fmt.Errorf("invalid %s config: %w", section.name, v.Errors)
		}
	}

	if c.conf.Cache.Enabled && c.conf.Cache.Size <= 0 {
		return fmt.Errorf("invalid cache config: size must be positive when cache is enabled")
	}
	switch c.conf.AI.Provider {
	case "anthropic":
		if c.conf.AI.AnthropicKey == "" {
			return fmt.Errorf("invalid ai config: anthropicKey is required for provider anthropic")
		}
	case "openai":
		if c.conf.AI.OpenAIKey == "" {
			return fmt.Errorf("invalid ai config: openaiKey is required for provider openai")
		}
	}
	return nil
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}
