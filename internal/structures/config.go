package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	DataDir  string `yaml:"dataDir" mapstructure:"dataDir" validate:"required|unixPath"`
	Compress bool   `yaml:"compress"`
	FileMode uint32 `yaml:"fileMode" mapstructure:"fileMode" validate:"required|uint"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type AIConfig struct {
	Provider     string        `yaml:"provider" validate:"required|in:offline,anthropic,openai"`
	AnthropicKey string        `yaml:"anthropicKey" mapstructure:"anthropicKey"`
	OpenAIKey    string        `yaml:"openaiKey" mapstructure:"openaiKey"`
	Model        string        `yaml:"model"`
	Timeout      time.Duration `yaml:"timeout" validate:"required"`
	RecentLimit  int           `yaml:"recentLimit" mapstructure:"recentLimit" validate:"required|min:1"`
}

// QuotaConfig holds the per-tier ceilings. A voice limit of -1 means unlimited.
type QuotaConfig struct {
	FreeDailyGenerations int `yaml:"freeDailyGenerations" mapstructure:"freeDailyGenerations" validate:"required|min:1"`
	FreeChatCredits      int `yaml:"freeChatCredits" mapstructure:"freeChatCredits" validate:"min:0"`
	VoiceFree            int `yaml:"voiceFree" mapstructure:"voiceFree" validate:"min:-1"`
	VoicePremium         int `yaml:"voicePremium" mapstructure:"voicePremium" validate:"min:-1"`
	VoicePro             int `yaml:"voicePro" mapstructure:"voicePro" validate:"min:-1"`
	VoiceElite           int `yaml:"voiceElite" mapstructure:"voiceElite" validate:"min:-1"`
}

// SchedulerConfig drives the day-rollover job of the HTTP server.
type SchedulerConfig struct {
	RolloverCheck time.Duration `yaml:"rolloverCheck" mapstructure:"rolloverCheck" validate:"required"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server          `yaml:"webServer" mapstructure:"webServer"`
	Persistence Persistence     `yaml:"persistence"`
	Logger      LoggerConfig    `yaml:"logger"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	AI          AIConfig        `yaml:"ai" mapstructure:"ai"`
	Quota       QuotaConfig     `yaml:"quota"`
	Scheduler   SchedulerConfig `yaml:"scheduler"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool

	// AllowMissingConfig lets one-shot CLI commands run on defaults.
	AllowMissingConfig bool
}
