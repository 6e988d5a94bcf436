package providers

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"os"
	"path/filepath"
	"pilot/internal/structures"
	"strings"
)

const AppName = "Pilot"

// DefaultHomeDir returns the default Pilot state directory.
func DefaultHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".pilot")
	}
	return filepath.Join(homeDir, ".pilot")
}

func setConfigDefaults(v *viper.Viper) {
	home := DefaultHomeDir()
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8470)
	v.SetDefault("persistence.dataDir", filepath.Join(home, "data"))
	v.SetDefault("persistence.compress", false)
	v.SetDefault("persistence.fileMode", 0600)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", filepath.Join(home, "logs"))
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 4)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("ai.provider", "offline")
	v.SetDefault("ai.timeout", "60s")
	v.SetDefault("ai.recentLimit", 7)
	v.SetDefault("quota.freeDailyGenerations", 1)
	v.SetDefault("quota.freeChatCredits", 3)
	v.SetDefault("quota.voiceFree", 0)
	v.SetDefault("quota.voicePremium", 30)
	v.SetDefault("quota.voicePro", 30)
	v.SetDefault("quota.voiceElite", -1)
	v.SetDefault("scheduler.rolloverCheck", "1m")
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setConfigDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.BindEnv("logger.level", "PILOT_LOG_LEVEL")
	v.BindEnv("persistence.dataDir", "PILOT_DATA_DIR")
	v.BindEnv("ai.provider", "PILOT_AI_PROVIDER")
	v.BindEnv("ai.anthropicKey", "PILOT_ANTHROPIC_API_KEY")
	v.BindEnv("ai.openaiKey", "PILOT_OPENAI_API_KEY")
	v.BindEnv("cache.enabled", "PILOT_CACHE_ENABLED")
	v.BindEnv("metrics.enabled", "PILOT_METRICS_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !flags.AllowMissingConfig || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
