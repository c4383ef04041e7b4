package providers

import (
	"errors"
	"fmt"
	"path/filepath"
	"pbcheck/internal/structures"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8095)
	v.SetDefault("persistence.filePath", "./data/pbcheck.db")
	v.SetDefault("persistence.saveInterval", 30*time.Second)
	v.SetDefault("persistence.writeThrough", true)
	v.SetDefault("persistence.compress", true)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "./logs")
	v.SetDefault("source.endpoint", "https://data.ny.gov/resource/d6yy-54nr.json?$order=draw_date%20DESC&$limit=5")
	v.SetDefault("source.userAgent", "pbcheck/1.0")
	v.SetDefault("source.timeout", 10*time.Second)
	v.SetDefault("source.minInterval", 30*time.Second)
	v.SetDefault("source.maxBodyBytes", 4<<20)
	v.SetDefault("policy.timezone", "America/New_York")
	v.SetDefault("policy.drawDays", []string{"mon", "wed", "sat"})
	v.SetDefault("policy.cutoff", "23:00")
	v.SetDefault("policy.staleAfter", 12*time.Hour)
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.spec", "@every 15m")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 1)
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("metrics.enabled", true)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setConfigDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	_ = v.BindEnv("logger.level", "PBCHECK_LOG_LEVEL")
	_ = v.BindEnv("logger.dir", "PBCHECK_LOG_DIR")
	_ = v.BindEnv("persistence.filePath", "PBCHECK_DB_PATH")
	_ = v.BindEnv("source.endpoint", "PBCHECK_SOURCE_ENDPOINT")
	_ = v.BindEnv("source.proxy", "PBCHECK_SOURCE_PROXY")
	_ = v.BindEnv("policy.timezone", "PBCHECK_POLICY_TIMEZONE")
	_ = v.BindEnv("webServer.port", "PBCHECK_PORT")
	_ = v.BindEnv("cache.enabled", "PBCHECK_CACHE_ENABLED")
	_ = v.BindEnv("cache.size", "PBCHECK_CACHE_SIZE")
	_ = v.BindEnv("metrics.enabled", "PBCHECK_METRICS_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
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

	conf.AppName = "PowerballChecker"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
