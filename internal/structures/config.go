package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
	WriteThrough bool          `yaml:"writeThrough"`
	Compress     bool          `yaml:"compress"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required"`
}

type SourceConfig struct {
	Endpoint     string        `yaml:"endpoint" validate:"required|endpoint"`
	Proxy        string        `yaml:"proxy"`
	UserAgent    string        `yaml:"userAgent"`
	Timeout      time.Duration `yaml:"timeout" validate:"required|min:1"`
	MinInterval  time.Duration `yaml:"minInterval"`
	MaxBodyBytes int64         `yaml:"maxBodyBytes" validate:"required|min:1"`
}

type PolicyConfig struct {
	Timezone   string        `yaml:"timezone" validate:"required|timezone"`
	DrawDays   []string      `yaml:"drawDays" validate:"required|weekdays"`
	Cutoff     string        `yaml:"cutoff" validate:"required|clock"`
	StaleAfter time.Duration `yaml:"staleAfter" validate:"required|min:1"`
}

type SchedulerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Spec    string `yaml:"spec"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server          `yaml:"webServer"`
	Persistence Persistence     `yaml:"persistence"`
	Logger      LoggerConfig    `yaml:"logger"`
	Source      SourceConfig    `yaml:"source"`
	Policy      PolicyConfig    `yaml:"policy"`
	Scheduler   SchedulerConfig `yaml:"scheduler"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
}
