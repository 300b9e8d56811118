package structures

import "time"

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type BotConfig struct {
	Token       string        `yaml:"token" validate:"required"`
	APIUrl      string        `yaml:"apiUrl"`
	AdminChatID int64         `yaml:"adminChatId"`
	PollTimeout time.Duration `yaml:"pollTimeout"`
	RootPage    string        `yaml:"rootPage"`
}

type Persistence struct {
	DataDir      string        `yaml:"dataDir" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ActivityLogConfig struct {
	Dir      string `yaml:"dir"`
	Capacity int    `yaml:"capacity"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Bot         BotConfig         `yaml:"bot"`
	WebServer   Server            `yaml:"webServer"`
	Persistence Persistence       `yaml:"persistence"`
	Logger      LoggerConfig      `yaml:"logger"`
	Cache       CacheConfig       `yaml:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	ActivityLog ActivityLogConfig `yaml:"activityLog"`
}
