package config

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Trends  TrendsConfig  `mapstructure:"trends"`
	Retry   RetryConfig   `mapstructure:"retry"`
	Storage StorageConfig `mapstructure:"storage"`
	Charts  ChartsConfig  `mapstructure:"charts"`
	Logger  LoggerConfig  `mapstructure:"logger"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type TrendsConfig struct {
	BaseURL      string  `mapstructure:"base_url"`
	APIKey       string  `mapstructure:"api_key"`
	HostLanguage string  `mapstructure:"host_language"`
	QPS          float64 `mapstructure:"qps"`
	Timeout      int     `mapstructure:"timeout"`
}

type RetryConfig struct {
	MaxRetries       int `mapstructure:"max_retries"`
	BaseDelaySeconds int `mapstructure:"base_delay_seconds"`
	JitterSeconds    int `mapstructure:"jitter_seconds"`
}

type StorageConfig struct {
	HistoryPath     string `mapstructure:"history_path"`
	CacheSize       int    `mapstructure:"cache_size"`
	CacheTTLMinutes int    `mapstructure:"cache_ttl_minutes"`
}

type ChartsConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"time_format"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
