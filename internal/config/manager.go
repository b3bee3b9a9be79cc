package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type manager struct {
	mu     sync.RWMutex
	config *Config
	viper  *viper.Viper
}

func NewManager() Manager {
	return &manager{
		viper: viper.New(),
	}
}

func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setupViper(configPath)

	if err := m.viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config, err := m.unmarshalAndValidate()
	if err != nil {
		return nil, err
	}

	m.config = config
	return config, nil
}

func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return fmt.Errorf("config not loaded")
	}

	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	config, err := m.unmarshalAndValidate()
	if err != nil {
		return err
	}

	m.config = config
	return nil
}

func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func (m *manager) setupViper(configPath string) {
	dir := filepath.Dir(configPath)
	base := strings.TrimSuffix(filepath.Base(configPath), filepath.Ext(configPath))

	m.viper.SetConfigName(base)
	m.viper.SetConfigType("yaml")
	m.viper.AddConfigPath(dir)

	m.viper.SetEnvPrefix("TRENDLENS")
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()
}

func (m *manager) unmarshalAndValidate() (*Config, error) {
	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	if config.Trends.BaseURL == "" {
		return fmt.Errorf("trends.base_url is required")
	}

	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", config.Server.Port)
	}

	if config.Trends.HostLanguage == "" {
		config.Trends.HostLanguage = "en-US"
	}
	if config.Trends.QPS < 0 {
		return fmt.Errorf("trends.qps must not be negative")
	}

	if config.Retry.MaxRetries == 0 {
		config.Retry.MaxRetries = 3
	}
	if config.Retry.MaxRetries < 1 {
		return fmt.Errorf("retry.max_retries must be at least 1")
	}
	if config.Retry.BaseDelaySeconds == 0 {
		config.Retry.BaseDelaySeconds = 5
	}
	if config.Retry.JitterSeconds == 0 {
		config.Retry.JitterSeconds = 2
	}

	if config.Storage.HistoryPath == "" {
		config.Storage.HistoryPath = "trendlens.db"
	}
	if config.Storage.CacheSize == 0 {
		config.Storage.CacheSize = 128
	}
	if config.Storage.CacheTTLMinutes == 0 {
		config.Storage.CacheTTLMinutes = 15
	}

	if config.Charts.OutputDir == "" {
		config.Charts.OutputDir = "charts"
	}

	return nil
}
