package trends

import (
	"time"

	"github.com/valyala/fasthttp"

	"trendlens-go/pkg/logger"
)

// ConnectionConfig holds tuning for the provider HTTP connection pool.
type ConnectionConfig struct {
	MaxConnsPerHost     int           `json:"max_conns_per_host"`
	MaxIdleConnDuration time.Duration `json:"max_idle_conn_duration"`
	ReadTimeout         time.Duration `json:"read_timeout"`
	WriteTimeout        time.Duration `json:"write_timeout"`
	RequestTimeout      time.Duration `json:"request_timeout"`
}

// DefaultConnectionConfig returns settings suitable for the sequential
// analysis flow: few connections, generous timeouts.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxConnsPerHost:     16,
		MaxIdleConnDuration: 90 * time.Second,
		ReadTimeout:         30 * time.Second,
		WriteTimeout:        10 * time.Second,
		RequestTimeout:      30 * time.Second,
	}
}

// ConnectionManager owns the pooled fasthttp client shared by all
// provider calls.
type ConnectionManager struct {
	config ConnectionConfig
	client *fasthttp.Client
	log    *logger.Logger
}

// NewConnectionManager creates a connection manager with the given config.
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	client := &fasthttp.Client{
		Name:                "trendlens-go/1.0",
		MaxConnsPerHost:     config.MaxConnsPerHost,
		MaxIdleConnDuration: config.MaxIdleConnDuration,
		ReadTimeout:         config.ReadTimeout,
		WriteTimeout:        config.WriteTimeout,
	}

	return &ConnectionManager{
		config: config,
		client: client,
		log:    logger.ForComponent("connection_manager"),
	}
}

// GetFastHTTPClient returns the managed client.
func (cm *ConnectionManager) GetFastHTTPClient() *fasthttp.Client {
	return cm.client
}

// RequestTimeout returns the per-request deadline.
func (cm *ConnectionManager) RequestTimeout() time.Duration {
	return cm.config.RequestTimeout
}

// Close releases idle connections.
func (cm *ConnectionManager) Close() {
	cm.log.Debug("Closing connection manager")
	cm.client.CloseIdleConnections()
}
