package config

import "time"

// Config holds server configuration values.
type Config struct {
	TCPAddr         string        `mapstructure:"tcp_addr" yaml:"tcp_addr"`
	HTTPAddr        string        `mapstructure:"http_addr" yaml:"http_addr"`
	DatabasePath    string        `mapstructure:"database_path" yaml:"database_path"`
	LogLevel        string        `mapstructure:"log_level" yaml:"log_level"`
	MaxConns        int           `mapstructure:"max_conns" yaml:"max_conns"`
	SendQueueSize   int           `mapstructure:"send_queue_size" yaml:"send_queue_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns configuration with reasonable starter defaults.
// MaxConns of zero means no admission cap.
func Default() Config {
	return Config{
		TCPAddr:         ":4443",
		HTTPAddr:        ":8080",
		DatabasePath:    "voda.db",
		LogLevel:        "info",
		MaxConns:        0,
		SendQueueSize:   32,
		ShutdownTimeout: 5 * time.Second,
	}
}
