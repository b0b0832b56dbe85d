// Package config loads the server configuration from flags with
// STATIC_SERVER_* environment overrides.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Addr       string
	ContentDir string

	KeepAliveTimeout time.Duration
	ConnTimeout      time.Duration
	DrainTimeout     time.Duration

	MaxRequestLine int
	MaxConns       int

	// ReservedPaths are names the path sanitizer refuses to serve,
	// regardless of what the content walk discovered. Defaults to the
	// server's own binary name.
	ReservedPaths []string

	// MetricsAddr is the admin listener for /metrics; empty disables it.
	MetricsAddr string

	LogLevel string
}

// Default returns the configuration defaults without touching flags.
func Default() *Config {
	return &Config{
		Addr:             ":8080",
		ContentDir:       "./content",
		KeepAliveTimeout: 5 * time.Second,
		ConnTimeout:      30 * time.Second,
		DrainTimeout:     10 * time.Second,
		MaxRequestLine:   8192,
		MaxConns:         100000,
		ReservedPaths:    []string{"static-server"},
		MetricsAddr:      "",
		LogLevel:         "info",
	}
}

// New loads configuration from flags and environment variables.
func New() *Config {
	cfg := Default()

	reserved := flag.String("reserved-paths", strings.Join(cfg.ReservedPaths, ","), "comma-separated names the sanitizer never serves")

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.StringVar(&cfg.ContentDir, "content", cfg.ContentDir, "content root to cache and serve")
	flag.DurationVar(&cfg.KeepAliveTimeout, "keepalive-timeout", cfg.KeepAliveTimeout, "idle keep-alive read timeout")
	flag.DurationVar(&cfg.ConnTimeout, "conn-timeout", cfg.ConnTimeout, "whole-connection timeout")
	flag.DurationVar(&cfg.DrainTimeout, "drain-timeout", cfg.DrainTimeout, "shutdown drain timeout")
	flag.IntVar(&cfg.MaxRequestLine, "max-request-line", cfg.MaxRequestLine, "request line size cap (bytes)")
	flag.IntVar(&cfg.MaxConns, "max-conns", cfg.MaxConns, "concurrent connection cap")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "admin listener for /metrics (empty disables)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace/debug/info/warn/error)")

	flag.Parse()

	cfg.ReservedPaths = splitList(*reserved)
	cfg.applyEnv()

	return cfg
}

// applyEnv overrides flag values with STATIC_SERVER_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("STATIC_SERVER_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("STATIC_SERVER_CONTENT"); v != "" {
		c.ContentDir = v
	}
	if v := os.Getenv("STATIC_SERVER_METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
	if v := os.Getenv("STATIC_SERVER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("STATIC_SERVER_MAX_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxConns = n
		}
	}
	if v := os.Getenv("STATIC_SERVER_RESERVED_PATHS"); v != "" {
		c.ReservedPaths = splitList(v)
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
