// Package network builds the tuned HTTP client the API layer rides on.
package network

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// Constants for default TCP/HTTP settings. The client talks to exactly
// one host, so the pool is sized for a handful of concurrent calls.
const (
	DefaultDialTimeout           = 5 * time.Second
	DefaultKeepAliveInterval     = 15 * time.Second
	DefaultTLSHandshakeTimeout   = 5 * time.Second
	DefaultResponseHeaderTimeout = 30 * time.Second
	DefaultRequestTimeout        = 60 * time.Second

	DefaultMaxIdleConns        = 10
	DefaultMaxIdleConnsPerHost = 4
	DefaultMaxConnsPerHost     = 8
	DefaultIdleConnTimeout     = 30 * time.Second
)

// ClientConfig holds the configuration for the HTTP client and transport layers.
type ClientConfig struct {
	// Security settings
	IgnoreTLSErrors bool
	TLSConfig       *tls.Config // Allows advanced customization if needed

	// Timeout settings
	RequestTimeout        time.Duration // Overall client timeout
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	DialTimeout           time.Duration
	KeepAlive             time.Duration

	// Connection pool settings
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration

	// Protocol settings
	ForceHTTP2 bool

	// Proxy settings
	ProxyURL *url.URL

	// Logger
	Logger *zap.Logger
}

// Client is a wrapper around the standard http.Client. Embedding the
// standard client keeps all its methods available (Do, Get, Post, ...).
type Client struct {
	*http.Client
}

// NewDefaultClientConfig creates a configuration suited to a single-host
// API client.
func NewDefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		IgnoreTLSErrors:       false,
		RequestTimeout:        DefaultRequestTimeout,
		TLSHandshakeTimeout:   DefaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
		DialTimeout:           DefaultDialTimeout,
		KeepAlive:             DefaultKeepAliveInterval,
		MaxIdleConns:          DefaultMaxIdleConns,
		MaxIdleConnsPerHost:   DefaultMaxIdleConnsPerHost,
		MaxConnsPerHost:       DefaultMaxConnsPerHost,
		IdleConnTimeout:       DefaultIdleConnTimeout,
		ForceHTTP2:            true,
		Logger:                zap.NewNop(),
	}
}

// NewHTTPTransport creates and configures an http.Transport based on the
// provided configuration.
func NewHTTPTransport(config *ClientConfig) *http.Transport {
	if config == nil {
		config = NewDefaultClientConfig()
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	tlsConfig := configureTLS(config)

	dialer := &net.Dialer{
		Timeout:   config.DialTimeout,
		KeepAlive: config.KeepAlive,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSClientConfig:       tlsConfig,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		MaxConnsPerHost:       config.MaxConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		ResponseHeaderTimeout: config.ResponseHeaderTimeout,
		ForceAttemptHTTP2:     config.ForceHTTP2,
	}

	if config.ProxyURL != nil {
		transport.Proxy = http.ProxyURL(config.ProxyURL)
	}

	if config.ForceHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			config.Logger.Warn("Failed to configure HTTP/2 transport, falling back to HTTP/1.1", zap.Error(err))
		}
	} else if tlsConfig != nil && len(tlsConfig.NextProtos) == 0 {
		// Pin ALPN to HTTP/1.1 when HTTP/2 is disabled.
		tlsConfig.NextProtos = []string{"http/1.1"}
	}

	return transport
}

// NewClient creates the client wrapper using the configured transport.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = NewDefaultClientConfig()
	}

	standardClient := &http.Client{
		Transport: NewHTTPTransport(config),
		Timeout:   config.RequestTimeout,
	}
	return &Client{
		Client: standardClient,
	}
}

// configureTLS sets up the TLS configuration with strong defaults.
func configureTLS(config *ClientConfig) *tls.Config {
	var tlsConfig *tls.Config

	if config.TLSConfig != nil {
		tlsConfig = config.TLSConfig.Clone()
	} else {
		tlsConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			// Enable session resumption cache for performance.
			ClientSessionCache: tls.NewLRUClientSessionCache(64),
		}
	}

	// Apply the security override if requested.
	tlsConfig.InsecureSkipVerify = config.IgnoreTLSErrors

	return tlsConfig
}
