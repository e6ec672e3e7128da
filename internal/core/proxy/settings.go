package proxy

import (
	"fmt"
	"net/url"
)

// Settings contains the egress proxy configuration for outbound carrier calls.
type Settings struct {
	Enabled  bool   `mapstructure:"CARRIER_PROXY_ENABLED"`
	Hostname string `mapstructure:"CARRIER_PROXY_HOST"`
	Port     int    `mapstructure:"CARRIER_PROXY_PORT"`
	Username string `mapstructure:"CARRIER_PROXY_USERNAME"`
	Password string `mapstructure:"CARRIER_PROXY_PASSWORD"`
}

// HasProxy returns true if proxy is enabled and configured.
func (p Settings) HasProxy() bool {
	return p.Enabled && p.Hostname != "" && p.Port > 0
}

// HostPort returns the proxy address without credentials (e.g., "http://proxy.internal:3128").
func (p Settings) HostPort() string {
	if !p.HasProxy() {
		return ""
	}
	return fmt.Sprintf("http://%s:%d", p.Hostname, p.Port)
}

// URL returns the proxy URL including credentials, or nil when no proxy is configured.
func (p Settings) URL() *url.URL {
	if !p.HasProxy() {
		return nil
	}
	u := &url.URL{
		Scheme: "http",
		Host:   fmt.Sprintf("%s:%d", p.Hostname, p.Port),
	}
	if p.Username != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u
}
