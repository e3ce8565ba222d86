package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the loaded configuration and reports every problem at once.
// The Gemini API key is not checked here: it is resolved per request.
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port < 1 || port > 65535 {
		add("server.port", fmt.Sprintf("invalid port %q", cfg.Server.Port))
	}
	if cfg.Server.ReadTimeout <= 0 {
		add("server.read_timeout", "must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		add("server.write_timeout", "must be positive")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		add("server.shutdown_timeout", "must be positive")
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		add("server.max_body_bytes", "must be positive")
	}
	for _, proxy := range cfg.Server.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				add("server.trusted_proxies", fmt.Sprintf("%q is not an IP or CIDR", proxy))
			}
		}
	}

	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		add("log.level", fmt.Sprintf("unknown level %q", cfg.Log.Level))
	}
	if f := strings.ToLower(cfg.Log.Format); f != "text" && f != "json" {
		add("log.format", "must be text or json")
	}

	g := cfg.Gemini
	if strings.TrimSpace(g.Model) == "" {
		add("gemini.model", "is required")
	}
	if g.Temperature < 0 || g.Temperature > 2 {
		add("gemini.temperature", "must be between 0 and 2")
	}
	if g.TopP < 0 || g.TopP > 1 {
		add("gemini.top_p", "must be between 0 and 1")
	}
	if g.TopK < 0 {
		add("gemini.top_k", "must not be negative")
	}
	if g.MaxOutputTokens <= 0 {
		add("gemini.max_output_tokens", "must be positive")
	}
	if g.Timeout <= 0 {
		add("gemini.timeout", "must be positive")
	} else if cfg.Server.WriteTimeout > 0 && g.Timeout >= cfg.Server.WriteTimeout {
		add("gemini.timeout", "must be shorter than server.write_timeout")
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.Requests <= 0 {
			add("rate_limit.requests", "must be positive")
		}
		if cfg.RateLimit.Window <= 0 {
			add("rate_limit.window", "must be positive")
		}
	}

	if len(errs) == 0 {
		return nil
	}

	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, e.Error())
	}
	return fmt.Errorf("configuration validation failed:\n%s", strings.Join(lines, "\n"))
}
