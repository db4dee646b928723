package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Modos de interfaz soportados por el cliente.
const (
	UIAuto = "auto"
	UITUI  = "tui"
	UILine = "line"
)

// Config centraliza la configuración del cliente y del servidor de pruebas.
type Config struct {
	BaseURL     string        `env:"MINICHAT_BASE_URL" envDefault:"http://localhost:5000"`
	UserID      string        `env:"MINICHAT_USER_ID" envDefault:"guest"`
	UIMode      string        `env:"MINICHAT_UI" envDefault:"auto"`
	HTTPTimeout time.Duration `env:"MINICHAT_HTTP_TIMEOUT" envDefault:"0s"`
	LogFile     string        `env:"MINICHAT_LOG_FILE" envDefault:"./logs/minichat.log"`
	LogLevel    string        `env:"MINICHAT_LOG_LEVEL" envDefault:"info"`
	StubPort    string        `env:"STUB_HTTP_PORT" envDefault:"5000"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa los valores que env no puede validar por sí solo.
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		return fmt.Errorf("MINICHAT_BASE_URL must not be empty")
	}
	c.UIMode = strings.ToLower(strings.TrimSpace(c.UIMode))
	switch c.UIMode {
	case UIAuto, UITUI, UILine:
	default:
		return fmt.Errorf("invalid MINICHAT_UI value: %q", c.UIMode)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("MINICHAT_HTTP_TIMEOUT must not be negative")
	}
	return nil
}
