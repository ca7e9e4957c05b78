package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type ConfigWallabag struct {
	Host         string `koanf:"host" validate:"required,url"`
	Username     string `koanf:"username" validate:"required"`
	Password     string `koanf:"password" validate:"required"`
	ClientID     string `koanf:"client_id" validate:"required"`
	ClientSecret string `koanf:"client_secret" validate:"required"`
	// CredentialsEncrypted marks password and client_secret as AES-encrypted
	// at rest; main decrypts them with the username-derived key.
	CredentialsEncrypted bool `koanf:"credentials_encrypted"`
	AutoRefresh          bool `koanf:"auto_refresh"`
}

type Config struct {
	Wallabag ConfigWallabag `koanf:"wallabag"`
	// Timezone interprets wall-clock published-at input on the CLI.
	Timezone string `koanf:"timezone" validate:"required,timezone"`
	LogLevel string `koanf:"log_level" validate:"oneof=error warn info debug"`
}

func (c *Config) Validate() error {
	validate := validator.New()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return fmt.Errorf("configuration validation failed: %v", validationErrors)
	}

	return err
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	parser := yaml.Parser()

	if err := setDefaultValues(k); err != nil {
		return nil, err
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaultValues(k *koanf.Koanf) error {
	return k.Load(confmap.Provider(map[string]any{
		"wallabag.auto_refresh": true,
		"timezone":              "UTC",
		"log_level":             "info",
	}, "."), nil)
}
