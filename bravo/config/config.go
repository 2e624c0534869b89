// Package config loads bravo.Config from a YAML file and BRAVO_*
// environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/xguz/bravo/bravo"
)

// Load reads the named config file (YAML). Any key may be overridden by
// an environment variable: cuit -> BRAVO_CUIT, key_path -> BRAVO_KEY_PATH
// and so on. path may be empty to configure from environment alone.
func Load(path string) (bravo.Config, error) {

	v := viper.New()
	v.SetEnvPrefix("bravo")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("environment", "test")
	v.SetDefault("sale_point", 1)
	v.SetDefault("default_concept", "productos")
	v.SetDefault("default_currency", "peso")
	v.SetDefault("default_document_type", "CUIT")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return bravo.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var env bravo.Environment
	if err := env.UnmarshalText([]byte(v.GetString("environment"))); err != nil {
		return bravo.Config{}, err
	}

	cfg := bravo.Config{
		Cuit:                v.GetString("cuit"),
		SalePoint:           v.GetInt("sale_point"),
		IssuerCondition:     v.GetString("issuer_condition"),
		DefaultConcept:      v.GetString("default_concept"),
		DefaultCurrency:     v.GetString("default_currency"),
		DefaultDocumentType: v.GetString("default_document_type"),
		Environment:         env,
		PrivateKeyPath:      v.GetString("key_path"),
		CertificatePath:     v.GetString("cert_path"),
		KeyPassword:         v.GetString("key_password"),
		CacheDir:            v.GetString("cache_dir"),
	}

	if cfg.Cuit == "" {
		return bravo.Config{}, fmt.Errorf("config: cuit is required")
	}
	if cfg.IssuerCondition == "" {
		return bravo.Config{}, fmt.Errorf("config: issuer_condition is required")
	}

	return cfg, nil
}
