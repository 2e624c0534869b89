package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xguz/bravo/bravo"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bravo.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {

	path := writeConfig(t, `
cuit: "20085617517"
sale_point: 4
issuer_condition: responsable_inscripto
default_concept: servicios
environment: production
key_path: /etc/bravo/pkey.pem
cert_path: /etc/bravo/cert.pem
cache_dir: /var/cache/bravo
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "20085617517", cfg.Cuit)
	assert.Equal(t, 4, cfg.SalePoint)
	assert.Equal(t, "responsable_inscripto", cfg.IssuerCondition)
	assert.Equal(t, "servicios", cfg.DefaultConcept)
	assert.Equal(t, bravo.Production, cfg.Environment)
	assert.Equal(t, "/etc/bravo/pkey.pem", cfg.PrivateKeyPath)
	assert.Equal(t, "/var/cache/bravo", cfg.CacheDir)

	// Unset keys fall back to defaults.
	assert.Equal(t, "peso", cfg.DefaultCurrency)
	assert.Equal(t, "CUIT", cfg.DefaultDocumentType)
}

func TestLoadEnvironmentOverride(t *testing.T) {

	path := writeConfig(t, `
cuit: "20085617517"
issuer_condition: responsable_inscripto
environment: production
`)

	t.Setenv("BRAVO_ENVIRONMENT", "test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, bravo.Test, cfg.Environment)
}

func TestLoadFromEnvironmentOnly(t *testing.T) {

	t.Setenv("BRAVO_CUIT", "30710151543")
	t.Setenv("BRAVO_ISSUER_CONDITION", "monotributo")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "30710151543", cfg.Cuit)
	assert.Equal(t, "monotributo", cfg.IssuerCondition)
	assert.Equal(t, bravo.Test, cfg.Environment, "default environment is test")
	assert.Equal(t, 1, cfg.SalePoint)
}

func TestLoadRequiresCuit(t *testing.T) {

	path := writeConfig(t, `
issuer_condition: responsable_inscripto
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "cuit")
}

func TestLoadRejectsBadEnvironment(t *testing.T) {

	path := writeConfig(t, `
cuit: "20085617517"
issuer_condition: responsable_inscripto
environment: staging
`)

	_, err := Load(path)
	assert.Error(t, err)
}
