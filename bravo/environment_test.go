package bravo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentURLs(t *testing.T) {

	url, err := Test.WsaaURL()
	require.NoError(t, err)
	assert.Equal(t, "https://wsaahomo.afip.gov.ar/ws/services/LoginCms", url)

	url, err = Production.WsfeURL()
	require.NoError(t, err)
	assert.Equal(t, "https://servicios1.afip.gov.ar/wsfev1/service.asmx", url)
}

func TestEnvironmentUnsetFails(t *testing.T) {

	var e Environment // zero value

	_, err := e.WsaaURL()
	assert.ErrorIs(t, err, ErrEnvironmentUnset)

	_, err = e.WsfeURL()
	assert.ErrorIs(t, err, ErrEnvironmentUnset)
}

func TestEnvironmentUnmarshalText(t *testing.T) {

	var e Environment
	require.NoError(t, e.UnmarshalText([]byte("production")))
	assert.Equal(t, Production, e)

	require.NoError(t, e.UnmarshalText([]byte(" Test ")))
	assert.Equal(t, Test, e)

	assert.Error(t, e.UnmarshalText([]byte("staging")))
}

func TestCredentialValidity(t *testing.T) {

	now := time.Date(2021, 4, 19, 10, 0, 0, 0, time.UTC)

	cred := Credential{Token: "t", Sign: "s", Expiration: now.Add(time.Hour)}
	assert.True(t, cred.ValidAt(now))
	assert.False(t, cred.ValidAt(now.Add(time.Hour)), "validity is strict: expired at the declared instant")
	assert.False(t, cred.ValidAt(now.Add(2*time.Hour)))

	assert.False(t, Credential{Sign: "s", Expiration: now.Add(time.Hour)}.ValidAt(now))
	assert.False(t, Credential{Token: "t", Sign: "s"}.ValidAt(now))
}
