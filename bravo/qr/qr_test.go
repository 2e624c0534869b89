package qr

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload() Payload {
	p := NewPayload(time.Date(2021, 4, 19, 0, 0, 0, 0, time.UTC))
	p.Cuit = 20085617517
	p.PtoVta = 4
	p.TipoCmp = 1
	p.NroCmp = 37
	p.Importe = 1000.00
	p.Moneda = "PES"
	p.TipoDocRec = 80
	p.NroDocRec = 30711543267
	p.CodAut = 71167929598913
	return p
}

func TestURLEncodesPayload(t *testing.T) {

	link, err := URL(samplePayload())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "https://www.afip.gob.ar/fe/qr/?p="))

	encoded := strings.TrimPrefix(link, "https://www.afip.gob.ar/fe/qr/?p=")
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, float64(1), decoded["ver"])
	assert.Equal(t, "2021-04-19", decoded["fecha"])
	assert.Equal(t, float64(20085617517), decoded["cuit"])
	assert.Equal(t, float64(37), decoded["nroCmp"])
	assert.Equal(t, "E", decoded["tipoCodAut"])
	assert.Equal(t, float64(71167929598913), decoded["codAut"])
}

func TestURLRequiresVersion(t *testing.T) {

	_, err := URL(Payload{})
	assert.Error(t, err)
}

func TestPNG(t *testing.T) {

	png, err := PNG(samplePayload(), 256)
	require.NoError(t, err)
	require.NotEmpty(t, png)

	// PNG magic header.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
