// Package qr builds the verification QR the authority mandates on
// printed invoices: a fixed URL carrying the invoice facts and CAE as
// base64-encoded JSON.
package qr

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	baseURL        = "https://www.afip.gob.ar/fe/qr/"
	payloadVersion = 1
)

// Payload is the JSON document behind the QR, field names and order per
// the authority's published format.
type Payload struct {
	Ver        int     `json:"ver"`
	Fecha      string  `json:"fecha"`
	Cuit       int64   `json:"cuit"`
	PtoVta     int     `json:"ptoVta"`
	TipoCmp    int     `json:"tipoCmp"`
	NroCmp     int64   `json:"nroCmp"`
	Importe    float64 `json:"importe"`
	Moneda     string  `json:"moneda"`
	Ctz        float64 `json:"ctz"`
	TipoDocRec int     `json:"tipoDocRec"`
	NroDocRec  int64   `json:"nroDocRec"`
	TipoCodAut string  `json:"tipoCodAut"`
	CodAut     int64   `json:"codAut"`
}

// NewPayload fills the fixed fields: version 1, E-type authorization
// (CAE), issue date in the wire format.
func NewPayload(issued time.Time) Payload {
	return Payload{
		Ver:        payloadVersion,
		Fecha:      issued.Format("2006-01-02"),
		Ctz:        1,
		TipoCodAut: "E",
	}
}

// URL renders the verification link for a payload.
func URL(p Payload) (string, error) {
	if p.Ver == 0 {
		return "", fmt.Errorf("payload version not set")
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return baseURL + "?p=" + base64.StdEncoding.EncodeToString(b), nil
}

// PNG renders the QR image for a payload, size pixels square.
func PNG(p Payload, size int) ([]byte, error) {
	link, err := URL(p)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode QR: %w", err)
	}
	return png, nil
}
