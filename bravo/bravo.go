// Package bravo is a client library for AFIP electronic invoicing. It
// obtains and caches WSAA access tickets and authorizes invoice batches
// against the WSFE v1 service, reconciling the per-invoice CAE results.
//
// The library is synchronous and has no CLI surface; a host application
// wires the pieces together (see main.go at the module root for a demo).
package bravo

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("component", "bravo")

// Config holds the issuer-side facts the library consumes but does not
// own. A host application fills it directly or through bravo/config.
type Config struct {
	// Cuit is the issuer tax ID. Keys the credential cache.
	Cuit string
	// SalePoint partitions document numbering (PtoVta).
	SalePoint int
	// IssuerCondition is the issuer's own IVA condition.
	IssuerCondition string
	// DefaultConcept applies when an invoice does not set one.
	DefaultConcept string
	// DefaultCurrency applies when an invoice does not set one.
	DefaultCurrency string
	// DefaultDocumentType applies when an invoice does not set one.
	DefaultDocumentType string

	Environment Environment

	// PrivateKeyPath and CertificatePath locate the PEM material used to
	// sign WSAA login tickets. KeyPassword may be empty for plain keys.
	PrivateKeyPath  string
	CertificatePath string
	KeyPassword     string

	// CacheDir is where file-backed credential stores keep their records.
	CacheDir string
}

// Round2 is the library-wide monetary rounding: two decimal places,
// half away from zero, which is what the authority applies server side.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
