package wsfe

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xguz/bravo/bravo"
	"github.com/xguz/bravo/bravo/tax"
)

func testConfig() bravo.Config {
	return bravo.Config{
		Cuit:                "20085617517",
		SalePoint:           4,
		IssuerCondition:     string(tax.ResponsableInscripto),
		DefaultConcept:      "servicios",
		DefaultCurrency:     "peso",
		DefaultDocumentType: "CUIT",
		Environment:         bravo.Test,
	}
}

func TestInvoiceTaxMath(t *testing.T) {

	inv, err := NewInvoice(testConfig(), InvoiceParams{
		Total:          decimal.RequireFromString("1000.00"),
		BuyerCondition: tax.ResponsableInscripto,
		Bracket:        tax.Iva10,
	})
	require.NoError(t, err)

	assert.Equal(t, "904.98", inv.NetAmount().StringFixed(2))
	assert.Equal(t, "95.02", inv.TaxAmount().StringFixed(2))
	assert.Equal(t, "1000.00", inv.NetAmount().Add(inv.TaxAmount()).StringFixed(2))
}

func TestInvoiceTaxMathLegacyFixture(t *testing.T) {

	inv, err := NewInvoice(testConfig(), InvoiceParams{
		Total:          decimal.RequireFromString("100.89"),
		BuyerCondition: tax.ConsumidorFinal,
		Bracket:        tax.Iva10,
		DocumentType:   "DNI",
	})
	require.NoError(t, err)

	assert.Equal(t, "91.30", inv.NetAmount().StringFixed(2))
	assert.Equal(t, "9.59", inv.TaxAmount().StringFixed(2))
}

// The authority validates net + tax == total server side, so the
// reconstruction must hold for every bracket and a spread of totals.
func TestInvoiceReconstructionInvariant(t *testing.T) {

	totals := []string{"0.00", "0.01", "1.00", "99.99", "100.89", "1000.00", "123456.78", "999999.99"}
	bracketsToTest := []tax.Bracket{tax.Iva2_5, tax.Iva5, tax.Iva10, tax.Iva21, tax.Iva27}

	for _, total := range totals {
		for _, bracket := range bracketsToTest {
			t.Run(fmt.Sprintf("%s_%s", total, bracket), func(t *testing.T) {
				inv, err := NewInvoice(testConfig(), InvoiceParams{
					Total:          decimal.RequireFromString(total),
					BuyerCondition: tax.ResponsableInscripto,
					Bracket:        bracket,
				})
				require.NoError(t, err)

				sum := inv.NetAmount().Add(inv.TaxAmount())
				assert.True(t, sum.Equal(inv.GrossTotal()),
					"net %s + tax %s != total %s", inv.NetAmount(), inv.TaxAmount(), inv.GrossTotal())
			})
		}
	}
}

func TestInvoiceRejectsUnknownBuyerCondition(t *testing.T) {

	_, err := NewInvoice(testConfig(), InvoiceParams{
		Total:          decimal.RequireFromString("100.00"),
		BuyerCondition: "sociedad_anonima",
		Bracket:        tax.Iva21,
	})

	var invalid *bravo.InvalidAttributeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "buyer_condition", invalid.Attribute)
}

func TestInvoiceRejectsZeroRateForInscriptoIssuer(t *testing.T) {

	_, err := NewInvoice(testConfig(), InvoiceParams{
		Total:          decimal.RequireFromString("100.00"),
		BuyerCondition: tax.ResponsableInscripto,
		Bracket:        tax.Iva0,
	})

	var invalid *bravo.InvalidAttributeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "bracket", invalid.Attribute)
}

func TestInvoiceRejectsUnknownBracket(t *testing.T) {

	_, err := NewInvoice(testConfig(), InvoiceParams{
		Total:          decimal.RequireFromString("100.00"),
		BuyerCondition: tax.ResponsableInscripto,
		Bracket:        "iva_50",
	})

	var invalid *bravo.InvalidAttributeError
	require.ErrorAs(t, err, &invalid)
}

func TestInvoiceRejectsNegativeTotal(t *testing.T) {

	_, err := NewInvoice(testConfig(), InvoiceParams{
		Total:          decimal.RequireFromString("-1.00"),
		BuyerCondition: tax.ResponsableInscripto,
		Bracket:        tax.Iva21,
	})

	var invalid *bravo.InvalidAttributeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "total", invalid.Attribute)
}

func TestInvoiceDefaultsFromConfig(t *testing.T) {

	inv, err := NewInvoice(testConfig(), InvoiceParams{
		Total:          decimal.RequireFromString("50.00"),
		BuyerCondition: tax.ResponsableInscripto,
		Bracket:        tax.Iva21,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, inv.conceptCode)
	assert.Equal(t, "PES", inv.currencyCode)
	assert.Equal(t, 80, inv.docTypeCode)
}

func TestInvoiceDocumentNumberGuard(t *testing.T) {

	inv, err := NewInvoice(testConfig(), InvoiceParams{
		Total:          decimal.RequireFromString("50.00"),
		BuyerCondition: tax.ResponsableInscripto,
		Bracket:        tax.Iva21,
	})
	require.NoError(t, err)

	require.Error(t, inv.requireDocumentNumber())

	inv.SetDocumentNumber("30711543267")
	assert.NoError(t, inv.requireDocumentNumber())
}
