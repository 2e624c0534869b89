// Package tax holds the static fiscal tables published by the authority:
// IVA condition compatibility, voucher type codes, VAT brackets, identity
// document codes, currencies and invoice concepts. Pure data, no state.
package tax

import "github.com/shopspring/decimal"

// IvaCondition is a party's standing with respect to VAT.
type IvaCondition string

const (
	ResponsableInscripto IvaCondition = "responsable_inscripto"
	Monotributo          IvaCondition = "monotributo"
	Exento               IvaCondition = "exento"
	ConsumidorFinal      IvaCondition = "consumidor_final"
)

// Intent is what kind of fiscal document the issuer wants to emit.
type Intent string

const (
	Invoice    Intent = "invoice"
	DebitNote  Intent = "debit"
	CreditNote Intent = "credit"
	Receipt    Intent = "receipt"
)

// Intents in the order the authority lists them.
var Intents = []Intent{Invoice, DebitNote, CreditNote, Receipt}

// voucherClass groups the per-intent codes of one letter class (A, B, C).
type voucherClass map[Intent]int

var (
	classA = voucherClass{Invoice: 1, DebitNote: 2, CreditNote: 3, Receipt: 4}
	classB = voucherClass{Invoice: 6, DebitNote: 7, CreditNote: 8, Receipt: 9}
	classC = voucherClass{Invoice: 11, DebitNote: 12, CreditNote: 13, Receipt: 15}
)

// voucherMatrix maps issuer condition -> buyer condition -> letter class.
// A responsable inscripto issues A documents to other responsables and B
// documents to everyone else; a monotributo issuer always emits C.
var voucherMatrix = map[IvaCondition]map[IvaCondition]voucherClass{
	ResponsableInscripto: {
		ResponsableInscripto: classA,
		Monotributo:          classB,
		Exento:               classB,
		ConsumidorFinal:      classB,
	},
	Monotributo: {
		ResponsableInscripto: classC,
		Monotributo:          classC,
		Exento:               classC,
		ConsumidorFinal:      classC,
	},
}

// PermittedBuyerConditions returns the buyer conditions the given issuer
// may bill, in no particular order, or nil for an unknown issuer.
func PermittedBuyerConditions(issuer IvaCondition) []IvaCondition {
	row, ok := voucherMatrix[issuer]
	if !ok {
		return nil
	}
	out := make([]IvaCondition, 0, len(row))
	for c := range row {
		out = append(out, c)
	}
	return out
}

// VoucherTypeFor resolves the fiscal document type code for one
// issuer/buyer/intent combination. ok is false when the combination is
// not in the authority's matrix.
func VoucherTypeFor(issuer, buyer IvaCondition, intent Intent) (int, bool) {
	row, ok := voucherMatrix[issuer]
	if !ok {
		return 0, false
	}
	class, ok := row[buyer]
	if !ok {
		return 0, false
	}
	code, ok := class[intent]
	return code, ok
}

// Bracket is a named VAT rate tier.
type Bracket string

const (
	Iva0   Bracket = "iva_0"
	Iva2_5 Bracket = "iva_2.5"
	Iva5   Bracket = "iva_5"
	Iva10  Bracket = "iva_10.5"
	Iva21  Bracket = "iva_21"
	Iva27  Bracket = "iva_27"
)

type bracketEntry struct {
	code int
	rate decimal.Decimal
}

var brackets = map[Bracket]bracketEntry{
	Iva0:   {3, decimal.Zero},
	Iva2_5: {9, decimal.RequireFromString("0.025")},
	Iva5:   {8, decimal.RequireFromString("0.05")},
	Iva10:  {4, decimal.RequireFromString("0.105")},
	Iva21:  {5, decimal.RequireFromString("0.21")},
	Iva27:  {6, decimal.RequireFromString("0.27")},
}

// BracketRate returns the authority code and multiplier rate for a
// bracket; ok is false for unknown brackets.
func BracketRate(b Bracket) (code int, rate decimal.Decimal, ok bool) {
	e, ok := brackets[b]
	return e.code, e.rate, ok
}

// DocumentTypeCode maps a buyer identity document kind to its code.
// 99 is the anonymous final-consumer marker.
var documentTypes = map[string]int{
	"CUIT": 80,
	"CUIL": 86,
	"DNI":  96,
	"":     99,
}

func DocumentTypeCode(name string) (int, bool) {
	c, ok := documentTypes[name]
	return c, ok
}

// Currency codes as the service expects them in MonId.
var currencies = map[string]string{
	"peso":  "PES",
	"dolar": "DOL",
}

func CurrencyCode(name string) (string, bool) {
	c, ok := currencies[name]
	return c, ok
}

// Concept codes (Concepto): goods, services, or both. Anything other
// than pure goods requires a service period on the request detail.
var concepts = map[string]int{
	"productos":             1,
	"servicios":             2,
	"productos_y_servicios": 3,
}

func ConceptCode(name string) (int, bool) {
	c, ok := concepts[name]
	return c, ok
}

// ConceptRequiresServicePeriod reports whether the concept code must
// carry FchServDesde/FchServHasta/FchVtoPago in the request.
func ConceptRequiresServicePeriod(code int) bool {
	return code != 1
}
