package wsfe

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xguz/bravo/bravo"
	"github.com/xguz/bravo/bravo/tax"
)

// AssociatedVoucher references a prior document a credit or debit note
// corrects. The authority rejects notes that omit it; that rule is
// enforced remotely and surfaces as a per-invoice rejection outcome.
type AssociatedVoucher struct {
	Type      int
	SalePoint int
	Number    int64
}

// InvoiceParams are the business facts for one billable transaction.
// DocumentType, Concept and Currency fall back to the Config defaults
// when empty.
type InvoiceParams struct {
	Total          decimal.Decimal
	BuyerCondition tax.IvaCondition
	Bracket        tax.Bracket
	DocumentType   string
	Concept        string
	Currency       string

	// Optional service period; each zero date defaults to the
	// processing date when the request is built.
	ServiceFrom time.Time
	ServiceTo   time.Time
	DueDate     time.Time

	AssociatedVouchers []AssociatedVoucher
}

// Invoice is an immutable value object. The buyer's document number may
// be set after construction but must be present before the invoice is
// admitted into a batch; nothing else changes after New.
type Invoice struct {
	issuer         tax.IvaCondition
	total          decimal.Decimal
	buyerCondition tax.IvaCondition
	bracket        tax.Bracket
	bracketCode    int
	bracketRate    decimal.Decimal
	documentType   string
	docTypeCode    int
	conceptCode    int
	currencyCode   string
	serviceFrom    time.Time
	serviceTo      time.Time
	dueDate        time.Time
	vouchers       []AssociatedVoucher

	documentNumber string
	batch          *Batch
}

// NewInvoice validates the business facts against the issuer's fiscal
// rules and freezes them. Rule violations are InvalidAttributeError and
// must be fixed by the caller, never retried.
func NewInvoice(cfg bravo.Config, p InvoiceParams) (*Invoice, error) {

	issuer := tax.IvaCondition(cfg.IssuerCondition)

	permitted := tax.PermittedBuyerConditions(issuer)
	if permitted == nil {
		return nil, bravo.InvalidAttribute("issuer_condition", "unknown issuer IVA condition %q", issuer)
	}
	if !containsCondition(permitted, p.BuyerCondition) {
		return nil, bravo.InvalidAttribute("buyer_condition",
			"%q is not permitted for issuer condition %q", p.BuyerCondition, issuer)
	}

	bracketCode, rate, ok := tax.BracketRate(p.Bracket)
	if !ok {
		return nil, bravo.InvalidAttribute("bracket", "unknown VAT bracket %q", p.Bracket)
	}
	if issuer == tax.ResponsableInscripto && rate.IsZero() {
		return nil, bravo.InvalidAttribute("bracket",
			"zero-rate bracket is not allowed for a responsable inscripto issuer")
	}

	if p.Total.IsNegative() {
		return nil, bravo.InvalidAttribute("total", "gross total must not be negative")
	}

	docTypeName := p.DocumentType
	if docTypeName == "" {
		docTypeName = cfg.DefaultDocumentType
	}
	docTypeCode, ok := tax.DocumentTypeCode(docTypeName)
	if !ok {
		return nil, bravo.InvalidAttribute("document_type", "unknown document type %q", docTypeName)
	}

	conceptName := p.Concept
	if conceptName == "" {
		conceptName = cfg.DefaultConcept
	}
	conceptCode, ok := tax.ConceptCode(conceptName)
	if !ok {
		return nil, bravo.InvalidAttribute("concept", "unknown concept %q", conceptName)
	}

	currencyName := p.Currency
	if currencyName == "" {
		currencyName = cfg.DefaultCurrency
	}
	currencyCode, ok := tax.CurrencyCode(currencyName)
	if !ok {
		return nil, bravo.InvalidAttribute("currency", "unknown currency %q", currencyName)
	}

	return &Invoice{
		issuer:         issuer,
		total:          bravo.Round2(p.Total),
		buyerCondition: p.BuyerCondition,
		bracket:        p.Bracket,
		bracketCode:    bracketCode,
		bracketRate:    rate,
		documentType:   docTypeName,
		docTypeCode:    docTypeCode,
		conceptCode:    conceptCode,
		currencyCode:   currencyCode,
		serviceFrom:    p.ServiceFrom,
		serviceTo:      p.ServiceTo,
		dueDate:        p.DueDate,
		vouchers:       append([]AssociatedVoucher(nil), p.AssociatedVouchers...),
	}, nil
}

// SetDocumentNumber records the buyer's identity document number. Must
// be called before the invoice joins a batch.
func (i *Invoice) SetDocumentNumber(number string) {
	i.documentNumber = number
}

func (i *Invoice) DocumentNumber() string { return i.documentNumber }

// GrossTotal is the tax-inclusive amount the buyer pays.
func (i *Invoice) GrossTotal() decimal.Decimal { return i.total }

// NetAmount strips the VAT component: round2(total / (1 + rate)). The
// authority validates net + tax == total server side, so the arithmetic
// is exact decimal, never floating point.
func (i *Invoice) NetAmount() decimal.Decimal {
	divisor := decimal.New(1, 0).Add(i.bracketRate)
	return bravo.Round2(i.total.DivRound(divisor, 8))
}

// TaxAmount is the VAT component: round2(total - net).
func (i *Invoice) TaxAmount() decimal.Decimal {
	return bravo.Round2(i.total.Sub(i.NetAmount()))
}

// TaxCode is the authority's code for the applied bracket, used
// verbatim in the request's AlicIva block.
func (i *Invoice) TaxCode() int { return i.bracketCode }

func (i *Invoice) BuyerCondition() tax.IvaCondition { return i.buyerCondition }

// voucherTypeFor resolves the fiscal document type this invoice belongs
// to when issued under the given intent.
func (i *Invoice) voucherTypeFor(intent tax.Intent) (int, bool) {
	return tax.VoucherTypeFor(i.issuer, i.buyerCondition, intent)
}

// requireDocumentNumber is the admission guard: without the buyer's
// document number the detail block cannot be built.
func (i *Invoice) requireDocumentNumber() error {
	if i.documentNumber == "" {
		return bravo.InvalidAttribute("document_number", "must be present before adding to a batch")
	}
	return nil
}

func containsCondition(set []tax.IvaCondition, c tax.IvaCondition) bool {
	for _, s := range set {
		if s == c {
			return true
		}
	}
	return false
}
