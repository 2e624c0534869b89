package wsfe

import (
	"context"
	"time"

	"github.com/xguz/bravo/bravo"
	"github.com/xguz/bravo/bravo/tax"
)

// Batch accumulates invoices that share one fiscal document type and
// submits them in a single authorization request. The remote protocol
// authorizes one voucher type per call with one shared starting number,
// which is why mixed-type batches are refused at admission.
//
// Lifecycle: empty -> populated -> submitted. Submitted is terminal; a
// rejected batch is not resubmitted through this object because that
// would re-consume a reserved number range — build a new batch instead.
type Batch struct {
	cfg         bravo.Config
	intent      tax.Intent
	voucherType int

	auth     AuthSource
	sequence SequenceSource
	caller   Caller

	invoices  []*Invoice
	submitted bool
	result    *Result

	now func() time.Time
}

// NewBatch declares the batch's fiscal document type from the issuer
// condition in cfg, a representative buyer condition and the intent.
// The combination must exist in the authority's matrix.
func NewBatch(cfg bravo.Config, auth AuthSource, sequence SequenceSource, caller Caller,
	buyer tax.IvaCondition, intent tax.Intent) (*Batch, error) {

	voucherType, ok := tax.VoucherTypeFor(tax.IvaCondition(cfg.IssuerCondition), buyer, intent)
	if !ok {
		return nil, bravo.InvalidAttribute("batch",
			"no voucher type for issuer %q, buyer %q, intent %q", cfg.IssuerCondition, buyer, intent)
	}

	return &Batch{
		cfg:         cfg,
		intent:      intent,
		voucherType: voucherType,
		auth:        auth,
		sequence:    sequence,
		caller:      caller,
		now:         time.Now,
	}, nil
}

// VoucherType is the fiscal document type code declared at construction.
func (b *Batch) VoucherType() int { return b.voucherType }

func (b *Batch) Size() int { return len(b.invoices) }

// Add admits an invoice. It fails, leaving the batch unchanged, when
// the invoice resolves to a different voucher type than the batch
// declared, lacks its document number, or already belongs to a batch.
func (b *Batch) Add(inv *Invoice) error {
	if b.submitted {
		return bravo.ErrAlreadySubmitted
	}
	if inv.batch != nil {
		return bravo.InvalidAttribute("invoice", "already belongs to a batch")
	}

	resolved, ok := inv.voucherTypeFor(b.intent)
	if !ok || resolved != b.voucherType {
		return bravo.InvalidAttribute("invoice",
			"resolves to voucher type %d, batch is %d", resolved, b.voucherType)
	}

	if err := inv.requireDocumentNumber(); err != nil {
		return err
	}

	inv.batch = b
	b.invoices = append(b.invoices, inv)
	return nil
}

// Authorize submits the batch and reconciles the authority's answer.
//
// Numbering: the sequence source supplies the last issued number once
// for the whole batch and invoices take consecutive numbers from
// lastIssued+1 in insertion order, so the range is gapless.
//
// A transport error or ctx timeout after submission leaves the batch in
// an indeterminate submitted state: the authority may have recorded it,
// so the caller must check the service before cautiously re-issuing the
// same invoices in a fresh batch. This method never retries on its own.
func (b *Batch) Authorize(ctx context.Context) (*Result, error) {
	if b.submitted {
		return nil, bravo.ErrAlreadySubmitted
	}
	if len(b.invoices) == 0 {
		return nil, bravo.ErrEmptyBatch
	}

	triple, err := b.auth.AuthTriple(ctx)
	if err != nil {
		return nil, err
	}

	last, err := b.sequence.LastAuthorized(ctx, b.voucherType, b.cfg.SalePoint)
	if err != nil {
		return nil, err
	}
	first := last + 1

	logger.WithFields(map[string]interface{}{
		"voucher_type": b.voucherType,
		"sale_point":   b.cfg.SalePoint,
		"count":        len(b.invoices),
		"first_number": first,
	}).Debug("authorizing batch")

	body := buildAuthRequest(triple, b.cfg.SalePoint, b.voucherType, b.invoices, first, b.now())

	b.submitted = true

	doc, err := b.caller.Call(ctx, caeRequestAction, body)
	if err != nil {
		return nil, err
	}

	result, err := Reconcile(doc)
	if err != nil {
		return nil, err
	}

	b.result = result
	return result, nil
}

// Result returns the reconciled outcome, nil before a successful
// Authorize round trip.
func (b *Batch) Result() *Result { return b.result }

// Authorized reports whether the header and every per-invoice outcome
// were approved. Partial success is still overall failure.
func (b *Batch) Authorized() bool {
	return b.result.Approved()
}
