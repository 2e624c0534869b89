package wsfe

import (
	"context"
	"strconv"

	"github.com/beevik/etree"

	"github.com/xguz/bravo/bravo"
)

// SequenceSource answers "what was the last document number the
// authority issued" for a voucher type and sale point.
//
// The answer is only a hint: between reading it and submitting, another
// process may consume numbers for the same (voucher type, sale point)
// pair and the service will reject the batch. Callers that share a sale
// point across processes must serialize Authorize per pair themselves;
// the library deliberately does not hide the race.
type SequenceSource interface {
	LastAuthorized(ctx context.Context, voucherType, salePoint int) (int64, error)
}

const lastAuthorizedAction = "http://ar.gov.afip.dif.FEV1/FECompUltimoAutorizado"

type wsfeSequence struct {
	auth   AuthSource
	client Caller
}

// NewSequenceSource queries WSFE's FECompUltimoAutorizado operation.
func NewSequenceSource(auth AuthSource, client Caller) SequenceSource {
	return &wsfeSequence{auth: auth, client: client}
}

func (s *wsfeSequence) LastAuthorized(ctx context.Context, voucherType, salePoint int) (int64, error) {

	triple, err := s.auth.AuthTriple(ctx)
	if err != nil {
		return 0, err
	}

	body := etree.NewElement("FECompUltimoAutorizado")
	body.CreateAttr("xmlns", wsfeNS)
	appendAuth(body, triple)
	body.CreateElement("PtoVta").SetText(strconv.Itoa(salePoint))
	body.CreateElement("CbteTipo").SetText(strconv.Itoa(voucherType))

	doc, err := s.client.Call(ctx, lastAuthorizedAction, body)
	if err != nil {
		return 0, err
	}

	result := doc.FindElement("//FECompUltimoAutorizadoResult")
	if result == nil {
		return 0, &bravo.ServiceError{Message: "response has no FECompUltimoAutorizadoResult"}
	}
	if err := topLevelError(result); err != nil {
		return 0, err
	}

	nro := result.FindElement("CbteNro")
	if nro == nil {
		return 0, &bravo.ServiceError{Message: "response has no CbteNro"}
	}
	last, err := strconv.ParseInt(nro.Text(), 10, 64)
	if err != nil {
		return 0, &bravo.ServiceError{Message: "unparsable CbteNro: " + nro.Text()}
	}
	return last, nil
}
