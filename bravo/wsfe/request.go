package wsfe

import (
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/xguz/bravo/bravo"
	"github.com/xguz/bravo/bravo/tax"
)

const caeRequestAction = "http://ar.gov.afip.dif.FEV1/FECAESolicitar"

// wireDate is the yyyymmdd layout every date field uses on the wire.
const wireDate = "20060102"

// buildAuthRequest assembles the FECAESolicitar body: one header for
// the whole batch and one detail block per invoice. Document numbers
// are consecutive from firstNumber in batch order, computed here once
// so the range is contiguous.
func buildAuthRequest(auth bravo.AuthTriple, salePoint, voucherType int, invoices []*Invoice, firstNumber int64, now time.Time) *etree.Element {

	req := etree.NewElement("FECAESolicitar")
	req.CreateAttr("xmlns", wsfeNS)
	appendAuth(req, auth)

	caeReq := req.CreateElement("FeCAEReq")

	header := caeReq.CreateElement("FeCabReq")
	header.CreateElement("CantReg").SetText(strconv.Itoa(len(invoices)))
	header.CreateElement("PtoVta").SetText(strconv.Itoa(salePoint))
	header.CreateElement("CbteTipo").SetText(strconv.Itoa(voucherType))

	details := caeReq.CreateElement("FeDetReq")
	for idx, inv := range invoices {
		appendDetail(details, inv, firstNumber+int64(idx), now)
	}

	return req
}

func appendAuth(parent *etree.Element, auth bravo.AuthTriple) {
	a := parent.CreateElement("Auth")
	a.CreateElement("Token").SetText(auth.Token)
	a.CreateElement("Sign").SetText(auth.Sign)
	a.CreateElement("Cuit").SetText(auth.Cuit)
}

func appendDetail(parent *etree.Element, inv *Invoice, number int64, now time.Time) {

	d := parent.CreateElement("FECAEDetRequest")

	d.CreateElement("Concepto").SetText(strconv.Itoa(inv.conceptCode))
	d.CreateElement("DocTipo").SetText(strconv.Itoa(inv.docTypeCode))
	d.CreateElement("DocNro").SetText(inv.documentNumber)
	// Each invoice is a single document, so the range collapses.
	d.CreateElement("CbteDesde").SetText(strconv.FormatInt(number, 10))
	d.CreateElement("CbteHasta").SetText(strconv.FormatInt(number, 10))
	d.CreateElement("CbteFch").SetText(now.Format(wireDate))

	d.CreateElement("ImpTotal").SetText(inv.GrossTotal().StringFixed(2))
	d.CreateElement("ImpTotConc").SetText("0.00")
	d.CreateElement("ImpNeto").SetText(inv.NetAmount().StringFixed(2))
	d.CreateElement("ImpOpEx").SetText("0.00")
	d.CreateElement("ImpIVA").SetText(inv.TaxAmount().StringFixed(2))
	d.CreateElement("ImpTrib").SetText("0.00")

	d.CreateElement("MonId").SetText(inv.currencyCode)
	d.CreateElement("MonCotiz").SetText("1")

	if len(inv.vouchers) > 0 {
		assoc := d.CreateElement("CbtesAsoc")
		for _, v := range inv.vouchers {
			cbte := assoc.CreateElement("CbteAsoc")
			cbte.CreateElement("Tipo").SetText(strconv.Itoa(v.Type))
			cbte.CreateElement("PtoVta").SetText(strconv.Itoa(v.SalePoint))
			cbte.CreateElement("Nro").SetText(strconv.FormatInt(v.Number, 10))
		}
	}

	// Service-period dates are mandatory unless the concept is pure
	// goods; unset dates default to the processing date.
	if tax.ConceptRequiresServicePeriod(inv.conceptCode) {
		d.CreateElement("FchServDesde").SetText(orToday(inv.serviceFrom, now))
		d.CreateElement("FchServHasta").SetText(orToday(inv.serviceTo, now))
		d.CreateElement("FchVtoPago").SetText(orToday(inv.dueDate, now))
	}

	iva := d.CreateElement("Iva")
	alic := iva.CreateElement("AlicIva")
	alic.CreateElement("Id").SetText(strconv.Itoa(inv.bracketCode))
	alic.CreateElement("BaseImp").SetText(inv.NetAmount().StringFixed(2))
	alic.CreateElement("Importe").SetText(inv.TaxAmount().StringFixed(2))
}

func orToday(t time.Time, now time.Time) string {
	if t.IsZero() {
		return now.Format(wireDate)
	}
	return t.Format(wireDate)
}
