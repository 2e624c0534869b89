package wsfe

import (
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/xguz/bravo/bravo"
)

// Result is the reconciled outcome of one authorization call. Outcomes
// are in batch submission order, one per invoice, regardless of how the
// service encoded the detail.
type Result struct {
	HeaderResult string
	ProcessedAt  time.Time
	Outcomes     []Outcome
}

// Approved reports all-or-nothing success: the header must be approved
// and so must every individual outcome. A single rejected invoice makes
// the whole batch count as failed for the caller's business action.
func (r *Result) Approved() bool {
	if r == nil || r.HeaderResult != "A" {
		return false
	}
	for _, o := range r.Outcomes {
		if !o.Approved {
			return false
		}
	}
	return true
}

// Outcome is the authority's verdict on one invoice.
type Outcome struct {
	Approved bool
	// Number is the document number the authority recorded.
	Number int64
	// Cae and CaeExpiration are present only when approved.
	Cae           string
	CaeExpiration time.Time
	// Observations explain a rejection; empty when approved.
	Observations []Observation
}

type Observation struct {
	Code    int
	Message string
}

// Reconcile normalizes a raw FECAESolicitar response. A non-empty
// top-level Errors block means no invoice was evaluated at all and maps
// to *bravo.ServiceError; everything else becomes a Result whose
// outcome order matches the submission order.
func Reconcile(doc *etree.Document) (*Result, error) {

	result := doc.FindElement("//FECAESolicitarResult")
	if result == nil {
		return nil, &bravo.ServiceError{Message: "response has no FECAESolicitarResult"}
	}

	if err := topLevelError(result); err != nil {
		return nil, err
	}

	res := &Result{}

	if header := result.FindElement("FeCabResp"); header != nil {
		if e := header.FindElement("Resultado"); e != nil {
			res.HeaderResult = e.Text()
		}
		if e := header.FindElement("FchProceso"); e != nil {
			res.ProcessedAt = parseProcessingStamp(e.Text())
		}
	}

	for _, detail := range collectDetails(result) {
		res.Outcomes = append(res.Outcomes, parseOutcome(detail))
	}

	return res, nil
}

// topLevelError extracts the Errors block shared by all WSFE result
// shapes. Only the first error is carried; the service lists the root
// cause first.
func topLevelError(result *etree.Element) error {
	errs := result.FindElement("Errors")
	if errs == nil {
		return nil
	}
	first := errs.FindElement("Err")
	if first == nil {
		return nil
	}

	svcErr := &bravo.ServiceError{}
	if c := first.FindElement("Code"); c != nil {
		svcErr.Code, _ = strconv.Atoi(c.Text())
	}
	if m := first.FindElement("Msg"); m != nil {
		svcErr.Message = m.Text()
	}
	return svcErr
}

// collectDetails returns the per-invoice detail elements in document
// order. The service nests a FECAEDetResponse list under FeDetResp for
// multi-invoice batches but some encodings collapse a single invoice
// into the FeDetResp element itself, so the list decode comes first and
// the singleton shape is the fallback.
func collectDetails(result *etree.Element) []*etree.Element {
	resp := result.FindElement("FeDetResp")
	if resp == nil {
		return nil
	}

	if list := resp.FindElements("FECAEDetResponse"); len(list) > 0 {
		return list
	}

	// Singleton-wrapped: detail fields directly under FeDetResp.
	if resp.FindElement("Resultado") != nil {
		return []*etree.Element{resp}
	}
	return nil
}

func parseOutcome(detail *etree.Element) Outcome {
	o := Outcome{}

	if e := detail.FindElement("Resultado"); e != nil {
		o.Approved = e.Text() == "A"
	}
	if e := detail.FindElement("CbteDesde"); e != nil {
		o.Number, _ = strconv.ParseInt(e.Text(), 10, 64)
	}
	if e := detail.FindElement("CAE"); e != nil {
		o.Cae = e.Text()
	}
	if e := detail.FindElement("CAEFchVto"); e != nil && e.Text() != "" {
		if t, err := time.Parse(wireDate, e.Text()); err == nil {
			o.CaeExpiration = t
		}
	}

	if obs := detail.FindElement("Observaciones"); obs != nil {
		for _, ob := range obs.FindElements("Obs") {
			observation := Observation{}
			if c := ob.FindElement("Code"); c != nil {
				observation.Code, _ = strconv.Atoi(c.Text())
			}
			if m := ob.FindElement("Msg"); m != nil {
				observation.Message = m.Text()
			}
			o.Observations = append(o.Observations, observation)
		}
	}

	return o
}

// parseProcessingStamp reads FchProceso, which arrives as
// yyyymmddhhmmss; a bare date is tolerated.
func parseProcessingStamp(s string) time.Time {
	if t, err := time.Parse("20060102150405", s); err == nil {
		return t
	}
	if t, err := time.Parse(wireDate, s); err == nil {
		return t
	}
	return time.Time{}
}
