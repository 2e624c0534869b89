package wsaa

import (
	"strconv"
	"time"

	"github.com/beevik/etree"
)

// traTTL is how long we ask WSAA to keep the ticket request valid. The
// authority caps the granted ticket at 12 hours regardless.
const traTTL = 12 * time.Hour

// BuildTRA renders the login ticket request (TRA) XML for the given
// service name. uniqueId must grow between requests for the same CUIT;
// the generation timestamp in seconds satisfies that.
func BuildTRA(service string, now time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	tra := doc.CreateElement("loginTicketRequest")
	tra.CreateAttr("version", "1.0")

	header := tra.CreateElement("header")
	header.CreateElement("uniqueId").SetText(strconv.FormatInt(now.Unix(), 10))
	header.CreateElement("generationTime").SetText(now.Format(time.RFC3339))
	header.CreateElement("expirationTime").SetText(now.Add(traTTL).Format(time.RFC3339))

	tra.CreateElement("service").SetText(service)

	doc.Indent(2)
	return doc.WriteToBytes()
}
