// Package wsfe implements the invoice-batch authorization engine for
// the authority's electronic invoicing service (WSFE v1).
package wsfe

import (
	"context"

	"github.com/beevik/etree"
	log "github.com/sirupsen/logrus"

	"github.com/xguz/bravo/bravo"
	"github.com/xguz/bravo/bravo/soap"
)

var logger = log.WithField("component", "bravo.wsfe")

const wsfeNS = "http://ar.gov.afip.dif.FEV1/"

// AuthSource supplies the token/sign/CUIT triple for request Auth
// blocks. *wsaa.CredentialBroker satisfies it.
type AuthSource interface {
	AuthTriple(ctx context.Context) (bravo.AuthTriple, error)
}

// Caller posts one WSFE operation body and returns the raw response
// document. It is the transport boundary of the engine; tests inject a
// fake, production uses the SOAP implementation below.
type Caller interface {
	Call(ctx context.Context, action string, body *etree.Element) (*etree.Document, error)
}

type soapCaller struct {
	env    bravo.Environment
	client soap.Client
}

// NewCaller routes operations to the WSFE endpoint of env.
func NewCaller(env bravo.Environment, client soap.Client) Caller {
	return &soapCaller{env: env, client: client}
}

func (c *soapCaller) Call(ctx context.Context, action string, body *etree.Element) (*etree.Document, error) {
	url, err := c.env.WsfeURL()
	if err != nil {
		return nil, err
	}
	logger.WithField("action", action).Debug("WSFE call")
	return c.client.Call(ctx, url, action, body)
}
