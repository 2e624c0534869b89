// Package soap is a minimal SOAP 1.1 transport for the AFIP web services.
// It wraps request bodies into an envelope, posts them with the right
// SOAPAction header and hands back the parsed response document.
package soap

import (
	"context"
	"time"

	"github.com/beevik/etree"
	"github.com/go-faster/errors"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/xguz/bravo/bravo/util"
)

var logger = logrus.WithField("component", "bravo.soap")

const envelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"

// Client posts SOAP requests. Implementations must honor ctx deadlines.
type Client interface {
	Call(ctx context.Context, url, action string, body *etree.Element) (*etree.Document, error)
}

type client struct {
	rest *resty.Client
}

// New builds a Client on a dedicated resty instance. The authority can
// take several seconds to answer, hence the generous default timeout;
// callers narrow it per request through ctx.
func New() Client {
	rest := resty.New().
		SetTimeout(60 * time.Second).
		SetHeader("Content-Type", "text/xml; charset=utf-8")
	return &client{rest: rest}
}

// NewWithRestyClient lets the host application supply its own resty
// client (proxies, instrumentation, custom TLS).
func NewWithRestyClient(rest *resty.Client) Client {
	return &client{rest: rest}
}

func (c *client) Call(ctx context.Context, url, action string, body *etree.Element) (*etree.Document, error) {

	payload, err := envelope(body)
	if err != nil {
		return nil, errors.Wrap(err, "serialize envelope")
	}

	logger.WithFields(logrus.Fields{"url": url, "action": action}).Debug("SOAP call")

	r := c.rest.R().SetContext(ctx)
	if util.HTTPTraceEnabled() {
		r.EnableTrace()
	}

	resp, err := r.
		SetHeader("SOAPAction", action).
		SetBody(payload).
		Post(url)
	if err != nil {
		return nil, errors.Wrap(err, "post")
	}

	doc := etree.NewDocument()
	if perr := doc.ReadFromBytes(resp.Body()); perr != nil {
		if resp.IsError() {
			return nil, &RequestError{StatusCode: resp.StatusCode(), Body: resp.String()}
		}
		return nil, errors.Wrap(perr, "parse response")
	}

	if fault := doc.FindElement("//Fault"); fault != nil {
		return nil, faultError(resp.StatusCode(), fault)
	}
	if resp.IsError() {
		return nil, &RequestError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	return doc, nil
}

// envelope wraps a copy of body into a SOAP envelope and returns the
// serialized request. The caller's element is left untouched.
func envelope(body *etree.Element) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	env := doc.CreateElement("soapenv:Envelope")
	env.CreateAttr("xmlns:soapenv", envelopeNS)
	env.CreateElement("soapenv:Header")
	env.CreateElement("soapenv:Body").AddChild(body.Copy())

	return doc.WriteToBytes()
}

func faultError(status int, fault *etree.Element) error {
	e := &RequestError{StatusCode: status}
	if c := fault.FindElement("faultcode"); c != nil {
		e.FaultCode = c.Text()
	}
	if s := fault.FindElement("faultstring"); s != nil {
		e.Body = s.Text()
	}
	return e
}
