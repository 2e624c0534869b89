// Package wsaa talks to the authority's authentication service. It
// builds and signs login ticket requests and brokers the short-lived
// credentials every WSFE call needs.
package wsaa

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/beevik/etree"
	log "github.com/sirupsen/logrus"

	"github.com/xguz/bravo/bravo"
	"github.com/xguz/bravo/bravo/soap"
)

var logger = log.WithField("component", "bravo.wsaa")

// ServiceWsfe is the service name a TRA must carry to obtain tickets
// valid for electronic invoicing.
const ServiceWsfe = "wsfe"

const loginAction = "urn:LoginCms"

// LoginService obtains a fresh credential from the remote authenticator.
// The call is atomic: either a complete credential or an error.
type LoginService interface {
	Login(ctx context.Context) (bravo.Credential, error)
}

type loginService struct {
	env     bravo.Environment
	service string
	signer  Signer
	client  soap.Client
	now     func() time.Time
}

// NewLoginService wires the shipped WSAA client. service is the target
// web service name, normally ServiceWsfe.
func NewLoginService(env bravo.Environment, service string, signer Signer, client soap.Client) LoginService {
	return &loginService{env: env, service: service, signer: signer, client: client, now: time.Now}
}

func (s *loginService) Login(ctx context.Context) (bravo.Credential, error) {

	url, err := s.env.WsaaURL()
	if err != nil {
		return bravo.Credential{}, err
	}

	tra, err := BuildTRA(s.service, s.now())
	if err != nil {
		return bravo.Credential{}, err
	}

	cms, err := s.signer.Sign(tra)
	if err != nil {
		return bravo.Credential{}, fmt.Errorf("sign TRA: %w", err)
	}

	logger.WithField("service", s.service).Debug("requesting WSAA ticket")

	body := etree.NewElement("loginCms")
	body.CreateElement("in0").SetText(base64.StdEncoding.EncodeToString(cms))

	doc, err := s.client.Call(ctx, url, loginAction, body)
	if err != nil {
		return bravo.Credential{}, fmt.Errorf("%w: %v", bravo.ErrAuthFailed, err)
	}

	return parseLoginResponse(doc)
}

// parseLoginResponse unwraps loginCmsReturn, which carries the ticket
// response as an escaped XML string, and extracts the credential.
func parseLoginResponse(doc *etree.Document) (bravo.Credential, error) {
	ret := doc.FindElement("//loginCmsReturn")
	if ret == nil {
		return bravo.Credential{}, fmt.Errorf("%w: response has no loginCmsReturn", bravo.ErrAuthFailed)
	}

	ticket := etree.NewDocument()
	if err := ticket.ReadFromString(ret.Text()); err != nil {
		return bravo.Credential{}, fmt.Errorf("%w: unparsable ticket response: %v", bravo.ErrAuthFailed, err)
	}

	cred := bravo.Credential{}
	if e := ticket.FindElement("//credentials/token"); e != nil {
		cred.Token = e.Text()
	}
	if e := ticket.FindElement("//credentials/sign"); e != nil {
		cred.Sign = e.Text()
	}
	if e := ticket.FindElement("//header/expirationTime"); e != nil {
		exp, err := time.Parse(time.RFC3339, e.Text())
		if err != nil {
			return bravo.Credential{}, fmt.Errorf("%w: bad expirationTime %q", bravo.ErrAuthFailed, e.Text())
		}
		cred.Expiration = exp
	}

	if cred.Token == "" || cred.Sign == "" || cred.Expiration.IsZero() {
		return bravo.Credential{}, fmt.Errorf("%w: incomplete ticket response", bravo.ErrAuthFailed)
	}

	logger.WithField("expiration", cred.Expiration).Debug("WSAA ticket obtained")
	return cred, nil
}
