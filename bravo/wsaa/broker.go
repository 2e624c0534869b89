package wsaa

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/xguz/bravo/bravo"
	"github.com/xguz/bravo/bravo/store"
)

// CredentialBroker owns the cached WSAA credential for one issuer. It is
// the sole path by which other components obtain auth data: it loads the
// cached record, decides whether it is still valid against the declared
// expiration, and performs a remote login only when needed.
//
// Concurrent Ensure calls are serialized with a mutex so two goroutines
// observing an expired cache trigger a single login.
type CredentialBroker struct {
	cuit     string
	env      bravo.Environment
	keyPath  string
	certPath string

	login LoginService
	store store.CredentialStore
	clock clockwork.Clock

	mu     sync.Mutex
	cached bravo.Credential
}

type BrokerOption func(*CredentialBroker)

// WithClock substitutes the clock, for tests.
func WithClock(c clockwork.Clock) BrokerOption {
	return func(b *CredentialBroker) { b.clock = c }
}

func NewCredentialBroker(cfg bravo.Config, login LoginService, st store.CredentialStore, opts ...BrokerOption) *CredentialBroker {
	b := &CredentialBroker{
		cuit:     cfg.Cuit,
		env:      cfg.Environment,
		keyPath:  cfg.PrivateKeyPath,
		certPath: cfg.CertificatePath,
		login:    login,
		store:    st,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Ensure returns a valid credential, logging in remotely if the cache is
// missing or expired. Nothing partial is ever cached: on login failure
// the previous record is left untouched.
func (b *CredentialBroker) Ensure(ctx context.Context) (bravo.Credential, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ensureLocked(ctx)
}

// AuthTriple returns the token/sign/CUIT triple for a WSFE Auth block,
// ensuring a valid credential first.
func (b *CredentialBroker) AuthTriple(ctx context.Context) (bravo.AuthTriple, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cred, err := b.ensureLocked(ctx)
	if err != nil {
		return bravo.AuthTriple{}, err
	}
	return bravo.AuthTriple{Token: cred.Token, Sign: cred.Sign, Cuit: b.cuit}, nil
}

func (b *CredentialBroker) ensureLocked(ctx context.Context) (bravo.Credential, error) {

	now := b.clock.Now()

	if b.cached.ValidAt(now) {
		return b.cached, nil
	}

	if _, err := b.env.WsaaURL(); err != nil {
		return bravo.Credential{}, err
	}
	if err := b.checkMaterial(); err != nil {
		return bravo.Credential{}, err
	}

	// Another process may have refreshed the shared cache already.
	if cred, ok, err := b.store.Load(b.cuit); err != nil {
		return bravo.Credential{}, err
	} else if ok && cred.ValidAt(now) {
		b.cached = cred
		return cred, nil
	}

	logger.WithField("cuit", b.cuit).Debug("no valid cached credential, performing WSAA login")

	cred, err := b.login.Login(ctx)
	if err != nil {
		return bravo.Credential{}, err
	}

	if err := b.store.Save(b.cuit, cred); err != nil {
		return bravo.Credential{}, fmt.Errorf("persist credential: %w", err)
	}

	b.cached = cred
	return cred, nil
}

// checkMaterial verifies the signing material exists before any remote
// call, mirroring the configuration-error taxonomy: a missing file is
// fatal and not retriable.
func (b *CredentialBroker) checkMaterial() error {
	for _, path := range []string{b.keyPath, b.certPath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s", bravo.ErrCertificateMissing, path)
		}
	}
	return nil
}
