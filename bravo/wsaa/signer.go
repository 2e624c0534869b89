package wsaa

import (
	"crypto"
	"crypto/x509"

	"github.com/go-faster/errors"
	"go.mozilla.org/pkcs7"

	"github.com/xguz/bravo/bravo/keys"
)

// Signer produces the security envelope WSAA expects around a TRA: a
// DER-encoded CMS SignedData. It is an interface so hosts can delegate
// to an HSM or any other signing backend.
type Signer interface {
	Sign(tra []byte) ([]byte, error)
}

// CMSSigner signs with an in-memory certificate and private key.
type CMSSigner struct {
	cert *x509.Certificate
	key  crypto.Signer
}

func NewCMSSigner(cert *x509.Certificate, key crypto.Signer) *CMSSigner {
	return &CMSSigner{cert: cert, key: key}
}

// NewCMSSignerFromFiles loads PEM material from disk. password may be
// nil for unencrypted keys.
func NewCMSSignerFromFiles(certPath, keyPath string, password []byte) (*CMSSigner, error) {
	cert, err := keys.LoadCertificateFromFile(certPath)
	if err != nil {
		return nil, err
	}
	key, err := keys.LoadSignerFromFile(keyPath, password)
	if err != nil {
		return nil, err
	}
	return &CMSSigner{cert: cert, key: key}, nil
}

func (s *CMSSigner) Sign(tra []byte) ([]byte, error) {
	signed, err := pkcs7.NewSignedData(tra)
	if err != nil {
		return nil, errors.Wrap(err, "init signed data")
	}
	if err := signed.AddSigner(s.cert, s.key, pkcs7.SignerInfoConfig{}); err != nil {
		return nil, errors.Wrap(err, "add signer")
	}
	der, err := signed.Finish()
	if err != nil {
		return nil, errors.Wrap(err, "finish signed data")
	}
	return der, nil
}
