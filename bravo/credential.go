package bravo

import "time"

// Credential is the short-lived access ticket issued by WSAA. It is
// valid strictly until the expiration the authority declared; no local
// TTL is assumed.
type Credential struct {
	Token      string    `yaml:"token"`
	Sign       string    `yaml:"sign"`
	Expiration time.Time `yaml:"expiration"`
}

// ValidAt reports whether the credential can still be used at now.
func (c Credential) ValidAt(now time.Time) bool {
	if c.Token == "" || c.Sign == "" || c.Expiration.IsZero() {
		return false
	}
	return now.UTC().Before(c.Expiration.UTC())
}

// AuthTriple is what every WSFE request carries in its Auth block.
type AuthTriple struct {
	Token string
	Sign  string
	Cuit  string
}
