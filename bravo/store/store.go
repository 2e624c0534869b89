// Package store persists cached WSAA credentials between processes.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/xguz/bravo/bravo"
)

var logger = logrus.WithField("component", "bravo.store")

// CredentialStore is a key-value persistence keyed by issuer CUIT. Load
// returns ok=false for a missing record; a present-but-expired record is
// the broker's concern, not the store's.
type CredentialStore interface {
	Load(cuit string) (bravo.Credential, bool, error)
	Save(cuit string, cred bravo.Credential) error
}

// FileStore keeps one YAML file per CUIT under dir. The record survives
// process restarts so short-lived tooling does not re-login needlessly.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(cuit string) string {
	return filepath.Join(s.dir, fmt.Sprintf("bravo_%s.yml", cuit))
}

func (s *FileStore) Load(cuit string) (bravo.Credential, bool, error) {
	b, err := os.ReadFile(s.path(cuit))
	if os.IsNotExist(err) {
		return bravo.Credential{}, false, nil
	}
	if err != nil {
		return bravo.Credential{}, false, fmt.Errorf("read credential file: %w", err)
	}

	var cred bravo.Credential
	if err := yaml.Unmarshal(b, &cred); err != nil {
		// A corrupt cache file is treated as a miss so the broker can
		// overwrite it with a fresh login.
		logger.WithField("cuit", cuit).Warnf("discarding unreadable credential file: %v", err)
		return bravo.Credential{}, false, nil
	}
	return cred, true, nil
}

func (s *FileStore) Save(cuit string, cred bravo.Credential) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	b, err := yaml.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	if err := os.WriteFile(s.path(cuit), b, 0o600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}

	logger.WithField("cuit", cuit).Debug("credential saved")
	return nil
}

// MemoryStore is an in-process CredentialStore for tests and hosts that
// do not want a file cache.
type MemoryStore struct {
	records map[string]bravo.Credential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]bravo.Credential)}
}

func (s *MemoryStore) Load(cuit string) (bravo.Credential, bool, error) {
	cred, ok := s.records[cuit]
	return cred, ok, nil
}

func (s *MemoryStore) Save(cuit string, cred bravo.Credential) error {
	s.records[cuit] = cred
	return nil
}
