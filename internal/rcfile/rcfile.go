// Package rcfile reads and writes the local credential cache, an INI file
// (by default ~/.azkabanrc) with one section per alias:
//
//	[prod]
//	url        = https://orchestrator.example.com:8443
//	user       = etl
//	session_id = 5a3b...
package rcfile

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// DefaultName is the credential file name inside the user's home directory.
const DefaultName = ".azkabanrc"

// Entry is the credential record cached under an alias.
type Entry struct {
	URL       string
	User      string
	SessionID string
}

// Store is an alias-keyed credential store backed by a single INI file.
type Store struct {
	path string
}

// NewStore returns a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the conventional credential file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to locate home directory: %w", err)
	}
	return filepath.Join(home, DefaultName), nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Lookup returns the entry cached under alias. The alias section must exist
// and carry a url; user and session_id are optional.
func (s *Store) Lookup(alias string) (Entry, error) {
	file, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	section, err := file.GetSection(alias)
	if err != nil {
		return Entry{}, fmt.Errorf("missing alias %q in %s", alias, s.path)
	}
	url := section.Key("url").String()
	if url == "" {
		return Entry{}, fmt.Errorf("missing url for alias %q in %s", alias, s.path)
	}
	return Entry{
		URL:       url,
		User:      section.Key("user").String(),
		SessionID: section.Key("session_id").String(),
	}, nil
}

// SaveSession updates the cached session token for alias and writes the
// file back. Tokens are secrets, so the file is written 0600.
func (s *Store) SaveSession(alias, sessionID string) error {
	file, err := s.load()
	if err != nil {
		return err
	}
	file.Section(alias).Key("session_id").SetValue(sessionID)
	if err := file.SaveTo(s.path); err != nil {
		return fmt.Errorf("unable to write %s: %w", s.path, err)
	}
	return os.Chmod(s.path, 0o600)
}

func (s *Store) load() (*ini.File, error) {
	file, err := ini.Load(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ini.Empty(), nil
		}
		return nil, fmt.Errorf("unable to read %s: %w", s.path, err)
	}
	return file, nil
}
