package filestore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pscheid92/nlpnavigator/internal/adapter/metrics"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	"gopkg.in/yaml.v3"
)

type credentialEntry struct {
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
	Email    string `yaml:"email"`
}

// credentialDocument mirrors credentials.usernames.<username>. Other top-level keys
// (cookie settings, preauthorized lists) are carried through untouched.
type credentialDocument struct {
	Credentials struct {
		Usernames map[string]credentialEntry `yaml:"usernames"`
	} `yaml:"credentials"`
	Rest map[string]any `yaml:",inline"`
}

// CredentialStore keeps accounts in a YAML document. Usernames are case-insensitive.
type CredentialStore struct {
	file *lockedFile
}

var _ domain.CredentialStore = (*CredentialStore)(nil)

func NewCredentialStore(path string, m *metrics.StoreMetrics) *CredentialStore {
	return &CredentialStore{file: newLockedFile("credentials", path, m)}
}

func (s *CredentialStore) Exists(ctx context.Context, username string) (bool, error) {
	cred, err := s.Lookup(ctx, username)
	if err != nil {
		return false, err
	}
	return cred != nil, nil
}

// Lookup returns nil, nil for an unknown username.
func (s *CredentialStore) Lookup(ctx context.Context, username string) (*domain.UserCredential, error) {
	data, err := s.file.read(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := s.decode(data)
	if err != nil {
		return nil, err
	}

	key := normalizeUsername(username)
	entry, ok := doc.entry(key)
	if !ok {
		return nil, nil
	}
	return &domain.UserCredential{
		Username:     key,
		Name:         entry.Name,
		PasswordHash: entry.Password,
		Email:        entry.Email,
	}, nil
}

// Register adds cred. An existing username yields ErrUsernameTaken and the document
// is not rewritten.
func (s *CredentialStore) Register(ctx context.Context, cred domain.UserCredential) error {
	key := normalizeUsername(cred.Username)
	if key == "" {
		return fmt.Errorf("username must not be empty")
	}

	return s.file.update(ctx, func(current []byte) ([]byte, error) {
		doc, err := s.decode(current)
		if err != nil {
			return nil, err
		}
		if _, taken := doc.entry(key); taken {
			return nil, fmt.Errorf("%w: %s", domain.ErrUsernameTaken, key)
		}
		if doc.Credentials.Usernames == nil {
			doc.Credentials.Usernames = make(map[string]credentialEntry)
		}
		doc.Credentials.Usernames[key] = credentialEntry{
			Name:     cred.Name,
			Password: cred.PasswordHash,
			Email:    cred.Email,
		}

		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode credentials: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode credentials: %w", err)
		}
		return buf.Bytes(), nil
	})
}

// entry finds key among the document's usernames ignoring case. Keys written by
// other tools keep their spelling on rewrite.
func (d *credentialDocument) entry(key string) (credentialEntry, bool) {
	if e, ok := d.Credentials.Usernames[key]; ok {
		return e, true
	}
	for name, e := range d.Credentials.Usernames {
		if normalizeUsername(name) == key {
			return e, true
		}
	}
	return credentialEntry{}, false
}

func (s *CredentialStore) decode(data []byte) (*credentialDocument, error) {
	var doc credentialDocument
	if len(bytes.TrimSpace(data)) == 0 {
		return &doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedStore, s.file.path, err)
	}
	return &doc, nil
}

func normalizeUsername(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}
