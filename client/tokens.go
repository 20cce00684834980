package client

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/portal/core/auth"
)

// TokenStorageKey is the key the session is persisted under.
const TokenStorageKey = "portal-professor.tokens"

// StoredTokens is the persisted client session.
type StoredTokens struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken,omitempty"`
	User         *auth.User `json:"user,omitempty"`
}

// TokenStore persists the client session. Read returns nil when nothing is stored.
type TokenStore interface {
	Read() (*StoredTokens, error)
	Write(tokens StoredTokens) error
	Clear() error
}

func storedSession(sess auth.Session) StoredTokens {
	usr := sess.User
	return StoredTokens{
		AccessToken:  sess.Tokens.AccessToken,
		RefreshToken: sess.Tokens.RefreshToken,
		User:         &usr,
	}
}

// MemoryTokenStore keeps the session in memory.
type MemoryTokenStore struct {
	mu    sync.Mutex
	items map[string][]byte
}

var _ TokenStore = (*MemoryTokenStore)(nil)

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{items: make(map[string][]byte)}
}

func (s *MemoryTokenStore) Read() (*StoredTokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decodeTokens(s.items[TokenStorageKey])
}

func (s *MemoryTokenStore) Write(tokens StoredTokens) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return errors.Wrap(err, "encoding tokens")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[TokenStorageKey] = data
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, TokenStorageKey)
	return nil
}

// FileTokenStore keeps the session in a JSON file of key/value items, readable only by its owner.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

var _ TokenStore = (*FileTokenStore)(nil)

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) load() (map[string]json.RawMessage, error) {
	items := make(map[string]json.RawMessage)
	data, err := ioutil.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return items, nil
		}
		return nil, errors.Wrap(err, "reading token file")
	}
	if len(data) == 0 {
		return items, nil
	}
	if err = json.Unmarshal(data, &items); err != nil {
		// a corrupted file is treated as empty
		return make(map[string]json.RawMessage), nil
	}
	return items, nil
}

func (s *FileTokenStore) save(items map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding token file")
	}
	if err = os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "creating token dir")
	}
	tmp := s.path + ".tmp"
	if err = ioutil.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "writing token file")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "replacing token file")
}

func (s *FileTokenStore) Read() (*StoredTokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return nil, err
	}
	return decodeTokens(items[TokenStorageKey])
}

func (s *FileTokenStore) Write(tokens StoredTokens) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return errors.Wrap(err, "encoding tokens")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	items[TokenStorageKey] = data
	return s.save(items)
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := items[TokenStorageKey]; !ok {
		return nil
	}
	delete(items, TokenStorageKey)
	return s.save(items)
}

func decodeTokens(data []byte) (*StoredTokens, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var tokens StoredTokens
	if err := json.Unmarshal(data, &tokens); err != nil || tokens.AccessToken == "" {
		return nil, nil
	}
	return &tokens, nil
}
