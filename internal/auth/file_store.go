package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/pkg/console"
)

// FileTokenStore persists the token to a YAML credentials file so that it
// survives process restarts. The file is re-read on every Get, which lets
// several processes share one session.
type FileTokenStore struct {
	path  string
	mutex sync.Mutex
	now   func() time.Time
}

var _ console.TokenStore = (*FileTokenStore)(nil)

// NewFileTokenStore creates a store backed by path. The file need not exist.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path, now: time.Now}
}

// Path returns the credentials file location.
func (s *FileTokenStore) Path() string {
	return s.path
}

// Get returns the stored token, or "" when the file is missing or the token
// has passed its expiry hint.
func (s *FileTokenStore) Get() (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	token, err := s.load()
	if err != nil {
		return "", err
	}

	if !token.validAt(s.now()) {
		return "", nil
	}

	return token.AccessToken, nil
}

// Set writes the token to disk.
func (s *FileTokenStore) Set(accessToken string, ttl time.Duration) error {
	token, err := newToken(accessToken, ttl, s.now())
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.save(token)
}

// Clear deletes the credentials file. A missing file is not an error.
func (s *FileTokenStore) Clear() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing credentials file: %w", err)
	}

	return nil
}

// Current returns the raw stored token, including an expired one.
func (s *FileTokenStore) Current() (Token, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	token, err := s.load()
	if err != nil || token == nil {
		return Token{}, false, err
	}

	return *token, true, nil
}

func (s *FileTokenStore) load() (*Token, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	var token Token

	err = yaml.Unmarshal(data, &token)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}

	return &token, nil
}

func (s *FileTokenStore) save(token *Token) error {
	dir := filepath.Dir(s.path)

	err := os.MkdirAll(dir, constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	data, err := yaml.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("creating temporary credentials file: %w", err)
	}

	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}

	err = os.Chmod(tmpPath, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("setting credentials file permissions: %w", err)
	}

	err = os.Rename(tmpPath, s.path)
	if err != nil {
		return fmt.Errorf("replacing credentials file: %w", err)
	}

	return nil
}
