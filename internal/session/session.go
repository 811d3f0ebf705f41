// Package session reads the signed-in identity that nib acts as.
// Login and token issuance happen elsewhere; nib only reads the result from
// ~/.config/nib/session.toml.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/nib/internal/inkwell"
)

const defaultSessionPath = "~/.config/nib/session.toml"

// Session is the stored identity. A zero UserID means anonymous.
type Session struct {
	Token    string `toml:"token"`
	UserID   int64  `toml:"user_id"`
	Username string `toml:"username"`
}

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// Load reads the session file. A missing file is an anonymous session.
func Load(path string) (Session, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Session{}, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := toml.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("parse session: %w", err)
	}
	s.Token = strings.TrimSpace(s.Token)
	s.Username = strings.TrimSpace(s.Username)
	if s.UserID < 0 {
		s.UserID = 0
	}
	return s, nil
}

// Save writes s to path, creating directories as needed. The file holds a
// credential and is written owner-only.
func Save(path string, s Session) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// CurrentActor returns the signed-in user, or nil when anonymous.
func (s Session) CurrentActor() *inkwell.Actor {
	if s.UserID <= 0 {
		return nil
	}
	return &inkwell.Actor{ID: s.UserID, Username: s.Username}
}

// SignedIn reports whether an identity is recorded.
func (s Session) SignedIn() bool {
	return s.CurrentActor() != nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultSessionPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
