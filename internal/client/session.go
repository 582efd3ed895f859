package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/oksasatya/crateyy/internal/domain/entity"
)

// Session is the signed-in user as the client remembers it. It is loaded at
// startup, saved after login and cleared on logout; nothing else mutates it.
type Session struct {
	path string

	User  *entity.PublicUser `json:"user,omitempty"`
	Token string             `json:"token,omitempty"`
}

func NewSession(path string) *Session {
	return &Session{path: path}
}

func (s *Session) LoggedIn() bool { return s.User != nil && s.Token != "" }

func (s *Session) IsAdmin() bool {
	return s.LoggedIn() && s.User.Role == entity.RoleAdmin
}

func (s *Session) Set(u entity.PublicUser, token string) {
	s.User = &u
	s.Token = token
}

func (s *Session) Clear() {
	s.User = nil
	s.Token = ""
}

func (s *Session) Load() error {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.Clear()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(b, s); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}
	return nil
}

// Save writes the session; a cleared session removes the file.
func (s *Session) Save() error {
	if !s.LoggedIn() {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	return writeJSON(s.path, s)
}
