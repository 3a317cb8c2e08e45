package server

import (
	"github.com/google/uuid"

	"go.leafdb/internal/auth"
)

type Session struct {
	id   string
	user *auth.User
}

func newSession() *Session {
	return &Session{id: uuid.New().String()}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) IsAuth() bool {
	return s.user != nil
}
