package server

import (
	"errors"

	"go.leafdb/internal/auth"
)

func (s *Server) createUserCommand(sess *Session, parts []string) Response {
	if !sess.IsAuth() {
		return Err(NoAuth)
	}

	if !sess.user.IsSuperuser() {
		return Err(NoPerm)
	}

	if len(parts) != 4 {
		return Usage("CREATEUSER <username> <password> <role>")
	}

	username := parts[1]

	if _, err := s.auth.Store().GetUser(username); err == nil {
		return Err(Msg("User already exists"))
	} else if !errors.Is(err, auth.ErrUserNotFound) {
		return Err(Msg(err.Error()))
	}

	role, err := auth.ParseRole(parts[3])
	if err != nil {
		return Err(Msg("Invalid Role"))
	}

	u, err := auth.NewUser(username, parts[2], role)
	if err != nil {
		return Err(Msg("Failed to hash password"))
	}

	if err := s.auth.Store().SaveUser(u); err != nil {
		return Err(Msg(err.Error()))
	}

	s.log.Infof("session %s: created user %s (%s)", sess.ID(), username, role)
	return Respond(OK)
}

func (s *Server) delUserCommand(sess *Session, parts []string) Response {
	if !sess.IsAuth() {
		return Err(NoAuth)
	}

	if !sess.user.IsSuperuser() {
		return Err(NoPerm)
	}

	if len(parts) != 2 {
		return Usage("DELUSER <username>")
	}

	if err := s.auth.Store().DeleteUser(parts[1]); err != nil {
		return Err(Msg(err.Error()))
	}

	s.log.Infof("session %s: deleted user %s", sess.ID(), parts[1])
	return Respond(OK)
}
