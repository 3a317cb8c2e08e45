package server

import (
	"bytes"
	"strings"

	"go.leafdb/internal/engine"
	"go.leafdb/internal/statement"
	"go.leafdb/internal/storage"
)

func (s *Server) authCommand(sess *Session, parts []string) Response {
	if len(parts) != 3 {
		return Usage("AUTH <username> <password>")
	}

	u, err := s.auth.Authenticate(parts[1], parts[2])
	if err != nil {
		s.log.Warnf("session %s: auth failed for %s: %v", sess.ID(), parts[1], err)
		return Err(Msg(err.Error()))
	}

	sess.user = u
	s.log.Infof("session %s: authenticated %s (%s)", sess.ID(), u.Username, u.Role)
	return Respond(OK)
}

func (s *Server) metaCommand(sess *Session, line string) Response {
	if !sess.IsAuth() {
		return Err(NoAuth)
	}

	var buf bytes.Buffer
	switch line {
	case ".btree":
		s.mu.Lock()
		err := s.db.WriteTree(&buf)
		s.mu.Unlock()
		if err != nil {
			return s.storeFailure(sess, err)
		}
	case ".constants":
		engine.WriteConstants(&buf)
	case ".exit":
		return Response{Msg: Bye, Close: true}
	default:
		return Err(Msg("Unrecognized command '" + line + "'"))
	}

	return Respond(Msg(strings.TrimSuffix(buf.String(), "\n")))
}

func (s *Server) statementCommand(sess *Session, line string) Response {
	if !sess.IsAuth() {
		return Err(NoAuth)
	}

	st, err := statement.Prepare(line)
	if err != nil {
		return Err(Msg(err.Error()))
	}

	if st.Kind == statement.Insert && !sess.user.CanWrite() {
		return Err(NoPerm)
	}

	s.mu.Lock()
	res, rows, err := s.db.Execute(st)
	s.mu.Unlock()
	if err != nil {
		return s.storeFailure(sess, err)
	}

	lines := make([]string, 0, len(rows)+1)
	for _, row := range rows {
		lines = append(lines, row.String())
	}
	lines = append(lines, res.String())
	return Lines(lines)
}

// storeFailure reports a storage error. A fatal error closes the connection
// and stops the server once the reply is written.
func (s *Server) storeFailure(sess *Session, err error) Response {
	s.log.Errorf("session %s: %v", sess.ID(), err)
	if storage.IsFatal(err) {
		return Response{Msg: Msg("ERR: " + err.Error()), Close: true, Fatal: err}
	}
	return Err(Msg(err.Error()))
}
