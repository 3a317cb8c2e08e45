package server

import "strings"

type Msg string

const (
	Prompt Msg = "leafdb> "
	OK     Msg = "OK"
	Bye    Msg = "BYE"

	NoAuth Msg = "Not authenticated"
	NoPerm Msg = "Permission denied"
)

type Response struct {
	Msg   Msg
	Close bool
	// Fatal stops the server after the reply is sent
	Fatal error
}

func Respond(m Msg) Response {
	return Response{Msg: m}
}

func Err(m Msg) Response {
	return Response{Msg: "ERR: " + m}
}

func Usage(u string) Response {
	return Err(Msg("Usage " + u))
}

func Lines(lines []string) Response {
	return Response{Msg: Msg(strings.Join(lines, "\n"))}
}
