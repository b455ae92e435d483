// Package fileserver turns a single HTTP/1.1 request line into a response
// built from files under a fixed root directory.
package fileserver

import "github.com/fatih/color"

// Status is the outcome of a request.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusServerError
)

// Fixed response bodies.
const (
	BodyNotFound          = "Could not find requested file"
	BodyServerError       = "An unexpected error has occurred"
	BodyMethodUnsupported = "Method unsupported"
)

// Line returns the HTTP status line for s.
func (s Status) Line() string {
	switch s {
	case StatusOK:
		return "HTTP/1.1 200 OK"
	case StatusNotFound:
		return "HTTP/1.1 404 NOT FOUND"
	default:
		return "HTTP/1.1 500 INTERNAL SERVER ERROR"
	}
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "Ok"
	case StatusNotFound:
		return "NotFound"
	default:
		return "ServerError"
	}
}

var (
	okColor   = color.New(color.FgGreen).SprintFunc()
	warnColor = color.New(color.FgYellow).SprintFunc()
	errColor  = color.New(color.FgRed).SprintFunc()
)

// colored returns s.String() in a console colour matching its severity.
// Colour is dropped automatically when stdout is not a terminal.
func (s Status) colored() string {
	switch s {
	case StatusOK:
		return okColor(s.String())
	case StatusNotFound:
		return warnColor(s.String())
	default:
		return errColor(s.String())
	}
}
