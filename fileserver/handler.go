package fileserver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/dustin/go-humanize"
)

// MaxRequestLine bounds how much is read while waiting for the request line.
const MaxRequestLine = 1 << 20

// Handler answers one request per connection.
type Handler struct {
	resolver *Resolver
	log      *log.Logger
}

func NewHandler(resolver *Resolver, logger *log.Logger) *Handler {
	return &Handler{resolver: resolver, log: logger}
}

// ServeConn reads the request line from conn, writes the response and
// returns. Headers and body are never read. If no complete line arrives the
// error is returned and nothing is written; closing conn is up to the caller.
func (h *Handler) ServeConn(conn io.ReadWriter) error {
	line, err := readRequestLine(conn)
	if err != nil {
		return fmt.Errorf("read request line: %w", err)
	}
	h.log.Printf("Requested %q", line)

	status, body, path := h.Respond(line)
	h.log.Printf("Responding with %s - %s (%s)", path, status.colored(), humanize.Bytes(uint64(len(body))))

	if _, err := conn.Write(Format(status, body)); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

// Respond computes the response for a request line. The returned path is the
// resolved file, empty when the filesystem was not consulted.
func (h *Handler) Respond(line string) (Status, []byte, string) {
	parts := strings.Split(line, " ")
	if parts[0] != "GET" || len(parts) < 2 {
		return StatusServerError, []byte(BodyMethodUnsupported), ""
	}

	path, err := h.resolver.Locate(parts[1])
	if errors.Is(err, ErrOutsideRoot) {
		h.log.Printf("Rejected %q: %v", parts[1], err)
		return StatusNotFound, []byte(BodyNotFound), path
	}
	if err != nil {
		h.log.Printf("Could not locate %q: %v", parts[1], err)
		return StatusServerError, []byte(BodyServerError), path
	}

	status, body := Load(path)
	return status, body, path
}

func readRequestLine(r io.Reader) (string, error) {
	br := bufio.NewReader(io.LimitReader(r, MaxRequestLine))
	line, err := br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
