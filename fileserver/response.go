package fileserver

import "strconv"

const crlf = "\r\n"

// Format renders status and body as a response: status line, Content-Length
// and a blank line, followed by the body unchanged.
func Format(status Status, body []byte) []byte {
	length := strconv.Itoa(len(body))
	out := make([]byte, 0, len(status.Line())+len(length)+len(body)+24)
	out = append(out, status.Line()...)
	out = append(out, crlf...)
	out = append(out, "Content-Length: "...)
	out = append(out, length...)
	out = append(out, crlf+crlf...)
	return append(out, body...)
}
