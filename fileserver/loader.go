package fileserver

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
	"unicode/utf8"
)

// Load reads the file at path in a single attempt and classifies the outcome.
// Missing files, including paths that run through a regular file, are
// StatusNotFound. Anything else that prevents returning the
// file as UTF-8 text, directories and unreadable files included, is
// StatusServerError.
func Load(path string) (Status, []byte) {
	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return StatusNotFound, []byte(BodyNotFound)
	case err != nil:
		return StatusServerError, []byte(BodyServerError)
	case !utf8.Valid(content):
		return StatusServerError, []byte(BodyServerError)
	}
	return StatusOK, content
}
