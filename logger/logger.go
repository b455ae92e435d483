package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"

	"github.com/xplshn/tracerr2"
)

// Logger is the global logger instance. It writes to stdout until InitLogger runs.
var Logger = log.New(os.Stdout, "", log.LstdFlags)

var logFile *os.File

// InitLogger initializes logging to stdout and, when logDir is set, to logDir/tinyhttpd.log
func InitLogger(logDir string) error {
	var out io.Writer = os.Stdout
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return tracerr.Wrapf(err, "error creating logs directory %s", logDir)
		}
		f, err := os.OpenFile(filepath.Join(logDir, "tinyhttpd.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return tracerr.Wrapf(err, "error opening log file")
		}
		Close()
		logFile = f
		out = io.MultiWriter(os.Stdout, &plainWriter{Writer: f})
	}
	Logger = New(out)
	return nil
}

// New returns a logger writing to w
func New(w io.Writer) *log.Logger {
	return log.New(w, "", log.LstdFlags)
}

// Close closes the log file opened by InitLogger, if any
func Close() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// plainWriter wraps an io.Writer to strip console colour codes, so the log
// file stays plain text while stdout keeps its colours
type plainWriter struct {
	Writer io.Writer
}

func (pw *plainWriter) Write(p []byte) (n int, err error) {
	if _, err := pw.Writer.Write(ansiEscape.ReplaceAll(p, nil)); err != nil {
		return 0, err
	}
	return len(p), nil
}
