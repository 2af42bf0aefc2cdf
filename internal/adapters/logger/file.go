package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/emiliopalmerini/pausa/internal/util"
)

const logFileName = "pausa.log"

// FileLogger appends log lines to a file in the XDG data directory.
// Debug lines are written only when debug is enabled.
type FileLogger struct {
	mu    sync.Mutex
	file  *os.File
	log   *log.Logger
	debug bool
}

// NewFileLogger opens (or creates) the log file. When the file cannot be
// opened, logging falls back to stderr so the caller never has to handle a
// logger error.
func NewFileLogger(debug bool) *FileLogger {
	l := &FileLogger{debug: debug}

	dir, err := util.GetXDGDataDir()
	if err == nil {
		err = os.MkdirAll(dir, 0755)
	}
	if err == nil {
		l.file, err = os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: log file unavailable: %v\n", err)
		l.log = log.New(os.Stderr, "pausa ", log.LstdFlags)
		return l
	}

	l.log = log.New(l.file, "", log.LstdFlags|log.Lmicroseconds)
	return l
}

func (l *FileLogger) Debug(message string) {
	if !l.debug {
		return
	}
	l.write("DEBUG", message)
}

func (l *FileLogger) Error(message string) {
	l.write("ERROR", message)
}

func (l *FileLogger) write(level, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log.Printf("[%s] %s", level, message)
}

// Close closes the underlying file.
func (l *FileLogger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string) {}
func (NopLogger) Error(string) {}
