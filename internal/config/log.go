package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Logger is Thurbox's sole destination for diagnostic output. Once the
// alternate screen is entered nothing may write to stdout/stderr, so every
// package logs through this instead of the standard logger's default
// writer.
var Logger = log.New(os.Stderr, "[thurbox] ", log.LstdFlags)

// InitLogging points Logger at <DataDir>/thurbox.log, opened in append
// mode, and returns the file so the caller can close it on shutdown. debug
// adds microsecond timestamps and short file:line, mirroring the teacher's
// -debug flag.
func InitLogging(debug bool) (*os.File, error) {
	if DataDir == "" {
		return nil, fmt.Errorf("config: InitDataDir must run before InitLogging")
	}
	f, err := os.OpenFile(filepath.Join(DataDir, "thurbox.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	flags := log.LstdFlags
	if debug {
		flags = log.LstdFlags | log.Lmicroseconds | log.Lshortfile
	}
	Logger = log.New(f, "[thurbox] ", flags)
	return f, nil
}
