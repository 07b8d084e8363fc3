/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package logging provides the console logger used by the swgen pipeline.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger receives the per-artifact status lines the pipeline emits.
type Logger interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
}

// Options configures the logrus-backed logger.
type Options struct {
	// Level is a logrus level name. Defaults to "info".
	Level string
	// Format is "text" or "json". Defaults to "text".
	Format string
	// File, when set, receives output through a rotating writer instead of stderr.
	File string
	// MaxSizeMB is the rotation threshold for File. Defaults to 10.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept. Defaults to 3.
	MaxBackups int
}

// Logrus adapts a logrus entry to Logger. Success lines are info lines with
// status=success so they remain filterable in JSON output.
type Logrus struct {
	entry *logrus.Entry
}

// New builds a logger writing to stderr or to a rotating file.
func New(opts Options) (*Logrus, error) {
	levelName := opts.Level
	if levelName == "" {
		levelName = "info"
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelName, err)
	}

	output, err := buildOutput(opts)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetOutput(output)
	switch opts.Format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", opts.Format)
	}

	return &Logrus{entry: logrus.NewEntry(logger)}, nil
}

// NewFromEntry wraps an existing logrus entry.
func NewFromEntry(entry *logrus.Entry) *Logrus {
	return &Logrus{entry: entry}
}

func buildOutput(opts Options) (io.Writer, error) {
	if opts.File == "" {
		return os.Stderr, nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	maxBackups := opts.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 3
	}
	return &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		LocalTime:  true,
	}, nil
}

// With returns a logger that adds a field to every line.
func (l *Logrus) With(key string, value any) *Logrus {
	return &Logrus{entry: l.entry.WithField(key, value)}
}

// WithField adds a field to every line of l when l supports fields and
// returns l unchanged otherwise.
func WithField(l Logger, key string, value any) Logger {
	if lr, ok := l.(*Logrus); ok {
		return lr.With(key, value)
	}
	return l
}

// Entry exposes the underlying logrus entry.
func (l *Logrus) Entry() *logrus.Entry {
	return l.entry
}

func (l *Logrus) Info(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l *Logrus) Success(format string, args ...any) {
	l.entry.WithField("status", "success").Infof(format, args...)
}

func (l *Logrus) Warning(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l *Logrus) Error(format string, args ...any) {
	l.entry.Errorf(format, args...)
}

// Discard is a Logger that drops every line.
var Discard Logger = discard{}

type discard struct{}

func (discard) Info(string, ...any)    {}
func (discard) Success(string, ...any) {}
func (discard) Warning(string, ...any) {}
func (discard) Error(string, ...any)   {}
