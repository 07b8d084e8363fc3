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

package logging

import (
	"fmt"
	"strings"
	"sync"
)

// Line is one message captured by a Recorder.
type Line struct {
	Level   string
	Message string
}

// Recorder is a Logger that keeps every line in memory. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	lines []Line
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, Line{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (r *Recorder) Info(format string, args ...any)    { r.add("info", format, args...) }
func (r *Recorder) Success(format string, args ...any) { r.add("success", format, args...) }
func (r *Recorder) Warning(format string, args ...any) { r.add("warning", format, args...) }
func (r *Recorder) Error(format string, args ...any)   { r.add("error", format, args...) }

// Lines returns a copy of the captured lines.
func (r *Recorder) Lines() []Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Line(nil), r.lines...)
}

// Count returns how many lines were logged at level.
func (r *Recorder) Count(level string) int {
	n := 0
	for _, line := range r.Lines() {
		if line.Level == level {
			n++
		}
	}
	return n
}

// Contains reports whether any line at level contains substr.
func (r *Recorder) Contains(level, substr string) bool {
	for _, line := range r.Lines() {
		if line.Level == level && strings.Contains(line.Message, substr) {
			return true
		}
	}
	return false
}
