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

// Package minify defines the minifier boundary used for imported scripts, the
// generated worker and the registration snippet, with an esbuild implementation.
package minify

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"bennypowers.dev/swgen/internal/logging"
)

// Minifier minifies JavaScript source.
type Minifier interface {
	Minify(src []byte) ([]byte, error)
}

// Func adapts a function to Minifier.
type Func func(src []byte) ([]byte, error)

func (f Func) Minify(src []byte) ([]byte, error) {
	return f(src)
}

// ErrEmptyResult is returned when a minifier reports success with no output
// for non-empty input.
var ErrEmptyResult = errors.New("minifier produced no output")

// ESBuild minifies with esbuild's transform API.
type ESBuild struct {
	// Target is the ECMAScript target. Defaults to api.ES2017.
	Target api.Target
}

// NewESBuild creates an esbuild minifier with default settings.
func NewESBuild() *ESBuild {
	return &ESBuild{Target: api.ES2017}
}

// Minify implements Minifier.
func (m *ESBuild) Minify(src []byte) ([]byte, error) {
	target := m.Target
	if target == api.DefaultTarget {
		target = api.ES2017
	}

	result := api.Transform(string(src), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            target,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		LegalComments:     api.LegalCommentsNone,
	})
	if len(result.Errors) > 0 {
		return nil, messagesError(result.Errors)
	}
	return result.Code, nil
}

func messagesError(msgs []api.Message) error {
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Location != nil {
			parts = append(parts, fmt.Sprintf("%d:%d: %s", msg.Location.Line, msg.Location.Column, msg.Text))
		} else {
			parts = append(parts, msg.Text)
		}
	}
	return fmt.Errorf("minify: %s", strings.Join(parts, "; "))
}

// OrOriginal minifies src and falls back to src when the minifier fails or
// returns nothing. The returned bool reports whether minified output was used.
// A failure is logged as a warning naming what, never returned.
func OrOriginal(m Minifier, src []byte, what string, logger logging.Logger) ([]byte, bool) {
	out, err := safeMinify(m, src)
	if err == nil && len(bytes.TrimSpace(out)) == 0 && len(bytes.TrimSpace(src)) > 0 {
		err = ErrEmptyResult
	}
	if err != nil {
		logger.Warning("Failed to minify %s: %v", what, err)
		return src, false
	}
	return out, true
}

// safeMinify converts a minifier panic into an error.
func safeMinify(m Minifier, src []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("minifier panicked: %v", r)
		}
	}()
	return m.Minify(src)
}
