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

// Package output provides shared output utilities for swgen CLI commands.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"bennypowers.dev/swgen/fs"
	"bennypowers.dev/swgen/internal/logging"
	"bennypowers.dev/swgen/pipeline"
)

// Logger builds the logger configured by the root logging flags.
func Logger() (*logging.Logrus, error) {
	return logging.New(logging.Options{
		Level:  viper.GetString("log-level"),
		Format: viper.GetString("log-format"),
		File:   viper.GetString("log-file"),
	})
}

// Write prints text to stdout, or to the file named by viper's "output" flag.
func Write(osfs fs.FileSystem, text string) error {
	if outputPath := viper.GetString("output"); outputPath != "" {
		return osfs.WriteFile(outputPath, []byte(text+"\n"), 0644)
	}
	fmt.Println(text)
	return nil
}

// Report formats a pipeline report and writes it with Write.
func Report(osfs fs.FileSystem, r *pipeline.Report, format string) error {
	text, err := FormatReport(r, format)
	if err != nil {
		return err
	}
	return Write(osfs, text)
}

// FormatReport renders r as "text" or "json".
func FormatReport(r *pipeline.Report, format string) (string, error) {
	switch format {
	case "json":
		out, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("error marshaling report: %w", err)
		}
		return string(out), nil
	case "", "text":
		return formatText(r), nil
	default:
		return "", fmt.Errorf("invalid format %q: must be 'text' or 'json'", format)
	}
}

func formatText(r *pipeline.Report) string {
	var b strings.Builder
	if r.Skipped {
		fmt.Fprintf(&b, "run %s: skipped (production not enabled)", r.RunID)
		return b.String()
	}

	fmt.Fprintf(&b, "run %s: %s\n", r.RunID, r.OutputPath)
	artifacts := r.Artifacts()
	for _, a := range artifacts {
		path := a.Path
		if path == "" {
			path = a.Source
		}
		fmt.Fprintf(&b, "  %-6s  %-7s  %s", a.Kind, a.Status, path)
		switch {
		case a.Error != "":
			fmt.Fprintf(&b, ": %s", a.Error)
		case a.Reason != "":
			fmt.Fprintf(&b, ": %s", a.Reason)
		case a.Bytes > 0 && a.Minified:
			fmt.Fprintf(&b, " (%d bytes, minified)", a.Bytes)
		case a.Bytes > 0:
			fmt.Fprintf(&b, " (%d bytes)", a.Bytes)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%d artifacts, %d failed, %dms", len(artifacts), r.Failed(), r.Duration)
	return b.String()
}
