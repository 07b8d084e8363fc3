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

package output_test

import (
	"encoding/json"
	"testing"

	"bennypowers.dev/swgen/internal/output"
	"bennypowers.dev/swgen/pipeline"
)

func sampleReport() *pipeline.Report {
	return &pipeline.Report{
		RunID:      "3f2b",
		OutputPath: "/proj/dist",
		Scripts: []pipeline.Artifact{
			{Kind: pipeline.KindScript, Path: "/proj/dist/push.js", Source: "scripts/push.js", Bytes: 42, Minified: true, Status: pipeline.StatusWritten},
			{Kind: pipeline.KindScript, Source: "scripts/gone.js", Status: pipeline.StatusFailed, Error: "reading import script scripts/gone.js: file does not exist"},
		},
		Worker:   &pipeline.Artifact{Kind: pipeline.KindWorker, Path: "/proj/dist/sw.js", Bytes: 512, Status: pipeline.StatusWritten},
		HTML:     &pipeline.Artifact{Kind: pipeline.KindHTML, Path: "/proj/dist/index.html", Status: pipeline.StatusSkipped, Reason: "already registered"},
		Duration: 7,
	}
}

func TestFormatReportText(t *testing.T) {
	got, err := output.FormatReport(sampleReport(), "text")
	if err != nil {
		t.Fatalf("FormatReport failed: %v", err)
	}

	want := `run 3f2b: /proj/dist
  script  written  /proj/dist/push.js (42 bytes, minified)
  script  failed   scripts/gone.js: reading import script scripts/gone.js: file does not exist
  worker  written  /proj/dist/sw.js (512 bytes)
  html    skipped  /proj/dist/index.html: already registered
4 artifacts, 1 failed, 7ms`
	if got != want {
		t.Errorf("FormatReport() =\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatReportSkipped(t *testing.T) {
	got, err := output.FormatReport(&pipeline.Report{RunID: "abc", Skipped: true}, "text")
	if err != nil {
		t.Fatalf("FormatReport failed: %v", err)
	}
	if got != "run abc: skipped (production not enabled)" {
		t.Errorf("FormatReport() = %q", got)
	}
}

func TestFormatReportJSON(t *testing.T) {
	got, err := output.FormatReport(sampleReport(), "json")
	if err != nil {
		t.Fatalf("FormatReport failed: %v", err)
	}

	var decoded struct {
		RunID   string              `json:"run_id"`
		Scripts []pipeline.Artifact `json:"scripts"`
		HTML    pipeline.Artifact   `json:"html"`
	}
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, got)
	}
	if decoded.RunID != "3f2b" || len(decoded.Scripts) != 2 || decoded.HTML.Reason != "already registered" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestFormatReportInvalidFormat(t *testing.T) {
	if _, err := output.FormatReport(sampleReport(), "yaml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
