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

package inject

import (
	"bytes"
	"strings"

	"bennypowers.dev/swgen/generator"
	"bennypowers.dev/swgen/internal/logging"
	"bennypowers.dev/swgen/minify"
)

// registration is the script body installed into HTML entry points.
var registration = `if ('serviceWorker' in navigator) {
  window.addEventListener('load', function() {
    navigator.serviceWorker.register('/` + generator.WorkerFile + `');
  });
}`

// snippet returns the script tag inserted before </body>. With a minifier the
// tag is a single line; otherwise each line is indented under indent and the
// text after the tag re-indents the closing body tag.
func snippet(indent string, minifier minify.Minifier, logger logging.Logger) string {
	if minifier != nil {
		out, ok := minify.OrOriginal(minifier, []byte(registration), "service worker registration", logger)
		if ok {
			return "<script>" + string(bytes.TrimSpace(out)) + "</script>"
		}
	}

	var tag strings.Builder
	tag.WriteString("<script>\n")
	for line := range strings.SplitSeq(registration, "\n") {
		tag.WriteString(indent)
		tag.WriteString("  ")
		tag.WriteString(line)
		tag.WriteString("\n")
	}
	tag.WriteString(indent)
	tag.WriteString("</script>\n")
	tag.WriteString(indent)
	return tag.String()
}
