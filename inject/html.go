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
	"io"
	"strings"

	"golang.org/x/net/html"
)

// document holds what the injector needs to know about an HTML file.
type document struct {
	// bodyEnd is the byte offset of the first </body> end tag, or -1.
	bodyEnd int
	// indent is the leading whitespace of the line holding </body>.
	indent string
	// scripts are the bodies of inline JavaScript script elements.
	scripts [][]byte
}

// scan tokenizes content, tracking byte offsets through the raw token text.
// Tags inside comments or script text are not tags and never match.
func scan(content []byte) document {
	doc := document{bodyEnd: -1}
	z := html.NewTokenizer(bytes.NewReader(content))

	offset := 0
	inScript := false
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				return doc
			}
			break
		}
		start := offset
		raw := z.Raw()
		offset += len(raw)

		switch tt {
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			inScript = string(name) == "script" && isJavaScriptType(scriptType(z, hasAttr))
		case html.TextToken:
			if inScript {
				doc.scripts = append(doc.scripts, append([]byte(nil), raw...))
			}
			inScript = false
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "body" && doc.bodyEnd < 0 {
				doc.bodyEnd = start
				doc.indent = lineIndent(content, start)
			}
			inScript = false
		default:
			inScript = false
		}
	}
	return doc
}

func scriptType(z *html.Tokenizer, hasAttr bool) string {
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if string(key) == "type" {
			return string(val)
		}
	}
	return ""
}

func isJavaScriptType(t string) bool {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", "module", "text/javascript", "application/javascript", "text/ecmascript", "application/ecmascript":
		return true
	}
	return false
}

// lineIndent returns the leading spaces and tabs of the line containing offset.
func lineIndent(content []byte, offset int) string {
	lineStart := bytes.LastIndexByte(content[:offset], '\n') + 1
	end := lineStart
	for end < offset && (content[end] == ' ' || content[end] == '\t') {
		end++
	}
	return string(content[lineStart:end])
}
