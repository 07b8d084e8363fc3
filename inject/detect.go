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
	_ "embed"
	"fmt"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsTypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

//go:embed queries/register.scm
var registerQuerySource string

var typescript = ts.NewLanguage(tsTypescript.LanguageTypescript())

var parserPool = sync.Pool{
	New: func() any {
		parser := ts.NewParser()
		if err := parser.SetLanguage(typescript); err != nil {
			panic("failed to set TypeScript language: " + err.Error())
		}
		return parser
	},
}

func getParser() *ts.Parser {
	return parserPool.Get().(*ts.Parser)
}

func putParser(p *ts.Parser) {
	p.Reset()
	parserPool.Put(p)
}

var registerQuery = sync.OnceValues(func() (*ts.Query, error) {
	query, qerr := ts.NewQuery(typescript, registerQuerySource)
	if qerr != nil {
		return nil, fmt.Errorf("failed to parse register query: %w", qerr)
	}
	return query, nil
})

// registers reports whether script calls serviceWorker.register, through
// navigator or any other object path.
func registers(script []byte) (bool, error) {
	query, err := registerQuery()
	if err != nil {
		return false, err
	}

	parser := getParser()
	defer putParser(parser)

	tree := parser.Parse(script, nil)
	if tree == nil {
		return false, fmt.Errorf("failed to parse inline script")
	}
	defer tree.Close()

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	captureNames := query.CaptureNames()
	matches := cursor.Matches(query, tree.RootNode(), script)
	for {
		match := matches.Next()
		if match == nil {
			return false, nil
		}

		var method string
		var registrar *ts.Node
		for _, capture := range match.Captures {
			switch captureNames[capture.Index] {
			case "method":
				method = capture.Node.Utf8Text(script)
			case "registrar":
				registrar = &capture.Node
			}
		}
		if method == "register" && registrar != nil && isServiceWorker(registrar, script) {
			return true, nil
		}
	}
}

// isServiceWorker matches `serviceWorker` and `<anything>.serviceWorker`.
func isServiceWorker(node *ts.Node, src []byte) bool {
	switch node.Kind() {
	case "identifier":
		return node.Utf8Text(src) == "serviceWorker"
	case "member_expression":
		property := node.ChildByFieldName("property")
		return property != nil && property.Utf8Text(src) == "serviceWorker"
	}
	return false
}
