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

package generator

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// RuntimeModule is the runtime support module every generated worker loads.
const RuntimeModule = "workbox-sw"

// RuntimeVersion is the runtime release the default URL template points at.
const RuntimeVersion = "6.5.4"

// DefaultRuntimeTemplate is where runtime modules are loaded from by default.
const DefaultRuntimeTemplate = "https://storage.googleapis.com/workbox-cdn/releases/{version}/{name}.js"

// Template represents a module URL template with variable placeholders.
// Supported variables:
//   - {name} - Module name (e.g., "workbox-sw")
//   - {version} - Runtime release (e.g., "6.6.0")
type Template struct {
	pattern   string
	variables []string
}

var variablePattern = regexp.MustCompile(`\{(\w+)\}`)

// ParseTemplate parses a module URL template pattern.
func ParseTemplate(pattern string) (*Template, error) {
	if pattern == "" {
		return nil, fmt.Errorf("template pattern cannot be empty")
	}

	matches := variablePattern.FindAllStringSubmatch(pattern, -1)
	var variables []string
	for _, match := range matches {
		variables = append(variables, match[1])
	}

	for _, v := range variables {
		if v != "name" && v != "version" {
			return nil, fmt.Errorf("unknown template variable: {%s}", v)
		}
	}

	return &Template{
		pattern:   pattern,
		variables: variables,
	}, nil
}

// Expand substitutes variables in the template with actual values.
func (t *Template) Expand(name, version string) string {
	result := t.pattern
	result = strings.ReplaceAll(result, "{name}", name)
	result = strings.ReplaceAll(result, "{version}", version)
	return result
}

// Pattern returns the original template pattern.
func (t *Template) Pattern() string {
	return t.pattern
}

// Variables returns the list of variables used in the template.
func (t *Template) Variables() []string {
	return t.variables
}

// HasName returns true if the template contains a {name} variable.
func (t *Template) HasName() bool {
	return slices.Contains(t.variables, "name")
}

// ModuleURL resolves a runtime module to the URL the worker imports it from.
// pattern is a template or a provider name; empty selects DefaultRuntimeTemplate.
func ModuleURL(pattern, name string) (string, error) {
	if pattern == "" {
		pattern = DefaultRuntimeTemplate
	}
	if provider := ProviderByName(pattern); provider != nil {
		pattern = provider.Template
	}
	tmpl, err := ParseTemplate(pattern)
	if err != nil {
		return "", err
	}
	return tmpl.Expand(name, RuntimeVersion), nil
}
