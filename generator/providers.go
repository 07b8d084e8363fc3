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

// Provider is a CDN serving the runtime support module.
type Provider struct {
	Name string
	// Template is the module URL template. Variables: {name}, {version}
	Template string
}

// Runtime CDN providers
var (
	// Google is the Workbox project's own CDN.
	Google = Provider{
		Name:     "google",
		Template: DefaultRuntimeTemplate,
	}

	// Jsdelivr is the jsDelivr npm CDN.
	Jsdelivr = Provider{
		Name:     "jsdelivr",
		Template: "https://cdn.jsdelivr.net/npm/{name}@{version}/build/{name}.js",
	}

	// Unpkg is the unpkg npm CDN.
	Unpkg = Provider{
		Name:     "unpkg",
		Template: "https://unpkg.com/{name}@{version}/build/{name}.js",
	}
)

// ProviderByName returns a runtime CDN provider by name or alias, or nil.
func ProviderByName(name string) *Provider {
	switch name {
	case "google", "workbox-cdn", "storage.googleapis.com":
		return &Google
	case "jsdelivr", "jsdelivr.net", "cdn.jsdelivr.net":
		return &Jsdelivr
	case "unpkg", "unpkg.com":
		return &Unpkg
	default:
		return nil
	}
}

// ProviderNames returns the canonical provider names.
func ProviderNames() []string {
	return []string{Google.Name, Jsdelivr.Name, Unpkg.Name}
}
