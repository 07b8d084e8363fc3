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

package config

import (
	"bytes"
	"encoding/json"
	"maps"
	"reflect"
	"slices"

	"github.com/go-viper/mapstructure/v2"

	"bennypowers.dev/swgen/packagejson"
)

// Resolve merges the raw "workbox" block over the defaults for bc.
//
// Absent keys keep their defaults. Scalars given for list options become
// one-element lists and lists are used verbatim. A recognized key whose value
// cannot be coerced is treated as absent and recorded in Ignored. Resolve
// performs no I/O and never fails.
func Resolve(bc BuildContext, raw json.RawMessage) *WorkerConfig {
	cfg := Defaults(bc)

	if len(bytes.TrimSpace(raw)) == 0 {
		return cfg
	}

	var user map[string]any
	if err := json.Unmarshal(raw, &user); err != nil {
		cfg.Ignored = append(cfg.Ignored, packagejson.ConfigKey)
		return cfg
	}

	fields := cfg.fields()
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		value, ok := user[key]
		if !ok || isAbsent(value) {
			continue
		}
		if err := decodeInto(fields[key], value); err != nil {
			cfg.Ignored = append(cfg.Ignored, key)
		}
	}

	cfg.GlobDirectory = absPath(bc.Root, cfg.GlobDirectory)
	cfg.OutputPath = absPath(bc.Root, cfg.OutputPath)
	return cfg
}

// fields maps package.json keys onto the fields they override.
func (c *WorkerConfig) fields() map[string]any {
	return map[string]any{
		"importScripts":                 &c.ImportScripts,
		"globDirectory":                 &c.GlobDirectory,
		"globPatterns":                  &c.GlobPatterns,
		"globIgnores":                   &c.GlobIgnores,
		"pathOut":                       &c.OutputPath,
		"maximumFileSizeToCacheInBytes": &c.MaximumFileSizeToCacheInBytes,
		"cacheId":                       &c.CacheID,
		"skipWaiting":                   &c.SkipWaiting,
		"clientsClaim":                  &c.ClientsClaim,
		"navigateFallback":              &c.NavigateFallback,
		"runtimeURL":                    &c.RuntimeURL,
	}
}

// isAbsent mirrors the falsy checks package.json consumers expect: null and
// the empty string mean "not set".
func isAbsent(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

// decodeInto decodes value into the field behind target, leaving the field
// untouched when decoding fails.
func decodeInto(target any, value any) error {
	ptr := reflect.ValueOf(target)
	tmp := reflect.New(ptr.Elem().Type())

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       scalarToSliceHook(),
		WeaklyTypedInput: true,
		Result:           tmp.Interface(),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(value); err != nil {
		return err
	}

	ptr.Elem().Set(tmp.Elem())
	return nil
}

// scalarToSliceHook wraps a single value in a one-element list when the
// target is a slice.
func scalarToSliceHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to.Kind() != reflect.Slice {
			return data, nil
		}
		switch from.Kind() {
		case reflect.Slice, reflect.Array:
			return data, nil
		}
		return []any{data}, nil
	}
}
