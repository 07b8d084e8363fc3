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

// Package generator produces worker source text embedding a precache manifest.
// The pipeline only depends on the Generator interface; Workbox is the default
// implementation.
package generator

import (
	"context"

	"bennypowers.dev/swgen/config"
)

// WorkerFile is the file name of the generated worker.
const WorkerFile = "sw.js"

// Generator turns a resolved configuration into worker source.
// The configuration's ImportScripts must already hold their final names.
type Generator interface {
	Generate(ctx context.Context, cfg *config.WorkerConfig) (string, error)
}

// Func adapts a function to Generator.
type Func func(ctx context.Context, cfg *config.WorkerConfig) (string, error)

func (f Func) Generate(ctx context.Context, cfg *config.WorkerConfig) (string, error) {
	return f(ctx, cfg)
}
