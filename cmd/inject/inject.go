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

// Package inject provides the inject command for swgen.
package inject

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"bennypowers.dev/swgen/fs"
	"bennypowers.dev/swgen/inject"
	"bennypowers.dev/swgen/internal/output"
	"bennypowers.dev/swgen/minify"
)

// Cmd is the inject command.
var Cmd = &cobra.Command{
	Use:   "inject",
	Short: "Register the service worker in HTML files in-place",
	Long: `Insert the service worker registration snippet into HTML files in-place.

Files that already call serviceWorker.register, and files without a closing
body tag, are left untouched. Use this for multi-page outputs where build
only patches index.html.`,
	Example: `  # Register the worker in every page
  swgen inject --glob "dist/**/*.html"

  # Single-line minified snippet, 8 workers
  swgen inject --glob "dist/**/*.html" --minify -j 8

  # Dry run to see what would change
  swgen inject --glob "dist/**/*.html" --dry-run`,
	RunE: run,
}

func init() {
	Cmd.Flags().String("glob", "", "Glob pattern to match HTML files (required)")
	Cmd.Flags().Bool("minify", false, "Insert a minified single-line snippet")
	Cmd.Flags().IntP("jobs", "j", 0, "Number of parallel workers (default: number of CPUs)")
	Cmd.Flags().Bool("dry-run", false, "Show what would change without modifying files")
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}

func run(cmd *cobra.Command, args []string) error {
	start := time.Now()
	osfs := fs.NewOSFileSystem()

	globPattern, _ := cmd.Flags().GetString("glob")
	if globPattern == "" {
		return fmt.Errorf("--glob is required")
	}

	matches, err := doublestar.FilepathGlob(globPattern, doublestar.WithFilesOnly())
	if err != nil {
		return fmt.Errorf("invalid glob pattern: %w", err)
	}

	if len(matches) == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no files matched the glob pattern")
		return nil
	}

	// Deduplicate by absolute path
	seen := make(map[string]struct{})
	var files []string
	for _, match := range matches {
		absPath, err := filepath.Abs(match)
		if err != nil {
			return fmt.Errorf("invalid file path %q: %w", match, err)
		}
		if _, exists := seen[absPath]; !exists {
			seen[absPath] = struct{}{}
			files = append(files, absPath)
		}
	}

	parallel, _ := cmd.Flags().GetInt("jobs")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	minifyFlag, _ := cmd.Flags().GetBool("minify")
	format, _ := cmd.Flags().GetString("format")

	logger, err := output.Logger()
	if err != nil {
		return err
	}

	opts := inject.Options{
		Logger:   logger,
		Parallel: parallel,
		DryRun:   dryRun,
	}
	if minifyFlag {
		opts.Minifier = minify.NewESBuild()
	}

	var stats inject.Stats
	encoder := json.NewEncoder(os.Stdout)
	for result := range inject.Batch(osfs, files, opts) {
		stats.Add(result)
		switch {
		case format == "json":
			_ = encoder.Encode(result)
		case result.Error != "":
			fmt.Fprintf(os.Stderr, "Error: %s: %s\n", result.File, result.Error)
		case result.Modified && dryRun:
			fmt.Printf("would inject into %s\n", result.File)
		}
	}
	stats.Duration = time.Since(start).Milliseconds()

	if format == "json" {
		statsJSON, _ := json.Marshal(stats)
		fmt.Println(string(statsJSON))
	} else if dryRun {
		fmt.Printf("\nDry run: %d files would be modified, %d unchanged, %d errors\n",
			stats.Modified, stats.Skipped, stats.Errors)
	} else {
		fmt.Printf("Injected: %d files modified, %d unchanged, %d errors\n",
			stats.Modified, stats.Skipped, stats.Errors)
	}

	if stats.Errors == stats.Total {
		return fmt.Errorf("all %d files failed", stats.Errors)
	}

	return nil
}
