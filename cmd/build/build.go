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

// Package build provides the build command for swgen.
package build

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/swgen/config"
	"bennypowers.dev/swgen/fs"
	"bennypowers.dev/swgen/internal/output"
	"bennypowers.dev/swgen/packagejson"
	"bennypowers.dev/swgen/pipeline"
)

// ProductionMode is the mode value that enables generation.
const ProductionMode = "production"

// Cmd is the build command.
var Cmd = &cobra.Command{
	Use:   "build",
	Short: "Generate a service worker for a finished build",
	Long: `Generate a service worker for a finished production build.

Reads the "workbox" key of the package's package.json, copies its import
scripts into the output directory, writes sw.js with a precache manifest of
the built assets and registers the worker in index.html. Nothing happens
unless the mode is production.`,
	Example: `  # Generate after a production build
  NODE_ENV=production swgen build --out-dir dist

  # Minify the worker, import scripts and registration snippet
  swgen build --mode production --minify

  # Machine-readable run report
  swgen build --mode production --format json --output report.json`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	Cmd.Flags().String("out-dir", "dist", "Build output directory, relative to the package directory")
	Cmd.Flags().Bool("minify", false, "Minify the worker, import scripts and registration snippet")
	Cmd.Flags().String("mode", "development", "Build mode; generation runs only in production (env: NODE_ENV)")
	Cmd.Flags().StringP("format", "f", "text", "Report format (text, json)")

	_ = viper.BindPFlag("out-dir", Cmd.Flags().Lookup("out-dir"))
	_ = viper.BindPFlag("minify", Cmd.Flags().Lookup("minify"))
	_ = viper.BindPFlag("mode", Cmd.Flags().Lookup("mode"))
	_ = viper.BindEnv("mode", "NODE_ENV")
}

func run(cmd *cobra.Command, args []string) error {
	osfs := fs.NewOSFileSystem()

	root, err := filepath.Abs(viper.GetString("package"))
	if err != nil {
		return fmt.Errorf("invalid package directory: %w", err)
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("error reading format flag: %w", err)
	}

	logger, err := output.Logger()
	if err != nil {
		return err
	}

	bc := config.BuildContext{
		OutDir:     viper.GetString("out-dir"),
		Root:       root,
		Production: viper.GetString("mode") == ProductionMode,
		Minify:     viper.GetBool("minify"),
		Package: func() (*packagejson.PackageJSON, error) {
			return packagejson.ParseFile(osfs, filepath.Join(root, "package.json"))
		},
	}

	report, runErr := pipeline.Run(cmd.Context(), bc, pipeline.Deps{FS: osfs, Logger: logger})
	if report != nil {
		if err := output.Report(osfs, report, format); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}
