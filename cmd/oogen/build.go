package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"oogen/internal/cache"
	"oogen/internal/diag"
	"oogen/internal/pipeline"
	"oogen/internal/schema"
	"oogen/internal/trace"
)

var (
	buildAccel   bool
	buildOut     string
	buildNoCache bool
)

func init() {
	buildCmd.Flags().BoolVar(&buildAccel, "accel", false, "generate accelerator mirror support")
	buildCmd.Flags().StringVar(&buildOut, "out", "", "artifact directory (overrides the manifest)")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "regenerate everything, ignoring the artifact cache")
}

var buildCmd = &cobra.Command{
	Use:   "build [description.toml ...]",
	Short: "Generate the C object model",
	Long: `Generate headers and sources from class descriptions. With no arguments
the descriptions come from the oogen.toml manifest found in the current
directory or above.`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	tracer, err := setupTracer(cmd)
	if err != nil {
		return err
	}

	paths := args
	accel := buildAccel
	out := buildOut
	if len(paths) == 0 {
		manifest, ok, err := schema.LoadManifest(".")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no %s found and no descriptions given", schema.ManifestName)
		}
		paths = manifest.DescriptionPaths()
		accel = accel || manifest.Config.Generate.Accel
		if out == "" {
			out = manifest.OutputDir()
		}
	}
	if out == "" {
		out = "."
	}

	inputs, err := readInputs(paths)
	if err != nil {
		return err
	}

	var store *cache.DiskCache
	if !buildNoCache {
		store, err = cache.Open("oogen")
		if err != nil {
			// A missing cache dir only costs regeneration.
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache unavailable: %v\n", err)
		}
	}

	res, err := pipeline.Run(cmd.Context(), inputs, pipeline.Options{
		Accel:     accel,
		OutputDir: out,
		Cache:     store,
		Tracer:    tracer,
	})
	if err != nil {
		return err
	}

	printDiagnostics(cmd, res)

	cached := 0
	for _, c := range res.Classes {
		if c.Cached {
			cached++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "generated %d of %d classes into %s (%d cached)\n",
		res.Succeeded(), len(res.Classes), out, cached)

	if res.Diags.HasErrors() {
		return fmt.Errorf("generation finished with errors")
	}
	return nil
}

func readInputs(paths []string) ([]pipeline.Input, error) {
	inputs := make([]pipeline.Input, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read description: %w", err)
		}
		inputs = append(inputs, pipeline.Input{Origin: p, Data: data})
	}
	return inputs, nil
}

func setupTracer(cmd *cobra.Command) (trace.Tracer, error) {
	levelStr, err := cmd.Root().PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	return trace.NewStream(cmd.ErrOrStderr(), level), nil
}

var (
	errorLabel   = color.New(color.FgRed, color.Bold).Sprint("error")
	warningLabel = color.New(color.FgYellow, color.Bold).Sprint("warning")
)

func printDiagnostics(cmd *cobra.Command, res *pipeline.Result) {
	maxDiags, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil || maxDiags <= 0 {
		maxDiags = 100
	}
	out := cmd.ErrOrStderr()
	for i, d := range res.Diags.Items() {
		if i >= maxDiags {
			fmt.Fprintf(out, "... and %d more\n", res.Diags.Len()-maxDiags)
			break
		}
		label := warningLabel
		if d.Severity >= diag.SevError {
			label = errorLabel
		}
		where := d.Class
		if d.Member != "" {
			where += "." + d.Member
		}
		if where == "" {
			fmt.Fprintf(out, "%s[%s]: %s\n", label, d.Code, d.Message)
			continue
		}
		fmt.Fprintf(out, "%s[%s] %s: %s\n", label, d.Code, where, d.Message)
	}
}
