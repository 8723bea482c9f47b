package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"oogen/internal/pipeline"
	"oogen/internal/schema"
)

var checkCmd = &cobra.Command{
	Use:   "check [description.toml ...]",
	Short: "Validate class descriptions without writing artifacts",
	Long: `Check parses and compiles every description, reports diagnostics and
prints the resulting class chain, but writes nothing to disk.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	tracer, err := setupTracer(cmd)
	if err != nil {
		return err
	}

	paths := args
	accel := false
	if len(paths) == 0 {
		manifest, ok, err := schema.LoadManifest(".")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no %s found and no descriptions given", schema.ManifestName)
		}
		paths = manifest.DescriptionPaths()
		accel = manifest.Config.Generate.Accel
	}

	inputs, err := readInputs(paths)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(cmd.Context(), inputs, pipeline.Options{
		Accel:  accel,
		Tracer: tracer,
	})
	if err != nil {
		return err
	}

	printDiagnostics(cmd, res)
	printChainTable(cmd, res)

	if res.Diags.HasErrors() {
		return fmt.Errorf("check finished with errors")
	}
	return nil
}

// printChainTable renders the compiled chain as an aligned table.
func printChainTable(cmd *cobra.Command, res *pipeline.Result) {
	type row struct{ class, super, slots, fields, mirror string }
	rows := []row{{"CLASS", "SUPER", "SLOTS", "FIELDS", "MIRROR"}}

	strategy := make(map[string]string)
	if res.Bootstrap != nil {
		for _, p := range res.Bootstrap.Plans {
			strategy[p.Class.Name] = p.Strategy.String()
		}
	}

	for _, c := range res.Classes {
		if c.Failed || c.Model == nil {
			rows = append(rows, row{c.Name, "-", "-", "-", "failed"})
			continue
		}
		super := "(root)"
		if c.Model.Super != nil {
			super = c.Model.Super.Name
		}
		rows = append(rows, row{
			c.Model.Name,
			super,
			fmt.Sprintf("%d", c.Model.Slots.Len()),
			fmt.Sprintf("%d", len(c.Model.OwnFields)),
			strategy[c.Model.Name],
		})
	}

	widths := [5]int{}
	for _, r := range rows {
		for i, cell := range []string{r.class, r.super, r.slots, r.fields, r.mirror} {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	out := cmd.OutOrStdout()
	for _, r := range rows {
		cells := []string{r.class, r.super, r.slots, r.fields, r.mirror}
		var sb strings.Builder
		for i, cell := range cells {
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			if i < len(cells)-1 {
				sb.WriteString("  ")
			}
		}
		fmt.Fprintln(out, strings.TrimRight(sb.String(), " "))
	}
}
