package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"oogen/internal/schema"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new oogen project",
	Long: `Initialize a new oogen project by creating a manifest (oogen.toml) and a
root class description (model/Object.toml). If [path|name] is omitted, the
current directory is initialized; a non-existing name creates a directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else if filepath.IsAbs(args[0]) {
		target = args[0]
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = filepath.Join(wd, args[0])
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "oogen-project"
	}

	manifestPath := filepath.Join(target, schema.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(defaultManifest(name)), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	modelDir := filepath.Join(target, "model")
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	rootPath := filepath.Join(modelDir, "Object.toml")
	createdRoot := false
	if _, err := os.Stat(rootPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(rootPath, []byte(defaultRootDescription()), 0o600); err != nil {
			return fmt.Errorf("failed to write root description: %w", err)
		}
		createdRoot = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized oogen project in %s\n", rel)
	fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", schema.ManifestName)
	if createdRoot {
		fmt.Fprintf(cmd.OutOrStdout(), "  - model/Object.toml\n")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "  - model/Object.toml (existing)\n")
	}
	return nil
}

func defaultManifest(name string) string {
	return fmt.Sprintf(`# oogen project manifest
[package]
name = "%s"

[generate]
descriptions = ["model/Object.toml"]
output = "gen"
accel = false
`, name)
}

// defaultRootDescription returns the canonical root class. Its lifecycle
// bodies are supplied by the generator, so a name is all it takes.
func defaultRootDescription() string {
	return `# Root of the class chain. Lifecycle methods and the class-of-a-class
# bootstrap are generated; add fields and methods as the model grows.
name = "Object"
`
}
