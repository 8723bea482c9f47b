package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the project manifest file looked up from the working
// directory upward.
const ManifestName = "oogen.toml"

// Manifest is a located, parsed project manifest.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config is the decoded manifest content.
type Config struct {
	Package  PackageConfig  `toml:"package"`
	Generate GenerateConfig `toml:"generate"`
}

// PackageConfig names the generated module family.
type PackageConfig struct {
	Name string `toml:"name"`
}

// GenerateConfig controls one generation run.
type GenerateConfig struct {
	// Descriptions lists class description documents in dependency order
	// when known; order is otherwise recovered by the pipeline.
	Descriptions []string `toml:"descriptions"`
	// Output is the artifact directory, relative to the manifest root.
	Output string `toml:"output"`
	// Accel requests accelerator mirror support in the generated code.
	Accel bool `toml:"accel"`
}

// FindManifest walks from startDir to the filesystem root looking for the
// manifest file.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest locates and parses the manifest starting from startDir.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("generate") {
		return Config{}, fmt.Errorf("%s: missing [generate]", path)
	}
	if len(cfg.Generate.Descriptions) == 0 {
		return Config{}, fmt.Errorf("%s: [generate].descriptions is empty", path)
	}
	if strings.TrimSpace(cfg.Generate.Output) == "" {
		cfg.Generate.Output = "."
	}
	return cfg, nil
}

// DescriptionPaths resolves the manifest's description entries against its
// root directory.
func (m *Manifest) DescriptionPaths() []string {
	paths := make([]string, 0, len(m.Config.Generate.Descriptions))
	for _, d := range m.Config.Generate.Descriptions {
		paths = append(paths, filepath.Join(m.Root, filepath.FromSlash(d)))
	}
	return paths
}

// OutputDir resolves the artifact directory against the manifest root.
func (m *Manifest) OutputDir() string {
	return filepath.Join(m.Root, filepath.FromSlash(m.Config.Generate.Output))
}
