package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest lists installers explicitly instead of relying on file names.
//
//	installers:
//	  - system: linux
//	    arch: x86_64
//	    version: 1.300.0.20240101-120000
//	    path: linux/oneagent-1.300.sh
type Manifest struct {
	Installers []ManifestEntry `yaml:"installers"`
}

// ManifestEntry is a single installer in a Manifest. Relative paths are
// resolved against the directory of the manifest file.
type ManifestEntry struct {
	System  string `yaml:"system"`
	Arch    string `yaml:"arch"`
	Version string `yaml:"version"`
	Path    string `yaml:"path"`
}

// ManifestCatalog serves installer lookups from a YAML manifest loaded once.
type ManifestCatalog struct {
	entries []entry
	log     *slog.Logger
}

// LoadManifestCatalog reads and validates the manifest at path.
func LoadManifestCatalog(path string, log *slog.Logger) (*ManifestCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read installer manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse installer manifest: %w", err)
	}

	return NewManifestCatalog(&manifest, filepath.Dir(path), log)
}

// NewManifestCatalog builds a catalog from an already decoded manifest.
func NewManifestCatalog(manifest *Manifest, baseDir string, log *slog.Logger) (*ManifestCatalog, error) {
	entries := make([]entry, 0, len(manifest.Installers))
	for i, inst := range manifest.Installers {
		if inst.System == "" || inst.Arch == "" || inst.Version == "" || inst.Path == "" {
			return nil, fmt.Errorf("installer manifest entry %d: %w", i, errIncompleteEntry)
		}
		p := inst.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		entries = append(entries, entry{
			system:  inst.System,
			arch:    inst.Arch,
			version: inst.Version,
			path:    p,
		})
	}

	log.Info("Loaded installer manifest", "installers", len(entries))
	return &ManifestCatalog{entries: entries, log: log}, nil
}

var errIncompleteEntry = errors.New("system, arch, version and path are required")

// Installers lists manifest installers for system and arch that satisfy
// version, oldest first.
func (c *ManifestCatalog) Installers(system, arch, version string, preferLatest bool) ([]string, error) {
	return selectInstallers(c.entries, system, arch, version, preferLatest), nil
}
