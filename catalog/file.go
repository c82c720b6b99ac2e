package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// DefaultInstallerPrefix is the file name prefix of agent installers.
const DefaultInstallerPrefix = "Dynatrace-OneAgent"

// FileCatalog finds installers in a local directory. Installer files are named
// <prefix>-<system>-<arch>-<version>.<ext>, for example
// Dynatrace-OneAgent-linux-x86_64-1.300.0.20240101-120000.sh.
type FileCatalog struct {
	dir    string
	prefix string
	log    *slog.Logger
}

// NewFileCatalog creates a catalog over dir. An empty prefix selects
// DefaultInstallerPrefix.
func NewFileCatalog(dir, prefix string, log *slog.Logger) *FileCatalog {
	if prefix == "" {
		prefix = DefaultInstallerPrefix
	}
	return &FileCatalog{
		dir:    dir,
		prefix: prefix,
		log:    log,
	}
}

// Installers lists installers for system and arch that satisfy version,
// oldest first. The directory is re-read on every call.
func (c *FileCatalog) Installers(system, arch, version string, preferLatest bool) ([]string, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read installers directory: %w", err)
	}

	keyPrefix := fmt.Sprintf("%s-%s-%s-", c.prefix, system, arch)

	var entries []entry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasPrefix(de.Name(), keyPrefix) {
			continue
		}
		v := trimExtension(strings.TrimPrefix(de.Name(), keyPrefix))
		if v == "" {
			continue
		}
		entries = append(entries, entry{
			system:  system,
			arch:    arch,
			version: v,
			path:    filepath.Join(c.dir, de.Name()),
		})
	}

	paths := selectInstallers(entries, system, arch, version, preferLatest)
	c.log.Debug("Listed installers",
		slog.String("dir", c.dir),
		slog.String("system", system),
		slog.String("arch", arch),
		slog.String("version", version),
		slog.Int("count", len(paths)))

	return paths, nil
}

// trimExtension drops trailing extensions such as ".sh" or ".tar.gz". A
// suffix only counts as an extension when it starts with a letter, so
// version segments like "20240101-120000" are kept.
func trimExtension(name string) string {
	for {
		idx := strings.LastIndexByte(name, '.')
		if idx <= 0 || !isExtension(name[idx+1:]) {
			return name
		}
		name = name[:idx]
	}
}

func isExtension(s string) bool {
	if s == "" || !unicode.IsLetter(rune(s[0])) {
		return false
	}
	return !strings.ContainsAny(s, "-_")
}
