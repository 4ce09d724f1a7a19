package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hpl/interpreter-go/pkg/driver"
	"hpl/interpreter-go/pkg/interpreter"
	"hpl/interpreter-go/pkg/modules"
)

// projectContext is the configuration around an entry document: the nearest
// hpl.yml, if any, plus the environment.
type projectContext struct {
	manifest *driver.Manifest
}

// loadProjectContext looks for hpl.yml in start or any parent directory.
func loadProjectContext(start string) (*projectContext, error) {
	path, err := driver.FindManifest(start)
	if err != nil {
		return nil, fmt.Errorf("locate %s: %w", driver.ManifestFileName, err)
	}
	if path == "" {
		return &projectContext{}, nil
	}
	manifest, err := driver.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	return &projectContext{manifest: manifest}, nil
}

// interpreterOptions builds evaluator options. Command-line flags win over
// the manifest, which wins over defaults.
func (p *projectContext) interpreterOptions(flags runFlags) interpreter.Options {
	opts := interpreter.Options{
		MaxDepth:     interpreter.DefaultMaxDepth,
		SearchPaths:  collectSearchPaths(p.manifest, flags.paths),
		PackageDir:   modules.DefaultPackageDir(),
		PackagePaths: splitPathListEnv(os.Getenv("HPL_PACKAGE_PATH")),
	}
	if p.manifest != nil && p.manifest.MaxDepth > 0 {
		opts.MaxDepth = p.manifest.MaxDepth
	}
	if flags.maxDepth > 0 {
		opts.MaxDepth = flags.maxDepth
	}
	return opts
}

// collectSearchPaths orders the extra module directories: --path flags, then
// HPL_PATH, then the manifest's module_paths. Missing directories and
// duplicates are dropped.
func collectSearchPaths(manifest *driver.Manifest, flagPaths []string) []string {
	seen := make(map[string]struct{})
	var paths []string

	add := func(path string) {
		if path == "" {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		paths = append(paths, abs)
	}

	for _, path := range flagPaths {
		add(path)
	}
	for _, part := range splitPathListEnv(os.Getenv("HPL_PATH")) {
		add(part)
	}
	for _, path := range manifest.ResolvedModulePaths() {
		add(path)
	}
	return paths
}

func splitPathListEnv(value string) []string {
	if value == "" {
		return nil
	}
	raw := strings.Split(value, string(os.PathListSeparator))
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// lockfilePath is hpl.lock beside the manifest.
func lockfilePath(manifest *driver.Manifest) string {
	return filepath.Join(filepath.Dir(manifest.Path), driver.LockfileFileName)
}

func loadLockfileForManifest(manifest *driver.Manifest) (*driver.Lockfile, error) {
	path := lockfilePath(manifest)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return driver.NewLockfile(manifest.Name, cliToolVersion), nil
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	lock, err := driver.LoadLockfile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load lockfile: %w", err)
	}
	return lock, nil
}
