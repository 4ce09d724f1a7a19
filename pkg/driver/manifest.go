package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project manifest looked up next to (or above) the
// entry document.
const ManifestFileName = "hpl.yml"

// Manifest models hpl.yml.
type Manifest struct {
	Path            string
	Name            string
	Version         string
	ModulePaths     []string
	MaxDepth        int
	Dependencies    map[string]*Dependency
	DependencyOrder []string
}

// Dependency is a git-hosted package. At most one of Rev, Tag and Branch is set.
type Dependency struct {
	Name   string
	Git    string
	Rev    string
	Tag    string
	Branch string
}

// Reference returns the requested revision, tag or branch, or "" for the
// remote's default branch.
func (d *Dependency) Reference() string {
	switch {
	case d == nil:
		return ""
	case d.Rev != "":
		return d.Rev
	case d.Tag != "":
		return d.Tag
	}
	return d.Branch
}

type manifestDisk struct {
	Name         string               `yaml:"name"`
	Version      string               `yaml:"version"`
	ModulePaths  []string             `yaml:"module_paths"`
	MaxDepth     int                  `yaml:"max_depth"`
	Dependencies map[string]yaml.Node `yaml:"dependencies"`
}

type dependencyDisk struct {
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
}

// LoadManifest parses and validates hpl.yml.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw manifestDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", abs, err)
	}

	manifest := &Manifest{
		Path:         abs,
		Name:         sanitizeSegment(raw.Name),
		Version:      strings.TrimSpace(raw.Version),
		MaxDepth:     raw.MaxDepth,
		Dependencies: make(map[string]*Dependency, len(raw.Dependencies)),
	}
	for _, dir := range raw.ModulePaths {
		if dir = strings.TrimSpace(dir); dir != "" {
			manifest.ModulePaths = append(manifest.ModulePaths, dir)
		}
	}

	var problems []string
	if manifest.Name == "" {
		problems = append(problems, "name must be provided")
	}
	if manifest.MaxDepth < 0 {
		problems = append(problems, "max_depth must not be negative")
	}
	for name, node := range raw.Dependencies {
		dep, err := decodeDependency(name, &node)
		if err != nil {
			problems = append(problems, fmt.Sprintf("dependencies.%s: %v", name, err))
			continue
		}
		manifest.Dependencies[dep.Name] = dep
		manifest.DependencyOrder = append(manifest.DependencyOrder, dep.Name)
	}
	sort.Strings(manifest.DependencyOrder)
	sort.Strings(problems)
	if len(problems) > 0 {
		return nil, fmt.Errorf("manifest: %s: %s", abs, strings.Join(problems, "; "))
	}
	return manifest, nil
}

func decodeDependency(name string, node *yaml.Node) (*Dependency, error) {
	dep := &Dependency{Name: sanitizeSegment(name)}
	if dep.Name == "" {
		return nil, errors.New("dependency name must not be empty")
	}
	switch node.Kind {
	case yaml.ScalarNode:
		dep.Git = strings.TrimSpace(node.Value)
	case yaml.MappingNode:
		var raw dependencyDisk
		if err := node.Decode(&raw); err != nil {
			return nil, err
		}
		dep.Git = strings.TrimSpace(raw.Git)
		dep.Rev = strings.TrimSpace(raw.Rev)
		dep.Tag = strings.TrimSpace(raw.Tag)
		dep.Branch = strings.TrimSpace(raw.Branch)
	default:
		return nil, errors.New("must be a git url or a mapping")
	}
	if dep.Git == "" {
		return nil, errors.New("must specify git")
	}
	refs := 0
	for _, ref := range []string{dep.Rev, dep.Tag, dep.Branch} {
		if ref != "" {
			refs++
		}
	}
	if refs > 1 {
		return nil, errors.New("at most one of rev, tag or branch may be set")
	}
	return dep, nil
}

// ResolvedModulePaths returns module_paths made absolute against the
// manifest's directory.
func (m *Manifest) ResolvedModulePaths() []string {
	if m == nil {
		return nil
	}
	base := filepath.Dir(m.Path)
	out := make([]string, 0, len(m.ModulePaths))
	for _, dir := range m.ModulePaths {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(base, dir)
		}
		out = append(out, filepath.Clean(dir))
	}
	return out
}

// FindManifest walks up from start looking for hpl.yml. It returns "" when
// none exists.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// sanitizeSegment turns a package name into a valid module name.
func sanitizeSegment(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
