package modules

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hpl/interpreter-go/pkg/runtime"
)

// SourceExtension is the file extension of HPL source modules.
const SourceExtension = ".hpl"

// NativeExtension is the file extension of native (Go plugin) modules.
const NativeExtension = ".so"

// Factory builds a fresh instance of a built-in module.
type Factory func() *Module

// SourceLoader turns an HPL source file into a module. It is supplied by the
// evaluator so the resolver does not depend on it.
type SourceLoader func(path string) (*Module, error)

// NativeOpener loads a native module file.
type NativeOpener interface {
	Open(name, path string) (*Module, error)
}

// Options configures where a Resolver looks for modules.
type Options struct {
	// WorkingDir defaults to the process working directory.
	WorkingDir string
	// PackageDir is the user package directory (see DefaultPackageDir).
	PackageDir string
	// PackagePaths are extra roots holding installed native packages.
	PackagePaths []string
	// SearchPaths are extra directories searched after the package directory.
	SearchPaths  []string
	SourceLoader SourceLoader
	NativeOpener NativeOpener
	// Builtins replaces the standard built-in registry when non-nil.
	Builtins map[string]Factory
}

// Resolver maps module names to modules. Results are cached for the lifetime of
// the resolver, which is one program run, so a module's top-level side effects
// happen once no matter how often it is imported.
type Resolver struct {
	opts    Options
	cache   map[string]*Module
	loading map[string]bool
}

// NewResolver creates a resolver with an empty cache.
func NewResolver(opts Options) *Resolver {
	if opts.Builtins == nil {
		opts.Builtins = Builtins()
	}
	if opts.NativeOpener == nil {
		opts.NativeOpener = PluginOpener{}
	}
	if opts.WorkingDir == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.WorkingDir = wd
		}
	}
	return &Resolver{
		opts:    opts,
		cache:   make(map[string]*Module),
		loading: make(map[string]bool),
	}
}

// SetSourceLoader installs the callback used for HPL source modules.
func (r *Resolver) SetSourceLoader(loader SourceLoader) {
	r.opts.SourceLoader = loader
}

// HasSourceLoader reports whether a source loader has been installed.
func (r *Resolver) HasSourceLoader() bool {
	return r.opts.SourceLoader != nil
}

// Cached returns an already-resolved module.
func (r *Resolver) Cached(name string) (*Module, bool) {
	m, ok := r.cache[name]
	return m, ok
}

// Resolve finds a module by name. Tiers, first match wins:
//  1. built-in registry
//  2. installed native packages: <root>/<name>/<name>.so under the package roots
//  3. HPL source modules: <dir>/<name>.hpl or <dir>/<name>/<name>.hpl
//  4. native module files: <dir>/<name>.so
//
// Tiers 3 and 4 search fromDir, the working directory, the package directory
// and the extra search paths, in that order.
func (r *Resolver) Resolve(name, fromDir string) (*Module, error) {
	if m, ok := r.cache[name]; ok {
		return m, nil
	}
	if !IsModuleName(name) {
		return nil, runtime.NewNameError("invalid module name '%s'", name)
	}
	if r.loading[name] {
		return nil, runtime.NewNameError("import cycle detected while loading module '%s'", name)
	}
	r.loading[name] = true
	defer delete(r.loading, name)

	m, err := r.locate(name, fromDir)
	if err != nil {
		return nil, err
	}
	r.cache[name] = m
	return m, nil
}

func (r *Resolver) locate(name, fromDir string) (*Module, error) {
	if factory, ok := r.opts.Builtins[name]; ok {
		return factory(), nil
	}
	for _, root := range r.packageRoots() {
		candidate := filepath.Join(root, name, name+NativeExtension)
		if fileExists(candidate) {
			return r.openNative(name, candidate)
		}
	}
	dirs := r.SearchDirs(fromDir)
	for _, dir := range dirs {
		for _, candidate := range []string{
			filepath.Join(dir, name+SourceExtension),
			filepath.Join(dir, name, name+SourceExtension),
		} {
			if !fileExists(candidate) {
				continue
			}
			if r.opts.SourceLoader == nil {
				return nil, runtime.NewNameError("cannot load source module '%s': no source loader configured", name)
			}
			m, err := r.opts.SourceLoader(candidate)
			if err != nil {
				return nil, err
			}
			m.setPath(candidate)
			return m, nil
		}
	}
	for _, dir := range dirs {
		candidate := filepath.Join(dir, name+NativeExtension)
		if fileExists(candidate) {
			return r.openNative(name, candidate)
		}
	}
	return nil, runtime.NewNameError("module '%s' not found (built-in modules: %s)", name, strings.Join(r.BuiltinNames(), ", "))
}

func (r *Resolver) openNative(name, path string) (*Module, error) {
	m, err := r.opts.NativeOpener.Open(name, path)
	if err != nil {
		return nil, runtime.NewNameError("cannot load native module '%s' from %s: %v", name, path, err)
	}
	m.setPath(path)
	return m, nil
}

// BuiltinNames lists the built-in module names in sorted order.
func (r *Resolver) BuiltinNames() []string {
	names := make([]string, 0, len(r.opts.Builtins))
	for name := range r.opts.Builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SearchDirs returns the directories searched for source and native module
// files, deduplicated and in priority order.
func (r *Resolver) SearchDirs(fromDir string) []string {
	candidates := []string{fromDir, r.opts.WorkingDir, r.opts.PackageDir}
	candidates = append(candidates, r.opts.SearchPaths...)
	return dedupeDirs(candidates)
}

func (r *Resolver) packageRoots() []string {
	roots := append([]string{r.opts.PackageDir}, r.opts.PackagePaths...)
	return dedupeDirs(roots)
}

func dedupeDirs(candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, dir := range candidates {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			abs = filepath.Clean(dir)
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsModuleName reports whether name can appear in an import.
func IsModuleName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// DefaultPackageDir returns $HPL_PACKAGES, or ~/.hpl/packages.
func DefaultPackageDir() string {
	if dir := strings.TrimSpace(os.Getenv("HPL_PACKAGES")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".hpl", "packages")
}
