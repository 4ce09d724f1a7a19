package main

import (
	"fmt"
	"os"
	"strings"

	"hpl/interpreter-go/pkg/driver"
	"hpl/interpreter-go/pkg/modules"
)

type packageFetcher interface {
	Fetch(dep *driver.Dependency, locked *driver.LockedPackage) (*driver.LockedPackage, error)
}

type dependencyInstaller struct {
	manifest *driver.Manifest
	fetcher  packageFetcher
}

func newDependencyInstaller(manifest *driver.Manifest, packageDir string) *dependencyInstaller {
	installer := &dependencyInstaller{manifest: manifest}
	if fetcher := newGitFetcher(packageDir); fetcher != nil {
		installer.fetcher = fetcher
	}
	return installer
}

// Install fetches every manifest dependency and records it in lock. Entries
// for dependencies no longer in the manifest are dropped. It reports whether
// the lockfile contents changed, plus one log line per dependency.
func (d *dependencyInstaller) Install(lock *driver.Lockfile) (bool, []string, error) {
	if d.fetcher == nil {
		return false, nil, fmt.Errorf("no package directory (set HPL_PACKAGES)")
	}
	changed := false
	var logs []string
	wanted := make(map[string]struct{}, len(d.manifest.DependencyOrder))
	for _, name := range d.manifest.DependencyOrder {
		dep := d.manifest.Dependencies[name]
		wanted[dep.Name] = struct{}{}
		locked, _ := lock.Find(dep.Name)
		pkg, err := d.fetcher.Fetch(dep, locked)
		if err != nil {
			return changed, logs, fmt.Errorf("install %s: %w", dep.Name, err)
		}
		if locked == nil || *locked != *pkg {
			changed = true
		}
		lock.Upsert(pkg)
		line := fmt.Sprintf("%s %s -> %s", dep.Name, pkg.Source, shortRevision(pkg.Revision))
		if !hasModuleEntry(pkg.Path, dep.Name) {
			line += fmt.Sprintf(" (warning: no %s%s or %s%s at the package root)", dep.Name, modules.SourceExtension, dep.Name, modules.NativeExtension)
		}
		logs = append(logs, line)
	}

	kept := lock.Packages[:0]
	for _, pkg := range lock.Packages {
		if _, ok := wanted[pkg.Name]; ok {
			kept = append(kept, pkg)
			continue
		}
		changed = true
		logs = append(logs, fmt.Sprintf("%s removed from lockfile", pkg.Name))
	}
	lock.Packages = kept
	return changed, logs, nil
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

func runDeps(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: hpl deps install|list")
		return 1
	}
	project, err := loadProjectContext(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	if project.manifest == nil {
		fmt.Fprintf(os.Stderr, "hpl deps requires a manifest (%s not found)\n", driver.ManifestFileName)
		return 1
	}
	lock, err := loadLockfileForManifest(project.manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	switch args[0] {
	case "install":
		return installDependencies(project.manifest, lock)
	case "list":
		listDependencies(project.manifest, lock)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown deps command '%s' (expected install or list)\n", args[0])
		return 1
	}
}

func installDependencies(manifest *driver.Manifest, lock *driver.Lockfile) int {
	installer := newDependencyInstaller(manifest, modules.DefaultPackageDir())
	changed, logs, err := installer.Install(lock)
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "hpl deps install: %v\n", err)
		return 1
	}
	if !changed {
		fmt.Fprintln(os.Stdout, "dependencies up to date")
		return 0
	}
	if err := driver.WriteLockfile(lock, lockfilePath(manifest)); err != nil {
		fmt.Fprintf(os.Stderr, "hpl deps install: %v\n", err)
		return 1
	}
	return 0
}

func listDependencies(manifest *driver.Manifest, lock *driver.Lockfile) {
	if len(manifest.DependencyOrder) == 0 {
		fmt.Fprintln(os.Stdout, "no dependencies")
		return
	}
	for _, name := range manifest.DependencyOrder {
		dep := manifest.Dependencies[name]
		parts := []string{name, dep.Git}
		if ref := dep.Reference(); ref != "" {
			parts = append(parts, ref)
		}
		if locked, ok := lock.Find(name); ok {
			parts = append(parts, "locked at "+shortRevision(locked.Revision))
		} else {
			parts = append(parts, "not installed")
		}
		fmt.Fprintln(os.Stdout, strings.Join(parts, "  "))
	}
}
