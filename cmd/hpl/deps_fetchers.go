package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"hpl/interpreter-go/pkg/driver"
	"hpl/interpreter-go/pkg/modules"
)

// gitFetcher checks dependencies out into <packageDir>/<name>, the layout the
// module resolver searches for <name>/<name>.hpl.
type gitFetcher struct {
	packageDir string
}

func newGitFetcher(packageDir string) *gitFetcher {
	if packageDir == "" {
		return nil
	}
	return &gitFetcher{packageDir: packageDir}
}

// Fetch installs dep. When dep names no explicit rev and locked was produced
// from the same source and reference, the locked revision is reinstalled.
func (g *gitFetcher) Fetch(dep *driver.Dependency, locked *driver.LockedPackage) (*driver.LockedPackage, error) {
	if g == nil {
		return nil, errors.New("git fetcher unavailable (no package directory)")
	}
	url := strings.TrimSpace(dep.Git)
	if url == "" {
		return nil, fmt.Errorf("dependency %q: git URL required", dep.Name)
	}
	if !modules.IsModuleName(dep.Name) {
		return nil, fmt.Errorf("dependency %q: name is not a valid module name", dep.Name)
	}

	targetDir := filepath.Join(g.packageDir, dep.Name)
	repo, err := openOrClone(targetDir, url)
	if err != nil {
		return nil, err
	}

	revision, err := gitRevision(repo, dep)
	if err != nil {
		return nil, err
	}
	if dep.Rev == "" && locked != nil && locked.Source == url && locked.Reference == dep.Reference() && locked.Revision != "" {
		revision = plumbing.Revision(locked.Revision)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		return nil, fmt.Errorf("resolve revision %s of %s: %w", revision, url, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	}); err != nil {
		return nil, fmt.Errorf("git checkout %s: %w", revision, err)
	}

	return &driver.LockedPackage{
		Name:      dep.Name,
		Source:    url,
		Reference: dep.Reference(),
		Revision:  hash.String(),
		Path:      targetDir,
	}, nil
}

func openOrClone(dir, url string) (*git.Repository, error) {
	if _, err := os.Stat(dir); err == nil {
		repo, err := git.PlainOpen(dir)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", dir, err)
		}
		err = repo.Fetch(&git.FetchOptions{RemoteName: git.DefaultRemoteName, Tags: git.AllTags, Force: true})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil, fmt.Errorf("git fetch %s: %w", url, err)
		}
		return repo, nil
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return nil, err
	}
	repo, err := git.PlainClone(dir, false, &git.CloneOptions{
		URL:               url,
		Tags:              git.AllTags,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("git clone %s: %w", url, err)
	}
	return repo, nil
}

func gitRevision(repo *git.Repository, dep *driver.Dependency) (plumbing.Revision, error) {
	if rev := strings.TrimSpace(dep.Rev); rev != "" {
		return plumbing.Revision(rev), nil
	}
	if tag := strings.TrimSpace(dep.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), nil
	}
	if branch := strings.TrimSpace(dep.Branch); branch != "" {
		return remoteBranch(branch), nil
	}
	return remoteDefaultBranch(repo)
}

func remoteBranch(branch string) plumbing.Revision {
	return plumbing.Revision("refs/remotes/" + git.DefaultRemoteName + "/" + branch)
}

// remoteDefaultBranch asks the remote where its HEAD points. The local HEAD
// is detached after any earlier checkout, so it cannot be used.
func remoteDefaultBranch(repo *git.Repository) (plumbing.Revision, error) {
	remote, err := repo.Remote(git.DefaultRemoteName)
	if err != nil {
		return "", err
	}
	refs, err := remote.List(&git.ListOptions{})
	if err != nil {
		return "", fmt.Errorf("list remote refs: %w", err)
	}
	for _, ref := range refs {
		if ref.Name() != plumbing.HEAD {
			continue
		}
		if ref.Type() == plumbing.SymbolicReference {
			return remoteBranch(ref.Target().Short()), nil
		}
		return plumbing.Revision(ref.Hash().String()), nil
	}
	return "", errors.New("remote has no HEAD; set rev, tag or branch")
}

// hasModuleEntry reports whether an installed package can be imported by name.
func hasModuleEntry(dir, name string) bool {
	for _, candidate := range []string{
		filepath.Join(dir, name+modules.SourceExtension),
		filepath.Join(dir, name+modules.NativeExtension),
	} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
