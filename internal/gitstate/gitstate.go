// Package gitstate answers revision-control queries for the working
// tree: current revision, latest pushed revision, and whether any
// local changes have not reached the upstream yet.
package gitstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/haatos/deckhand/internal/status"
)

const defaultRemote = "origin"

var ErrNotARepository = errors.New("not a git repository")

// Source reads revision state from the repository containing path.
type Source struct {
	path   string
	remote string
}

func NewSource(path string) *Source {
	return &Source{path: path, remote: defaultRemote}
}

// Revisions reports the repository's current view: HEAD revision, the
// upstream revision of the checked-out branch when one exists, and an
// unpushed-changes flag. The flag is true when the worktree is dirty,
// when HEAD has diverged from its upstream, or when no upstream
// exists at all (everything is unpushed then).
func (s *Source) Revisions(_ context.Context) (status.Revisions, error) {
	repo, err := git.PlainOpenWithOptions(s.path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return status.Revisions{}, fmt.Errorf("%w: %s", ErrNotARepository, s.path)
	}

	head, err := repo.Head()
	if err != nil {
		return status.Revisions{}, fmt.Errorf("resolving HEAD: %w", err)
	}

	revs := status.Revisions{Current: head.Hash().String()}

	if head.Name().IsBranch() {
		remoteRef := plumbing.NewRemoteReferenceName(s.remote, head.Name().Short())
		if ref, err := repo.Reference(remoteRef, true); err == nil {
			revs.Pushed = ref.Hash().String()
		}
	}

	wt, err := repo.Worktree()
	if err != nil {
		return status.Revisions{}, fmt.Errorf("opening worktree: %w", err)
	}
	wtStatus, err := wt.Status()
	if err != nil {
		return status.Revisions{}, fmt.Errorf("reading worktree status: %w", err)
	}

	switch {
	case !wtStatus.IsClean():
		revs.Unpushed = true
	case revs.Pushed == "":
		revs.Unpushed = true
	default:
		revs.Unpushed = revs.Pushed != revs.Current
	}

	return revs, nil
}
