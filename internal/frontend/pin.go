package frontend

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/memory"

	"git.home.luguber.info/inful/guppyc/internal/config"
	ferrors "git.home.luguber.info/inful/guppyc/internal/foundation/errors"
	"git.home.luguber.info/inful/guppyc/internal/logfields"
	"git.home.luguber.info/inful/guppyc/internal/retry"
)

var commitHash = regexp.MustCompile(`^[0-9a-f]{40}$`)

// RefLister lists the references advertised by a remote repository.
type RefLister interface {
	ListRefs(ctx context.Context, url string) ([]*plumbing.Reference, error)
}

// RemoteLister performs an ls-remote with go-git without cloning. Transient
// transport failures are retried under Policy, or retry.DefaultPolicy when
// Policy is nil.
type RemoteLister struct {
	Policy *retry.Policy
}

func (l RemoteLister) ListRefs(ctx context.Context, url string) ([]*plumbing.Reference, error) {
	policy := retry.DefaultPolicy()
	if l.Policy != nil {
		policy = *l.Policy
	}
	rem := git.NewRemote(memory.NewStorage(), &ggitcfg.RemoteConfig{
		Name: "origin",
		URLs: []string{url},
	})

	var refs []*plumbing.Reference
	err := retry.Do(ctx, policy, isTransient, func(ctx context.Context) error {
		var err error
		refs, err = rem.ListContext(ctx, &git.ListOptions{})
		return err
	})
	return refs, err
}

// isTransient rejects failures a retry cannot fix.
func isTransient(err error) bool {
	return !errors.Is(err, transport.ErrRepositoryNotFound) &&
		!errors.Is(err, transport.ErrAuthenticationRequired) &&
		!errors.Is(err, transport.ErrAuthorizationFailed) &&
		!errors.Is(err, transport.ErrEmptyRemoteRepository) &&
		!errors.Is(err, transport.ErrInvalidAuthMethod)
}

// PinRef returns v with its git ref replaced by the commit the remote
// currently resolves it to. An unset ref resolves through HEAD. Without a git
// override, or when the ref already is a commit hash, v is returned unchanged.
func PinRef(ctx context.Context, v config.FrontendVersion, lister RefLister) (config.FrontendVersion, error) {
	if !v.IsGit() || commitHash.MatchString(v.Ref) {
		return v, nil
	}
	if lister == nil {
		lister = RemoteLister{}
	}

	url := v.Repository()
	refs, err := lister.ListRefs(ctx, url)
	if err != nil {
		return v, ferrors.NetworkError("ls-remote failed").
			WithCause(err).
			WithContext("repository", url).
			Build()
	}

	hash, ok := resolveRef(refs, v.Ref)
	if !ok {
		return v, ferrors.ConfigError("git ref not found on remote").
			WithContext("repository", url).
			WithContext("ref", v.Ref).
			Build()
	}

	slog.Debug("Pinned frontend ref",
		logfields.Locator(v.Locator()),
		slog.String("commit", hash))

	pinned := v
	pinned.Ref = hash
	return pinned, nil
}

func resolveRef(refs []*plumbing.Reference, ref string) (string, bool) {
	var candidates []plumbing.ReferenceName
	if ref == "" {
		candidates = []plumbing.ReferenceName{plumbing.HEAD}
	} else {
		candidates = []plumbing.ReferenceName{
			plumbing.NewBranchReferenceName(ref),
			plumbing.NewTagReferenceName(ref),
			plumbing.ReferenceName(ref),
		}
	}

	byName := make(map[plumbing.ReferenceName]*plumbing.Reference, len(refs))
	for _, r := range refs {
		byName[r.Name()] = r
	}

	for _, name := range candidates {
		r, ok := byName[name]
		if !ok {
			continue
		}
		// Follow a symbolic HEAD to its target.
		if r.Type() == plumbing.SymbolicReference {
			if r, ok = byName[r.Target()]; !ok {
				continue
			}
		}
		// Annotated tags are advertised peeled as <tag>^{}.
		if peeled, ok := byName[name+"^{}"]; ok {
			return peeled.Hash().String(), true
		}
		return r.Hash().String(), true
	}
	return "", false
}
