// Package resolver locates images by name in an ordered list of directories.
package resolver

import (
	"context"
)

// Resolved describes found image
type Resolved struct {
	Candidate
	ContentType string
}

// Resolver finds images in ordered list of directories
// Resolver is immutable and safe for concurrent use
type Resolver struct {
	dirs []string
	exts []string
	join JoinFunc
}

// New creates resolver for dirs, duplicated dirs are skipped
// exts are tried in order for identifiers without extension
func New(dirs []string, exts []string, join JoinFunc) *Resolver {
	if join == nil {
		join = FileJoin
	}

	seen := make(map[string]bool, len(dirs))
	uniq := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if seen[d] {
			continue
		}
		seen[d] = true
		uniq = append(uniq, d)
	}

	e := make([]string, len(exts))
	copy(e, exts)
	return &Resolver{dirs: uniq, exts: e, join: join}
}

// Dirs returns copy of resolver directories
func (r *Resolver) Dirs() []string {
	d := make([]string, len(r.dirs))
	copy(d, r.dirs)
	return d
}

// Candidates returns ordered locations for id, id has to be valid
func (r *Resolver) Candidates(id string) []Candidate {
	return Candidates(id, r.dirs, r.exts, r.join)
}

// Resolve validates id and returns first existing candidate with its content type
func (r *Resolver) Resolve(ctx context.Context, id string, p Prober) (Resolved, error) {
	if err := ValidateIdentifier(id); err != nil {
		return Resolved{}, err
	}

	c, err := Search(ctx, r.Candidates(id), p)
	if err != nil {
		return Resolved{}, err
	}

	return Resolved{Candidate: c, ContentType: ContentType(c.Name)}, nil
}

// Locate finds file with exactly given name, extensions are not probed
func (r *Resolver) Locate(ctx context.Context, name string, p Prober) (Candidate, error) {
	if err := ValidateIdentifier(name); err != nil {
		return Candidate{}, err
	}

	return Search(ctx, Candidates(name, r.dirs, nil, r.join), p)
}
