package resolver

import (
	"path"
	"path/filepath"
)

// DefaultExtensions are probed in this order for identifiers without extension
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// JoinFunc joins candidate directory with file name
type JoinFunc func(dir, name string) string

var (
	// FileJoin joins using OS path separator
	FileJoin JoinFunc = func(dir, name string) string {
		return filepath.Join(dir, name)
	}
	// KeyJoin joins storage keys using slash
	KeyJoin JoinFunc = func(dir, name string) string {
		if dir == "" {
			return name
		}
		return path.Join(dir, name)
	}
)

// Candidate is single location which is probed during resolution
type Candidate struct {
	Dir  string
	Name string
	join JoinFunc
}

// Path returns full path of candidate
func (c Candidate) Path() string {
	if c.join == nil {
		return FileJoin(c.Dir, c.Name)
	}
	return c.join(c.Dir, c.Name)
}

// Candidates generates ordered list of locations for id
// Order is directory major: every extension is tried in a directory before moving to the next one.
// When id already has a known extension or exts is empty, id is used as is.
func Candidates(id string, dirs []string, exts []string, join JoinFunc) []Candidate {
	names := []string{id}
	if !HasKnownExtension(id) && len(exts) > 0 {
		names = make([]string, len(exts))
		for i, ext := range exts {
			names[i] = id + ext
		}
	}

	candidates := make([]Candidate, 0, len(dirs)*len(names))
	for _, dir := range dirs {
		for _, name := range names {
			candidates = append(candidates, Candidate{Dir: dir, Name: name, join: join})
		}
	}

	return candidates
}
