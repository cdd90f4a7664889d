// Package source implements image sources used by collections:
// plain directories on disk, stow content stores and bolt databases.
package source

import (
	"context"
	"io"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"

	"github.com/aldor007/imgfind/pkg/config"
	"github.com/aldor007/imgfind/pkg/monitoring"
	"github.com/aldor007/imgfind/pkg/resolver"
)

// Image is resolved image with its content
type Image struct {
	Name        string // matched file name
	Path        string // location in source
	ContentType string
	Body        []byte
}

// Source fetches images by identifier
type Source interface {
	io.Closer
	// Kind returns kind of source from configuration
	Kind() string
	// Roots returns directories (or prefixes, buckets) searched by source
	Roots() []string
	// Fetch resolves id and reads whole image
	Fetch(ctx context.Context, id string) (*Image, error)
	// List returns unique names of images in roots
	List(ctx context.Context) ([]string, error)
	// Exists checks if file with exactly given name is in any root
	Exists(ctx context.Context, name string) (bool, error)
}

// New creates source for collection
func New(c config.Collection) (Source, error) {
	switch c.Source.Kind {
	case "", "disk":
		return NewDisk(c.Roots, c.Extensions), nil
	case "bolt":
		db, err := bolt.Open(c.Source.RootPath, 0600, &bolt.Options{Timeout: time.Second, ReadOnly: true})
		if err != nil {
			return nil, errors.Wrapf(err, "unable to open bolt database %s", c.Source.RootPath)
		}
		b := NewBolt(db, c.Roots, c.Extensions)
		b.closeDB = true
		return b, nil
	default:
		return NewStow(c.Source, c.Roots, c.Extensions)
	}
}

// readFunc reads content of found candidate
type readFunc func(c resolver.Candidate) ([]byte, error)

func fetch(ctx context.Context, kind string, r *resolver.Resolver, p resolver.Prober, read readFunc, id string) (*Image, error) {
	t := monitoring.Report().Timer("imgfind_source_time;kind:" + kind + ",method:fetch")
	defer t.Done()

	res, err := r.Resolve(ctx, id, p)
	if err != nil {
		return nil, err
	}

	body, err := read(res.Candidate)
	if err != nil {
		return nil, err
	}

	return &Image{Name: res.Name, Path: res.Path(), ContentType: res.ContentType, Body: body}, nil
}

func exists(ctx context.Context, kind string, r *resolver.Resolver, p resolver.Prober, name string) (bool, error) {
	t := monitoring.Report().Timer("imgfind_source_time;kind:" + kind + ",method:exists")
	defer t.Done()

	_, err := r.Locate(ctx, name, p)
	if errors.Is(err, resolver.ErrNotFound) {
		return false, nil
	}

	return err == nil, err
}

// nameSet collects unique names keeping insertion order
type nameSet struct {
	seen  map[string]bool
	names []string
}

func newNameSet() *nameSet {
	return &nameSet{seen: make(map[string]bool), names: []string{}}
}

func (s *nameSet) add(name string) {
	if s.seen[name] || !resolver.IsImage(name) {
		return
	}

	s.seen[name] = true
	s.names = append(s.names, name)
}

// Open creates sources for every configured collection
// On error already opened sources are closed.
func Open(cfg *config.Config) (map[string]Source, error) {
	sources := make(map[string]Source, len(cfg.Collections))
	for _, name := range cfg.CollectionNames() {
		s, err := New(cfg.Collections[name])
		if err != nil {
			CloseAll(sources)
			return nil, errors.Wrapf(err, "collection %s", name)
		}
		sources[name] = s
	}

	return sources, nil
}

// CloseAll closes every source, errors are only logged
func CloseAll(sources map[string]Source) {
	for name, s := range sources {
		if err := s.Close(); err != nil {
			monitoring.Logs().Warnw("Source/CloseAll unable to close", "collection", name, "error", err)
		}
	}
}
