package source

import (
	"context"
	"os"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"

	"github.com/aldor007/imgfind/pkg/monitoring"
	"github.com/aldor007/imgfind/pkg/resolver"
)

// Disk reads images directly from local directories
type Disk struct {
	resolver *resolver.Resolver
}

// NewDisk creates source searching roots in order
func NewDisk(roots []string, exts []string) *Disk {
	return &Disk{resolver: resolver.New(roots, exts, resolver.FileJoin)}
}

func (d *Disk) Kind() string {
	return "disk"
}

func (d *Disk) Roots() []string {
	return d.resolver.Dirs()
}

func (d *Disk) Close() error {
	return nil
}

func (d *Disk) Fetch(ctx context.Context, id string) (*Image, error) {
	return fetch(ctx, d.Kind(), d.resolver, resolver.ProberFunc(isRegularFile), readFile, id)
}

func (d *Disk) Exists(ctx context.Context, name string) (bool, error) {
	return exists(ctx, d.Kind(), d.resolver, resolver.ProberFunc(isRegularFile), name)
}

// List returns image files from top level of every root, missing roots are skipped
func (d *Disk) List(_ context.Context) ([]string, error) {
	t := monitoring.Report().Timer("imgfind_source_time;kind:disk,method:list")
	defer t.Done()

	names := newNameSet()
	for _, dir := range d.resolver.Dirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if isMissing(err) {
				continue
			}
			return nil, errors.Wrapf(err, "unable to list %s", dir)
		}

		for _, e := range entries {
			regular, err := isRegularEntry(dir, e)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to list %s", dir)
			}
			if regular {
				names.add(e.Name())
			}
		}
	}

	return names.names, nil
}

func isRegularFile(_ context.Context, c resolver.Candidate) (bool, error) {
	info, err := os.Stat(c.Path())
	if err != nil {
		if isMissing(err) {
			return false, nil
		}
		return false, err
	}

	return info.Mode().IsRegular(), nil
}

// isRegularEntry follows symlinks so only entries which Fetch can read are listed
func isRegularEntry(dir string, e os.DirEntry) (bool, error) {
	if e.Type()&os.ModeSymlink == 0 {
		return e.Type().IsRegular(), nil
	}

	info, err := os.Stat(filepath.Join(dir, e.Name()))
	if err != nil {
		if isMissing(err) {
			return false, nil
		}
		return false, err
	}

	return info.Mode().IsRegular(), nil
}

func readFile(c resolver.Candidate) ([]byte, error) {
	body, err := os.ReadFile(c.Path())
	if err != nil {
		if isMissing(err) {
			return nil, resolver.ErrNotFound
		}
		return nil, errors.Wrapf(err, "unable to read %s", c.Path())
	}

	return body, nil
}

// isMissing reports errors meaning that path doesn't exist, also when part of it is a file
func isMissing(err error) bool {
	return os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR)
}
