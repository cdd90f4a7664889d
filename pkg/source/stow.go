package source

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/aldor007/stow"
	httpStorage "github.com/aldor007/stow/http"
	fileStorage "github.com/aldor007/stow/local"
	// import blank to register noop adapter in stow.Register
	_ "github.com/aldor007/stow/noop"
	s3Storage "github.com/aldor007/stow/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aldor007/imgfind/pkg/config"
	"github.com/aldor007/imgfind/pkg/monitoring"
	"github.com/aldor007/imgfind/pkg/resolver"
)

// listPageSize is number of items requested from container in single call
const listPageSize = 1000

// Stow reads images from content store (local, s3, http) using stow
// roots are key prefixes inside container
type Stow struct {
	kind      string
	location  stow.Location
	container stow.Container
	resolver  *resolver.Resolver
}

// NewStow dials storage and opens its container
func NewStow(storageCfg config.Storage, roots []string, exts []string) (*Stow, error) {
	var cfg stow.ConfigMap
	switch storageCfg.Kind {
	case "local":
		cfg = stow.ConfigMap{
			fileStorage.ConfigKeyPath: storageCfg.RootPath,
		}
	case "http":
		headers, _ := json.Marshal(storageCfg.Headers)
		cfg = stow.ConfigMap{
			httpStorage.ConfigUrl:    storageCfg.Url,
			httpStorage.ConfigHeader: string(headers),
		}
	case "s3":
		cfg = stow.ConfigMap{
			s3Storage.ConfigAccessKeyID: storageCfg.AccessKey,
			s3Storage.ConfigSecretKey:   storageCfg.SecretAccessKey,
			s3Storage.ConfigRegion:      storageCfg.Region,
			s3Storage.ConfigEndpoint:    storageCfg.Endpoint,
		}
	default:
		cfg = stow.ConfigMap{}
	}

	location, err := stow.Dial(storageCfg.Kind, cfg)
	if err != nil {
		monitoring.Log().Info("Source/NewStow dial", zap.String("kind", storageCfg.Kind), zap.Error(err))
		return nil, errors.Wrapf(err, "unable to dial %s storage", storageCfg.Kind)
	}

	container, err := location.Container(storageCfg.Bucket)
	if err != nil && err == stow.ErrNotFound && storageCfg.Kind == "local" {
		container, err = location.CreateContainer(storageCfg.Bucket)
	}

	if err != nil {
		location.Close()
		monitoring.Log().Info("Source/NewStow container", zap.String("kind", storageCfg.Kind), zap.String("bucket", storageCfg.Bucket), zap.Error(err))
		return nil, errors.Wrapf(err, "unable to open container %s", storageCfg.Bucket)
	}

	dirs := make([]string, len(roots))
	for i, r := range roots {
		dirs[i] = strings.Trim(resolver.KeyJoin(storageCfg.PathPrefix, r), "/")
	}

	return &Stow{
		kind:      storageCfg.Kind,
		location:  location,
		container: container,
		resolver:  resolver.New(dirs, exts, resolver.KeyJoin),
	}, nil
}

func (s *Stow) Kind() string {
	return s.kind
}

func (s *Stow) Roots() []string {
	return s.resolver.Dirs()
}

func (s *Stow) Close() error {
	return s.location.Close()
}

func (s *Stow) Fetch(ctx context.Context, id string) (*Image, error) {
	return fetch(ctx, s.kind, s.resolver, resolver.ProberFunc(s.probe), s.read, id)
}

func (s *Stow) Exists(ctx context.Context, name string) (bool, error) {
	return exists(ctx, s.kind, s.resolver, resolver.ProberFunc(s.probe), name)
}

// List returns images placed directly under every root prefix
func (s *Stow) List(_ context.Context) ([]string, error) {
	t := monitoring.Report().Timer("imgfind_source_time;kind:" + s.kind + ",method:list")
	defer t.Done()

	names := newNameSet()
	for _, dir := range s.resolver.Dirs() {
		prefix := ""
		if dir != "" {
			prefix = dir + "/"
		}

		cursor := stow.CursorStart
		for {
			items, next, err := s.container.Items(prefix, cursor, listPageSize)
			if err != nil {
				if err == stow.ErrNotFound {
					break
				}
				return nil, errors.Wrapf(err, "unable to list %s", prefix)
			}

			for _, item := range items {
				key := strings.TrimPrefix(strings.ReplaceAll(item.Name(), "\\", "/"), prefix)
				if key == "" || strings.Contains(key, "/") || isDir(item) {
					continue
				}
				names.add(key)
			}

			if stow.IsCursorEnd(next) {
				break
			}
			cursor = next
		}
	}

	return names.names, nil
}

func (s *Stow) probe(_ context.Context, c resolver.Candidate) (bool, error) {
	item, err := s.container.Item(c.Path())
	if err != nil {
		if err == stow.ErrNotFound {
			return false, nil
		}
		return false, err
	}

	return !isDir(item), nil
}

func (s *Stow) read(c resolver.Candidate) ([]byte, error) {
	item, err := s.container.Item(c.Path())
	if err != nil {
		if err == stow.ErrNotFound {
			return nil, resolver.ErrNotFound
		}
		return nil, errors.Wrapf(err, "unable to get %s", c.Path())
	}

	reader, err := item.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", c.Path())
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", c.Path())
	}

	return body, nil
}

func isDir(item stow.Item) bool {
	metaData, err := item.Metadata()
	if err != nil {
		return false
	}

	if dir, ok := metaData["is_dir"]; ok {
		if b, ok := dir.(bool); ok {
			return b
		}
	}

	if ct, ok := metaData["content-type"]; ok {
		if s, ok := ct.(string); ok {
			return s == "application/directory"
		}
	}

	return strings.HasSuffix(item.ID(), "/")
}
