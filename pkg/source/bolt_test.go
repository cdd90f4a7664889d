package source

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldor007/imgfind/pkg/config"
	"github.com/aldor007/imgfind/pkg/resolver"
)

func newTestBolt(t *testing.T, buckets []string) (*Bolt, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "images.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	require.Nil(t, err)
	t.Cleanup(func() { db.Close() })

	return NewBolt(db, buckets, []string{".jpg", ".png"}), dbPath
}

func TestBolt_Fetch(t *testing.T) {
	b, _ := newTestBolt(t, []string{"products", "images"})
	require.Nil(t, b.Put("images", "42.png", []byte("png-42")))
	require.Nil(t, b.Put("images", "42.jpg", []byte("jpg-42")))
	require.Nil(t, b.Put("products", "42.png", []byte("product-42")))

	img, err := b.Fetch(ctx, "42")
	require.Nil(t, err)
	assert.Equal(t, "products/42.png", img.Path)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, "product-42", string(img.Body))

	img, err = b.Fetch(ctx, "42.jpg")
	require.Nil(t, err)
	assert.Equal(t, "jpg-42", string(img.Body))

	_, err = b.Fetch(ctx, "43")
	assert.True(t, errors.Is(err, resolver.ErrNotFound))
}

func TestBolt_ListAndExists(t *testing.T) {
	b, _ := newTestBolt(t, []string{"products", "missing", "images"})
	require.Nil(t, b.Put("products", "b.png", []byte("b")))
	require.Nil(t, b.Put("images", "b.png", []byte("b")))
	require.Nil(t, b.Put("images", "a.webp", []byte("a")))
	require.Nil(t, b.Put("images", "doc.pdf", []byte("d")))

	names, err := b.List(ctx)
	require.Nil(t, err)
	assert.Equal(t, []string{"b.png", "a.webp"}, names)

	ok, err := b.Exists(ctx, "a.webp")
	require.Nil(t, err)
	assert.True(t, ok)

	ok, err = b.Exists(ctx, "c.webp")
	require.Nil(t, err)
	assert.False(t, ok)
}

func TestBolt_PutInvalidName(t *testing.T) {
	b, _ := newTestBolt(t, []string{"images"})
	err := b.Put("images", "../x.png", []byte("x"))
	assert.True(t, errors.Is(err, resolver.ErrInvalidIdentifier))
}

func TestNew_BoltReadOnly(t *testing.T) {
	b, dbPath := newTestBolt(t, []string{"images"})
	require.Nil(t, b.Put("images", "logo.svg", []byte("<svg/>")))
	require.Nil(t, b.db.Close())

	s, err := New(config.Collection{
		Roots:      []string{"images"},
		Extensions: []string{".svg"},
		Source:     config.Storage{Kind: "bolt", RootPath: dbPath},
	})
	require.Nil(t, err)
	defer s.Close()

	img, err := s.Fetch(ctx, "logo")
	require.Nil(t, err)
	assert.Equal(t, "image/svg+xml", img.ContentType)
	assert.Equal(t, "<svg/>", string(img.Body))
}

func TestNew_BoltMissingFile(t *testing.T) {
	_, err := New(config.Collection{Source: config.Storage{Kind: "bolt", RootPath: filepath.Join(t.TempDir(), "missing-dir", "none.db")}})
	assert.NotNil(t, err)
}
