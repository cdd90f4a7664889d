package resolver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	existing map[string]bool
	probed   []string
	err      error
}

func (f *fakeProber) Exists(_ context.Context, c Candidate) (bool, error) {
	f.probed = append(f.probed, c.Path())
	if f.err != nil {
		return false, f.err
	}
	return f.existing[c.Path()], nil
}

func TestValidateIdentifier(t *testing.T) {
	invalid := []string{"", "  ", "..", "a..b.png", "../etc/passwd", "dir/file.png", "dir\\file.png", "/abs.png", "nul\x00.png"}
	for _, id := range invalid {
		assert.Equal(t, ErrInvalidIdentifier, ValidateIdentifier(id), "id %q", id)
	}

	valid := []string{"photo.png", "42", "my image.jpeg", ".hidden.png"}
	for _, id := range valid {
		assert.Nil(t, ValidateIdentifier(id), "id %q", id)
	}
}

func TestResolver_Resolve_InvalidDoesNotProbe(t *testing.T) {
	r := New([]string{"/d1", "/d2"}, DefaultExtensions, KeyJoin)
	p := &fakeProber{}

	for _, id := range []string{"../x.png", "a/b", "a\\b"} {
		_, err := r.Resolve(context.Background(), id, p)
		assert.True(t, errors.Is(err, ErrInvalidIdentifier))
	}

	assert.Empty(t, p.probed)
}

func TestResolver_Resolve_WithExtension(t *testing.T) {
	r := New([]string{"/d1", "/d2"}, DefaultExtensions, KeyJoin)
	p := &fakeProber{existing: map[string]bool{"/d2/cat.gif": true}}

	res, err := r.Resolve(context.Background(), "cat.gif", p)
	require.Nil(t, err)

	assert.Equal(t, "/d2/cat.gif", res.Path())
	assert.Equal(t, "image/gif", res.ContentType)
	assert.Equal(t, []string{"/d1/cat.gif", "/d2/cat.gif"}, p.probed)
}

func TestResolver_Resolve_DirectoryMajor(t *testing.T) {
	r := New([]string{"/d1", "/d2"}, []string{".jpg", ".png"}, KeyJoin)
	p := &fakeProber{existing: map[string]bool{"/d2/id.png": true}}

	res, err := r.Resolve(context.Background(), "id", p)
	require.Nil(t, err)

	assert.Equal(t, "/d2/id.png", res.Path())
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, []string{"/d1/id.jpg", "/d1/id.png", "/d2/id.jpg", "/d2/id.png"}, p.probed)
}

func TestResolver_Resolve_FirstMatchWins(t *testing.T) {
	r := New([]string{"/d1", "/d2"}, []string{".jpg", ".png"}, KeyJoin)
	p := &fakeProber{existing: map[string]bool{"/d1/id.png": true, "/d2/id.jpg": true}}

	res, err := r.Resolve(context.Background(), "id", p)
	require.Nil(t, err)

	assert.Equal(t, "/d1/id.png", res.Path())
	assert.Len(t, p.probed, 2)
}

func TestResolver_Resolve_NotFound(t *testing.T) {
	r := New([]string{"/d1", "/d2"}, DefaultExtensions, KeyJoin)
	p := &fakeProber{}

	_, err := r.Resolve(context.Background(), "missing", p)
	assert.Equal(t, ErrNotFound, err)
	assert.Len(t, p.probed, 8)
}

func TestResolver_Resolve_ProbeError(t *testing.T) {
	r := New([]string{"/d1"}, DefaultExtensions, KeyJoin)
	probeErr := errors.New("permission denied")
	p := &fakeProber{err: probeErr}

	_, err := r.Resolve(context.Background(), "x.png", p)
	assert.NotNil(t, err)
	assert.Equal(t, probeErr, errors.Cause(err))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestNew_DeduplicatesDirs(t *testing.T) {
	r := New([]string{"/a", "/b", "/a"}, nil, nil)
	assert.Equal(t, []string{"/a", "/b"}, r.Dirs())
}

func TestCandidates(t *testing.T) {
	c := Candidates("x", []string{"a", "b"}, nil, KeyJoin)
	assert.Len(t, c, 2)
	assert.Equal(t, "a/x", c[0].Path())
	assert.Equal(t, "b/x", c[1].Path())

	c = Candidates("x.unknown", []string{"a"}, []string{".jpg"}, KeyJoin)
	assert.Equal(t, "a/x.unknown.jpg", c[0].Path())

	c = Candidates("x.PNG", []string{"a"}, []string{".jpg"}, KeyJoin)
	assert.Equal(t, "a/x.PNG", c[0].Path())

	assert.Equal(t, "x.png", KeyJoin("", "x.png"))
}

func TestCandidates_FileJoin(t *testing.T) {
	c := Candidates("photo", []string{"/srv/images", "/srv/assets"}, []string{".jpg", ".png"}, FileJoin)
	require.Len(t, c, 4)
	assert.Equal(t, filepath.Join("/srv/images", "photo.jpg"), c[0].Path())
	assert.Equal(t, filepath.Join("/srv/images", "photo.png"), c[1].Path())
	assert.Equal(t, filepath.Join("/srv/assets", "photo.jpg"), c[2].Path())
	assert.Equal(t, filepath.Join("/srv/assets", "photo.png"), c[3].Path())
}

func TestContentType(t *testing.T) {
	cases := map[string]string{
		"a.jpg":    "image/jpeg",
		"a.JPEG":   "image/jpeg",
		"a.png":    "image/png",
		"a.webp":   "image/webp",
		"a.WEBP":   "image/webp",
		"a.gif":    "image/gif",
		"a.svg":    "image/svg+xml",
		"a.bmp":    "image/bmp",
		"a.avif":   "image/avif",
		"a.txt":    DefaultContentType,
		"noext":    DefaultContentType,
		"/x/y.Png": "image/png",
	}

	for name, ct := range cases {
		assert.Equal(t, ct, ContentType(name), name)
	}
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("a.avif"))
	assert.True(t, IsImage("B.JPG"))
	assert.False(t, IsImage("a.ico"))
	assert.False(t, IsImage("readme.md"))
}

func TestResolver_Locate(t *testing.T) {
	r := New([]string{"/d1", "/d2"}, DefaultExtensions, KeyJoin)
	p := &fakeProber{existing: map[string]bool{"/d2/logo": true}}

	c, err := r.Locate(context.Background(), "logo", p)
	require.Nil(t, err)
	assert.Equal(t, "/d2/logo", c.Path())
	assert.Equal(t, []string{"/d1/logo", "/d2/logo"}, p.probed)

	_, err = r.Locate(context.Background(), "../logo", p)
	assert.Equal(t, ErrInvalidIdentifier, err)
}
