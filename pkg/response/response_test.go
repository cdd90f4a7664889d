package response

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewString(t *testing.T) {
	res := NewString(404, "Image 'a.png' not found")

	assert.Equal(t, 404, res.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", res.Headers.Get(HeaderContentType))

	body, err := res.Body()
	assert.Nil(t, err)
	assert.Equal(t, "Image 'a.png' not found", string(body))
}

func TestNewError(t *testing.T) {
	res := NewError(500, errors.New("open /secret/path: permission denied"))

	assert.True(t, res.HasError())
	assert.Equal(t, "open /secret/path: permission denied", res.Error().Error())

	body, err := res.Body()
	assert.Nil(t, err)
	assert.NotContains(t, string(body), "secret")
	assert.Equal(t, "application/json", res.Headers.Get(HeaderContentType))
}

func TestNewJSON(t *testing.T) {
	res := NewJSON(200, []string{"a.png", "b.jpg"})

	assert.False(t, res.HasError())
	assert.Equal(t, "application/json; charset=utf-8", res.Headers.Get(HeaderContentType))
	body, _ := res.Body()
	assert.JSONEq(t, `["a.png","b.jpg"]`, string(body))

	res = NewJSON(200, map[string]interface{}{"fn": func() {}})
	assert.Equal(t, 500, res.StatusCode)
	assert.True(t, res.HasError())
}

func TestSend(t *testing.T) {
	res := NewBuf(200, []byte("image-bytes"))
	res.SetContentType("image/webp")

	w := httptest.NewRecorder()
	require.Nil(t, res.Send(w))

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "image/webp", w.Header().Get("Content-Type"))
	assert.Equal(t, "11", w.Header().Get("Content-Length"))
	assert.Equal(t, "image-bytes", w.Body.String())
}

func TestSendEmptyBody(t *testing.T) {
	w := httptest.NewRecorder()
	require.Nil(t, NewBuf(200, []byte{}).Send(w))

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, 0, w.Body.Len())
}
