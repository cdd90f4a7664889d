package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/aldor007/imgfind/pkg/monitoring"
	"go.uber.org/zap"
)

const (
	// HeaderContentType name of Content-Type header
	HeaderContentType = "content-type"
	// internalErrorBody is returned to client for every internal error
	internalErrorBody = `{"message": "internal server error"}`
)

// Response is helper struct for wrapping different source responses
type Response struct {
	StatusCode    int         // status code of response
	Headers       http.Header // headers for response
	ContentLength int64       // if buffered response contains length of buffer, for streams it equal to -1
	errorValue    error       // error value

	reader io.ReadCloser // reader for response body
	body   []byte        // response body for buffered value
}

// NewString create response object from string
func NewString(statusCode int, body string) *Response {
	res := Response{StatusCode: statusCode}
	res.setBodyBytes([]byte(body))
	res.Headers = make(http.Header)
	res.Headers.Set(HeaderContentType, "text/plain; charset=utf-8")
	return &res
}

// NewBuf create response object from []byte
func NewBuf(statusCode int, body []byte) *Response {
	res := Response{StatusCode: statusCode}
	res.Headers = make(http.Header)
	res.setBodyBytes(body)
	return &res
}

// NewJSON create response object with value encoded as JSON
// If value cannot be encoded internal error response is returned
func NewJSON(statusCode int, value interface{}) *Response {
	buf, err := json.Marshal(value)
	if err != nil {
		monitoring.Log().Error("Response/NewJSON unable to marshal", zap.Error(err))
		return NewError(http.StatusInternalServerError, err)
	}

	res := NewBuf(statusCode, buf)
	res.SetContentType("application/json; charset=utf-8")
	return res
}

// NewError create response object from error
// error value is kept for logging, client gets generic message
func NewError(statusCode int, err error) *Response {
	res := Response{StatusCode: statusCode, errorValue: err}
	res.Headers = make(http.Header)
	res.Headers.Set(HeaderContentType, "application/json")
	res.setBodyBytes([]byte(internalErrorBody))
	return &res
}

// SetContentType update content type header of response
func (r *Response) SetContentType(contentType string) *Response {
	r.Headers.Set(HeaderContentType, contentType)
	return r
}

func (r *Response) setBodyBytes(body []byte) {
	if r.reader != nil {
		panic("reader must not be set when setBodyBytes is used")
	}
	r.reader = io.NopCloser(bytes.NewReader(body))
	r.ContentLength = int64(len(body))
	r.body = body
}

// Body reads all content of response and returns []byte
// Such response shouldn't be Send to client
func (r *Response) Body() ([]byte, error) {
	if r.body != nil {
		return r.body, nil
	}

	if r.reader == nil {
		return nil, errors.New("empty body")
	}

	body, err := io.ReadAll(r.reader)
	r.reader.Close()
	r.reader = nil
	r.setBodyBytes(body)
	return r.body, err
}

// Close response reader
func (r *Response) Close() {
	if r.reader != nil {
		r.reader.Close()
		r.reader = nil
	}
}

// HasError check if response contains error
func (r *Response) HasError() bool {
	return r.errorValue != nil
}

// Error returns error instance
func (r *Response) Error() error {
	return r.errorValue
}

// Stream return io.Reader interface from correct response content
func (r *Response) Stream() io.ReadCloser {
	if r.body != nil {
		return io.NopCloser(bytes.NewReader(r.body))
	}

	return r.reader
}

// Send write response to client
func (r *Response) Send(w http.ResponseWriter) error {
	for headerName, headerValue := range r.Headers {
		w.Header().Set(headerName, headerValue[0])
	}

	defer r.Close()

	if r.ContentLength == 0 {
		w.WriteHeader(r.StatusCode)
		return nil
	}

	if r.ContentLength > 0 {
		w.Header().Set("content-length", strconv.FormatInt(r.ContentLength, 10))
	}

	w.WriteHeader(r.StatusCode)
	resStream := r.Stream()
	if resStream == nil {
		return nil
	}

	_, err := io.Copy(w, resStream)
	resStream.Close()
	return err
}
