package util

import (
	"bytes"
	"compress/flate"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(encoding string, body []byte) *http.Response {
	resp := &http.Response{
		Header: http.Header{},
		Body:   io.NopCloser(bytes.NewReader(body)),
	}
	if encoding != "" {
		resp.Header.Set("Content-Encoding", encoding)
	}
	return resp
}

func TestReadResponseIdentity(t *testing.T) {
	b, err := ReadResponse(response("", []byte(`{"content":"x"}`)))
	require.NoError(t, err)
	assert.Equal(t, `{"content":"x"}`, string(b))
}

func TestReadResponseBrotli(t *testing.T) {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	_, err := w.Write([]byte("compressed with brotli"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	b, err := ReadResponse(response("br", buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "compressed with brotli", string(b))
}

func TestReadResponseDeflate(t *testing.T) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write([]byte("deflated"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	b, err := ReadResponse(response("deflate", buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "deflated", string(b))
}

func TestReadResponseBadGzip(t *testing.T) {
	_, err := ReadResponse(response("gzip", []byte("plain text")))
	assert.Error(t, err)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteError(rec, http.StatusServiceUnavailable, "backend unhealthy"))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"detail": "backend unhealthy"}, body)
}
