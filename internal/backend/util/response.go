package util

import (
	"compress/flate"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	gateway "github.com/danilofalcao/coder-gateway/internal/api/gateway/v1"
	"github.com/pkg/errors"
)

// WriteJSON writes a JSON response with proper headers
func WriteJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes a {"detail": ...} body with the given status
func WriteError(w http.ResponseWriter, status int, detail string) error {
	return WriteJSON(w, status, gateway.ErrorResponse{Detail: detail})
}

// ReadResponse reads a response body, decoding it according to its
// Content-Encoding header.
func ReadResponse(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, "error creating gzip reader")
		}
		defer gzReader.Close()
		reader = gzReader
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		flReader := flate.NewReader(resp.Body)
		defer flReader.Close()
		reader = flReader
	}

	b, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "error reading response body")
	}
	return b, nil
}
