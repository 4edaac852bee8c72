package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const multipartMemory = 32 << 20

// uploads holds the local copies of the files received in one request.
type uploads struct {
	dir   string
	paths []string
}

// save copies the multipart file in field to a temp file and returns its
// path. A missing field yields an empty path and no error.
func (u *uploads) save(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", field, err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	tmp, err := os.CreateTemp(u.dir, "upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer tmp.Close()
	u.paths = append(u.paths, tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		return "", fmt.Errorf("write %s: %w", field, err)
	}
	return tmp.Name(), nil
}

// cleanup removes every temp file. The media store has its own copy by then.
func (u *uploads) cleanup() {
	for _, p := range u.paths {
		_ = os.Remove(p)
	}
}

// parseMultipart bounds the body and parses the form.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	return r.ParseMultipartForm(multipartMemory)
}

// optionalFormValue distinguishes an absent field from an empty one.
func optionalFormValue(r *http.Request, field string) *string {
	values, ok := r.MultipartForm.Value[field]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
