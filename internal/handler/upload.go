package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/xid"

	"github.com/devhuddle/doubtboard/internal/apperror"
)

// MaxImageSize caps attached images at 10 MiB, enforced both by
// http.MaxBytesReader on the request and again per file here.
const MaxImageSize = 10 << 20

// ImageStore saves uploaded images under a directory on local disk and
// hands back the public URL path they are served from.
type ImageStore struct {
	dir string
}

// NewImageStore creates the upload directory if needed.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("handler: creating upload dir %s: %w", dir, err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the directory uploads are written to, for the static
// file route.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save writes one multipart file to disk and returns its URL path,
// e.g. "/uploads/cv37rs3pp9olc6atsptg.png".
//
// The content type comes from sniffing the first 512 bytes, never from
// the client-supplied filename or header. Anything that does not sniff
// as image/* is rejected.
func (s *ImageStore) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxImageSize {
		return "", apperror.ValidationFailed("image", "image must be 10MB or less")
	}

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("handler: reading upload: %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	if !isImageType(contentType) {
		return "", apperror.ValidationFailed("image", "only image uploads are accepted")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("handler: rewinding upload: %w", err)
	}

	// The stored name is ours; the client's filename only contributes
	// its extension.
	ext := filepath.Ext(header.Filename)
	if len(ext) > 10 {
		ext = ""
	}
	name := xid.New().String() + ext

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("handler: creating upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, MaxImageSize)); err != nil {
		return "", fmt.Errorf("handler: writing upload: %w", err)
	}

	return "/uploads/" + name, nil
}

func isImageType(contentType string) bool {
	switch contentType {
	case "image/png", "image/jpeg", "image/gif", "image/webp", "image/bmp":
		return true
	}
	return false
}
