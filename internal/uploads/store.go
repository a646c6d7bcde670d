package uploads

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kalaasetu/kalaasetu-backend/pkg/config"
	pkgerrors "github.com/kalaasetu/kalaasetu-backend/pkg/errors"
)

var allowedCertificateMimes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
}

// StoredFile describes a persisted upload. Path is the reference stored on the
// owning record.
type StoredFile struct {
	Path        string
	ContentType string
	Size        int64
}

// Store writes uploads under a local directory and yields reference paths.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore builds the upload store, creating the target directory if needed.
func NewStore(cfg config.UploadsConfig) (*Store, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, fmt.Errorf("uploads dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &Store{dir: cfg.Dir, maxBytes: maxBytes}, nil
}

// SaveCertificate persists an uploaded certificate and returns its reference.
// The declared content type is validated against the pdf/image allow list and
// the copy is capped at the configured size.
func (s *Store) SaveCertificate(ctx context.Context, r io.Reader, contentType string) (*StoredFile, error) {
	if s == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "upload store not configured")
	}
	if r == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "certificate file is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save certificate")
	}

	mediaType, err := sniffMimeType(contentType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "certificate content type")
	}
	ext, ok := allowedCertificateMimes[mediaType]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "certificate must be a PDF or image")
	}

	name := uuid.NewString() + ext
	fullpath := filepath.Join(s.dir, name)

	dst, err := os.OpenFile(fullpath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create certificate file")
	}

	written, err := io.Copy(dst, io.LimitReader(r, s.maxBytes+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(fullpath)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write certificate file")
	}
	if written > s.maxBytes {
		_ = os.Remove(fullpath)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "certificate exceeds the maximum upload size")
	}
	if written == 0 {
		_ = os.Remove(fullpath)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "certificate file is empty")
	}

	return &StoredFile{
		Path:        "/uploads/" + name,
		ContentType: mediaType,
		Size:        written,
	}, nil
}

func sniffMimeType(value string) (string, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "", fmt.Errorf("mime type required")
	}
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return "", fmt.Errorf("mime type invalid: %w", err)
	}
	return strings.ToLower(mediaType), nil
}
