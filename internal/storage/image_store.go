// Package storage uploads train images to Google Cloud Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"
	"unicode"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// ErrUnsupportedType is returned for uploads that are not JPEG, PNG or
// WebP images.
var ErrUnsupportedType = errors.New("unsupported image type")

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStore stores an image and returns its public URL.
type ImageStore interface {
	PutTrainImage(ctx context.Context, trainName, contentType string, r io.Reader) (string, error)
}

// GCSImageStore writes objects to one bucket.  The bucket must be
// publicly readable for the returned URLs to resolve.
type GCSImageStore struct {
	Client *storage.Client
	Bucket string
}

// NewGCSImageStore creates a client using application default
// credentials.
func NewGCSImageStore(ctx context.Context, bucket string) (*GCSImageStore, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("storage: bucket is empty")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: NewClient failed: %w", err)
	}
	return &GCSImageStore{Client: client, Bucket: bucket}, nil
}

// Close releases the underlying client.
func (s *GCSImageStore) Close() error { return s.Client.Close() }

// PutTrainImage uploads r under a fresh object name and returns the
// object's public URL.
func (s *GCSImageStore) PutTrainImage(ctx context.Context, trainName, contentType string, r io.Reader) (string, error) {
	ct := normalizeContentType(contentType)
	ext, ok := imageExt[ct]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	obj := ObjectName(trainName, ext, uuid.New())

	w := s.Client.Bucket(s.Bucket).Object(obj).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = ct
	w.CacheControl = "public, max-age=86400"
	w.Metadata = map[string]string{"uploadedAt": time.Now().UTC().Format(time.RFC3339)}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("storage: write %s: %w", obj, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("storage: close %s: %w", obj, err)
	}
	return PublicURL(s.Bucket, obj), nil
}

// ObjectName returns "trains/<slug>-<uuid><ext>".
func ObjectName(trainName, ext string, id uuid.UUID) string {
	return path.Join("trains", slugify(trainName)+"-"+id.String()+ext)
}

// PublicURL returns the storage.googleapis.com URL of an object.
func PublicURL(bucket, object string) string {
	u := url.URL{Scheme: "https", Host: "storage.googleapis.com", Path: "/" + bucket + "/" + object}
	return u.String()
}

func normalizeContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/jpg" {
		ct = "image/jpeg"
	}
	return ct
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "train"
	}
	return out
}
