package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestObjectName(t *testing.T) {
	id := uuid.MustParse("6f1c2d3e-4a5b-4c6d-8e7f-9a0b1c2d3e4f")
	cases := map[string]string{
		"Intercity+ 743":  "trains/intercity-743-6f1c2d3e-4a5b-4c6d-8e7f-9a0b1c2d3e4f.jpg",
		"  ":              "trains/train-6f1c2d3e-4a5b-4c6d-8e7f-9a0b1c2d3e4f.jpg",
		"Хюндай Express!": "trains/express-6f1c2d3e-4a5b-4c6d-8e7f-9a0b1c2d3e4f.jpg",
	}
	for in, want := range cases {
		if got := ObjectName(in, ".jpg", id); got != want {
			t.Errorf("ObjectName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPublicURL(t *testing.T) {
	got := PublicURL("train-images", "trains/ic-1.png")
	if got != "https://storage.googleapis.com/train-images/trains/ic-1.png" {
		t.Fatalf("PublicURL = %q", got)
	}
}

func TestNormalizeContentType(t *testing.T) {
	for in, want := range map[string]string{
		"image/JPEG":               "image/jpeg",
		"image/jpg":                "image/jpeg",
		"image/png; charset=utf-8": "image/png",
	} {
		if got := normalizeContentType(in); got != want {
			t.Errorf("normalizeContentType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPutTrainImageRejectsType(t *testing.T) {
	s := &GCSImageStore{Bucket: "b"}
	_, err := s.PutTrainImage(context.Background(), "IC", "application/pdf", strings.NewReader("%PDF"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err = %v, want ErrUnsupportedType", err)
	}
}
