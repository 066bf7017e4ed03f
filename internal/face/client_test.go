package face

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mikieee25/BFPAttendance/config"
)

func testClient(url string, minConfidence float64) *Client {
	return NewClient(&config.FaceConfig{
		DetectorURL:         url,
		DetectorTimeout:     5 * time.Second,
		DetectionConfidence: minConfidence,
	})
}

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}

func TestDetectFaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/detect" {
			t.Errorf("path = %s, want /detect", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}

		json.NewEncoder(w).Encode(DetectResponse{
			FacesCount: 1,
			Faces: []Detection{
				{FaceIndex: 0, Dim: 4, Embedding: []float32{1, 0, 0, 0}, DetScore: 0.9},
			},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL, 0.5)
	resp, err := c.DetectFaces(context.Background(), jpegHeader)
	if err != nil {
		t.Fatalf("DetectFaces: %v", err)
	}
	if resp.FacesCount != 1 || len(resp.Faces) != 1 {
		t.Fatalf("got %d faces, want 1", len(resp.Faces))
	}
}

func TestBestFacePicksHighestScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(DetectResponse{
			FacesCount: 3,
			Faces: []Detection{
				{FaceIndex: 0, Embedding: []float32{1, 0}, DetScore: 0.6},
				{FaceIndex: 1, Embedding: []float32{0, 1}, DetScore: 0.95},
				{FaceIndex: 2, Embedding: []float32{1, 1}, DetScore: 0.3}, // below floor
			},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL, 0.5)
	best, err := c.BestFace(context.Background(), jpegHeader)
	if err != nil {
		t.Fatalf("BestFace: %v", err)
	}
	if best.FaceIndex != 1 {
		t.Errorf("FaceIndex = %d, want 1", best.FaceIndex)
	}
}

func TestBestFaceNoFace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(DetectResponse{FacesCount: 0})
	}))
	defer srv.Close()

	c := testClient(srv.URL, 0.5)
	if _, err := c.BestFace(context.Background(), jpegHeader); err != ErrNoFace {
		t.Errorf("BestFace error = %v, want ErrNoFace", err)
	}
}

func TestBestFaceAllBelowConfidence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(DetectResponse{
			FacesCount: 1,
			Faces:      []Detection{{Embedding: []float32{1, 0}, DetScore: 0.2}},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL, 0.5)
	if _, err := c.BestFace(context.Background(), jpegHeader); err != ErrNoFace {
		t.Errorf("BestFace error = %v, want ErrNoFace", err)
	}
}

func TestDetectFacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 0.5)
	if _, err := c.DetectFaces(context.Background(), jpegHeader); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", jpegHeader, "image/jpeg"},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
		{"webp", []byte{0x52, 0x49, 0x46, 0x46, 0, 0, 0, 0, 0x57, 0x45, 0x42, 0x50}, "image/webp"},
		{"short", []byte{0x01}, "application/octet-stream"},
		{"unknown", []byte{1, 2, 3, 4, 5, 6, 7, 8}, "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMIMEType(tt.data); got != tt.want {
				t.Errorf("DetectMIMEType = %q, want %q", got, tt.want)
			}
		})
	}
}
