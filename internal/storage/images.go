package storage

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/mikieee25/BFPAttendance/config"
)

// Store persists face and attendance capture images on disk.
type Store struct {
	faceDir       string
	attendanceDir string
	maxDim        int
	retention     time.Duration
	logger        *zap.Logger
}

// NewStore creates the image store and its directories.
func NewStore(cfg *config.StorageConfig, logger *zap.Logger) (*Store, error) {
	for _, dir := range []string{cfg.FaceDataDir, cfg.AttendanceTempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create image dir %s: %w", dir, err)
		}
	}
	return &Store{
		faceDir:       cfg.FaceDataDir,
		attendanceDir: cfg.AttendanceTempDir,
		maxDim:        cfg.MaxImageDimension,
		retention:     time.Duration(cfg.ImageRetentionDays) * 24 * time.Hour,
		logger:        logger,
	}, nil
}

// DecodeBase64Image decodes a raw base64 payload or a data URL.
func DecodeBase64Image(s string) ([]byte, error) {
	if idx := strings.Index(s, ";base64,"); idx >= 0 {
		s = s[idx+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64 image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}
	return data, nil
}

// SaveFaceImage stores a registration image and returns its path.
func (s *Store) SaveFaceImage(personnelID string, data []byte) (string, error) {
	return s.save(s.faceDir, personnelID, "face", data)
}

// SaveAttendanceImage stores a capture frame and returns its path.
// The prefix distinguishes time-in, time-out and pending captures.
func (s *Store) SaveAttendanceImage(personnelID, prefix string, data []byte) (string, error) {
	return s.save(s.attendanceDir, personnelID, prefix, data)
}

// SaveProfileImage stores an account's profile photo and returns its
// path. Profile photos live alongside face images and are not swept
// by the retention job.
func (s *Store) SaveProfileImage(userID string, data []byte) (string, error) {
	return s.save(s.faceDir, userID, "profile", data)
}

func (s *Store) save(dir, personnelID, prefix string, data []byte) (string, error) {
	resized, err := s.downscale(data)
	if err != nil {
		// Keep the original frame when it cannot be re-encoded.
		s.logger.Warn("image downscale failed, storing original", zap.Error(err))
		resized = data
	}

	name := fmt.Sprintf("%s_%s_%d.jpg", prefix, personnelID, time.Now().UnixNano())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, resized, 0o644); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return path, nil
}

// Remove deletes a stored image, ignoring already-missing files.
func (s *Store) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image %s: %w", path, err)
	}
	return nil
}

// CleanupAttendanceImages deletes capture frames older than the
// retention period. Returns the number of removed files.
func (s *Store) CleanupAttendanceImages() (int, error) {
	cutoff := time.Now().Add(-s.retention)
	removed := 0

	entries, err := os.ReadDir(s.attendanceDir)
	if err != nil {
		return 0, fmt.Errorf("read attendance image dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.attendanceDir, entry.Name())); err != nil {
			s.logger.Warn("failed to remove expired image",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("expired attendance images removed", zap.Int("count", removed))
	}
	return removed, nil
}

// downscale re-encodes the image as JPEG, shrinking it when either
// dimension exceeds the configured maximum.
func (s *Store) downscale(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if s.maxDim > 0 && (w > s.maxDim || h > s.maxDim) {
		scale := float64(s.maxDim) / float64(w)
		if h > w {
			scale = float64(s.maxDim) / float64(h)
		}
		nw := int(float64(w) * scale)
		nh := int(float64(h) * scale)

		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
