package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"github.com/mikieee25/BFPAttendance/config"
	"github.com/mikieee25/BFPAttendance/internal/dto"
	"github.com/mikieee25/BFPAttendance/internal/face"
	"github.com/mikieee25/BFPAttendance/internal/model"
	"github.com/mikieee25/BFPAttendance/internal/observability"
	"github.com/mikieee25/BFPAttendance/internal/repository"
	"github.com/mikieee25/BFPAttendance/internal/storage"
)

var (
	ErrNoFaceDetected    = errors.New("no face detected in the image")
	ErrNotRecognized     = errors.New("face not recognized")
	ErrNoRegisteredFaces = errors.New("no personnel registered in the face database")
	ErrBadEmbeddingDim   = errors.New("detector returned an unexpected embedding size")
)

// FaceService is the face registration and recognition interface.
type FaceService interface {
	// RegisterFaces stores embeddings for each supplied image. The
	// first successful image becomes the personnel's profile image
	// when none is set.
	RegisterFaces(ctx context.Context, actor *Actor, personnelID string, req *dto.RegisterFaceRequest, ip string) (*dto.RegisterFaceResponse, error)
	// Capture recognizes one frame and records attendance for the
	// matched personnel.
	Capture(ctx context.Context, actor *Actor, req *dto.CaptureRequest) (*dto.CaptureResponse, error)
	// WarmIndex rebuilds the in-memory index from stored embeddings.
	WarmIndex(ctx context.Context) error
}

type faceService struct {
	cfg        *config.Config
	repo       *repository.Repository
	client     *face.Client
	index      *face.Index
	store      *storage.Store
	attendance AttendanceService
	logger     *zap.Logger
}

// NewFaceService creates the FaceService.
func NewFaceService(
	cfg *config.Config,
	repo *repository.Repository,
	client *face.Client,
	index *face.Index,
	store *storage.Store,
	attendance AttendanceService,
	logger *zap.Logger,
) FaceService {
	return &faceService{
		cfg:        cfg,
		repo:       repo,
		client:     client,
		index:      index,
		store:      store,
		attendance: attendance,
		logger:     logger,
	}
}

func (s *faceService) RegisterFaces(ctx context.Context, actor *Actor, personnelID string, req *dto.RegisterFaceRequest, ip string) (*dto.RegisterFaceResponse, error) {
	personnel, err := s.repo.Personnel.GetByID(ctx, personnelID)
	if err != nil {
		return nil, ErrPersonnelNotFound
	}
	if !actor.IsAdmin() && personnel.StationID != actor.StationID() {
		return nil, ErrAccessDenied
	}

	resp := &dto.RegisterFaceResponse{}
	for _, encoded := range req.Images {
		data, err := storage.DecodeBase64Image(encoded)
		if err != nil {
			resp.Skipped++
			continue
		}

		detection, err := s.client.BestFace(ctx, data)
		if err != nil {
			if errors.Is(err, face.ErrNoFace) {
				resp.Skipped++
				continue
			}
			return nil, err
		}
		if len(detection.Embedding) != s.cfg.Face.EmbeddingDim {
			return nil, ErrBadEmbeddingDim
		}

		imagePath, err := s.store.SaveFaceImage(personnelID, data)
		if err != nil {
			s.logger.Warn("save face image failed", zap.Error(err))
			resp.Skipped++
			continue
		}

		detScore := detection.DetScore
		fd := &model.FaceData{
			PersonnelID:         personnelID,
			Embedding:           pgvector.NewVector(detection.Embedding),
			ImagePath:           &imagePath,
			DetectionConfidence: &detScore,
		}
		if err := s.repo.FaceData.Create(ctx, fd); err != nil {
			s.logger.Error("store face data failed", zap.Error(err))
			return nil, err
		}

		s.index.Add(face.Entry{
			FaceDataID:  fd.FaceDataID,
			PersonnelID: personnelID,
			StationID:   personnel.StationID,
			Embedding:   detection.Embedding,
		})

		if resp.Registered == 0 && personnel.ProfileImage == nil {
			personnel.ProfileImage = &imagePath
			if err := s.repo.Personnel.Update(ctx, personnel); err != nil {
				s.logger.Warn("set profile image failed", zap.Error(err))
			}
			resp.ProfileImage = &imagePath
		}
		resp.Registered++
	}

	if resp.Registered == 0 {
		return nil, ErrNoFaceDetected
	}

	observability.SetIndexSize(s.index.Count())

	s.logActivity(ctx, actor, model.ActionRegisterFace,
		fmt.Sprintf("Registered %d face image(s) for %s", resp.Registered, personnel.FullName()), ip)
	return resp, nil
}

func (s *faceService) Capture(ctx context.Context, actor *Actor, req *dto.CaptureRequest) (*dto.CaptureResponse, error) {
	data, err := storage.DecodeBase64Image(req.Image)
	if err != nil {
		observability.RecordCapture(observability.OutcomeError)
		return nil, err
	}

	if s.index.Count() == 0 {
		return nil, ErrNoRegisteredFaces
	}

	started := time.Now()
	detection, err := s.client.BestFace(ctx, data)
	if err != nil {
		if errors.Is(err, face.ErrNoFace) {
			observability.RecordCapture(observability.OutcomeNoFace)
			return nil, ErrNoFaceDetected
		}
		observability.RecordCapture(observability.OutcomeError)
		return nil, err
	}

	// Station accounts only match against their own roster.
	match := s.index.Search(detection.Embedding, actor.StationID(), s.cfg.Face.RecognitionThreshold)
	observability.RecordRecognitionDuration(time.Since(started))
	if match == nil {
		observability.RecordCapture(observability.OutcomeUnrecognized)
		return nil, ErrNotRecognized
	}

	return s.attendance.ProcessCapture(ctx, match.PersonnelID, match.Similarity, data)
}

func (s *faceService) WarmIndex(ctx context.Context) error {
	rows, err := s.repo.FaceData.ListAll(ctx, "")
	if err != nil {
		return fmt.Errorf("load face data: %w", err)
	}

	entries := make([]face.Entry, 0, len(rows))
	for i := range rows {
		fd := &rows[i]
		stationID := ""
		if fd.Personnel != nil {
			stationID = fd.Personnel.StationID
		}
		entries = append(entries, face.Entry{
			FaceDataID:  fd.FaceDataID,
			PersonnelID: fd.PersonnelID,
			StationID:   stationID,
			Embedding:   fd.Embedding.Slice(),
		})
	}
	s.index.Build(entries)
	observability.SetIndexSize(s.index.Count())

	s.logger.Info("face index warmed", zap.Int("entries", s.index.Count()))
	return nil
}

func (s *faceService) logActivity(ctx context.Context, actor *Actor, action, details, ip string) {
	log := &model.ActivityLog{
		UserID:  &actor.UserID,
		Action:  action,
		Details: details,
	}
	if ip != "" {
		log.IPAddress = &ip
	}
	if err := s.repo.ActivityLog.Create(ctx, log); err != nil {
		s.logger.Warn("write activity log failed", zap.Error(err))
	}
}
