package directory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"atlas-service/internal/directory"
	"atlas-service/internal/domain/comment"
	"atlas-service/internal/domain/professional"
	"atlas-service/internal/domain/rating"
	"atlas-service/internal/geo"
	xerrors "atlas-service/internal/pkg/errors"
	"atlas-service/internal/repository/postgres"

	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// DirectoryService owns the professional roster: submissions, reads, the
// shared filter pipeline, comments, and the tag / rating vocabularies.
type DirectoryService struct {
	professionalRepo *postgres.ProfessionalRepository
	commentRepo      *postgres.CommentRepository
	tagRepo          *postgres.TagRepository
	ratingRepo       *postgres.RatingLevelRepository
	logger           *zap.Logger
}

func NewDirectoryService(
	professionalRepo *postgres.ProfessionalRepository,
	commentRepo *postgres.CommentRepository,
	tagRepo *postgres.TagRepository,
	ratingRepo *postgres.RatingLevelRepository,
	logger *zap.Logger,
) *DirectoryService {
	return &DirectoryService{
		professionalRepo: professionalRepo,
		commentRepo:      commentRepo,
		tagRepo:          tagRepo,
		ratingRepo:       ratingRepo,
		logger:           logger,
	}
}

// List returns the full roster ordered by submission time.
func (s *DirectoryService) List(ctx context.Context) ([]professional.Professional, error) {
	pros, err := s.professionalRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list professionals: %w", err)
	}
	return pros, nil
}

// Visible runs the full roster through the filter pipeline. Filtering happens
// in memory so every surface (list, map, export) sees identical results.
func (s *DirectoryService) Visible(ctx context.Context, c directory.Criteria) ([]professional.Professional, error) {
	pros, err := s.professionalRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list professionals: %w", err)
	}
	levels, err := s.ratingRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating levels: %w", err)
	}
	return directory.ComputeVisible(pros, c, levels), nil
}

// Get fetches one professional by ID.
func (s *DirectoryService) Get(ctx context.Context, id string) (*professional.Professional, error) {
	p, err := s.professionalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create validates and stores a submission. The rating key, when present,
// must belong to the current vocabulary.
func (s *DirectoryService) Create(ctx context.Context, req *professional.CreateProfessionalRequest) (*professional.Professional, error) {
	if strings.TrimSpace(req.FullName) == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "full_name is required")
	}
	if req.Rating != "" {
		levels, err := s.ratingRepo.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load rating levels: %w", err)
		}
		if _, ok := levels[req.Rating]; !ok {
			return nil, xerrors.Wrap(xerrors.ErrInvalidInput, fmt.Sprintf("unknown rating %q", req.Rating))
		}
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "latitude and longitude must be set together")
	}

	p := &professional.Professional{
		ID:              newID(),
		FullName:        strings.TrimSpace(req.FullName),
		Brokerage:       strings.TrimSpace(req.Brokerage),
		Type:            req.Type,
		Phone:           strings.TrimSpace(req.Phone),
		Email:           strings.TrimSpace(req.Email),
		Website:         strings.TrimSpace(req.Website),
		ServiceAreaType: req.ServiceAreaType,
		ServiceArea:     strings.TrimSpace(req.ServiceArea),
		ServiceAreas:    pq.StringArray(req.ServiceAreas),
		Tags:            pq.StringArray(req.Tags),
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Rating:          req.Rating,
		SubmittedBy:     strings.TrimSpace(req.SubmittedBy),
		AddressLastDeal: strings.TrimSpace(req.AddressLastDeal),
		Notes:           req.Notes,
	}

	if err := s.professionalRepo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create professional", zap.Error(err))
		return nil, fmt.Errorf("failed to create professional: %w", err)
	}

	s.logger.Info("professional created",
		zap.String("id", p.ID),
		zap.String("full_name", p.FullName),
		zap.String("submitted_by", p.SubmittedBy),
	)
	return p, nil
}

// Comments returns a professional's comment thread, newest first. Unknown
// professional IDs are an error rather than an empty thread.
func (s *DirectoryService) Comments(ctx context.Context, professionalID string) ([]comment.Comment, error) {
	if _, err := s.professionalRepo.FindByID(ctx, professionalID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.FindByProfessional(ctx, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// AddComment stores a comment against an existing professional.
func (s *DirectoryService) AddComment(ctx context.Context, req *comment.CreateCommentRequest) (*comment.Comment, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "content is required")
	}
	if _, err := s.professionalRepo.FindByID(ctx, req.ProfessionalID); err != nil {
		return nil, err
	}
	if req.Rating != "" {
		levels, err := s.ratingRepo.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load rating levels: %w", err)
		}
		if _, ok := levels[req.Rating]; !ok {
			return nil, xerrors.Wrap(xerrors.ErrInvalidInput, fmt.Sprintf("unknown rating %q", req.Rating))
		}
	}

	c := &comment.Comment{
		ID:             newID(),
		ProfessionalID: req.ProfessionalID,
		AuthorName:     strings.TrimSpace(req.AuthorName),
		Content:        req.Content,
		Rating:         req.Rating,
	}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create comment", zap.Error(err))
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return c, nil
}

// Tags returns the admin-managed tag vocabulary in display order.
func (s *DirectoryService) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.tagRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// RatingLevels returns the rating vocabulary keyed by rating key.
func (s *DirectoryService) RatingLevels(ctx context.Context) (rating.Levels, error) {
	levels, err := s.ratingRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating levels: %w", err)
	}
	return levels, nil
}

// CoverageAreas builds the service-area circle overlay for the currently
// visible roster slice.
func (s *DirectoryService) CoverageAreas(ctx context.Context, c directory.Criteria) (geo.FeatureCollection, error) {
	visible, err := s.Visible(ctx, c)
	if err != nil {
		return geo.FeatureCollection{}, err
	}
	return geo.CoverageAreas(visible), nil
}

// Analytics computes the dashboard counters in one pass over the repo.
func (s *DirectoryService) Analytics(ctx context.Context) (*professional.AnalyticsSummary, error) {
	total, err := s.professionalRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count professionals: %w", err)
	}
	withRating, err := s.professionalRepo.CountWithRating(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count rated professionals: %w", err)
	}
	withLocation, err := s.professionalRepo.CountWithLocation(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count located professionals: %w", err)
	}
	monthStart := time.Now().UTC().AddDate(0, 0, -30)
	newThisMonth, err := s.professionalRepo.CountCreatedSince(ctx, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to count recent professionals: %w", err)
	}
	byTag, err := s.professionalRepo.CountByTag(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count by tag: %w", err)
	}
	byRating, err := s.professionalRepo.CountByRating(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count by rating: %w", err)
	}
	return &professional.AnalyticsSummary{
		Total:        total,
		WithRating:   withRating,
		WithLocation: withLocation,
		NewThisMonth: newThisMonth,
		ByTag:        byTag,
		ByRating:     byRating,
	}, nil
}

func newID() string {
	return ulid.Make().String()
}
