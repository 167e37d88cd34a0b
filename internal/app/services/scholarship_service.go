package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
	"github.com/yigit/scholarhub/internal/pkg/cache"
	"github.com/yigit/scholarhub/internal/pkg/filestorage"
)

// TopScholarshipsLimit is the size of the featured list
const TopScholarshipsLimit = 6

const universityImageDir = "universities"

// ScholarshipService defines the scholarship directory operations
type ScholarshipService interface {
	ListScholarships(ctx context.Context, filter models.ScholarshipFilter) ([]*models.Scholarship, error)
	GetScholarship(ctx context.Context, id string) (*models.Scholarship, error)
	TopScholarships(ctx context.Context, sortBy string) ([]*models.Scholarship, error)
	Filters(ctx context.Context) (*models.ScholarshipFacets, error)
	ListAllScholarships(ctx context.Context) ([]*models.Scholarship, error)
	CreateScholarship(ctx context.Context, s *models.Scholarship, postedBy string) (*models.Scholarship, error)
	UpdateScholarship(ctx context.Context, id string, s *models.Scholarship) (*models.Scholarship, error)
	DeleteScholarship(ctx context.Context, id string) error
	UploadImage(ctx context.Context, id string, file *multipart.FileHeader) (string, error)
}

// scholarshipServiceImpl implements the ScholarshipService interface
type scholarshipServiceImpl struct {
	repo    ScholarshipStore
	cache   cache.Cache
	storage filestorage.FileStorage
	logger  zerolog.Logger
}

// NewScholarshipService creates a new scholarship service instance.
// cache and storage may be nil.
func NewScholarshipService(repo ScholarshipStore, c cache.Cache, storage filestorage.FileStorage, logger zerolog.Logger) ScholarshipService {
	if c == nil {
		c = cache.NopCache{}
	}
	return &scholarshipServiceImpl{
		repo:    repo,
		cache:   c,
		storage: storage,
		logger:  logger.With().Str("service", "scholarship").Logger(),
	}
}

func validateScholarship(s *models.Scholarship) error {
	if s == nil {
		return fmt.Errorf("%w: scholarship is nil", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(s.ScholarshipName) == "" {
		return apperrors.NewValidationError("scholarshipName", "scholarship name cannot be empty")
	}
	if strings.TrimSpace(s.UniversityName) == "" {
		return apperrors.NewValidationError("universityName", "university name cannot be empty")
	}
	if !s.ScholarshipCategory.IsValid() {
		return apperrors.NewValidationError("scholarshipCategory", fmt.Sprintf("unknown scholarship category %q", s.ScholarshipCategory))
	}
	if !s.Degree.IsValid() {
		return apperrors.NewValidationError("degree", fmt.Sprintf("unknown degree %q", s.Degree))
	}
	if s.ApplicationFees < 0 || s.ServiceCharge < 0 || s.TuitionFees < 0 {
		return apperrors.NewValidationError("applicationFees", "fees cannot be negative")
	}
	if s.ApplicationDeadline.IsZero() {
		return apperrors.NewValidationError("applicationDeadline", "application deadline is required")
	}
	return nil
}

func (s *scholarshipServiceImpl) ListScholarships(ctx context.Context, filter models.ScholarshipFilter) ([]*models.Scholarship, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

func (s *scholarshipServiceImpl) GetScholarship(ctx context.Context, id string) (*models.Scholarship, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("id", "scholarship id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// TopScholarships returns the featured list. An empty sortBy means by fee.
func (s *scholarshipServiceImpl) TopScholarships(ctx context.Context, sortBy string) ([]*models.Scholarship, error) {
	sort := models.TopSort(sortBy)
	switch sort {
	case "":
		sort = models.TopSortByFee
	case models.TopSortByFee, models.TopSortByRecent:
	default:
		return nil, apperrors.NewValidationError("sortBy", "sortBy must be applicationFees or recent")
	}

	key := cache.TopKey(string(sort), TopScholarshipsLimit)
	var cached []*models.Scholarship
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	list, err := s.repo.Top(ctx, sort, TopScholarshipsLimit)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, list)
	return list, nil
}

// Filters returns the distinct facet values, served from cache when possible
func (s *scholarshipServiceImpl) Filters(ctx context.Context) (*models.ScholarshipFacets, error) {
	var cached models.ScholarshipFacets
	if s.cache.GetJSON(ctx, cache.KeyFacets, &cached) {
		return &cached, nil
	}

	facets, err := s.repo.Facets(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, cache.KeyFacets, facets)
	return facets, nil
}

func (s *scholarshipServiceImpl) ListAllScholarships(ctx context.Context) ([]*models.Scholarship, error) {
	return s.repo.ListAll(ctx)
}

func (s *scholarshipServiceImpl) CreateScholarship(ctx context.Context, sch *models.Scholarship, postedBy string) (*models.Scholarship, error) {
	if err := validateScholarship(sch); err != nil {
		return nil, err
	}

	now := time.Now()
	sch.ID = uuid.NewString()
	sch.PostedUserEmail = postedBy
	if sch.ScholarshipPostDate.IsZero() {
		sch.ScholarshipPostDate = now
	}
	sch.CreatedAt = now
	sch.UpdatedAt = now

	if err := s.repo.Create(ctx, sch); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.logger.Info().Str("scholarshipID", sch.ID).Str("postedBy", postedBy).Msg("Scholarship created")
	return sch, nil
}

func (s *scholarshipServiceImpl) UpdateScholarship(ctx context.Context, id string, sch *models.Scholarship) (*models.Scholarship, error) {
	if err := validateScholarship(sch); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sch.ID = existing.ID
	sch.PostedUserEmail = existing.PostedUserEmail
	if sch.ScholarshipPostDate.IsZero() {
		sch.ScholarshipPostDate = existing.ScholarshipPostDate
	}
	sch.CreatedAt = existing.CreatedAt
	sch.UpdatedAt = time.Now()
	if sch.UniversityImage == "" {
		sch.UniversityImage = existing.UniversityImage
	}

	if err := s.repo.Update(ctx, sch); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return sch, nil
}

// DeleteScholarship removes a scholarship nobody has applied to
func (s *scholarshipServiceImpl) DeleteScholarship(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrScholarshipHasApplications) {
			s.logger.Warn().Str("scholarshipID", id).Msg("Refusing to delete scholarship with applications")
		}
		return err
	}
	s.invalidate(ctx)
	s.removeImage(existing.UniversityImage)
	return nil
}

// UploadImage stores a university image and points the scholarship at it
func (s *scholarshipServiceImpl) UploadImage(ctx context.Context, id string, file *multipart.FileHeader) (string, error) {
	if s.storage == nil {
		return "", apperrors.NewBadRequestError("image storage is not configured")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	url, err := s.storage.SaveFileWithPath(file, universityImageDir)
	if err != nil {
		if errors.Is(err, filestorage.ErrUnsupportedFileType) || errors.Is(err, filestorage.ErrFileTooLarge) {
			return "", apperrors.NewValidationError("image", err.Error())
		}
		return "", fmt.Errorf("failed to store university image: %w", err)
	}

	if err := s.repo.UpdateImage(ctx, id, url); err != nil {
		s.removeImage(url)
		return "", err
	}
	s.invalidate(ctx)
	s.removeImage(existing.UniversityImage)
	return url, nil
}

func (s *scholarshipServiceImpl) removeImage(url string) {
	if s.storage == nil || url == "" {
		return
	}
	if err := s.storage.DeleteFile(url); err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("Failed to remove university image")
	}
}

func (s *scholarshipServiceImpl) invalidate(ctx context.Context) {
	s.cache.DeletePrefix(ctx, cache.KeyPrefixScholarships)
}
