package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"nutrilens/internal/analyzer"
	"nutrilens/internal/applog"
	"nutrilens/internal/export"
	"nutrilens/internal/model"
	"nutrilens/internal/nutrition"
	"nutrilens/internal/repository"
	"nutrilens/internal/storage"
)

var (
	ErrFileRequired    = errors.New("no image uploaded")
	ErrFileTooLarge    = errors.New("image is larger than the upload limit")
	ErrInvalidFileType = errors.New("invalid file type. Only JPEG, PNG, GIF, and WEBP are allowed")
	ErrIDRequired      = errors.New("id is required")
	ErrNotFound        = errors.New("meal not found")
	ErrInvalidPortion  = nutrition.ErrInvalidPortion
	ErrInvalidFormat   = export.ErrUnsupportedFormat
)

// AllowedImageTypes are accepted both as declared and as sniffed content types.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// History paging defaults.
const (
	DefaultHistoryLimit = 20
	cleanupTimeout      = 5 * time.Second
)

// UploadInput is one multipart image plus the optional quantity hint.
type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	Quantity    string
}

// Pagination echoes the effective paging parameters.
type Pagination struct {
	Total int `json:"total"`
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
}

// HistoryPage is one page of meals, newest first.
type HistoryPage struct {
	Items      []model.Meal `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

// ExportFile is a rendered report ready to download.
type ExportFile struct {
	Name        string
	ContentType string
	Body        []byte
}

// MealService defines the meal use cases.
type MealService interface {
	// Analyze validates and stores the image, asks the model for an estimate and persists the meal.
	// The stored image is removed again if any later step fails.
	Analyze(ctx context.Context, in UploadInput) (*model.Meal, error)
	History(ctx context.Context, limit, skip int) (*HistoryPage, error)
	Get(ctx context.Context, id string) (*model.Meal, error)
	AdjustPortion(ctx context.Context, id string, req nutrition.PortionRequest) (*model.Meal, error)
	Clear(ctx context.Context) (int64, error)
	Export(ctx context.Context, id string, format export.Format) (*ExportFile, error)
}

// MealServiceConfig holds the limits the service enforces.
type MealServiceConfig struct {
	MaxUploadBytes  int64
	HistoryMaxLimit int
}

type mealService struct {
	store    storage.Storage
	repo     repository.MealRepository
	analyzer analyzer.Analyzer
	metrics  *Metrics
	log      *applog.Logger
	cfg      MealServiceConfig
	now      func() time.Time
}

// NewMealService constructs a MealService. metrics may be nil.
func NewMealService(store storage.Storage, repo repository.MealRepository, an analyzer.Analyzer, metrics *Metrics, log *applog.Logger, cfg MealServiceConfig) MealService {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 5 * 1024 * 1024
	}
	if cfg.HistoryMaxLimit <= 0 {
		cfg.HistoryMaxLimit = 100
	}
	if log == nil {
		log = applog.Default()
	}
	return &mealService{store: store, repo: repo, analyzer: an, metrics: metrics, log: log, cfg: cfg, now: time.Now}
}

func baseContentType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mt
}

func (s *mealService) Analyze(ctx context.Context, in UploadInput) (*model.Meal, error) {
	if in.Reader == nil {
		s.metrics.outcome(OutcomeRejected)
		return nil, ErrFileRequired
	}
	if in.Size > s.cfg.MaxUploadBytes {
		s.metrics.outcome(OutcomeRejected)
		return nil, ErrFileTooLarge
	}
	if !AllowedImageTypes[baseContentType(in.ContentType)] {
		s.metrics.outcome(OutcomeRejected)
		return nil, ErrInvalidFileType
	}

	data, err := io.ReadAll(io.LimitReader(in.Reader, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		s.metrics.outcome(OutcomeRejected)
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		s.metrics.outcome(OutcomeRejected)
		return nil, ErrFileRequired
	}
	sniffed := mimetype.Detect(data).String()
	if !AllowedImageTypes[sniffed] {
		s.metrics.outcome(OutcomeRejected)
		return nil, ErrInvalidFileType
	}

	name, err := StoredFilename(s.now(), in.Filename)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Put(ctx, name, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: sniffed,
		Metadata:    map[string]string{"original-filename": SanitizeFilename(in.Filename)},
	}); err != nil {
		s.metrics.outcome(OutcomeStoreError)
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	meal, outcome, err := s.analyzeStored(ctx, name, analyzer.Image{Data: data, MIMEType: sniffed}, in.Quantity)
	s.metrics.outcome(outcome)
	if err != nil {
		s.removeUpload(ctx, name)
		return nil, err
	}
	return meal, nil
}

func (s *mealService) analyzeStored(ctx context.Context, name string, img analyzer.Image, quantity string) (*model.Meal, string, error) {
	start := time.Now()
	raw, err := s.analyzer.AnalyzeImage(ctx, img, quantity)
	s.metrics.observeModel(time.Since(start))
	if err != nil {
		return nil, OutcomeModelError, fmt.Errorf("analyze image: %w", err)
	}

	outcome := OutcomeSuccess
	est, ok := nutrition.Normalize(raw)
	if !ok {
		outcome = OutcomeFallback
		s.log.Warn("service", "analysis_fallback", nil, map[string]any{
			"image_path":   name,
			"raw_response": truncateForLog(raw, 500),
		})
	}

	meal := model.NewMeal(uuid.NewString(), name, est, s.now().UTC())
	if err := meal.Validate(); err != nil {
		// Unwrapped: a meal built from model output is a server fault, not a 400.
		return nil, OutcomeStoreError, fmt.Errorf("invalid meal: %v", err)
	}
	stored, err := s.repo.Create(ctx, meal)
	if err != nil {
		return nil, OutcomeStoreError, fmt.Errorf("db save failed: %w", err)
	}
	return stored, outcome, nil
}

// removeUpload deletes a stored image even when ctx is already done.
func (s *mealService) removeUpload(ctx context.Context, name string) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()
	if err := s.store.Delete(cctx, name); err != nil {
		s.log.Error("service", "upload_cleanup_failed", err, map[string]any{"image_path": name})
	}
}

func truncateForLog(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ParsePage reads raw limit/skip query values. Missing, non-numeric or
// non-positive limits fall back to the default; negative skips become 0.
func ParsePage(limitRaw, skipRaw string) (limit, skip int) {
	limit, err := strconv.Atoi(strings.TrimSpace(limitRaw))
	if err != nil || limit <= 0 {
		limit = DefaultHistoryLimit
	}
	skip, err = strconv.Atoi(strings.TrimSpace(skipRaw))
	if err != nil || skip < 0 {
		skip = 0
	}
	return limit, skip
}

func (s *mealService) History(ctx context.Context, limit, skip int) (*HistoryPage, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, s.cfg.HistoryMaxLimit)
	skip = max(skip, 0)

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: skip})
	if err != nil {
		return nil, err
	}
	return &HistoryPage{
		Items:      res.Items,
		Pagination: Pagination{Total: res.Total, Limit: limit, Skip: skip},
	}, nil
}

func (s *mealService) Get(ctx context.Context, id string) (*model.Meal, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrIDRequired
	}
	meal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return meal, nil
}

func (s *mealService) AdjustPortion(ctx context.Context, id string, req nutrition.PortionRequest) (*model.Meal, error) {
	meal, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := nutrition.ApplyPortion(meal, req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateNutrition(ctx, meal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return meal, nil
}

// Clear deletes every meal. Images are left for the upload sweeper.
func (s *mealService) Clear(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Info("service", "history_cleared", map[string]any{"deleted": n})
	return n, nil
}

func (s *mealService) Export(ctx context.Context, id string, format export.Format) (*ExportFile, error) {
	meal, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.Render(&buf, meal, format); err != nil {
		return nil, err
	}
	return &ExportFile{
		Name:        export.FileName(meal.FoodName, format),
		ContentType: format.ContentType(),
		Body:        buf.Bytes(),
	}, nil
}
