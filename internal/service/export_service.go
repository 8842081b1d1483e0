package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/siolabs/learnhub-api/internal/dto"
	"github.com/siolabs/learnhub-api/internal/models"
	"github.com/siolabs/learnhub-api/pkg/export"
	"github.com/siolabs/learnhub-api/pkg/storage"
)

type progressSource interface {
	Overview(ctx context.Context, userID string) (*dto.ProgressOverview, error)
	CourseDetail(ctx context.Context, userID, courseID string) (*dto.CourseProgressDetail, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService builds progress datasets and persists rendered files.
type ExportService struct {
	progress progressSource
	storage  fileStorage
	csv      csvRenderer
	pdf      pdfRenderer
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	cfg      ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(progress progressSource, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		progress: progress,
		storage:  store,
		csv:      csv,
		pdf:      pdf,
		signer:   signer,
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate builds the dataset for the job's owner and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api"
	}
	signedURL := fmt.Sprintf("%s/export/%s", prefix, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ReportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ReportTypeProgress:
		overview, err := s.progress.Overview(ctx, job.CreatedBy)
		if err != nil {
			return export.Dataset{}, "", err
		}
		return progressOverviewDataset(overview), "Learning Progress Report", nil
	case models.ReportTypeCourse:
		if job.Params.CourseID == nil || *job.Params.CourseID == "" {
			return export.Dataset{}, "", fmt.Errorf("course report requires courseId")
		}
		detail, err := s.progress.CourseDetail(ctx, job.CreatedBy, *job.Params.CourseID)
		if err != nil {
			return export.Dataset{}, "", err
		}
		return courseDetailDataset(detail), fmt.Sprintf("Course Progress: %s", detail.CourseTitle), nil
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func progressOverviewDataset(overview *dto.ProgressOverview) export.Dataset {
	headers := []string{"Course", "Progress %", "Completed Lessons", "Total Lessons", "Completed Modules", "Total Modules", "Finished"}
	rows := make([]map[string]string, 0, len(overview.Courses))
	for _, course := range overview.Courses {
		rows = append(rows, map[string]string{
			"Course":            course.CourseTitle,
			"Progress %":        strconv.Itoa(course.Progress),
			"Completed Lessons": strconv.Itoa(course.CompletedLessons),
			"Total Lessons":     strconv.Itoa(course.TotalLessons),
			"Completed Modules": strconv.Itoa(course.CompletedModules),
			"Total Modules":     strconv.Itoa(course.TotalModules),
			"Finished":          strconv.FormatBool(course.IsCompleted),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func courseDetailDataset(detail *dto.CourseProgressDetail) export.Dataset {
	headers := []string{"Module", "Lesson", "Completed"}
	rows := make([]map[string]string, 0)
	for _, module := range detail.Modules {
		for _, lesson := range module.Lessons {
			rows = append(rows, map[string]string{
				"Module":    module.ModuleTitle,
				"Lesson":    lesson.LessonTitle,
				"Completed": strconv.FormatBool(lesson.IsCompleted),
			})
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	scope := "all-courses"
	if job.Params.CourseID != nil && *job.Params.CourseID != "" {
		scope = *job.Params.CourseID
	}
	return fmt.Sprintf("%s/%s-%s-%s.%s", time.Now().UTC().Format("2006-01"), job.Type, scope, job.ID, job.Params.Format)
}
