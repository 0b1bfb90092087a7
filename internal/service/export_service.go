package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/export"
	"github.com/noah-isme/gradebook-api/pkg/storage"
)

// ExportFile is a rendered export ready to stream. DownloadToken is set when
// an archive copy was written and can be exchanged later at the archive
// endpoint.
type ExportFile struct {
	Filename      string
	ContentType   string
	Data          []byte
	DownloadToken string
}

// ExportService renders analytics snapshots into downloadable files.
// Rounding to one decimal happens here, at the presentation boundary; the
// snapshots themselves carry full-precision numbers.
type ExportService struct {
	analytics  *AnalyticsService
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	schoolName string
	logger     *zap.Logger

	archive *storage.LocalStorage
	signer  *storage.SignedURLSigner
}

// NewExportService constructs an ExportService.
func NewExportService(analytics *AnalyticsService, schoolName string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		analytics:  analytics,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		schoolName: schoolName,
		logger:     logger,
	}
}

// SetArchive wires the on-disk archive tier. Every rendered export is also
// written there and handed back with a signed download token.
func (s *ExportService) SetArchive(archive *storage.LocalStorage, signer *storage.SignedURLSigner) {
	s.archive = archive
	s.signer = signer
}

// archiveCopy writes a timestamped copy of the rendered file to the archive.
// Failures are logged and never block the inline download.
func (s *ExportService) archiveCopy(file *ExportFile) {
	if s.archive == nil {
		return
	}
	name := time.Now().UTC().Format("20060102T150405") + "_" + file.Filename
	if _, err := s.archive.Save(name, file.Data); err != nil {
		s.logger.Warn("export archive write failed", zap.String("file", name), zap.Error(err))
		return
	}
	if s.signer != nil {
		token, _, err := s.signer.Generate(name, name)
		if err != nil {
			s.logger.Warn("export token generation failed", zap.String("file", name), zap.Error(err))
			return
		}
		file.DownloadToken = token
	}
}

// OpenArchived exchanges a signed token for a previously archived export.
func (s *ExportService) OpenArchived(token string) (*ExportFile, error) {
	if s.archive == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export archive not configured")
	}
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid or expired download token")
	}
	handle, err := s.archive.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "archived export no longer available")
	}
	defer func() { _ = handle.Close() }()

	data, err := io.ReadAll(handle)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read archived export")
	}
	contentType := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(relPath)) {
	case ".csv":
		contentType = "text/csv"
	case ".pdf":
		contentType = "application/pdf"
	}
	return &ExportFile{Filename: filepath.Base(relPath), ContentType: contentType, Data: data}, nil
}

// CleanupArchive drops archived exports older than the TTL.
func (s *ExportService) CleanupArchive(ttl time.Duration) (int, error) {
	if s.archive == nil || ttl <= 0 {
		return 0, nil
	}
	deleted, err := s.archive.CleanupOlderThan(ttl)
	if err != nil {
		return 0, err
	}
	return len(deleted), nil
}

func round1(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func (s *ExportService) meritDataset(snapshot models.AnalyticsSnapshot) export.Dataset {
	data := export.Dataset{
		Headers: []string{"Rank", "ADM", "Name", "Class", "Average", "Highest", "Lowest", "Assessments"},
	}
	for _, entry := range snapshot.MeritList {
		data.Rows = append(data.Rows, map[string]string{
			"Rank":        fmt.Sprintf("%d", entry.Rank),
			"ADM":         entry.AdmissionNo,
			"Name":        entry.Name,
			"Class":       entry.Class,
			"Average":     round1(entry.Average),
			"Highest":     round1(entry.Highest),
			"Lowest":      round1(entry.Lowest),
			"Assessments": fmt.Sprintf("%d", entry.Assessments),
		})
	}
	return data
}

func (s *ExportService) classDataset(snapshot models.AnalyticsSnapshot) export.Dataset {
	data := export.Dataset{
		Headers: []string{"Rank", "Class", "Average", "Students", "Marks", "Pass Rate", "Highest", "Lowest", "Top Student"},
	}
	for _, ranking := range snapshot.ClassRankings {
		data.Rows = append(data.Rows, map[string]string{
			"Rank":        fmt.Sprintf("%d", ranking.Rank),
			"Class":       ranking.Class,
			"Average":     round1(ranking.Average),
			"Students":    fmt.Sprintf("%d", ranking.StudentCount),
			"Marks":       fmt.Sprintf("%d", ranking.MarkCount),
			"Pass Rate":   round1(ranking.PassRate) + "%",
			"Highest":     round1(ranking.Highest),
			"Lowest":      round1(ranking.Lowest),
			"Top Student": ranking.TopStudent,
		})
	}
	return data
}

// MeritListCSV renders the merit list for a scope as CSV.
func (s *ExportService) MeritListCSV(ctx context.Context, scope string) (*ExportFile, error) {
	snapshot, _, err := s.analytics.Overview(ctx, scope)
	if err != nil {
		return nil, err
	}
	payload, err := s.csv.Render(s.meritDataset(snapshot))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render merit list")
	}
	file := &ExportFile{Filename: "merit-list.csv", ContentType: "text/csv", Data: payload}
	s.archiveCopy(file)
	return file, nil
}

// ClassRankingsPDF renders the class standings for a scope as PDF.
func (s *ExportService) ClassRankingsPDF(ctx context.Context, scope string) (*ExportFile, error) {
	snapshot, _, err := s.analytics.Overview(ctx, scope)
	if err != nil {
		return nil, err
	}
	title := s.schoolName + " class rankings"
	payload, err := s.pdf.Render(s.classDataset(snapshot), title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render class rankings")
	}
	s.logger.Info("class rankings exported", zap.String("scope", snapshot.Scope))
	file := &ExportFile{Filename: "class-rankings.pdf", ContentType: "application/pdf", Data: payload}
	s.archiveCopy(file)
	return file, nil
}
