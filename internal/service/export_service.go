package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kasms254/KASMS-sub002/internal/grading"
	"github.com/Kasms254/KASMS-sub002/internal/models"
	appErrors "github.com/Kasms254/KASMS-sub002/pkg/errors"
	"github.com/Kasms254/KASMS-sub002/pkg/export"
)

// Report export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type examStatsProvider interface {
	ExamStatistics(ctx context.Context, examID int64, scaleName string) (*models.ExamStatistics, error)
	ClassStatistics(ctx context.Context, classID int64, scaleName string) (*models.ClassStatistics, error)
}

// Report is a rendered document ready to stream to the caller.
type Report struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders statistics summaries into downloadable CSV and PDF
// reports. Rendering is synchronous; the handler streams the payload back on
// the same request.
type ExportService struct {
	stats  examStatsProvider
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(stats examStatsProvider, csv *export.CSVExporter, pdf *export.PDFExporter, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{stats: stats, csv: csv, pdf: pdf, logger: logger}
}

// ExamReport renders one exam's statistics in the requested format.
func (s *ExportService) ExamReport(ctx context.Context, examID int64, scaleName, format string) (*Report, error) {
	stats, err := s.stats.ExamStatistics(ctx, examID, scaleName)
	if err != nil {
		return nil, err
	}
	dataset, err := statisticsDataset(stats.Scale, stats.Total, stats.Submitted, stats.Pending,
		stats.Average, stats.Highest, stats.Lowest, stats.PassRate, stats.GradeHistogram)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Exam %d Results Summary", examID)
	return s.render(dataset, title, format)
}

// ClassReport renders a class-wide statistics summary in the requested format.
func (s *ExportService) ClassReport(ctx context.Context, classID int64, scaleName, format string) (*Report, error) {
	stats, err := s.stats.ClassStatistics(ctx, classID, scaleName)
	if err != nil {
		return nil, err
	}
	dataset, err := statisticsDataset(stats.Scale, stats.Total, stats.Submitted, stats.Pending,
		stats.Average, stats.Highest, stats.Lowest, stats.PassRate, stats.GradeHistogram)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Class %d Results Summary", classID)
	return s.render(dataset, title, format)
}

func (s *ExportService) render(dataset export.Dataset, title, format string) (*Report, error) {
	switch format {
	case FormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &Report{
			Filename:    uuid.NewString() + ".csv",
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	case FormatPDF:
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &Report{
			Filename:    uuid.NewString() + ".pdf",
			ContentType: "application/pdf",
			Payload:     payload,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

// statisticsDataset flattens a summary into the exporter's tabular shape.
// Averages are rounded to one decimal here and nowhere earlier.
func statisticsDataset(scaleName string, total, submitted, pending int, average, highest, lowest, passRate *float64, histogram map[string]int) (export.Dataset, error) {
	scale, err := grading.ScaleByName(scaleName)
	if err != nil {
		return export.Dataset{}, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	dataset := export.Dataset{
		Summary: [][2]string{
			{"Scale", scale.Name()},
			{"Total", strconv.Itoa(total)},
			{"Submitted", strconv.Itoa(submitted)},
			{"Pending", strconv.Itoa(pending)},
			{"Average", displayFloat(average)},
			{"Highest", displayFloat(highest)},
			{"Lowest", displayFloat(lowest)},
			{"Pass Rate", displayFloat(passRate)},
		},
		Headers: []string{"Grade", "Count"},
	}
	for _, g := range scale.Grades() {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Grade": string(g),
			"Count": strconv.Itoa(histogram[string(g)]),
		})
	}
	return dataset, nil
}

func displayFloat(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(grading.RoundTo1(*v), 'f', 1, 64)
}
