package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/campus-board/announcements-service/internal/models"
	"github.com/campus-board/announcements-service/internal/repositories"
)

const exportSheet = "Announcements"

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ExportPosts renders every post (drafts included, since the caller is an
// admin) into an xlsx workbook.
func (s *exportService) ExportPosts(ctx context.Context) ([]byte, error) {
	posts, err := s.repo.Post().List(ctx, nil, repositories.PostFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheet)

	headers := []string{"ID", "Title", "Department", "Tags", "Min CGPA", "Deadline", "Draft", "Created At", "Updated At"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, post := range posts {
		values := exportRow(post)
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("Exported posts", "count", len(posts))
	return buf.Bytes(), nil
}

func exportRow(post *models.Post) []interface{} {
	department := ""
	if post.Department != nil {
		department = *post.Department
	}
	cgpa := ""
	if post.CGPA != nil {
		cgpa = fmt.Sprintf("%.2f", *post.CGPA)
	}
	deadline := ""
	if post.LastSubmittedAt != nil {
		deadline = post.LastSubmittedAt.UTC().Format(time.RFC3339)
	}

	return []interface{}{
		post.ID,
		post.Title,
		department,
		strings.Join(post.Tags, ", "),
		cgpa,
		deadline,
		post.IsDraft,
		post.CreatedAt.UTC().Format(time.RFC3339),
		post.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
