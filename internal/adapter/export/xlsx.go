// Package export renders stored feedback as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	feedbackSheet = "Feedback"
	summarySheet  = "Summary"
	ContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Workbook is the XLSX feedback exporter.
type Workbook struct{}

func (Workbook) WriteFeedback(w io.Writer, list []domain.StoredFeedback) error {
	return WriteFeedback(w, list)
}

// WriteFeedback writes one row per submission plus a rating summary sheet.
func WriteFeedback(w io.Writer, list []domain.StoredFeedback) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", feedbackSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := append([]any{}, toAny(domain.FeedbackColumns)...)
	header = append(header, "Submitted At")
	if err := f.SetSheetRow(feedbackSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	last, _ := excelize.ColumnNumberToName(len(header))
	_ = f.SetColWidth(feedbackSheet, "A", last, 22)
	if err := f.SetPanes(feedbackSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	histogram := make([]int, 6)
	total := 0
	for i, fb := range list {
		submitted := ""
		if !fb.SubmittedAt.IsZero() {
			submitted = fb.SubmittedAt.UTC().Format(time.RFC3339)
		}
		row := []any{fb.Name, fb.Email, fb.Rating, fb.EasyToUse, fb.Challenges, fb.GeneralFeedback, submitted}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(feedbackSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
		if fb.Rating >= 1 && fb.Rating <= 5 {
			histogram[fb.Rating]++
			total += fb.Rating
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	_ = f.SetCellValue(summarySheet, "A1", "Submissions")
	_ = f.SetCellValue(summarySheet, "B1", len(list))
	_ = f.SetCellValue(summarySheet, "A2", "Average Rating")
	if len(list) > 0 {
		_ = f.SetCellValue(summarySheet, "B2", float64(total)/float64(len(list)))
	}
	_ = f.SetCellValue(summarySheet, "A4", "Rating")
	_ = f.SetCellValue(summarySheet, "B4", "Count")
	for r := 1; r <= 5; r++ {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", r+4), r)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", r+4), histogram[r])
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
