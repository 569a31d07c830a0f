package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ExportFormat selects the export file format.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
	FormatJSON ExportFormat = "json"
)

var inventoryColumns = []string{
	"Rank", "URL", "Type", "Priority", "Backlinks", "Depth", "Crawled", "Status Code",
}

var scoreColumns = []string{
	"URL", "Title", "Meta Description", "Headings", "Body Content",
	"Images", "Schema", "Composite", "Critical Failed",
}

// Exporter writes a SiteReport to disk.
type Exporter struct {
	format ExportFormat
	path   string
}

// NewExporter creates an exporter for the given format and file path.
func NewExporter(format ExportFormat, path string) *Exporter {
	return &Exporter{format: format, path: path}
}

// Export writes the report in the configured format.
func (e *Exporter) Export(rep *SiteReport) error {
	switch e.format {
	case FormatCSV:
		return e.exportCSV(rep)
	case FormatXLSX:
		return e.exportXLSX(rep)
	case FormatJSON:
		return e.exportJSON(rep)
	default:
		return fmt.Errorf("unsupported export format: %s", e.format)
	}
}

func inventoryRows(rep *SiteReport) [][]interface{} {
	rows := make([][]interface{}, 0, len(rep.Inventory))
	for i, p := range rep.Inventory {
		rows = append(rows, []interface{}{
			i + 1, p.URL, string(p.Type), p.Priority, p.Backlinks,
			p.Depth, yesNo(p.Crawled), p.StatusCode,
		})
	}
	return rows
}

func scoreRows(rep *SiteReport) [][]interface{} {
	rows := make([][]interface{}, 0, len(rep.Pages))
	for _, p := range rep.Pages {
		rows = append(rows, []interface{}{
			p.URL,
			scoreCell(p.Title != nil, func() int { return p.Title.Score }),
			scoreCell(p.Meta != nil, func() int { return p.Meta.Score }),
			scoreCell(p.Headings != nil, func() int { return p.Headings.Score }),
			scoreCell(p.Body != nil, func() int { return p.Body.Score }),
			scoreCell(p.Images != nil, func() int { return p.Images.Score }),
			scoreCell(p.Schema != nil, func() int { return p.Schema.Score }),
			fmt.Sprintf("%.1f", p.Composite),
			yesNo(p.CriticalFailed),
		})
	}
	return rows
}

func scoreCell(ok bool, score func() int) interface{} {
	if !ok {
		return ""
	}
	return score()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// exportCSV writes the score breakdown followed by the URL inventory
// into a single CSV file.
func (e *Exporter) exportCSV(rep *SiteReport) error {
	file, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer file.Close()

	// UTF-8 BOM for Excel compatibility.
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	w := csv.NewWriter(file)
	defer w.Flush()

	writeSection := func(header []string, rows [][]interface{}) error {
		if err := w.Write(header); err != nil {
			return err
		}
		for _, row := range rows {
			record := make([]string, len(row))
			for i, v := range row {
				record[i] = formatValue(v)
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeSection(scoreColumns, scoreRows(rep)); err != nil {
		return err
	}
	if err := w.Write([]string{}); err != nil {
		return err
	}
	if err := writeSection(inventoryColumns, inventoryRows(rep)); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// exportXLSX writes one sheet per section plus a summary sheet.
func (e *Exporter) exportXLSX(rep *SiteReport) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00C853"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})

	writeSheet := func(name string, header []string, rows [][]interface{}) error {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
		for i, col := range header {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(name, cell, col)
			f.SetCellStyle(name, cell, cell, headerStyle)

			colName, _ := excelize.ColumnNumberToName(i + 1)
			width := float64(len(col) + 6)
			if width < 12 {
				width = 12
			}
			f.SetColWidth(name, colName, colName, width)
		}
		for rowIdx, row := range rows {
			for i, v := range row {
				cell, _ := excelize.CoordinatesToCellName(i+1, rowIdx+2)
				f.SetCellValue(name, cell, v)
			}
		}
		return f.SetPanes(name, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}

	if err := writeSheet("Scores", scoreColumns, scoreRows(rep)); err != nil {
		return err
	}
	if err := writeSheet("URL Inventory", inventoryColumns, inventoryRows(rep)); err != nil {
		return err
	}
	e.addSummarySheet(f, rep)

	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex("Summary"); err == nil {
		f.SetActiveSheet(idx)
	}
	return f.SaveAs(e.path)
}

func (e *Exporter) addSummarySheet(f *excelize.File, rep *SiteReport) {
	const name = "Summary"
	f.NewSheet(name)

	rows := [][]string{
		{"Session", rep.SessionID},
		{"Base URL", rep.BaseURL},
		{"Generated", rep.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
		{"Overall Score", fmt.Sprintf("%.1f/100", rep.OverallScore)},
		{"Pages Crawled", strconv.Itoa(rep.CrawledCount)},
		{"Failed Fetches", strconv.Itoa(rep.FailedCount)},
		{"URLs Discovered", strconv.Itoa(len(rep.Inventory))},
	}
	if rep.Architecture != nil {
		rows = append(rows, []string{
			"Architecture Score",
			fmt.Sprintf("%d/100 (%s)", rep.Architecture.Score, rep.Architecture.Status),
		})
	}
	if rep.HomepageCapped {
		rows = append(rows, []string{"Note", "Homepage critical issues detected - overall score capped"})
	}

	for i, row := range rows {
		f.SetCellValue(name, fmt.Sprintf("A%d", i+1), row[0])
		f.SetCellValue(name, fmt.Sprintf("B%d", i+1), row[1])
	}
	f.SetColWidth(name, "A", "A", 22)
	f.SetColWidth(name, "B", "B", 60)
}

// exportJSON dumps the full report.
func (e *Exporter) exportJSON(rep *SiteReport) error {
	file, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rep)
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return fmt.Sprintf("%.2f", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
