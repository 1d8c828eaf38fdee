package scoring

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/resume-screener/internal/types"
	"github.com/jonathan/resume-screener/internal/workspace"
)

// Sheet names of the scoring workbook.
const (
	SheetScores  = "Scores"
	SheetReasons = "Reasons"
)

// reasonSuffix is appended to feature names for Reasons sheet columns.
const reasonSuffix = "_reason"

// scoreBaseColumns lead every Scores sheet; feature columns follow in schema
// order.
var scoreBaseColumns = []string{"candidate_id", "resume_path", "total_score", "comments"}

// Workbook is the in-memory form of the two-sheet scoring artifact. Rows are
// kept as strings so previously persisted rows survive a merge unchanged;
// numeric columns are typed again on write.
type Workbook struct {
	ScoreHeader  []string
	ReasonHeader []string
	ScoreRows    [][]string
	ReasonRows   [][]string
}

// NewWorkbook creates an empty workbook with columns for the given feature
// names in schema order.
func NewWorkbook(featureNames []string) *Workbook {
	scoreHeader := append([]string{}, scoreBaseColumns...)
	reasonHeader := []string{"candidate_id"}
	for _, name := range featureNames {
		scoreHeader = append(scoreHeader, name)
		reasonHeader = append(reasonHeader, name+reasonSuffix)
	}
	return &Workbook{ScoreHeader: scoreHeader, ReasonHeader: reasonHeader}
}

// ReadWorkbook loads an existing workbook. Both sheets must be present and
// readable; the caller decides whether a failure here is fatal (it is not on
// the incremental path, where a corrupt prior workbook means a fresh start).
func ReadWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	scoreHeader, scoreRows, err := readSheet(f, SheetScores)
	if err != nil {
		return nil, err
	}
	reasonHeader, reasonRows, err := readSheet(f, SheetReasons)
	if err != nil {
		return nil, err
	}

	return &Workbook{
		ScoreHeader:  scoreHeader,
		ReasonHeader: reasonHeader,
		ScoreRows:    scoreRows,
		ReasonRows:   reasonRows,
	}, nil
}

// readSheet returns the header row and data rows of one sheet, padded to the
// header width (excelize trims trailing empty cells).
func readSheet(f *excelize.File, sheet string) ([]string, [][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("sheet %s has no header row", sheet)
	}

	header := rows[0]
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		for len(row) < len(header) {
			row = append(row, "")
		}
		data = append(data, row[:len(header)])
	}
	return header, data, nil
}

// ProcessedIDs returns the set of candidate ids already present in the
// Scores sheet.
func (w *Workbook) ProcessedIDs() map[string]bool {
	ids := make(map[string]bool, len(w.ScoreRows))
	for _, row := range w.ScoreRows {
		if len(row) > 0 && row[0] != "" {
			ids[row[0]] = true
		}
	}
	return ids
}

// Append adds one candidate's rows, mapping feature cells by column name so
// row layout always follows the workbook header.
func (w *Workbook) Append(score types.ScoreRow, reason types.ReasonRow) {
	scoreRow := make([]string, len(w.ScoreHeader))
	for i, col := range w.ScoreHeader {
		switch col {
		case "candidate_id":
			scoreRow[i] = score.CandidateID
		case "resume_path":
			scoreRow[i] = score.ResumePath
		case "total_score":
			scoreRow[i] = strconv.FormatFloat(score.TotalScore, 'f', -1, 64)
		case "comments":
			scoreRow[i] = score.Comments
		default:
			scoreRow[i] = strconv.Itoa(score.FeatureScores[col])
		}
	}

	reasonRow := make([]string, len(w.ReasonHeader))
	for i, col := range w.ReasonHeader {
		if col == "candidate_id" {
			reasonRow[i] = reason.CandidateID
			continue
		}
		name := col
		if len(name) > len(reasonSuffix) && name[len(name)-len(reasonSuffix):] == reasonSuffix {
			name = name[:len(name)-len(reasonSuffix)]
		}
		reasonRow[i] = reason.Reasons[name]
	}

	w.ScoreRows = append(w.ScoreRows, scoreRow)
	w.ReasonRows = append(w.ReasonRows, reasonRow)
}

// Write persists the workbook atomically: the file is fully written under a
// temporary name and renamed into place, so readers never observe a partial
// artifact.
func (w *Workbook) Write(path string) error {
	if err := workspace.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetScores); err != nil {
		return fmt.Errorf("failed to create Scores sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetReasons); err != nil {
		return fmt.Errorf("failed to create Reasons sheet: %w", err)
	}

	if err := writeSheet(f, SheetScores, w.ScoreHeader, w.ScoreRows, numericScoreColumns(w.ScoreHeader)); err != nil {
		return err
	}
	if err := writeSheet(f, SheetReasons, w.ReasonHeader, w.ReasonRows, nil); err != nil {
		return err
	}

	// excelize validates the target extension, so the temp name must still
	// end in .xlsx.
	tmp := path + ".tmp.xlsx"
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to finalize workbook: %w", err)
	}
	return nil
}

// numericScoreColumns marks which Scores columns hold numbers: total_score
// and every feature column. Identifier-like columns (candidate_id) must stay
// strings even when they look numeric.
func numericScoreColumns(header []string) map[int]bool {
	numeric := make(map[int]bool, len(header))
	for i, col := range header {
		switch col {
		case "candidate_id", "resume_path", "comments":
		default:
			numeric[i] = true
		}
	}
	return numeric
}

// writeSheet writes the header and rows, converting numeric columns back to
// typed cells.
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string, numeric map[int]bool) error {
	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}

	for r, row := range rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			if numeric[i] && v != "" {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					cells[i] = n
					continue
				}
			}
			cells[i] = v
		}
		start, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, start, &cells); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, r+2, err)
		}
	}
	return nil
}
