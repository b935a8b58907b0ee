package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
)

const workbookSheet = "Sheet1"

type workbookStore struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewWorkbookStore keeps candidate rows in a single xlsx file, one row per
// record under a header row.
func NewWorkbookStore(path string, logger *zap.Logger) CandidateStore {
	return &workbookStore{
		path:   path,
		logger: logger,
	}
}

// Append implements CandidateStore.
func (s *workbookStore) Append(ctx context.Context, row *models.CandidateRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.openOrCreate()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(workbookSheet)
	if err != nil {
		return fmt.Errorf("failed to read workbook rows: %w", err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("failed to address workbook row: %w", err)
	}
	values := row.Values()
	if err := f.SetSheetRow(workbookSheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write workbook row: %w", err)
	}

	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	s.logger.Debug("candidate appended to workbook", zap.String("path", s.path), zap.Int("row", len(rows)+1))
	return nil
}

// ReadAll implements CandidateStore. A missing file is an empty store.
func (s *workbookStore) ReadAll(ctx context.Context) ([]models.CandidateRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	index, err := f.GetSheetIndex(workbookSheet)
	if err != nil || index == -1 {
		return nil, nil
	}

	rows, err := f.GetRows(workbookSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	candidates := make([]models.CandidateRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		row, err := models.RowFromValues(cells)
		if err != nil {
			return nil, fmt.Errorf("failed to parse workbook row %d: %w", i+2, err)
		}
		candidates = append(candidates, row)
	}

	return candidates, nil
}

func (s *workbookStore) openOrCreate() (*excelize.File, error) {
	f, err := excelize.OpenFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		f = excelize.NewFile()
	case err != nil:
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	index, err := f.GetSheetIndex(workbookSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to look up sheet: %w", err)
	}
	if index == -1 {
		if _, err := f.NewSheet(workbookSheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}
	}

	rows, err := f.GetRows(workbookSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read workbook rows: %w", err)
	}
	if len(rows) == 0 {
		if err := writeHeader(f); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func writeHeader(f *excelize.File) error {
	header := make([]interface{}, 0, len(models.Columns()))
	for _, col := range models.Columns() {
		header = append(header, col)
	}
	if err := f.SetSheetRow(workbookSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write workbook header: %w", err)
	}
	return nil
}

// WriteWorkbook renders rows as an xlsx document with the store's layout.
func WriteWorkbook(w io.Writer, rows []models.CandidateRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeHeader(f); err != nil {
		return err
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address workbook row: %w", err)
		}
		values := rows[i].Values()
		if err := f.SetSheetRow(workbookSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write workbook row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ExportWorkbook writes rows to path.
func ExportWorkbook(path string, rows []models.CandidateRow) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := WriteWorkbook(out, rows); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
