package recipients

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Default column headers of the birthday spreadsheet
const (
	DefaultNameColumn = "Name"
	DefaultDateColumn = "Date of Birth"
)

// Options configures the spreadsheet source
type Options struct {
	Path       string // .xlsx workbook
	Sheet      string // empty selects the first sheet
	NameColumn string
	DateColumn string
}

// Source reads recipients from an Excel workbook
type Source struct {
	opts   Options
	logger zerolog.Logger
}

// NewSource creates a spreadsheet source
func NewSource(opts Options, logger zerolog.Logger) *Source {
	if opts.NameColumn == "" {
		opts.NameColumn = DefaultNameColumn
	}
	if opts.DateColumn == "" {
		opts.DateColumn = DefaultDateColumn
	}
	return &Source{
		opts:   opts,
		logger: logger.With().Str("component", "recipients").Logger(),
	}
}

// Load reads every row with a name and a valid birth date, in sheet order.
// Rows with a missing name or an unparseable date are skipped.
func (s *Source) Load() ([]Recipient, error) {
	f, err := excelize.OpenFile(s.opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", s.opts.Path, err)
	}
	defer f.Close()

	sheet := s.opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", s.opts.Path)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	nameIdx, dateIdx, err := s.columnIndexes(rows[0])
	if err != nil {
		return nil, err
	}

	result := make([]Recipient, 0, len(rows)-1)
	skipped := 0
	for i, row := range rows[1:] {
		name := strings.TrimSpace(cell(row, nameIdx))
		birth, ok := ParseBirthDate(cell(row, dateIdx))
		if name == "" || !ok {
			skipped++
			s.logger.Debug().
				Int("row", i+2).
				Str("name", name).
				Msg("Skipping row without a valid name and birth date")
			continue
		}
		result = append(result, Recipient{Name: name, BirthDate: birth})
	}

	s.logger.Info().
		Int("recipients", len(result)).
		Int("skipped", skipped).
		Str("sheet", sheet).
		Msg("Loaded recipients")

	return result, nil
}

func (s *Source) columnIndexes(header []string) (int, int, error) {
	nameIdx, dateIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case s.opts.NameColumn:
			nameIdx = i
		case s.opts.DateColumn:
			dateIdx = i
		}
	}
	if nameIdx < 0 {
		return 0, 0, fmt.Errorf("column %q not found in header", s.opts.NameColumn)
	}
	if dateIdx < 0 {
		return 0, 0, fmt.Errorf("column %q not found in header", s.opts.DateColumn)
	}
	return nameIdx, dateIdx, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
