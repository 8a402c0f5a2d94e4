package xlsx

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// sheetRows is a sheet read with its header row mapped to column positions.
type sheetRows struct {
	name string
	cols map[string]int
	rows [][]string
	// serialDates marks sheets whose numeric date cells hold Excel serial numbers.
	serialDates bool
}

func readSheet(f *excelize.File, sheet string) (*sheetRows, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	s := &sheetRows{name: sheet, cols: map[string]int{}}
	if len(rows) == 0 {
		return s, nil
	}
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, dup := s.cols[h]; !dup {
			s.cols[h] = i
		}
	}
	s.rows = rows[1:]
	return s, nil
}

// require fails when a column is absent from a non-empty sheet.
func (s *sheetRows) require(cols ...string) error {
	if len(s.rows) == 0 {
		return nil
	}
	for _, c := range cols {
		if _, ok := s.cols[c]; !ok {
			return fmt.Errorf("sheet %s: missing column %s", s.name, c)
		}
	}
	return nil
}

func (s *sheetRows) cell(row []string, col string) string {
	i, ok := s.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (s *sheetRows) int64(row []string, col string) (int64, bool) {
	return parseInt(s.cell(row, col))
}

func (s *sheetRows) optInt64(row []string, col string) *int64 {
	v, ok := parseInt(s.cell(row, col))
	if !ok {
		return nil
	}
	return &v
}

func (s *sheetRows) float(row []string, col string) float64 {
	v, _ := parseFloat(s.cell(row, col))
	return v
}

func (s *sheetRows) optFloat(row []string, col string) *float64 {
	v, ok := parseFloat(s.cell(row, col))
	if !ok {
		return nil
	}
	return &v
}

func (s *sheetRows) date(row []string, col string) string {
	v := s.cell(row, col)
	if s.serialDates {
		if d, ok := serialDate(v); ok {
			return d
		}
	}
	return normalizeDate(v)
}

// each calls fn for every row whose key column holds an integer. Rows with a blank key
// are skipped; a malformed key is an error.
func (s *sheetRows) each(keyCol string, fn func(row []string, key int64)) error {
	for i, row := range s.rows {
		raw := s.cell(row, keyCol)
		if raw == "" {
			continue
		}
		key, ok := parseInt(raw)
		if !ok {
			return fmt.Errorf("sheet %s row %d: invalid %s %q", s.name, i+2, keyCol, raw)
		}
		fn(row, key)
	}
	return nil
}

func parseInt(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	// Numeric cells can come back as "43659.0" or "4.3659E4".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

const dateLayout = "2006-01-02"

var dateLayouts = []string{
	dateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006",
	"01/02/2006",
	"1/2/2006 15:04",
}

// maxExcelSerial is the serial number of 9999-12-31, the last date Excel can represent.
const maxExcelSerial = 2958465

// serialDate renders an Excel serial date as YYYY-MM-DD. Values outside Excel's date
// range are rejected.
func serialDate(s string) (string, bool) {
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial < 1 || serial > maxExcelSerial {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", false
	}
	return t.Format(dateLayout), true
}

// normalizeDate renders common date strings as YYYY-MM-DD. Other values, numeric ones
// included, are returned unchanged.
func normalizeDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout)
		}
	}
	return s
}

// writeSheet replaces the content of sheet with a header row and data rows.
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func optInt(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func optFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func optString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
