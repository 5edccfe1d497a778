package spreadsheet

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/domain/difficulty"
)

// SheetName is the sheet written by WriteXLSX.
const SheetName = "Vokabeln"

var (
	// ErrUnsupportedFormat is returned for file extensions other than .xlsx and .csv.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

	// ErrEmptySheet is returned when a file has no data rows.
	ErrEmptySheet = errors.New("spreadsheet has no rows")
)

// Format is a supported file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// FormatOf derives the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ImportResult holds the normalized entries of a file.
type ImportResult struct {
	Entries []domain.VocabEntry
	Rows    int // data rows read, header excluded
	Dropped int // rows rejected by normalization
	Folded  int // rows merged into an earlier row with the same key
}

// columns maps a logical field to a column index; -1 means absent.
type columns struct {
	source, target, correct, wrong, shown int
}

var positional = columns{source: 0, target: 1, correct: 2, wrong: 3, shown: 4}

var headerAliases = map[string][]string{
	"source":  {"source", "de", "deutsch", "german", "wort"},
	"target":  {"target", "es", "spanisch", "spanish", "español", "übersetzung"},
	"correct": {"correctcount", "correct", "richtig"},
	"wrong":   {"wrongcount", "wrong", "falsch"},
	"shown":   {"timesshown", "shown", "angezeigt"},
}

// Header is the row written by the writers, in column order.
var Header = []string{"source", "target", "correctCount", "wrongCount", "timesShown", "rate"}

// ReadFile imports a file, picking the format from its extension.
func ReadFile(path string) (ImportResult, error) {
	format, err := FormatOf(path)
	if err != nil {
		return ImportResult{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return Read(f, format)
}

// Read imports rows from r in the given format.
func Read(r io.Reader, format Format) (ImportResult, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatXLSX:
		rows, err = readXLSX(r)
	case FormatCSV:
		rows, err = readCSV(r)
	default:
		return ImportResult{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return ImportResult{}, err
	}

	return fromRows(rows)
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	sheet := sheets[0]
	if idx, err := f.GetSheetIndex(SheetName); err == nil && idx >= 0 {
		sheet = SheetName
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return rows, nil
}

func fromRows(rows [][]string) (ImportResult, error) {
	rows = dropBlank(rows)
	if len(rows) == 0 {
		return ImportResult{}, ErrEmptySheet
	}

	cols, isHeader := detectHeader(rows[0])
	if isHeader {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return ImportResult{}, ErrEmptySheet
	}

	raws := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		raws = append(raws, rawEntry(row, cols))
	}
	data, err := json.Marshal(raws)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to encode rows: %w", err)
	}

	entries, dropped, err := domain.NormalizeList(data)
	if err != nil {
		return ImportResult{}, err
	}

	return ImportResult{
		Entries: entries,
		Rows:    len(rows),
		Dropped: dropped,
		Folded:  len(rows) - dropped - len(entries),
	}, nil
}

func dropBlank(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// detectHeader reports whether row is a header and, if so, where each field
// lives. A row is a header when both a source and a target alias appear in it.
func detectHeader(row []string) (columns, bool) {
	cols := columns{source: -1, target: -1, correct: -1, wrong: -1, shown: -1}
	for i, cell := range row {
		name := strings.ToLower(strings.TrimSpace(cell))
		for field, aliases := range headerAliases {
			for _, alias := range aliases {
				if name != alias {
					continue
				}
				switch field {
				case "source":
					cols.source = i
				case "target":
					cols.target = i
				case "correct":
					cols.correct = i
				case "wrong":
					cols.wrong = i
				case "shown":
					cols.shown = i
				}
			}
		}
	}
	if cols.source < 0 || cols.target < 0 {
		return positional, false
	}
	return cols, true
}

func rawEntry(row []string, cols columns) map[string]any {
	raw := map[string]any{}
	if v, ok := cell(row, cols.source); ok {
		raw["source"] = v
	}
	if v, ok := cell(row, cols.target); ok {
		raw["target"] = v
	}

	stats := map[string]any{}
	for key, idx := range map[string]int{
		"correctCount": cols.correct,
		"wrongCount":   cols.wrong,
		"timesShown":   cols.shown,
	} {
		if v, ok := cell(row, idx); ok {
			if n, err := strconv.Atoi(v); err == nil {
				stats[key] = n
			}
		}
	}
	if len(stats) > 0 {
		raw["stats"] = stats
	}
	return raw
}

func cell(row []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[idx]), true
}

// WriteFile exports entries, picking the format from the path's extension.
func WriteFile(path string, entries []domain.VocabEntry) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(f, format, entries); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Write exports entries to w with a header row.
func Write(w io.Writer, format Format, entries []domain.VocabEntry) error {
	switch format {
	case FormatXLSX:
		return writeXLSX(w, entries)
	case FormatCSV:
		return writeCSV(w, entries)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func record(e domain.VocabEntry) []string {
	rate := ""
	if r, ok := difficulty.Rate(e.Stats); ok {
		rate = strconv.Itoa(r)
	}
	return []string{
		e.Source,
		e.Target,
		strconv.Itoa(e.Stats.CorrectCount),
		strconv.Itoa(e.Stats.WrongCount),
		strconv.Itoa(e.Stats.TimesShown),
		rate,
	}
}

func writeCSV(w io.Writer, entries []domain.VocabEntry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range entries {
		if err := writer.Write(record(e)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeXLSX(w io.Writer, entries []domain.VocabEntry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, e := range entries {
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		rec := record(e)
		row := []any{rec[0], rec[1], e.Stats.CorrectCount, e.Stats.WrongCount, e.Stats.TimesShown, rec[5]}
		if err := f.SetSheetRow(SheetName, addr, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
