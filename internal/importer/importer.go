// Package importer bulk-loads cards from spreadsheets and CSV files.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/lexiz/internal/textclean"
)

// Config describes where card fields live in the source file. Columns are
// spreadsheet letters; the same letters index CSV fields (A is the first).
type Config struct {
	Path              string
	WordColumn        string
	TranslationColumn string
	NotesColumn       string
	TagsColumn        string
	LevelColumn       string
	SheetName         string // first sheet when empty
	StartRow          int    // 1-based
}

// DefaultConfig reads word, translation, notes, tags and level from
// columns A to E, skipping a header row.
func DefaultConfig() Config {
	return Config{
		WordColumn:        "A",
		TranslationColumn: "B",
		NotesColumn:       "C",
		TagsColumn:        "D",
		LevelColumn:       "E",
		StartRow:          2,
	}
}

// Row is one parsed card.
type Row struct {
	Line               int
	EnglishWord        string
	RussianTranslation string
	Notes              string
	Level              string
	Tags               []string
}

// Sink receives imported cards.
type Sink interface {
	HasWord(ctx context.Context, word string) (bool, error)
	AddCard(ctx context.Context, row Row) error
}

// TranslateFunc fills in a missing translation. It returns "" when it
// cannot.
type TranslateFunc func(ctx context.Context, word string) string

// Result holds the outcome of an import.
type Result struct {
	TotalProcessed int
	Created        int
	Translated     int
	Skipped        int
	Errors         []string
}

var errSkipRow = errors.New("skipping row")

// Importer reads a file and feeds its rows to a sink.
type Importer struct {
	sink      Sink
	translate TranslateFunc
}

// New creates an importer. translate may be nil.
func New(sink Sink, translate TranslateFunc) *Importer {
	return &Importer{sink: sink, translate: translate}
}

// Import loads cfg.Path. The format is chosen by file extension.
func (im *Importer) Import(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.StartRow < 1 {
		cfg.StartRow = 1
	}
	cols, err := cfg.columns()
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(cfg.Path)) {
	case ".csv":
		rows, err = readCSV(cfg.Path)
	case ".xlsx", ".xlsm":
		rows, err = readExcel(cfg.Path, cfg.SheetName)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .xlsx or .csv)", filepath.Ext(cfg.Path))
	}
	if err != nil {
		return nil, err
	}

	result := &Result{Errors: make([]string, 0)}
	for i, raw := range rows {
		line := i + 1
		if line < cfg.StartRow || blank(raw) {
			continue
		}
		result.TotalProcessed++

		if err := im.processRow(ctx, cols.parse(raw, line), result); err != nil {
			if errors.Is(err, errSkipRow) {
				result.Skipped++
				continue
			}
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", line, err))
		}
	}
	return result, nil
}

func (im *Importer) processRow(ctx context.Context, row Row, result *Result) error {
	if row.EnglishWord == "" {
		return errors.New("missing English word")
	}

	exists, err := im.sink.HasWord(ctx, row.EnglishWord)
	if err != nil {
		return err
	}
	if exists {
		return errSkipRow
	}

	if row.RussianTranslation == "" && im.translate != nil {
		row.RussianTranslation = im.translate(ctx, row.EnglishWord)
		if row.RussianTranslation != "" {
			result.Translated++
		}
	}
	if row.RussianTranslation == "" {
		return fmt.Errorf("missing translation for %q", row.EnglishWord)
	}

	if err := im.sink.AddCard(ctx, row); err != nil {
		return err
	}
	result.Created++
	return nil
}

type columnSet struct {
	word, translation, notes, tags, level int
}

func (c Config) columns() (columnSet, error) {
	var cs columnSet
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{c.WordColumn, &cs.word},
		{c.TranslationColumn, &cs.translation},
		{c.NotesColumn, &cs.notes},
		{c.TagsColumn, &cs.tags},
		{c.LevelColumn, &cs.level},
	} {
		if f.name == "" {
			*f.dst = -1
			continue
		}
		n, err := excelize.ColumnNameToNumber(strings.ToUpper(f.name))
		if err != nil {
			return cs, fmt.Errorf("column %q: %w", f.name, err)
		}
		*f.dst = n - 1
	}
	if cs.word < 0 {
		return cs, errors.New("word column is required")
	}
	return cs, nil
}

func (cs columnSet) parse(raw []string, line int) Row {
	cell := func(i int) string {
		if i < 0 || i >= len(raw) {
			return ""
		}
		return textclean.Plain(raw[i])
	}
	row := Row{
		Line:               line,
		EnglishWord:        cell(cs.word),
		RussianTranslation: cell(cs.translation),
		Notes:              cell(cs.notes),
		Level:              strings.ToUpper(cell(cs.level)),
	}
	for _, t := range strings.FieldsFunc(cell(cs.tags), func(r rune) bool { return r == ',' || r == ';' }) {
		if t = strings.TrimSpace(t); t != "" {
			row.Tags = append(row.Tags, t)
		}
	}
	return row
}

func blank(raw []string) bool {
	for _, v := range raw {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
