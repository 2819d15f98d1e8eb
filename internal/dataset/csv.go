package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/crimson-sun/triage/internal/model"
)

// Splits are read in this order from <dir>/<split>.csv.
var Splits = []string{"train", "test"}

// Column names expected in the header row.
const (
	TextColumn     = "text"
	CategoryColumn = "category"
)

// Dir reads labeled splits from a directory of CSV files.
type Dir struct {
	Path   string
	Splits []string // nil means Splits
}

// Load reads every split in order. A missing split file is an error.
func (d Dir) Load(ctx context.Context) ([]model.RawExample, error) {
	splits := d.Splits
	if splits == nil {
		splits = Splits
	}
	var out []model.RawExample
	for _, split := range splits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := ReadFile(filepath.Join(d.Path, split+".csv"), split)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

// ReadFile reads one CSV split file.
func ReadFile(path, split string) ([]model.RawExample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	rows, err := ReadCSV(f, split)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// ReadCSV parses a CSV stream with a header row naming the text and
// category columns in any order. Extra columns are ignored.
func ReadCSV(r io.Reader, split string) ([]model.RawExample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	textCol, catCol, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var out []model.RawExample
	for row := 0; ; row++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if textCol >= len(rec) || catCol >= len(rec) {
			return nil, fmt.Errorf("row %d: expected at least %d fields, got %d", row, max(textCol, catCol)+1, len(rec))
		}
		out = append(out, model.RawExample{
			Split:    split,
			Row:      row,
			Text:     rec[textCol],
			Category: strings.TrimSpace(rec[catCol]),
		})
	}
	return out, nil
}

func resolveColumns(header []string) (text, category int, err error) {
	text, category = -1, -1
	for i, cell := range header {
		switch strings.ToLower(cleanCell(cell)) {
		case TextColumn:
			text = i
		case CategoryColumn:
			category = i
		}
	}
	var missing []string
	if text < 0 {
		missing = append(missing, TextColumn)
	}
	if category < 0 {
		missing = append(missing, CategoryColumn)
	}
	if len(missing) > 0 {
		return -1, -1, fmt.Errorf("header missing column(s): %s", strings.Join(missing, ", "))
	}
	return text, category, nil
}

// cleanCell trims whitespace and a UTF-8 byte order mark.
func cleanCell(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
}
