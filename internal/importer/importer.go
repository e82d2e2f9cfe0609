// Package importer loads vocabulary from CSV or Excel files and seeds a
// box-1 review row for each imported word.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/englishboss/pkg/models"
)

// WordStore persists imported vocabulary entries.
type WordStore interface {
	Create(ctx context.Context, word *models.Word) error
}

// ReviewStore seeds the review state for imported words.
type ReviewStore interface {
	Ensure(ctx context.Context, userID, wordID int64, due time.Time) error
}

// Importer writes imported rows to the word and review stores.
type Importer struct {
	words   WordStore
	reviews ReviewStore
	now     func() time.Time
}

// New creates an importer over the given stores.
func New(words WordStore, reviews ReviewStore) *Importer {
	return &Importer{words: words, reviews: reviews, now: time.Now}
}

// ImportRows creates a word per row and schedules it for the user,
// returning how many rows were imported. Rows without both en and fa text
// are skipped; unknown columns are ignored. A store failure aborts the
// batch and reports the count imported so far.
func (i *Importer) ImportRows(ctx context.Context, userID int64, rows []map[string]string) (int, error) {
	count := 0
	for _, row := range rows {
		word := wordFromRow(row)
		if strings.TrimSpace(word.En) == "" || strings.TrimSpace(word.Fa) == "" {
			continue
		}
		if err := i.words.Create(ctx, &word); err != nil {
			return count, fmt.Errorf("create word %q: %w", word.En, err)
		}
		if err := i.reviews.Ensure(ctx, userID, word.ID, i.now()); err != nil {
			return count, fmt.Errorf("schedule word %q: %w", word.En, err)
		}
		count++
	}
	return count, nil
}

// ImportCSV reads a header-mapped CSV stream and imports its rows.
func (i *Importer) ImportCSV(ctx context.Context, userID int64, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read CSV header: %w", err)
	}
	for idx, h := range header {
		header[idx] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read CSV row: %w", err)
		}
		row := make(map[string]string, len(header))
		for idx, value := range record {
			if idx < len(header) {
				row[header[idx]] = value
			}
		}
		rows = append(rows, row)
	}

	return i.ImportRows(ctx, userID, rows)
}

// ImportExcel imports the first sheet of an xlsx file. The first row is the
// header, mapped the same way as CSV columns.
func (i *Importer) ImportExcel(ctx context.Context, userID int64, path string) (int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, fmt.Errorf("open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	header := records[0]
	for idx, h := range header {
		header[idx] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []map[string]string
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for idx, value := range record {
			if idx < len(header) {
				row[header[idx]] = value
			}
		}
		rows = append(rows, row)
	}

	return i.ImportRows(ctx, userID, rows)
}

func wordFromRow(row map[string]string) models.Word {
	return models.Word{
		Level:    strings.TrimSpace(row["level"]),
		En:       strings.TrimSpace(row["en"]),
		Fa:       strings.TrimSpace(row["fa"]),
		Pos:      strings.TrimSpace(row["pos"]),
		Synonyms: strings.TrimSpace(row["synonyms"]),
		Examples: strings.TrimSpace(row["examples"]),
	}
}
