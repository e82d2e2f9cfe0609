package importer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/example/englishboss/pkg/models"
)

type memWordStore struct {
	words  []models.Word
	nextID int64
}

func (m *memWordStore) Create(_ context.Context, word *models.Word) error {
	m.nextID++
	word.ID = m.nextID
	m.words = append(m.words, *word)
	return nil
}

type memReviewStore struct {
	ensured []int64
}

func (m *memReviewStore) Ensure(_ context.Context, _ int64, wordID int64, _ time.Time) error {
	m.ensured = append(m.ensured, wordID)
	return nil
}

func TestImportCSV(t *testing.T) {
	csvData := `level,en,fa,pos,synonyms,examples
A1,apple,سیب,noun,,An apple a day.
A1,big,بزرگ,adj,large;huge,
A2,water,آب,noun,,
`
	words := &memWordStore{}
	reviews := &memReviewStore{}
	imp := New(words, reviews)

	count, err := imp.ImportCSV(context.Background(), 7, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if len(words.words) != 3 {
		t.Fatalf("stored %d words, want 3", len(words.words))
	}
	if words.words[1].Synonyms != "large;huge" {
		t.Errorf("synonyms = %q, want %q", words.words[1].Synonyms, "large;huge")
	}
	if len(reviews.ensured) != 3 {
		t.Errorf("ensured %d review rows, want 3", len(reviews.ensured))
	}
}

func TestImportCSV_SkipsMalformedRows(t *testing.T) {
	csvData := `level,en,fa
A1,apple,سیب
A1,,بزرگ
A1,water,
A1,sun,خورشید
`
	words := &memWordStore{}
	imp := New(words, &memReviewStore{})

	count, err := imp.ImportCSV(context.Background(), 7, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	// Rows missing en or fa are skipped, the rest still import.
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestImportCSV_IgnoresUnknownColumns(t *testing.T) {
	csvData := `en,fa,frequency_rank,notes
apple,سیب,120,common fruit
`
	words := &memWordStore{}
	imp := New(words, &memReviewStore{})

	count, err := imp.ImportCSV(context.Background(), 7, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if words.words[0].En != "apple" || words.words[0].Fa != "سیب" {
		t.Errorf("imported word = %+v", words.words[0])
	}
}

func TestImportCSV_EmptyInput(t *testing.T) {
	imp := New(&memWordStore{}, &memReviewStore{})
	count, err := imp.ImportCSV(context.Background(), 7, strings.NewReader(""))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestImportRows_HeaderCaseInsensitive(t *testing.T) {
	csvData := `Level,EN,FA
A1,apple,سیب
`
	words := &memWordStore{}
	imp := New(words, &memReviewStore{})

	count, err := imp.ImportCSV(context.Background(), 7, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if count != 1 || words.words[0].Level != "A1" {
		t.Errorf("count = %d, word = %+v", count, words.words)
	}
}
