package models

import "strings"

// Word represents a vocabulary entry. Rows are immutable after import.
// The en/fa column names are part of the storage contract.
type Word struct {
	ID       int64  `json:"id" db:"id"`
	Level    string `json:"level" db:"level"`       // CEFR level tag, e.g. "A1"
	En       string `json:"en" db:"en"`             // English (target language) term
	Fa       string `json:"fa" db:"fa"`             // Persian (native language) term
	Pos      string `json:"pos" db:"pos"`           // part of speech
	Synonyms string `json:"synonyms" db:"synonyms"` // semicolon-joined accepted synonyms
	Examples string `json:"examples" db:"examples"`
}

// SynonymList splits the semicolon-joined synonyms column into trimmed,
// non-empty entries.
func (w *Word) SynonymList() []string {
	if strings.TrimSpace(w.Synonyms) == "" {
		return nil
	}
	parts := strings.Split(w.Synonyms, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
