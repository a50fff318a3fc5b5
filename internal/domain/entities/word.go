// Package entities contains domain entities used across the application.
package entities

import "time"

// WordItem is a single vocabulary entry as provided by the content source.
// The scheduling core only reads it.
type WordItem struct {
	ID        int64     `json:"id"`         // stable word identifier
	Native    string    `json:"native"`     // learner's native-language form
	Target    string    `json:"target"`     // target-language form
	Scope     string    `json:"scope"`      // unit or course tag, empty when unscoped
	CreatedAt time.Time `json:"created_at"` // creation time, used for stable ordering of new words
}

// Text returns the word form shown for the given language side.
func (w WordItem) Text(side Language) string {
	if side == LanguageNative {
		return w.Native
	}
	return w.Target
}

// Language identifies one side of a word pair.
type Language string

const (
	LanguageNative Language = "native"
	LanguageTarget Language = "target"
)
