package contact

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Record is a single contact.
type Record struct {
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
	Email string `json:"email" yaml:"email"`
}

// Key returns the case-insensitive search and sort key of the record.
func (r Record) Key() string {
	return Key(r.Name)
}

// String formats the record the way the listing prints it.
func (r Record) String() string {
	return fmt.Sprintf("%s | %s | %s", r.Name, r.Phone, r.Email)
}

// Key folds a name for comparison. Names are NFC-normalized first so that
// composed and decomposed spellings of the same name collide.
//
// A new Caser is built per call; cases.Caser is stateful.
func Key(name string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}
