package board

import (
	"slices"
	"sort"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kud/referrals/internal/models"
)

// AllCategories is the sentinel category that selects every record.
const AllCategories = "all"

// Entry is one card in display order.
type Entry struct {
	Key    models.Key
	Record models.Record
	// Interactive is false for records outside the selected category.
	Interactive bool
	// Remaining is the countdown for this card, zero when it is not counting.
	Remaining int
}

// DirectLink reports whether the card has no code to copy.
func (e Entry) DirectLink() bool { return e.Record.Code == "" }

func (e Entry) Counting() bool { return e.Remaining > 0 }

// Categories returns "all" followed by the distinct non-empty types, sorted.
func Categories(records []models.Record) []string {
	seen := make(map[string]bool)
	var types []string
	for _, r := range records {
		if r.Type == "" || seen[r.Type] {
			continue
		}
		seen[r.Type] = true
		types = append(types, r.Type)
	}
	sort.Strings(types)
	return append([]string{AllCategories}, types...)
}

// VisibleOrder sorts records by name with locale collation, absent names
// first. With a category selected, matching records come first and the
// rest follow as non-interactive entries, each group in name order.
func VisibleOrder(records []models.Record, selected string) []Entry {
	if selected == "" {
		selected = AllCategories
	}
	keys := models.AssignKeys(records)

	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = Entry{
			Key:         keys[i],
			Record:      r,
			Interactive: selected == AllCategories || r.Type == selected,
		}
	}

	col := collate.New(language.Und)
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return col.CompareString(a.Record.Name, b.Record.Name)
	})

	if selected == AllCategories {
		return entries
	}

	ordered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Interactive {
			ordered = append(ordered, e)
		}
	}
	for _, e := range entries {
		if !e.Interactive {
			ordered = append(ordered, e)
		}
	}
	return ordered
}

// DisplayCategory is the label shown for a category: the first letter is
// upper-cased and the rest is left as written.
func DisplayCategory(category string) string {
	if category == AllCategories || category == "" {
		return "All"
	}
	_, size := utf8.DecodeRuneInString(category)
	return cases.Upper(language.Und).String(category[:size]) + category[size:]
}
