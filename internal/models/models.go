package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Record is one referral entry. An empty field means the value is absent
// upstream; absent fields travel as JSON null.
type Record struct {
	Name string
	Code string
	URL  string
	Type string
}

type recordJSON struct {
	Name *string `json:"name"`
	Code *string `json:"code"`
	URL  *string `json:"url"`
	Type *string `json:"type"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Name: optional(r.Name),
		Code: optional(r.Code),
		URL:  optional(r.URL),
		Type: optional(r.Type),
	})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{
		Name: value(raw.Name),
		Code: value(raw.Code),
		URL:  value(raw.URL),
		Type: value(raw.Type),
	}
	return nil
}

// Key identifies a record for the lifetime of one loaded collection.
type Key string

var keySpace = uuid.MustParse("6f1c2a7e-3d4b-5c8a-9e0f-1a2b3c4d5e6f")

// BaseKey derives the content key of a record. Identical records share it.
func (r Record) BaseKey() Key {
	data := r.Name + "\x00" + r.Type + "\x00" + r.Code + "\x00" + r.URL
	return Key(uuid.NewSHA1(keySpace, []byte(data)).String())
}

// AssignKeys returns one key per record, in order. Records with the same
// content get an occurrence suffix so every key in the result is unique.
func AssignKeys(records []Record) []Key {
	keys := make([]Key, len(records))
	seen := make(map[Key]int, len(records))
	for i, r := range records {
		base := r.BaseKey()
		seen[base]++
		if n := seen[base]; n > 1 {
			keys[i] = Key(fmt.Sprintf("%s-%d", base, n))
			continue
		}
		keys[i] = base
	}
	return keys
}

type ReferralsResponse struct {
	Items []Record `json:"items"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CategoryOption struct {
	Value    string
	Label    string
	Selected bool
}

type CardData struct {
	Key         Key
	Record      Record
	Interactive bool
}

type IndexPageData struct {
	Cards      []CardData
	Categories []CategoryOption
	Selected   string
	Total      int
	// CategoryCount excludes the "all" sentinel.
	CategoryCount int
}
