package gateway

import (
	"github.com/jomei/notionapi"

	"github.com/kud/referrals/internal/models"
)

// Schema names the Notion properties each record field is read from.
type Schema struct {
	Name string // title
	Code string // rich text
	URL  string // url
	Type string // select
}

func DefaultSchema() Schema {
	return Schema{Name: "name", Code: "code", URL: "url", Type: "type"}
}

func (s Schema) withDefaults() Schema {
	def := DefaultSchema()
	if s.Name == "" {
		s.Name = def.Name
	}
	if s.Code == "" {
		s.Code = def.Code
	}
	if s.URL == "" {
		s.URL = def.URL
	}
	if s.Type == "" {
		s.Type = def.Type
	}
	return s
}

func decodeRecord(schema Schema, props notionapi.Properties) models.Record {
	return models.Record{
		Name: decodeTitle(props[schema.Name]),
		Code: decodeRichText(props[schema.Code]),
		URL:  decodeURL(props[schema.URL]),
		Type: decodeSelect(props[schema.Type]),
	}
}

func decodeTitle(p notionapi.Property) string {
	title, ok := p.(*notionapi.TitleProperty)
	if !ok || title == nil || len(title.Title) == 0 {
		return ""
	}
	return title.Title[0].PlainText
}

func decodeRichText(p notionapi.Property) string {
	text, ok := p.(*notionapi.RichTextProperty)
	if !ok || text == nil || len(text.RichText) == 0 {
		return ""
	}
	return text.RichText[0].PlainText
}

func decodeURL(p notionapi.Property) string {
	u, ok := p.(*notionapi.URLProperty)
	if !ok || u == nil {
		return ""
	}
	return u.URL
}

func decodeSelect(p notionapi.Property) string {
	sel, ok := p.(*notionapi.SelectProperty)
	if !ok || sel == nil {
		return ""
	}
	return sel.Select.Name
}
