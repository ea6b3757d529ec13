package crawler

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Record is one extracted row keyed by Field.Name.
type Record map[string]string

// Extract applies schema to an HTML document.
//
// Every node matched by the base selector becomes a record. A field takes the
// first match of its selector inside the row; fields without a match are left
// out, and rows where no field matched are dropped.
func Extract(html string, schema Schema) ([]Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var out []Record
	doc.Find(schema.BaseSelector).Each(func(_ int, row *goquery.Selection) {
		rec := make(Record, len(schema.Fields))
		for _, f := range schema.Fields {
			if v, ok := fieldValue(row, f); ok {
				rec[f.Name] = v
			}
		}
		if len(rec) > 0 {
			out = append(out, rec)
		}
	})
	return out, nil
}

func fieldValue(row *goquery.Selection, f Field) (string, bool) {
	sel := row.Find(f.Selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	switch f.Type {
	case FieldAttribute:
		return sel.Attr(f.Attribute)
	case FieldHTML:
		h, err := sel.Html()
		if err != nil {
			return "", false
		}
		return strings.TrimSpace(h), true
	default:
		return strings.TrimSpace(sel.Text()), true
	}
}
