package marc21

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mrlokans/marcdemo/internal/entities"
)

// View holds the display fields of a bibliographic record.
type View struct {
	ControlNumber  string
	Title          string
	Subtitle       string
	Responsibility string
	Authors        []string
	Edition        string
	Publishers     []string
	Places         []string
	Years          []string
	Extent         []string
	ISBNs          []string
	Series         []string
	Subjects       []string
	Summary        []string
}

// NewView extracts display fields from a record document. A nil or empty
// record yields an empty view.
func NewView(record entities.RecordJSON) View {
	doc := gjson.ParseBytes(record.Bytes())

	view := View{
		ControlNumber:  doc.Get("control_number").String(),
		Title:          first(collect(doc, "title_statement", "title")),
		Subtitle:       first(collect(doc, "title_statement", "remainder_of_title")),
		Responsibility: first(collect(doc, "title_statement", "statement_of_responsibility")),
		Edition:        first(collect(doc, "edition_statement", "edition_statement")),
		Publishers:     collect(doc, "publication_distribution_imprint", "name_of_publisher_distributor"),
		Places:         collect(doc, "publication_distribution_imprint", "place_of_publication_distribution"),
		Years:          collect(doc, "publication_distribution_imprint", "date_of_publication_distribution"),
		Extent:         collect(doc, "physical_description", "extent"),
		ISBNs:          collect(doc, "international_standard_book_number", "international_standard_book_number"),
		Series:         collect(doc, "series_statement", "series_statement"),
		Subjects:       collect(doc, "subject_added_entry_topical_term", "topical_term_or_geographic_name_entry_element"),
		Summary:        collect(doc, "summary", "summary"),
	}
	view.Authors = append(view.Authors, collect(doc, "main_entry_personal_name", "personal_name")...)
	view.Authors = append(view.Authors, collect(doc, "added_entry_personal_name", "personal_name")...)
	return view
}

// IsEmpty reports whether no display field could be extracted.
func (v View) IsEmpty() bool {
	return v.Title == "" && len(v.Authors) == 0 && v.ControlNumber == "" && len(v.Summary) == 0
}

// Year returns the first publication date.
func (v View) Year() string {
	return first(v.Years)
}

// collect reads subfield sub from field, which may be an object or a list
// of objects, each holding a string or a list of strings.
func collect(doc gjson.Result, field, sub string) []string {
	value := doc.Get(field)
	if !value.Exists() {
		return nil
	}

	var out []string
	add := func(r gjson.Result) {
		if s := clean(r.String()); s != "" {
			out = append(out, s)
		}
	}
	each := func(elem gjson.Result) {
		v := elem.Get(sub)
		if v.IsArray() {
			v.ForEach(func(_, item gjson.Result) bool {
				add(item)
				return true
			})
			return
		}
		if v.Exists() {
			add(v)
		}
	}

	if value.IsArray() {
		value.ForEach(func(_, elem gjson.Result) bool {
			each(elem)
			return true
		})
	} else {
		each(value)
	}
	return out
}

// clean strips the trailing ISBD punctuation cataloguers leave on subfields.
func clean(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), " /:;,="))
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
