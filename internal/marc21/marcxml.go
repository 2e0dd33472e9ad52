// Package marc21 converts MARC21 bibliographic records into JSON documents
// and extracts display fields from them.
//
// Documents use the field names produced by dojson's marc21 rules, so
// records converted elsewhere with `dojson do marc21` load unchanged.
package marc21

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mrlokans/marcdemo/internal/entities"
)

type subfieldRule struct {
	name       string
	repeatable bool
}

type fieldRule struct {
	name       string
	repeatable bool
	subfields  map[string]subfieldRule
}

// rules covers the bibliographic fields shown on the detail page. Control
// fields are skipped; control_number is assigned when a recid is minted.
var rules = map[string]fieldRule{
	"020": {name: "international_standard_book_number", repeatable: true, subfields: map[string]subfieldRule{
		"a": {name: "international_standard_book_number"},
		"q": {name: "qualifying_information", repeatable: true},
	}},
	"100": {name: "main_entry_personal_name", subfields: map[string]subfieldRule{
		"a": {name: "personal_name"},
		"d": {name: "dates_associated_with_a_name"},
		"e": {name: "relator_term", repeatable: true},
	}},
	"245": {name: "title_statement", subfields: map[string]subfieldRule{
		"a": {name: "title"},
		"b": {name: "remainder_of_title"},
		"c": {name: "statement_of_responsibility"},
	}},
	"250": {name: "edition_statement", repeatable: true, subfields: map[string]subfieldRule{
		"a": {name: "edition_statement"},
	}},
	"260": {name: "publication_distribution_imprint", repeatable: true, subfields: map[string]subfieldRule{
		"a": {name: "place_of_publication_distribution", repeatable: true},
		"b": {name: "name_of_publisher_distributor", repeatable: true},
		"c": {name: "date_of_publication_distribution", repeatable: true},
	}},
	"300": {name: "physical_description", repeatable: true, subfields: map[string]subfieldRule{
		"a": {name: "extent", repeatable: true},
		"c": {name: "dimensions", repeatable: true},
	}},
	"490": {name: "series_statement", repeatable: true, subfields: map[string]subfieldRule{
		"a": {name: "series_statement", repeatable: true},
		"v": {name: "volume_sequential_designation", repeatable: true},
	}},
	"520": {name: "summary", repeatable: true, subfields: map[string]subfieldRule{
		"a": {name: "summary"},
	}},
	"650": {name: "subject_added_entry_topical_term", repeatable: true, subfields: map[string]subfieldRule{
		"a": {name: "topical_term_or_geographic_name_entry_element"},
		"x": {name: "general_subdivision", repeatable: true},
	}},
	"700": {name: "added_entry_personal_name", repeatable: true, subfields: map[string]subfieldRule{
		"a": {name: "personal_name"},
		"e": {name: "relator_term", repeatable: true},
	}},
}

var ErrNoRecords = errors.New("no MARC21 records found")

type xmlSubfield struct {
	Code  string `xml:"code,attr"`
	Value string `xml:",chardata"`
}

type xmlDatafield struct {
	Tag       string        `xml:"tag,attr"`
	Subfields []xmlSubfield `xml:"subfield"`
}

type xmlRecord struct {
	Datafields []xmlDatafield `xml:"datafield"`
}

// ParseMARCXML reads every <record> in a MARCXML document, whether wrapped
// in a <collection> or not.
func ParseMARCXML(r io.Reader) ([]entities.RecordJSON, error) {
	decoder := xml.NewDecoder(r)

	var out []entities.RecordJSON
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid MARCXML: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "record" {
			continue
		}

		var rec xmlRecord
		if err := decoder.DecodeElement(&rec, &start); err != nil {
			return nil, fmt.Errorf("invalid MARCXML record %d: %w", len(out)+1, err)
		}
		out = append(out, convert(rec))
	}

	if len(out) == 0 {
		return nil, ErrNoRecords
	}
	return out, nil
}

func convert(rec xmlRecord) entities.RecordJSON {
	doc := entities.RecordJSON{}
	for _, field := range rec.Datafields {
		rule, ok := rules[field.Tag]
		if !ok {
			continue
		}

		value := map[string]any{}
		for _, sf := range field.Subfields {
			sub, ok := rule.subfields[sf.Code]
			if !ok {
				continue
			}
			text := strings.TrimSpace(sf.Value)
			if text == "" {
				continue
			}
			if sub.repeatable {
				list, _ := value[sub.name].([]any)
				value[sub.name] = append(list, text)
			} else {
				value[sub.name] = text
			}
		}
		if len(value) == 0 {
			continue
		}

		if rule.repeatable {
			list, _ := doc[rule.name].([]any)
			doc[rule.name] = append(list, value)
		} else {
			doc[rule.name] = value
		}
	}
	return doc
}
