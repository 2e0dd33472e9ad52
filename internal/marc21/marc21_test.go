package marc21

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/marcdemo/internal/entities"
)

const collectionXML = `<?xml version="1.0" encoding="UTF-8"?>
<collection xmlns="http://www.loc.gov/MARC21/slim">
  <record>
    <controlfield tag="001">17</controlfield>
    <datafield tag="020" ind1=" " ind2=" ">
      <subfield code="a">0441172717</subfield>
      <subfield code="q">paperback</subfield>
    </datafield>
    <datafield tag="100" ind1="1" ind2=" ">
      <subfield code="a">Herbert, Frank,</subfield>
      <subfield code="d">1920-1986</subfield>
    </datafield>
    <datafield tag="245" ind1="1" ind2="0">
      <subfield code="a">Dune /</subfield>
      <subfield code="c">Frank Herbert.</subfield>
    </datafield>
    <datafield tag="260" ind1=" " ind2=" ">
      <subfield code="a">New York :</subfield>
      <subfield code="b">Ace Books,</subfield>
      <subfield code="c">1965</subfield>
    </datafield>
    <datafield tag="650" ind1=" " ind2="0">
      <subfield code="a">Science fiction</subfield>
    </datafield>
    <datafield tag="650" ind1=" " ind2="0">
      <subfield code="a">Deserts</subfield>
      <subfield code="x">Fiction</subfield>
    </datafield>
    <datafield tag="999" ind1=" " ind2=" ">
      <subfield code="a">local</subfield>
    </datafield>
  </record>
  <record>
    <datafield tag="245" ind1="0" ind2="0">
      <subfield code="a">Solaris</subfield>
    </datafield>
    <datafield tag="700" ind1="1" ind2=" ">
      <subfield code="a">Lem, Stanisław</subfield>
      <subfield code="e">author</subfield>
    </datafield>
  </record>
</collection>`

func TestParseMARCXML(t *testing.T) {
	docs, err := ParseMARCXML(strings.NewReader(collectionXML))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	dune := docs[0]
	assert.NotContains(t, dune, "control_number")
	assert.NotContains(t, dune, "999")

	title, ok := dune["title_statement"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Dune /", title["title"])

	isbns, ok := dune["international_standard_book_number"].([]any)
	require.True(t, ok)
	require.Len(t, isbns, 1)
	assert.Equal(t, []any{"paperback"}, isbns[0].(map[string]any)["qualifying_information"])

	subjects, ok := dune["subject_added_entry_topical_term"].([]any)
	require.True(t, ok)
	assert.Len(t, subjects, 2)
}

func TestParseMARCXMLSingleRecord(t *testing.T) {
	docs, err := ParseMARCXML(strings.NewReader(`<record><datafield tag="245"><subfield code="a">Alone</subfield></datafield></record>`))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Alone", NewView(docs[0]).Title)
}

func TestParseMARCXMLErrors(t *testing.T) {
	_, err := ParseMARCXML(strings.NewReader(`<collection></collection>`))
	assert.ErrorIs(t, err, ErrNoRecords)

	_, err = ParseMARCXML(strings.NewReader(`<collection><record><datafield tag="245">`))
	assert.Error(t, err)
}

func TestNewView(t *testing.T) {
	docs, err := ParseMARCXML(strings.NewReader(collectionXML))
	require.NoError(t, err)

	view := NewView(docs[0])
	assert.Equal(t, "Dune", view.Title)
	assert.Equal(t, "Frank Herbert.", view.Responsibility)
	assert.Equal(t, []string{"Herbert, Frank"}, view.Authors)
	assert.Equal(t, []string{"Ace Books"}, view.Publishers)
	assert.Equal(t, []string{"New York"}, view.Places)
	assert.Equal(t, "1965", view.Year())
	assert.Equal(t, []string{"0441172717"}, view.ISBNs)
	assert.Equal(t, []string{"Science fiction", "Deserts"}, view.Subjects)
	assert.False(t, view.IsEmpty())

	solaris := NewView(docs[1])
	assert.Equal(t, "Solaris", solaris.Title)
	assert.Equal(t, []string{"Lem, Stanisław"}, solaris.Authors)
}

func TestNewViewAcceptsObjectOrListFields(t *testing.T) {
	view := NewView(entities.RecordJSON{
		"control_number": "5",
		"title_statement": []any{
			map[string]any{"title": "Listed title"},
		},
		"summary": map[string]any{"summary": "Single summary"},
	})

	assert.Equal(t, "5", view.ControlNumber)
	assert.Equal(t, "Listed title", view.Title)
	assert.Equal(t, []string{"Single summary"}, view.Summary)
}

func TestNewViewEmptyRecord(t *testing.T) {
	assert.True(t, NewView(nil).IsEmpty())
	assert.True(t, NewView(entities.RecordJSON{}).IsEmpty())
	assert.Equal(t, "", NewView(nil).Year())
}
