package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Interface strings keyed by their English text.
var translations = map[string]map[string]string{
	"de": {
		"Record":               "Datensatz",
		"Title":                "Titel",
		"Authors":              "Autoren",
		"Publisher":            "Verlag",
		"Year":                 "Jahr",
		"Edition":              "Ausgabe",
		"ISBN":                 "ISBN",
		"Subjects":             "Schlagwörter",
		"Summary":              "Zusammenfassung",
		"Series":               "Reihe",
		"Physical description": "Umfang",
		"Control number":       "Kontrollnummer",
		"Raw record":           "Rohdaten",
		"Language":             "Sprache",

		"This record has no content.": "Dieser Datensatz hat keinen Inhalt.",
	},
	"fr": {
		"Record":               "Notice",
		"Title":                "Titre",
		"Authors":              "Auteurs",
		"Publisher":            "Éditeur",
		"Year":                 "Année",
		"Edition":              "Édition",
		"ISBN":                 "ISBN",
		"Subjects":             "Sujets",
		"Summary":              "Résumé",
		"Series":               "Collection",
		"Physical description": "Description matérielle",
		"Control number":       "Numéro de contrôle",
		"Raw record":           "Notice brute",
		"Language":             "Langue",

		"This record has no content.": "Cette notice n'a pas de contenu.",
	},
}

// Translator renders interface strings in a locale.
type Translator struct {
	catalog *catalog.Builder
}

func NewTranslator() *Translator {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for code, messages := range translations {
		tag := language.MustParse(code)
		for key, msg := range messages {
			if err := builder.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("i18n: invalid %s message %q: %v", code, key, err))
			}
		}
	}
	return &Translator{catalog: builder}
}

// Translate returns key in the given locale, or key itself when the locale
// or the message is unknown.
func (t *Translator) Translate(locale, key string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return key
	}
	p := message.NewPrinter(tag, message.Catalog(t.catalog))
	return p.Sprintf(key)
}
