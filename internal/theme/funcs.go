package theme

import (
	"encoding/json"
	"html/template"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/marcdemo/internal/assets"
	"github.com/mrlokans/marcdemo/internal/entities"
	"github.com/mrlokans/marcdemo/internal/i18n"
	"github.com/mrlokans/marcdemo/internal/marc21"
)

// Funcs returns the template helpers:
//
//	asset "app_css"      URL of a built bundle, empty when unavailable
//	marc21 .record       display view of a record
//	json .record         indented JSON
//	t .locale "Title"    translated interface string
func Funcs(env *assets.Environment, tr *i18n.Translator, log logrus.FieldLogger) template.FuncMap {
	return template.FuncMap{
		"asset": func(name string) string {
			if env == nil {
				return ""
			}
			url, err := env.URL(name)
			if err != nil {
				log.WithError(err).WithField("bundle", name).Debug("Asset unavailable")
				return ""
			}
			return url
		},
		"marc21": func(record entities.RecordJSON) marc21.View {
			return marc21.NewView(record)
		},
		"json": func(v any) (string, error) {
			data, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return "", err
			}
			return string(data), nil
		},
		"t": func(locale, key string) string {
			if tr == nil {
				return key
			}
			return tr.Translate(locale, key)
		},
	}
}
