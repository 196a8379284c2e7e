// Package render produces HTML and PDF output from a redacted CV.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/khoahotran/cv-studio/internal/application/disclosure"
	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
)

//go:embed templates/*.html
var templateFS embed.FS

type sectionView struct {
	Kind string
	CV   *disclosure.PublicCV
}

func formatDate(d profile.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("Jan 2006")
}

func period(start profile.Date, end *profile.Date, current bool) string {
	from := formatDate(start)
	switch {
	case current:
		return from + " - Present"
	case end != nil && !end.IsZero():
		return from + " - " + formatDate(*end)
	}
	return from
}

var cvTemplate = template.Must(template.New("cv.html").Funcs(template.FuncMap{
	"join":   strings.Join,
	"period": period,
	"section": func(kind document.SectionKind, cv *disclosure.PublicCV) sectionView {
		return sectionView{Kind: string(kind), CV: cv}
	},
}).ParseFS(templateFS, "templates/cv.html"))

func renderHTML(cv *disclosure.PublicCV) ([]byte, error) {
	var buf bytes.Buffer
	if err := cvTemplate.Execute(&buf, cv); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
