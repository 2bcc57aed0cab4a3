package output

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/temirov/repodump/internal/types"
	"github.com/temirov/repodump/internal/utils"
)

const htmlTemplateName = "dump.html.tmpl"

//go:embed templates/dump.html.tmpl
var templateFiles embed.FS

var htmlTemplate = template.Must(template.New(htmlTemplateName).
	Funcs(template.FuncMap{"fileSize": utils.FormatFileSize}).
	ParseFS(templateFiles, "templates/"+htmlTemplateName))

type htmlDocument struct {
	Repository     string
	Timestamp      string
	TotalTokens    int
	Estimator      string
	Files          []types.FileOutput
	Omitted        []types.Omission
	OmittedSummary string
}

// RenderHTML renders the dump as a standalone page with one collapsible
// card per file. Paths and contents are escaped by html/template.
func RenderHTML(dump types.Dump, timestamp string) (string, error) {
	document := htmlDocument{
		Repository:     dump.RepositoryName,
		Timestamp:      timestamp,
		TotalTokens:    dump.TotalTokens,
		Estimator:      dump.Estimator,
		Files:          dump.Files,
		Omitted:        dump.Omitted,
		OmittedSummary: omittedSummary(dump),
	}
	var buffer bytes.Buffer
	if err := htmlTemplate.ExecuteTemplate(&buffer, htmlTemplateName, document); err != nil {
		return "", err
	}
	return buffer.String(), nil
}
