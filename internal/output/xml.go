package output

import (
	"encoding/xml"

	"github.com/temirov/repodump/internal/types"
)

type xmlDocument struct {
	XMLName        xml.Name           `xml:"dump"`
	Repository     string             `xml:"repo,attr"`
	Timestamp      string             `xml:"timestamp,attr"`
	TotalTokens    int                `xml:"totalTokens,attr"`
	Estimator      string             `xml:"estimator,attr,omitempty"`
	BudgetExceeded bool               `xml:"budgetExceeded,attr"`
	Files          []types.FileOutput `xml:"files>file"`
	Omitted        []types.Omission   `xml:"omitted>entry"`
}

// RenderXML marshals the dump as an XML document.
func RenderXML(dump types.Dump, timestamp string) (string, error) {
	document := xmlDocument{
		Repository:     dump.RepositoryName,
		Timestamp:      timestamp,
		TotalTokens:    dump.TotalTokens,
		Estimator:      dump.Estimator,
		BudgetExceeded: dump.BudgetExceeded,
		Files:          dump.Files,
		Omitted:        dump.Omitted,
	}
	encoded, xmlMarshalError := xml.MarshalIndent(document, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xml.Header + string(encoded), nil
}
