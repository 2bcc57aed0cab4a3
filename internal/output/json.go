package output

import (
	"encoding/json"

	"github.com/temirov/repodump/internal/types"
)

type jsonDocument struct {
	Repository     string             `json:"repo"`
	Timestamp      string             `json:"timestamp"`
	TotalTokens    int                `json:"total_tokens"`
	Estimator      string             `json:"estimator,omitempty"`
	BudgetExceeded bool               `json:"budget_exceeded"`
	Files          []types.FileOutput `json:"files"`
	Omitted        []types.Omission   `json:"omitted"`
}

// RenderJSON marshals the dump as an indented JSON object.
func RenderJSON(dump types.Dump, timestamp string) (string, error) {
	document := jsonDocument{
		Repository:     dump.RepositoryName,
		Timestamp:      timestamp,
		TotalTokens:    dump.TotalTokens,
		Estimator:      dump.Estimator,
		BudgetExceeded: dump.BudgetExceeded,
		Files:          dump.Files,
		Omitted:        dump.Omitted,
	}
	if document.Files == nil {
		document.Files = []types.FileOutput{}
	}
	if document.Omitted == nil {
		document.Omitted = []types.Omission{}
	}
	encoded, jsonEncodeError := json.MarshalIndent(document, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}
