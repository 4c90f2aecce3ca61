package parser

import (
	"encoding/json"
)

// JSONParser parses analyses in the native JSON format
type JSONParser struct{}

// CanParse returns true if this parser can handle the file
func (p *JSONParser) CanParse(path string) bool {
	return GetFormat(path) == FormatJSON
}

// Parse parses a JSON analysis
func (p *JSONParser) Parse(path string, content []byte, opts Options) (*Analysis, error) {
	var doc document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, err
	}
	return doc.toAnalysis(opts)
}
