package parser

import (
	"gopkg.in/yaml.v3"
)

// YAMLParser parses analyses in the native YAML format
type YAMLParser struct{}

// CanParse returns true if this parser can handle the file
func (p *YAMLParser) CanParse(path string) bool {
	return GetFormat(path) == FormatYAML
}

// Parse parses a YAML analysis
func (p *YAMLParser) Parse(path string, content []byte, opts Options) (*Analysis, error) {
	var doc document
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}
	return doc.toAnalysis(opts)
}
