package parser_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/pthm/issuesreport/internal/parser"
	"github.com/pthm/issuesreport/internal/rules"
)

func TestGetFormat(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected parser.Format
	}{
		{name: "yaml", path: "/tmp/analysis.yaml", expected: parser.FormatYAML},
		{name: "yml", path: "analysis.YML", expected: parser.FormatYAML},
		{name: "json", path: "analysis.json", expected: parser.FormatJSON},
		{name: "sarif", path: "scan.sarif", expected: parser.FormatSARIF},
		{name: "sarif json", path: "scan.sarif.json", expected: parser.FormatSARIF},
		{name: "markdown", path: "README.md", expected: parser.FormatUnknown},
		{name: "no extension", path: "analysis", expected: parser.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Equal(t, parser.GetFormat(tt.path), tt.expected)
		})
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(p, []byte(content), 0o644)).Required()
	return p
}

const yamlAnalysis = `
title: My Project
projectKey: my-project
issues:
  - rule: "go:S100"
    severity: MAJOR
    component: "my-project:main.go"
    line: 4
    new: true
    message: Rename this function
  - rule: "go:S200"
    severity: info
    file: pkg/util.go
resolved:
  - rule: "go:S100"
    severity: MINOR
    file: main.go
    line: 10
    new: true
`

func TestCanParse(t *testing.T) {
	tests := []struct {
		path  string
		yaml  bool
		json  bool
		sarif bool
	}{
		{path: "analysis.yaml", yaml: true},
		{path: "analysis.json", json: true},
		{path: "scan.sarif", sarif: true},
		{path: "scan.sarif.json", sarif: true},
		{path: "notes.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			gt.Equal(t, (&parser.YAMLParser{}).CanParse(tt.path), tt.yaml)
			gt.Equal(t, (&parser.JSONParser{}).CanParse(tt.path), tt.json)
			gt.Equal(t, (&parser.SARIFParser{}).CanParse(tt.path), tt.sarif)
		})
	}
}

func TestParseYAML(t *testing.T) {
	path := writeFile(t, "analysis.yaml", yamlAnalysis)

	a, err := parser.Parse(path, parser.Options{Title: "ignored"})
	gt.NoError(t, err).Required()

	gt.Equal(t, a.Title, "My Project")
	gt.Equal(t, a.ProjectKey, "my-project")
	gt.A(t, a.Open).Length(2)
	gt.A(t, a.Resolved).Length(1)

	first := a.Open[0]
	gt.Equal(t, first.Rule, rules.MustParseKey("go:S100"))
	gt.Equal(t, first.Severity, rules.Major)
	gt.Equal(t, first.ComponentKey, "my-project:main.go")
	gt.Equal(t, first.Line, 4)
	gt.True(t, first.New)
	gt.Equal(t, first.Message, "Rename this function")

	gt.Equal(t, a.Open[1].ComponentKey, "my-project:pkg/util.go")
	gt.Equal(t, a.Open[1].Severity, rules.Info)
	gt.Equal(t, a.Open[1].Line, 0)

	gt.False(t, a.Resolved[0].New)
	gt.Equal(t, a.Resolved[0].ComponentKey, "my-project:main.go")

	in := a.Input()
	gt.Equal(t, in.Title, "My Project")
	gt.A(t, in.Open).Length(2)
}

func TestParseJSON(t *testing.T) {
	path := writeFile(t, "analysis.json", `{
  "issues": [{"rule": "js:S1", "severity": "BLOCKER", "file": "index.js", "line": 1, "new": true}]
}`)

	a, err := parser.Parse(path, parser.Options{ProjectKey: "web", Title: "Web"})
	gt.NoError(t, err).Required()
	gt.Equal(t, a.Title, "Web")
	gt.A(t, a.Open).Length(1)
	gt.Equal(t, a.Open[0].ComponentKey, "web:index.js")
	gt.Equal(t, a.Open[0].Severity, rules.Blocker)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "bad rule key", file: "a.yaml", content: "issues: [{rule: nocolon, severity: MAJOR, file: a.go}]"},
		{name: "bad severity", file: "a.yaml", content: "issues: [{rule: 'go:S1', severity: URGENT, file: a.go}]"},
		{name: "no component", file: "a.yaml", content: "issues: [{rule: 'go:S1', severity: MAJOR}]"},
		{name: "negative line", file: "a.yaml", content: "issues: [{rule: 'go:S1', severity: MAJOR, file: a.go, line: -3}]"},
		{name: "malformed json", file: "a.json", content: "{"},
		{name: "unsupported", file: "a.txt", content: "whatever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(writeFile(t, tt.file, tt.content), parser.Options{})
			gt.Error(t, err)
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := parser.Parse(filepath.Join(t.TempDir(), "missing.yaml"), parser.Options{})
	gt.Error(t, err)
}
