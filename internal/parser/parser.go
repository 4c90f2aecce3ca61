package parser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/pthm/issuesreport/internal/report"
	"github.com/pthm/issuesreport/internal/resource"
	"github.com/pthm/issuesreport/internal/rules"
)

// Analysis is the output of the analysis engine for one project
type Analysis struct {
	Title      string
	ProjectKey string
	Open       []report.Issue
	Resolved   []report.Issue
}

// Input returns the builder input of the analysis
func (a *Analysis) Input() report.Input {
	return report.Input{Title: a.Title, Open: a.Open, Resolved: a.Resolved}
}

// Format represents the file format of an analysis
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatJSON
	FormatSARIF
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatSARIF:
		return "sarif"
	default:
		return "unknown"
	}
}

// Options carries defaults applied to parsed analyses
type Options struct {
	// ProjectKey is used when the document does not name one
	ProjectKey string
	// Title is used when the document does not name one
	Title string
}

// Parser defines the interface for parsing analysis files
type Parser interface {
	Parse(path string, content []byte, opts Options) (*Analysis, error)
	CanParse(path string) bool
}

// Parse reads the analysis at path using the parser matching its extension
func Parse(path string, opts Options) (*Analysis, error) {
	p := getParser(path)
	if p == nil {
		return nil, goerr.New("unsupported analysis format", goerr.V("path", path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read analysis", goerr.V("path", path))
	}

	analysis, err := p.Parse(path, content, opts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse analysis", goerr.V("path", path))
	}
	return analysis, nil
}

// parsers lists every supported input parser
var parsers = []Parser{
	&SARIFParser{},
	&YAMLParser{},
	&JSONParser{},
}

// getParser returns the first parser able to handle a file
func getParser(path string) Parser {
	for _, p := range parsers {
		if p.CanParse(path) {
			return p
		}
	}
	return nil
}

// GetFormat returns the Format for a given path
func GetFormat(path string) Format {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".sarif.json") {
		return FormatSARIF
	}
	switch filepath.Ext(lower) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".sarif":
		return FormatSARIF
	default:
		return FormatUnknown
	}
}

// document is the native analysis format shared by the YAML and JSON parsers
type document struct {
	Title      string     `yaml:"title" json:"title"`
	ProjectKey string     `yaml:"projectKey" json:"projectKey"`
	Issues     []issueDoc `yaml:"issues" json:"issues"`
	Resolved   []issueDoc `yaml:"resolved" json:"resolved"`
}

type issueDoc struct {
	Key       string `yaml:"key" json:"key"`
	Rule      string `yaml:"rule" json:"rule"`
	Severity  string `yaml:"severity" json:"severity"`
	Component string `yaml:"component" json:"component"`
	// File is a project-relative path, used when Component is empty
	File    string `yaml:"file" json:"file"`
	Line    int    `yaml:"line" json:"line"`
	Message string `yaml:"message" json:"message"`
	New     bool   `yaml:"new" json:"new"`
}

func (d *document) toAnalysis(opts Options) (*Analysis, error) {
	a := &Analysis{
		Title:      firstNonEmpty(d.Title, opts.Title),
		ProjectKey: firstNonEmpty(d.ProjectKey, opts.ProjectKey),
	}

	for i, doc := range d.Issues {
		issue, err := doc.toIssue(a.ProjectKey)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid issue", goerr.V("index", i))
		}
		a.Open = append(a.Open, issue)
	}
	for i, doc := range d.Resolved {
		issue, err := doc.toIssue(a.ProjectKey)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid resolved issue", goerr.V("index", i))
		}
		issue.New = false
		a.Resolved = append(a.Resolved, issue)
	}
	return a, nil
}

func (d issueDoc) toIssue(projectKey string) (report.Issue, error) {
	key, err := rules.ParseKey(d.Rule)
	if err != nil {
		return report.Issue{}, err
	}
	sev, err := rules.ParseSeverity(d.Severity)
	if err != nil {
		return report.Issue{}, err
	}

	component := d.Component
	if component == "" {
		if d.File == "" {
			return report.Issue{}, goerr.New("issue has no component", goerr.V("rule", d.Rule))
		}
		component = resource.ComponentKey(projectKey, d.File)
	}
	if d.Line < 0 {
		return report.Issue{}, goerr.New("negative line", goerr.V("line", d.Line))
	}

	return report.Issue{
		Key:          d.Key,
		Rule:         key,
		Severity:     sev,
		ComponentKey: component,
		Line:         d.Line,
		Message:      d.Message,
		New:          d.New,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
