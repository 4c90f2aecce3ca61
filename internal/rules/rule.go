package rules

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Severity represents the severity level of an issue.
// Lower values are more severe.
type Severity int

const (
	Blocker Severity = iota
	Critical
	Major
	Minor
	Info
)

var severityNames = [...]string{"BLOCKER", "CRITICAL", "MAJOR", "MINOR", "INFO"}

var severityLabels = [...]string{"blocking", "critical", "major", "minor", "info"}

func (s Severity) String() string {
	if !s.Valid() {
		return "UNKNOWN"
	}
	return severityNames[s]
}

// Label returns the lowercase label used in console summaries
func (s Severity) Label() string {
	if !s.Valid() {
		return "unknown"
	}
	return severityLabels[s]
}

// Valid reports whether s is one of the known severities
func (s Severity) Valid() bool {
	return s >= Blocker && s <= Info
}

// MoreSevereThan reports whether s ranks above other
func (s Severity) MoreSevereThan(other Severity) bool {
	return s < other
}

// Severities returns every severity, most severe first
func Severities() []Severity {
	return []Severity{Blocker, Critical, Major, Minor, Info}
}

// ParseSeverity converts a severity name (case-insensitive) to a Severity
func ParseSeverity(name string) (Severity, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range severityNames {
		if n == upper {
			return Severity(i), nil
		}
	}
	return 0, goerr.New("unknown severity", goerr.V("severity", name))
}

// MarshalText implements encoding.TextMarshaler
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Key identifies a rule inside a repository, e.g. "go:S1186"
type Key struct {
	Repository string
	Rule       string
}

func (k Key) String() string {
	return k.Repository + ":" + k.Rule
}

// IsZero reports whether the key is empty
func (k Key) IsZero() bool {
	return k.Repository == "" && k.Rule == ""
}

// ParseKey parses a "repository:rule" string. Only the first colon separates
// the two parts; rule keys may themselves contain colons.
func ParseKey(s string) (Key, error) {
	repo, rule, ok := strings.Cut(s, ":")
	if !ok || repo == "" || rule == "" {
		return Key{}, goerr.New("invalid rule key", goerr.V("key", s))
	}
	return Key{Repository: repo, Rule: rule}, nil
}

// MustParseKey is like ParseKey but panics on error
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// MarshalText implements encoding.TextMarshaler
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Param is a configurable parameter of a rule
type Param struct {
	Key         string
	Description string
}

// Rule is the display metadata of a static-analysis rule
type Rule struct {
	Key  Key
	Name string

	// Description is HTML as served by the rule metadata service
	Description string

	Params []Param
}

// DisplayName returns the rule name, or its key when the name is unknown
func (r *Rule) DisplayName() string {
	if r == nil {
		return ""
	}
	if r.Name == "" {
		return r.Key.String()
	}
	return r.Name
}

// Service fetches rule metadata from a remote server
type Service interface {
	ShowRule(ctx context.Context, key Key) (*Rule, error)
}
