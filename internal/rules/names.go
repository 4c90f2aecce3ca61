package rules

import (
	"context"
	"html"
	"strings"
)

// Resolver looks up rules by key; *Catalog implements it
type Resolver interface {
	Get(ctx context.Context, key Key) (*Rule, error)
}

// NameProvider renders rule names for the HTML report. Names of rules the
// resolver cannot find fall back to the rule key.
type NameProvider struct {
	resolver Resolver
}

// NewNameProvider creates a NameProvider
func NewNameProvider(resolver Resolver) *NameProvider {
	return &NameProvider{resolver: resolver}
}

func (p *NameProvider) name(ctx context.Context, key Key) string {
	if p.resolver == nil {
		return key.String()
	}
	rule, err := p.resolver.Get(ctx, key)
	if err != nil || rule == nil || rule.Name == "" {
		return key.String()
	}
	return rule.Name
}

// NameForHTML returns the HTML-escaped display name of a rule
func (p *NameProvider) NameForHTML(ctx context.Context, key Key) string {
	return html.EscapeString(p.name(ctx, key))
}

// NameForJS returns the display name of the rule identified by "repository:rule",
// escaped for use inside a single-quoted JavaScript string
func (p *NameProvider) NameForJS(ctx context.Context, ruleKey string) string {
	key, err := ParseKey(ruleKey)
	if err != nil {
		return EscapeJS(ruleKey)
	}
	return EscapeJS(p.name(ctx, key))
}

var jsEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "</", `<\/`)

// EscapeJS escapes s for a single-quoted JavaScript string inside an inline
// script element
func EscapeJS(s string) string {
	return jsEscaper.Replace(s)
}
