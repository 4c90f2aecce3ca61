// Package sonarapi is a client for the rule metadata web service of the
// analysis server.
package sonarapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/yuin/goldmark"

	"github.com/pthm/issuesreport/internal/rules"
	"github.com/pthm/issuesreport/internal/version"
)

// DefaultBaseURL is the server queried when none is configured
const DefaultBaseURL = "http://localhost:9000"

const showRulePath = "api/rules/show"

// maxErrorBody bounds the response body kept in errors
const maxErrorBody = 4096

// ErrUnexpectedStatus is returned when the server answers with a non-2xx status
var ErrUnexpectedStatus = goerr.New("unexpected status from rule service")

// Client fetches rules from the server. It implements rules.Service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	login      string
	password   string
	userAgent  string
	markdown   goldmark.Markdown
}

// Option configures a Client
type Option func(*Client)

// WithCredentials authenticates requests. A login without password is sent as
// a user token.
func WithCredentials(login, password string) Option {
	return func(c *Client) {
		c.login = login
		c.password = password
	}
}

// WithHTTPClient replaces http.DefaultClient
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a client for the server at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    baseURL,
		userAgent:  "issuesreport/" + version.Version,
		markdown:   goldmark.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server base URL, with a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

type showResponse struct {
	Rule *ruleJSON `json:"rule"`
}

type ruleJSON struct {
	Key      string      `json:"key"`
	Repo     string      `json:"repo"`
	Name     string      `json:"name"`
	HTMLDesc string      `json:"htmlDesc"`
	MDDesc   string      `json:"mdDesc"`
	Params   []paramJSON `json:"params"`
}

type paramJSON struct {
	Key      string `json:"key"`
	HTMLDesc string `json:"htmlDesc"`
	Desc     string `json:"desc"`
}

// ShowRule fetches the rule identified by key
func (c *Client) ShowRule(ctx context.Context, key rules.Key) (*rules.Rule, error) {
	q := url.Values{}
	q.Set("key", key.String())

	req, err := c.newRequest(ctx, http.MethodGet, showRulePath, q)
	if err != nil {
		return nil, err
	}

	var resp showResponse
	if err := c.do(req, showRulePath, q, &resp); err != nil {
		return nil, err
	}
	return c.toRule(key, resp.Rule)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values) (*http.Request, error) {
	u := c.baseURL + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("url", u))
	}
	if c.login != "" {
		req.SetBasicAuth(c.login, c.password)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, path string, query url.Values, v any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to call rule service", goerr.V("url", c.baseURL+describe(path, query)))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return goerr.Wrap(ErrUnexpectedStatus, "rule service request failed",
			goerr.V("url", c.baseURL+describe(path, query)),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)),
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return goerr.Wrap(err, "failed to decode rule service response", goerr.V("url", req.URL.String()))
	}
	return nil
}

// describe renders a request as "path?k1=v1&k2=v2" with parameters sorted by
// name and left unescaped
func describe(path string, query url.Values) string {
	names := make([]string, 0, len(query))
	for k := range query {
		names = append(names, k)
	}
	sort.Strings(names)

	params := make([]string, 0, len(names))
	for _, k := range names {
		for _, v := range query[k] {
			params = append(params, k+"="+v)
		}
	}
	return path + "?" + strings.Join(params, "&")
}

func (c *Client) toRule(requested rules.Key, in *ruleJSON) (*rules.Rule, error) {
	if in == nil {
		return nil, goerr.New("rule missing from response", goerr.V("rule", requested.String()))
	}

	key := requested
	if in.Key != "" {
		parsed, err := rules.ParseKey(in.Key)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid rule key in response", goerr.V("rule", requested.String()))
		}
		key = parsed
	}

	desc := in.HTMLDesc
	if desc == "" && in.MDDesc != "" {
		rendered, err := c.renderMarkdown(in.MDDesc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to render rule description", goerr.V("rule", key.String()))
		}
		desc = rendered
	}

	rule := &rules.Rule{
		Key:         key,
		Name:        in.Name,
		Description: desc,
	}
	for _, p := range in.Params {
		pd := p.HTMLDesc
		if pd == "" {
			pd = p.Desc
		}
		rule.Params = append(rule.Params, rules.Param{Key: p.Key, Description: pd})
	}
	return rule, nil
}

func (c *Client) renderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := c.markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
