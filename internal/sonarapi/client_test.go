package sonarapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/pthm/issuesreport/internal/rules"
	"github.com/pthm/issuesreport/internal/sonarapi"
)

func TestShowRule(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/rules/show", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "squid:S1186" {
			http.NotFound(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		gt.Equal(t, r.Header.Get("Accept"), "application/json")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rule":{"key":"squid:S1186","repo":"squid","name":"Methods should not be empty",` +
			`"htmlDesc":"<p>Empty methods</p>","params":[{"key":"max","htmlDesc":"<b>Maximum</b>"},{"key":"min","desc":"Minimum"}]}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := sonarapi.New(srv.URL, sonarapi.WithCredentials("admin", "secret"))
	rule, err := c.ShowRule(context.Background(), rules.MustParseKey("squid:S1186"))
	gt.NoError(t, err).Required()

	gt.Equal(t, rule.Key, rules.MustParseKey("squid:S1186"))
	gt.Equal(t, rule.Name, "Methods should not be empty")
	gt.Equal(t, rule.Description, "<p>Empty methods</p>")
	gt.Equal(t, rule.Params, []rules.Param{
		{Key: "max", Description: "<b>Maximum</b>"},
		{Key: "min", Description: "Minimum"},
	})
}

func TestShowRuleMarkdownDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rule":{"key":"go:S100","name":"Naming","mdDesc":"Use *camel* case"}}`))
	}))
	defer srv.Close()

	rule, err := sonarapi.New(srv.URL).ShowRule(context.Background(), rules.MustParseKey("go:S100"))
	gt.NoError(t, err).Required()
	gt.S(t, rule.Description).Contains("<em>camel</em>")
}

func TestShowRuleErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"msg":"Rule not found"}]}`))
	}))
	defer srv.Close()

	_, err := sonarapi.New(srv.URL).ShowRule(context.Background(), rules.MustParseKey("foo:bar"))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, sonarapi.ErrUnexpectedStatus))

	values := goerr.Values(err)
	gt.V(t, values["status"]).Equal(http.StatusNotFound)
	gt.V(t, values["url"]).Equal(srv.URL + "/api/rules/show?key=foo:bar")
	gt.V(t, values["body"]).Equal(`{"errors":[{"msg":"Rule not found"}]}`)
}

func TestShowRuleMissingRule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := sonarapi.New(srv.URL).ShowRule(context.Background(), rules.MustParseKey("foo:bar"))
	gt.Error(t, err)
}

func TestShowRuleInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := sonarapi.New(srv.URL).ShowRule(context.Background(), rules.MustParseKey("foo:bar"))
	gt.Error(t, err)
}

func TestShowRuleTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := sonarapi.New(url).ShowRule(context.Background(), rules.MustParseKey("foo:bar"))
	gt.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	gt.Equal(t, sonarapi.New("").BaseURL(), sonarapi.DefaultBaseURL+"/")
	gt.Equal(t, sonarapi.New("http://example.com/sonar").BaseURL(), "http://example.com/sonar/")
}
