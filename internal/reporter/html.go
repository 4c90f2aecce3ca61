package reporter

import (
	"context"
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymerick/raymond"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/pthm/issuesreport/internal/report"
	"github.com/pthm/issuesreport/internal/rules"
)

//go:embed templates/issuesreport.hbs
var reportTemplate string

//go:embed assets
var assetsFS embed.FS

// AssetsDir is the directory, next to the HTML files, holding static assets
const AssetsDir = "issuesreport_files"

// Defaults for HTMLOptions
const (
	DefaultHTMLName     = "issues-report"
	DefaultHTMLLocation = "issues-report"
)

// NameLookup renders rule names for HTML output; *rules.NameProvider
// implements it
type NameLookup interface {
	NameForHTML(ctx context.Context, key rules.Key) string
	NameForJS(ctx context.Context, ruleKey string) string
}

// HTMLOptions configures the HTML reporter
type HTMLOptions struct {
	Enable bool
	// WorkDir anchors a relative Location
	WorkDir  string
	Location string
	Name     string
	// LightModeOnly skips the complete report
	LightModeOnly bool
}

// HTMLReporter writes a complete and a light HTML report with their assets
type HTMLReporter struct {
	opts     HTMLOptions
	names    NameLookup
	sources  *SourceProvider
	template *raymond.Template
}

// NewHTMLReporter creates an HTML reporter. names resolves rule names and
// sources reads the annotated files.
func NewHTMLReporter(opts HTMLOptions, names NameLookup, sources *SourceProvider) (*HTMLReporter, error) {
	if opts.Name == "" {
		opts.Name = DefaultHTMLName
	}
	if opts.Location == "" {
		opts.Location = DefaultHTMLLocation
	}
	if sources == nil {
		sources = NewSourceProvider()
	}

	tpl, err := raymond.Parse(reportTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse report template")
	}

	return &HTMLReporter{
		opts:     opts,
		names:    names,
		sources:  sources,
		template: tpl,
	}, nil
}

func (r *HTMLReporter) Name() string  { return "html" }
func (r *HTMLReporter) Enabled() bool { return r.opts.Enable }

// ReportDir returns the directory the reports are written to. A location
// ending in ".html" designates its parent directory.
func (r *HTMLReporter) ReportDir(ctx context.Context) string {
	dir := r.opts.Location
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.opts.WorkDir, dir)
	}
	if strings.HasSuffix(r.opts.Location, ".html") {
		ctxlog.From(ctx).Warn("html report location should indicate a directory, using parent folder",
			"location", r.opts.Location)
		dir = filepath.Dir(dir)
	}
	return dir
}

// CompleteFile returns the file name of the complete report
func (r *HTMLReporter) CompleteFile() string {
	return r.opts.Name + ".html"
}

// LightFile returns the file name of the light report
func (r *HTMLReporter) LightFile() string {
	return r.opts.Name + "-light.html"
}

// Report writes the reports and copies the assets
func (r *HTMLReporter) Report(ctx context.Context, rep *report.Report) error {
	logger := ctxlog.From(ctx)
	dir := r.ReportDir(ctx)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create report directory", goerr.V("dir", dir))
	}

	if !r.opts.LightModeOnly {
		path := filepath.Join(dir, r.CompleteFile())
		logger.Debug("generating html report", "path", path)
		if err := r.writeFile(ctx, rep, path, true); err != nil {
			return err
		}
		logger.Info("HTML issues report generated", "path", absPath(path))
	}

	lightPath := filepath.Join(dir, r.LightFile())
	logger.Debug("generating light html report", "path", lightPath)
	if err := r.writeFile(ctx, rep, lightPath, false); err != nil {
		return err
	}
	logger.Info("light HTML issues report generated", "path", absPath(lightPath))

	if err := copyAssets(filepath.Join(dir, AssetsDir)); err != nil {
		return goerr.Wrap(err, "failed to copy html report resources", goerr.V("dir", dir))
	}
	return nil
}

func (r *HTMLReporter) writeFile(ctx context.Context, rep *report.Report, path string, complete bool) error {
	out, err := r.Render(ctx, rep, complete)
	if err != nil {
		return goerr.Wrap(err, "failed to generate html report", goerr.V("path", path))
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return goerr.Wrap(err, "failed to write html report", goerr.V("path", path))
	}
	return nil
}

// Render returns the complete or the light report document
func (r *HTMLReporter) Render(ctx context.Context, rep *report.Report, complete bool) (string, error) {
	page := newPageBuilder(r.names, r.sources).build(ctx, rep, complete)
	return r.template.Exec(page)
}

func copyAssets(target string) error {
	return fs.WalkDir(assetsFS, "assets/"+AssetsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(p, "assets/"+AssetsDir)
		dst := filepath.Join(target, filepath.FromSlash(rel))
		if d.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		data, err := assetsFS.ReadFile(p)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, data, 0o644)
	})
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
