package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/pthm/issuesreport/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <analysis>",
	Short: "Generate the HTML report of an analysis and serve it over HTTP",
	Long: `Generate the HTML report of an analysis and serve it, with a JSON
summary under /api/summary.

Examples:
  issuesreport serve analysis.yaml
  issuesreport serve --addr 127.0.0.1:9090 results.sarif`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "Listen address")
	serveCmd.Flags().StringVar(&reportFlags.projectKey, "project-key", "", "Project key, when the analysis does not name one")
	serveCmd.Flags().StringVar(&reportFlags.baseDir, "base-dir", "", "Project base directory")
	serveCmd.Flags().StringVar(&reportFlags.workDir, "work-dir", "", "Directory receiving generated reports")
	serveCmd.Flags().StringVar(&reportFlags.serverURL, "server-url", "", "Analysis server URL")
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	logger := ctxlog.From(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	applyReportFlags(cmd, cfg)
	cfg.HTML.LightModeOnly = false
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, a, err := prepare(ctx, cfg, args[0], nil)
	if err != nil {
		return err
	}
	rep := a.build(ctx, nil)

	html, err := a.htmlReporter(true)
	if err != nil {
		return err
	}
	if err := html.Report(ctx, rep); err != nil {
		return err
	}

	srv, err := server.New(ctx, server.Options{
		Addr:      serveAddr,
		ReportDir: html.ReportDir(ctx),
		Index:     html.CompleteFile(),
	}, rep)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving issues report", "addr", "http://"+serveAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return goerr.Wrap(err, "server failed", goerr.V("addr", serveAddr))
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return goerr.Wrap(err, "failed to shut down server")
	}
	logger.Info("server stopped")
	return nil
}
