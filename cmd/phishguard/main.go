// Command phishguard runs the PhishGuard console server or performs a
// one-off scan from the terminal.
//
// Usage:
//
//	phishguard serve   [-config file] [-addr :8080]
//	phishguard scan    [-config file] -url URL [-content TEXT]
//	phishguard history [-config file] [-search TEXT] [-risk all|high|medium|low]
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raysh454/phishguard/internal/app"
	"github.com/raysh454/phishguard/internal/assessor"
	"github.com/raysh454/phishguard/internal/cli"
	"github.com/raysh454/phishguard/internal/config"
	"github.com/raysh454/phishguard/internal/history"
	"github.com/raysh454/phishguard/internal/logging"
	"github.com/raysh454/phishguard/internal/model"
	"github.com/raysh454/phishguard/internal/server"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	args, err := cli.ParseArgs(argv)
	if err != nil {
		return err
	}
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return err
	}
	if args.Addr != "" {
		cfg.Server.ListenAddr = args.Addr
	}
	if !args.NoBanner {
		cli.PrintBanner(os.Stdout)
	}

	logger := logging.NewLogrusLogger("phishguard", cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := config.OpenHistory(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	a, err := assessor.NewKeywordAssessor(&cfg.Assessor, logger)
	if err != nil {
		return fmt.Errorf("new assessor: %w", err)
	}

	switch args.Command {
	case cli.CommandScan:
		defer a.Close()
		return scan(ctx, a, cfg.App.Scanner.Timeout, args)
	case cli.CommandHistory:
		defer a.Close()
		return listHistory(ctx, repo, args)
	}
	return serve(ctx, cfg, a, repo, logger)
}

func serve(ctx context.Context, cfg *config.Config, a assessor.Assessor, repo history.Repository, logger logging.Logger) error {
	orch, err := app.NewOrchestrator(&cfg.App, a, repo, logger)
	if err != nil {
		return err
	}
	application := app.NewApplication(logger, orch)

	srv, err := server.NewServer(cfg.Server, orch, logger.With(logging.Field{Key: "component", Value: "server"}))
	if err != nil {
		return err
	}
	httpSrv := srv.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", logging.Field{Key: "addr", Value: httpSrv.Addr})
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = application.Shutdown(context.Background())
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", logging.Field{Key: "error", Value: err})
	}
	return application.Shutdown(shutdownCtx)
}

func scan(ctx context.Context, a assessor.Assessor, timeout time.Duration, args *cli.CLIArgs) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	fmt.Println("Analyzing...")
	r, err := a.Assess(ctx, args.URL, args.Content)
	if err != nil {
		return err
	}
	cli.PrintResult(os.Stdout, r)
	return nil
}

func listHistory(ctx context.Context, repo history.Repository, args *cli.CLIArgs) error {
	risk, err := model.ParseRiskFilter(args.Risk)
	if err != nil {
		return err
	}
	all, err := repo.List(ctx)
	if err != nil {
		return err
	}
	recs := history.Filter(all, history.Query{Search: args.Search, Risk: risk})
	cli.PrintHistory(os.Stdout, recs, history.Summarize(all), history.EmptyStateMessage)
	return nil
}
