package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cloudtrail-explorer/internal/dashboard"
	"cloudtrail-explorer/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve [file|glob]",
	Short: "Serve the web dashboard and JSON API",
	Long: `Start a local dashboard. The given document (or input.path, or the cached
document) is loaded first; more can be uploaded with POST /api/v1/documents.
With --watch the file is re-ingested whenever it changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.StringP("port", "p", ":8080", "listen address")
	flags.BoolP("watch", "w", false, "re-ingest the file when it changes")
	bind("dashboard.port", flags.Lookup("port"))
	bind("input.watch", flags.Lookup("watch"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		cancel()
	}()

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.load(firstArg(args), false); err != nil {
		return err
	}
	s.printMeta()

	if s.cfg.Input.Watch {
		if s.path == "" {
			log.Printf("[WATCH] No input file to watch")
		} else {
			w, err := watcher.New(s.path, s.explorer)
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			log.Printf("[WATCH] Watching %s", w.Path())
			go w.Start(ctx)
		}
	}

	srv, err := dashboard.NewServer(s.explorer, s.timeMode(), s.pageSize(), s.cfg.Dashboard.Port)
	if err != nil {
		return fmt.Errorf("failed to create dashboard: %w", err)
	}
	return srv.Start(ctx)
}
