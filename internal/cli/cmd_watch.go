package cli

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mworkman/reef/internal/config"
	"github.com/mworkman/reef/internal/events"
	"github.com/mworkman/reef/internal/storage"
	"github.com/mworkman/reef/internal/store"
	"github.com/mworkman/reef/internal/watcher"
)

// newWatchCmd creates the watch command
func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the task set for changes",
		Long: `Follow the snapshot file and print an event line whenever the task
set changes, whether through this process or an external writer.
Runs until interrupted.

Example:
  reef watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if err := requireInit(cfg); err != nil {
				return err
			}

			backend, err := storage.NewBackend(cfg.DataDir, storage.Options{
				Mode:            storage.Mode(cfg.Storage.Mode),
				BackupRetention: cfg.Storage.BackupRetention,
			})
			if err != nil {
				return err
			}

			pub := events.NewMemoryPublisher()
			defer pub.Close()

			s, err := store.Open(backend, store.WithPublisher(pub))
			if err != nil {
				_ = backend.Close()
				return err
			}
			defer s.Close()

			w, err := watcher.New(&watcher.Config{
				SnapshotPath: filepath.Join(cfg.DataDir, storage.SnapshotFileName),
				Reloader:     s,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sub := pub.Subscribe(events.GlobalID)
			go func() {
				_ = w.Start(ctx)
			}()

			if !quiet {
				fmt.Println("Watching", cfg.DataDir, "(Ctrl-C to stop)")
			}
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-sub:
					if !ok {
						return nil
					}
					if jsonOut {
						_ = printJSON(ev)
						continue
					}
					line := fmt.Sprintf("%s  %s", ev.Time.Format("15:04:05"), ev.Type)
					if ev.TaskID != "" && ev.TaskID != events.GlobalID {
						line += "  " + shortID(ev.TaskID)
					}
					fmt.Println(line)
				}
			}
		},
	}
	return cmd
}
