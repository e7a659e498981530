package cmd

import (
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/lockedme/lockedme/filesystem/watcher"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *application) *cobra.Command {
	var queue int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print changes to the files in the directory until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := setupContext(cmd.Context())
			defer stop()

			w, err := newDirectoryWatcher(queue, app.logger)
			if err != nil {
				return err
			}
			defer w.Close()

			if err := w.Start(ctx, app.store.Dir()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", app.store.Dir())

			out := cmd.OutOrStdout()
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-w.Events():
					if !ok {
						return nil
					}
					fmt.Fprintf(out, "%s %-6s %s\n", ev.Timestamp.Format("15:04:05"), ev.Type, ev.Name)
				case err, ok := <-w.Errors():
					if !ok {
						return errors.New("watcher stopped unexpectedly")
					}
					app.logger.Warn().Err(err).Msg("Watcher error")
				}
			}
		},
	}

	cmd.Flags().IntVar(&queue, "queue", watcher.DefaultWatcherConfig().QueueCapacity, "event queue capacity")
	return cmd
}

func newDirectoryWatcher(queue int, logger zerolog.Logger) (watcher.Watcher, error) {
	w, err := watcher.NewFSNotifyWatcher(watcher.WatcherConfig{QueueCapacity: queue}, logger)
	if err != nil {
		return nil, err
	}
	return w, nil
}
