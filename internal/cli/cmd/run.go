package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/snapwatch/snapwatch-daemon/internal/config"
	"github.com/snapwatch/snapwatch-daemon/internal/monitor"
	"github.com/snapwatch/snapwatch-daemon/internal/storage"
	"github.com/snapwatch/snapwatch-daemon/internal/types"
)

var duration time.Duration

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the acquisition pipeline in the foreground",
	Long: `Run the clipboard watcher and gesture capture pipeline until
interrupted. A duration can be given for testing; otherwise the daemon
runs until SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		watcher, err := config.NewWatcher(configFile, logger)
		if err != nil {
			logger.Error("Failed to load configuration", zap.Error(err))
			return err
		}
		defer watcher.Close()

		var store *storage.SeedStore
		if paths, err := config.GetPaths(); err != nil {
			logger.Warn("No data directory available, dedup seeds will not persist", zap.Error(err))
		} else if store, err = storage.NewSeedStore(paths.DBFile, logger); err != nil {
			logger.Warn("Seed store unavailable, dedup seeds will not persist", zap.Error(err))
			store = nil
		}
		if store != nil {
			defer store.Close()
		}

		m := monitor.New(watcher, store, logger)

		// Demonstration subscribers: downstream collaborators (overlay,
		// history writer) attach to the same streams.
		newImages := m.Events().Subscribe(types.EventNewImage)
		captures := m.Events().Subscribe(types.EventCaptured)
		go logEvents("new-image", newImages)
		go logEvents("captured", captures)

		if err := m.Start(); err != nil {
			logger.Error("Failed to start monitor", zap.Error(err))
			return err
		}

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		if duration > 0 {
			logger.Info("Running for test duration", zap.Duration("duration", duration))
			select {
			case <-time.After(duration):
			case <-stop:
			}
		} else {
			<-stop
		}

		logger.Info("Stopping monitor")
		m.Stop()

		status := m.Status()
		logger.Info("Final pipeline status",
			zap.Bool("gesture_armed", status.GestureArmed),
			zap.Int("error_count", status.ErrorCount),
			zap.Time("last_activity", status.LastActivity))
		return nil
	},
}

func logEvents(stream string, ch <-chan *types.ImageContent) {
	for content := range ch {
		logger.Info("Image accepted",
			zap.String("stream", stream),
			zap.String("content_id", content.ID),
			zap.String("format", content.Format),
			zap.Int("width", content.Width),
			zap.Int("height", content.Height),
			zap.Bool("animated", content.Animated()))
	}
}

func init() {
	runCmd.Flags().DurationVar(&duration, "duration", 0, "run for a fixed duration, then exit (0 means run until interrupted)")
}
