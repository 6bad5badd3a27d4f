package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/snapwatch/snapwatch-daemon/internal/common"
	"github.com/snapwatch/snapwatch-daemon/internal/config"
	"github.com/snapwatch/snapwatch-daemon/internal/monitor"
	"github.com/snapwatch/snapwatch-daemon/internal/storage"
)

func main() {
	watcher, err := config.NewWatcher("", nil)
	if err != nil {
		log.Fatal(err)
	}
	defer watcher.Close()

	logger, err := common.NewLogger(watcher.Current())
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	var store *storage.SeedStore
	if paths, err := config.GetPaths(); err == nil {
		if store, err = storage.NewSeedStore(paths.DBFile, logger); err != nil {
			logger.Warn("seed store unavailable, dedup seeds will not persist")
			store = nil
		}
	}
	if store != nil {
		defer store.Close()
	}

	m := monitor.New(watcher, store, logger)
	if err := m.Start(); err != nil {
		log.Fatal(err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	m.Stop()
}
