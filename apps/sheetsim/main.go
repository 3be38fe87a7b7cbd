// Command sheetsim serves a local emulation of the spreadsheet endpoint, backed by a bolt file.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/trezcool/huda/core"
	logsvc "github.com/trezcool/huda/services/logger"
	"github.com/trezcool/huda/storage/sheetsim"
)

func main() {
	conf := core.NewConfig()
	stdLogger := log.New(os.Stdout, "SIM : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)

	legacy := flag.Bool("legacy-ack", false, "Answer writes with a bare \"Success\" text body.")
	readOnly := flag.Bool("read-only", false, "Refuse every write with a failure acknowledgement.")
	addr := flag.String("addr", conf.Sim.Address, "Address to listen on.")
	dbPath := flag.String("db", conf.Sim.DBPath, "Path of the bolt database file.")
	flag.Parse()

	backend, err := sheetsim.OpenBoltBackend(*dbPath)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	sim := sheetsim.NewHandler(backend, sheetsim.Options{
		LegacyAck:   *legacy,
		ReadOnly:    *readOnly,
		LogRequests: true,
		Logger:      logger,
	})
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("sheetsim listening on " + *addr + " (" + *dbPath + ")")
		if err := sim.Start(*addr); err != nil {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", err)
	case sig := <-shutdown:
		logger.Info("shutdown started: " + sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()
		if err := sim.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown did not complete", err)
			_ = sim.Close()
		}
	}
}
