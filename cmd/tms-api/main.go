package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	daemon "github.com/sevlyar/go-daemon"
	"github.com/spf13/cobra"

	"github.com/lowcodeminds/tms-api/internal/closure"
	"github.com/lowcodeminds/tms-api/internal/config"
	"github.com/lowcodeminds/tms-api/internal/dataset"
	"github.com/lowcodeminds/tms-api/internal/server"
	logpkg "github.com/lowcodeminds/tms-api/pkg/log"
	"github.com/lowcodeminds/tms-api/pkg/telemetry"
)

var (
	daemonMode bool
	cfgPath    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tms-api",
		Short: "Tower Management System API service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if daemonMode {
				cntxt := &daemon.Context{
					PidFileName: "tms-api.pid",
					PidFilePerm: 0644,
				}
				child, err := cntxt.Reborn()
				if err != nil {
					return err
				}
				if child != nil {
					return nil
				}
				defer cntxt.Release()
			}
			return run(cfgPath)
		},
	}
	rootCmd.PersistentFlags().BoolVar(&daemonMode, "daemon", false, "run in background")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to optional config file")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Init(ctx, "tms-api", cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.Background()) }()

	logger := logpkg.New("tms-api", cfg.Telemetry.Enabled())

	gateway, err := closure.Open(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer gateway.Close()

	datasets := dataset.NewStore(cfg.Server.DataDir)

	srv := server.New(cfg, datasets, gateway, logger)
	logger.Info("tower management api listening", "addr", cfg.Server.Listen)
	return srv.Run(ctx)
}
