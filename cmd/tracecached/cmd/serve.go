/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mradosav-amd/cache/pkg/di"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the engine and expose its metrics and debug endpoint over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		pid := os.Getpid()
		ppid := os.Getppid()
		engineCfg := di.EngineConfigFrom(cfg, ppid, pid)
		eng := container.BuildEngine(engineCfg)

		if err := eng.Start(pid); err != nil {
			return err
		}
		defer eng.Shutdown(pid)

		server := container.BuildHTTPServer(eng, cfg.HTTP)

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		errCh := make(chan error, 1)
		go func() { errCh <- server.ListenAndServe() }()

		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
