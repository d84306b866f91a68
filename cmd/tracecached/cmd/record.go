/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mradosav-amd/cache/examples/telemetry"
	"github.com/mradosav-amd/cache/pkg/di"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record synthetic telemetry samples into a trace-cache file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		duration, _ := cmd.Flags().GetDuration("duration")

		pid := os.Getpid()
		ppid := os.Getppid()
		engineCfg := di.EngineConfigFrom(cfg, ppid, pid)
		eng := container.BuildEngine(engineCfg)

		if err := eng.Start(pid); err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		if duration > 0 {
			var timeoutCancel context.CancelFunc
			ctx, timeoutCancel = context.WithTimeout(ctx, duration)
			defer timeoutCancel()
		}

		gen := telemetry.NewGenerator(uint64(pid))
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()

	loop:
		for {
			select {
			case <-ctx.Done():
				break loop
			case <-ticker.C:
				if err := eng.Store(gen.Next()); err != nil {
					cmd.PrintErrf("record: store failed: %v\n", err)
				}
			}
		}

		if err := eng.Shutdown(pid); err != nil {
			return err
		}
		cmd.Println(engineCfg.OutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().Duration("duration", 5*time.Second, "How long to record before shutting down (0 runs until interrupted)")
}
