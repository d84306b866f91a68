/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mradosav-amd/cache/examples/telemetry"
	"github.com/mradosav-amd/cache/pkg/parser"
	"github.com/mradosav-amd/cache/pkg/registry"
	"github.com/mradosav-amd/cache/pkg/sample"
	"github.com/mradosav-amd/cache/pkg/timeline"
)

var replayFrom, replayTo uint64

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Replay a flushed trace-cache file, printing each decoded record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.New(telemetry.Registrations()...)
		if err != nil {
			return err
		}

		p := container.BuildParser(reg)
		count := 0
		p.OnFinished(func() { cmd.Printf("replay: processed %d records\n", count) })

		// byStart indexes every ProcessSample by its Start timestamp as it
		// is decoded, so a --from/--to window can be answered without a
		// second pass over the file.
		byStart := timeline.New[uint64, telemetry.ProcessSample](timeline.DefaultOrder)

		err = p.Load(args[0], parser.ProcessorFunc(func(typeID sample.TypeID, v sample.Type) error {
			count++
			cmd.Println(fmt.Sprintf("%d: %#v", typeID, v))
			if ps, ok := v.(telemetry.ProcessSample); ok {
				byStart.Insert(ps.Start, ps)
			}
			return nil
		}))
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("from") || cmd.Flags().Changed("to") {
			window := byStart.Range(replayFrom, replayTo)
			cmd.Printf("replay: %d process sample(s) with start in [%d, %d]\n", len(window), replayFrom, replayTo)
			for _, ps := range window {
				cmd.Printf("  %s pid=%d start=%d end=%d\n", ps.GUID, ps.ProcessID, ps.Start, ps.End)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Uint64Var(&replayFrom, "from", 0, "only report process samples with Start >= this timestamp")
	replayCmd.Flags().Uint64Var(&replayTo, "to", ^uint64(0), "only report process samples with Start <= this timestamp")
}
