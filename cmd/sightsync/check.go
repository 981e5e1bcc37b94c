package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bamsammich/sightsync/internal/ffmpeg"
)

func newCheckCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "check <config.yaml>",
		Short: "Validate a job file and the encoder it names",
		Long: `check loads and validates a job file, then verifies that the configured
ffmpeg binary runs and lists the configured codec among its encoders.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, _, err := loadJob(args[0])
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.CheckPaths(); err != nil {
				return err
			}
			codec, _ := cfg.Codec() //nolint:errcheck // checked by Validate

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			info, err := ffmpeg.Check(ctx, cfg.FFmpeg, codec)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "source   %s\n", cfg.Source)
			fmt.Fprintf(stdout, "target   %s\n", cfg.Target)
			fmt.Fprintf(stdout, "ffmpeg   %s (%s)\n", info.Path, info.Version)
			fmt.Fprintf(stdout, "encoder  %s ok\n", codec)
			return nil
		},
	}
}
