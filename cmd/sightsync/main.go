package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bamsammich/sightsync/internal/filter"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the root command's flag values.
type options struct {
	source       string
	target       string
	olderThan    int
	copyFiles    bool
	deleteFiles  bool
	convertVideo bool
	debug        bool
	codec        codecFlag
	workers      int
	verify       bool
	chain        *filter.Chain
	filterFile   string
	minSize      string
	maxSize      string
	logFile      string
	progress     bool
	quiet        bool
	showVersion  bool
}

func run(args []string, stdout, stderr io.Writer) int {
	opts := &options{chain: filter.NewChain()}

	rootCmd := &cobra.Command{
		Use:   "sightsync [flags] <config.yaml>",
		Short: "Mirror a capture tree, re-encode AVI files and purge old sources",
		Long: `sightsync mirrors a source tree into a target tree in a single pass.

Without --copy or --delete nothing is changed: every decision is logged as a
dry run. AVI files can be re-encoded with ffmpeg on the way (--convert-video),
and sources older than --older-than days that are already mirrored can be
deleted (--delete).`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(stdout, "sightsync %s\n", version)
				return nil
			}
			return runSync(cmd, args[0], opts, stderr)
		},
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.Flags()
	flags.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	flags.StringVarP(&opts.source, "source", "s", "", "override <source> directory")
	flags.StringVarP(&opts.target, "target", "t", "", "override <target> directory")
	flags.IntVarP(&opts.olderThan, "older-than", "o", 0, "override <older_than> (days)")
	flags.BoolVarP(&opts.copyFiles, "copy", "C", false, "copy or convert files")
	flags.BoolVarP(&opts.deleteFiles, "delete", "D", false, "delete mirrored files older than <older_than>")
	flags.BoolVarP(&opts.convertVideo, "convert-video", "V", false, "convert AVI files with ffmpeg")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "turn on more verbose output")

	flags.Var(&opts.codec, "codec", "override <video.codec> ("+codecNames()+")")
	flags.IntVarP(&opts.workers, "workers", "n", 1, "number of files processed concurrently")
	flags.BoolVar(&opts.verify, "verify", false, "verify copies with BLAKE3 after writing")
	flags.Var(&filterFlag{chain: opts.chain}, "exclude", "exclude files matching PATTERN (repeatable)")
	flags.Var(&filterFlag{chain: opts.chain, include: true}, "include", "include files matching PATTERN (repeatable)")
	flags.StringVar(&opts.filterFile, "filter", "", "read filter rules from FILE")
	flags.StringVar(&opts.minSize, "min-size", "", "skip files smaller than SIZE (e.g. 1M, 100K)")
	flags.StringVar(&opts.maxSize, "max-size", "", "skip files larger than SIZE (e.g. 1G, 500M)")
	flags.StringVar(&opts.logFile, "log", "", "write structured JSON log to FILE")
	flags.BoolVar(&opts.progress, "progress", false, "print periodic progress to stderr")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only log warnings and errors")

	flags.SortFlags = false

	rootCmd.AddCommand(newCheckCmd(stdout))
	rootCmd.AddCommand(newDocsCmd())

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
