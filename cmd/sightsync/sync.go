package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/bamsammich/sightsync/internal/config"
	"github.com/bamsammich/sightsync/internal/engine"
	"github.com/bamsammich/sightsync/internal/event"
	"github.com/bamsammich/sightsync/internal/ffmpeg"
	"github.com/bamsammich/sightsync/internal/filter"
	"github.com/bamsammich/sightsync/internal/processor"
	"github.com/bamsammich/sightsync/internal/stats"
	"github.com/bamsammich/sightsync/internal/ui"
)

// loadJob resolves a job from the built-in defaults, the user defaults file
// and the job file at path, in that order.
func loadJob(path string) (config.Config, config.UserConfig, error) {
	user, err := config.LoadUser()
	if err != nil {
		return config.Config{}, config.UserConfig{}, fmt.Errorf("load %s: %w", config.UserPath(), err)
	}
	cfg := config.Default()
	user.Defaults.Apply(&cfg)
	cfg, err = config.Load(path, cfg)
	if err != nil {
		return config.Config{}, config.UserConfig{}, fmt.Errorf("load job: %w", err)
	}
	return cfg, user, nil
}

// applyFlags copies explicitly set command-line flags over the job values,
// warning about every value that changes.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config, opts *options, logger *slog.Logger) {
	override := func(key string, from, to any) {
		if from != to {
			logger.Warn("overriding "+key+" from command line", "old", from, "new", to)
		}
	}

	if flags.Changed("source") {
		override("source", cfg.Source, opts.source)
		cfg.Source = opts.source
	}
	if flags.Changed("target") {
		override("target", cfg.Target, opts.target)
		cfg.Target = opts.target
	}
	if flags.Changed("older-than") {
		override("older_than", cfg.OlderThan, opts.olderThan)
		cfg.OlderThan = opts.olderThan
	}
	if flags.Changed("convert-video") {
		override("video.convert", cfg.Video.Convert, opts.convertVideo)
		cfg.Video.Convert = opts.convertVideo
	}
	if flags.Changed("codec") {
		override("video.codec", cfg.Video.Codec, string(opts.codec.codec))
		cfg.Video.Codec = string(opts.codec.codec)
	}
	if flags.Changed("copy") {
		override("copy_files", cfg.CopyFiles, opts.copyFiles)
		cfg.CopyFiles = opts.copyFiles
	}
	if flags.Changed("delete") {
		override("delete_files", cfg.DeleteFiles, opts.deleteFiles)
		cfg.DeleteFiles = opts.deleteFiles
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("verify") {
		cfg.Verify = opts.verify
	}
}

// buildFilter combines command-line rules, which take precedence, with the
// job file's include and exclude lists.
func buildFilter(cfg config.Config, opts *options) (*filter.Chain, error) {
	chain := opts.chain
	if opts.filterFile != "" {
		if err := chain.LoadFile(opts.filterFile); err != nil {
			return nil, fmt.Errorf("load filter file: %w", err)
		}
	}
	if opts.minSize != "" {
		n, err := filter.ParseSize(opts.minSize)
		if err != nil {
			return nil, fmt.Errorf("invalid --min-size: %w", err)
		}
		chain.SetMinSize(n)
	}
	if opts.maxSize != "" {
		n, err := filter.ParseSize(opts.maxSize)
		if err != nil {
			return nil, fmt.Errorf("invalid --max-size: %w", err)
		}
		chain.SetMaxSize(n)
	}

	job, err := cfg.Filter()
	if err != nil {
		return nil, err
	}
	chain.Append(job)
	if chain.Empty() {
		return nil, nil
	}
	return chain, nil
}

func logBanner(logger *slog.Logger, cfg config.Config, chain *filter.Chain, mode processor.Mode) {
	logger.Info("sightsync " + version)
	logger.Info("mirroring", "source", cfg.Source, "target", cfg.Target, "older_than", cfg.OlderThan)
	if cfg.Video.Convert {
		logger.Info("videos will be converted", "codec", cfg.Video.Codec, "pixel_format", cfg.Video.PixelFormat)
	} else {
		logger.Info("videos will not be converted, only copied")
	}
	if chain != nil {
		logger.Info("filtering source files", "rules", chain.Len())
	}
	logger.Info("this is a "+mode.String(), "copy_files", cfg.CopyFiles, "delete_files", cfg.DeleteFiles)

	if logger.Enabled(context.Background(), slog.LevelDebug) {
		if out, err := yaml.Marshal(cfg); err == nil {
			logger.Debug("resolved config\n" + strings.TrimRight(string(out), "\n"))
		}
	}
}

//nolint:gocyclo,revive // CLI entry point wires every component together
func runSync(cmd *cobra.Command, jobPath string, opts *options, stderr io.Writer) error {
	cfg, user, err := loadJob(jobPath)
	if err != nil {
		return err
	}

	logFile := opts.logFile
	if !cmd.Flags().Changed("log") && user.Defaults.Log != nil {
		logFile = *user.Defaults.Log
	}
	level := slog.LevelInfo
	switch {
	case opts.debug:
		level = slog.LevelDebug
	case opts.quiet:
		level = slog.LevelWarn
	}
	runID := uuid.NewString()[:8]
	color := isTerminal(stderr)

	logger, fileLogger, closeLog, err := newLogger(logSetup{
		console: stderr,
		level:   level,
		color:   color,
		file:    logFile,
		runID:   runID,
	})
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck // best-effort flush on exit
	slog.SetDefault(logger)

	applyFlags(cmd.Flags(), &cfg, opts, logger)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.CheckPaths(); err != nil {
		return err
	}
	chain, err := buildFilter(cfg, opts)
	if err != nil {
		return err
	}
	codec, _ := cfg.Codec() //nolint:errcheck // checked by Validate

	mode := processor.ModeFor(cfg.CopyFiles, cfg.DeleteFiles)
	logBanner(logger, cfg, chain, mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if mode == processor.RealRun && cfg.CopyFiles && cfg.Video.Convert {
		info, err := ffmpeg.Check(ctx, cfg.FFmpeg, codec)
		if err != nil {
			return fmt.Errorf("encoder check: %w", err)
		}
		logger.Debug("encoder ready", "path", info.Path, "version", info.Version)
	}

	collector := stats.NewCollector()
	events := make(chan event.Event, 256)

	// When --log is set, tee events into the structured log before
	// forwarding them to the presenter.
	presenterEvents := (<-chan event.Event)(events)
	if fileLogger != nil {
		teed := make(chan event.Event, 256)
		go func() {
			for ev := range events {
				fileLogger.LogAttrs(context.Background(), slog.LevelInfo, "sightsync.event", ev.LogAttrs()...)
				teed <- ev
			}
			close(teed)
		}()
		presenterEvents = teed
	}

	width := 0
	if color {
		width = min(terminalWidth(stderr)/4, 30)
	}
	presenter := ui.NewPresenter(ui.Config{
		Writer:   stderr,
		Stats:    collector,
		Progress: opts.progress,
		Quiet:    opts.quiet,
		Color:    color,
		Width:    width,
	})

	proc := processor.New(processor.Config{
		Logger:       logger,
		Stats:        collector,
		FFmpeg:       cfg.FFmpeg,
		Codec:        codec,
		Mode:         mode,
		CopyFiles:    cfg.CopyFiles,
		DeleteFiles:  cfg.DeleteFiles,
		ConvertVideo: cfg.Video.Convert,
		Verify:       cfg.Verify,
		Debug:        opts.debug,
	})

	var presenterErr error
	var presenterWg sync.WaitGroup
	presenterWg.Add(1)
	go func() {
		defer presenterWg.Done()
		presenterErr = presenter.Run(presenterEvents)
	}()

	result := engine.Run(ctx, engine.Config{
		Processor:   proc,
		Stats:       collector,
		Filter:      chain,
		Events:      events,
		Logger:      logger,
		SourceRoot:  cfg.Source,
		TargetRoot:  cfg.Target,
		OlderThan:   cfg.OlderThan,
		Workers:     cfg.Workers,
		CopyFiles:   cfg.CopyFiles,
		DeleteFiles: cfg.DeleteFiles,
	})
	interrupted := ctx.Err() != nil
	stop()
	close(events)
	presenterWg.Wait()
	if presenterErr != nil {
		logger.Warn("presenter failed", "error", presenterErr)
	}

	if interrupted {
		if n := processor.CleanupTmpFiles(); n > 0 {
			logger.Warn("removed partial copies", "count", n)
		}
	}

	for _, line := range ui.Summary(result.Stats, ui.SummaryOptions{
		RunID:   runID,
		Copied:  proc.Copying(),
		Deleted: proc.Deleting(),
		DryRun:  mode == processor.DryRun,
		Verify:  cfg.Verify,
		Aborted: result.Aborted(),
	}) {
		logger.Info(line)
	}
	logger.Debug("counters", "stats", result.Stats.String())
	if opts.progress && !opts.quiet {
		fmt.Fprintln(stderr, presenter.Summary())
	}

	switch {
	case result.Aborted():
		logger.Error("run aborted", "error", result.Err)
		return &exitError{code: 1}
	case interrupted:
		logger.Error("run interrupted")
		return &exitError{code: 2}
	case result.Err != nil:
		return result.Err
	}
	return nil
}
