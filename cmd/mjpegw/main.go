// Package main provides the CLI entry point for mjpegw.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/mjpegw/pkg/adapters/demosource"
	"github.com/user/mjpegw/pkg/adapters/filesink"
	"github.com/user/mjpegw/pkg/adapters/ggrenderer"
	"github.com/user/mjpegw/pkg/adapters/imagedir"
	"github.com/user/mjpegw/pkg/adapters/logger"
	"github.com/user/mjpegw/pkg/adapters/mjpegencoder"
	"github.com/user/mjpegw/pkg/adapters/nullsink"
	"github.com/user/mjpegw/pkg/adapters/osfilesystem"
	"github.com/user/mjpegw/pkg/avi"
	"github.com/user/mjpegw/pkg/config"
	"github.com/user/mjpegw/pkg/jpegenc"
	"github.com/user/mjpegw/pkg/orchestrator"
	"github.com/user/mjpegw/pkg/pipeline"
	"github.com/user/mjpegw/pkg/ports"
	"github.com/user/mjpegw/pkg/stages/encode"
	"github.com/user/mjpegw/pkg/stages/inspect"
	"github.com/user/mjpegw/pkg/stages/prepare"
	"github.com/user/mjpegw/pkg/stages/source"
	"github.com/user/mjpegw/pkg/summarizer"
)

var version = "dev"

func main() {
	if err := newApp().RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "mjpegw",
		Usage:   l10n.T("Encode image sequences as Motion JPEG AVI files"),
		Version: version,
		Commands: []*cli.Command{
			encodeCommand(),
			demoCommand(),
			inspectCommand(),
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, l10n.F("mjpegw version %s", version))
					return nil
				},
			},
		},
	}
}

// Flags shared by encode and demo. Flags come before positional arguments.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Output AVI file path (required)"), Required: true, Category: l10n.T("Output")},
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file"), Category: l10n.T("Output")},
		&cli.StringFlag{Name: "summary", Usage: l10n.T("Output execution summary to file (Markdown format)"), Category: l10n.T("Output")},
		&cli.IntFlag{Name: "fps", Aliases: []string{"r"}, Usage: l10n.T("Output frame rate"), Category: l10n.T("Video and Quality")},
		&cli.StringFlag{Name: "quality", Aliases: []string{"q"}, Usage: l10n.T("Quality preset (low, medium, high)"), Category: l10n.T("Video and Quality")},
		&cli.IntFlag{Name: "outro-ms", Usage: l10n.T("Duration to hold final frame in milliseconds"), Category: l10n.T("Video and Quality")},
		&cli.BoolFlag{Name: "no-verify", Usage: l10n.T("Skip re-reading the output after encoding"), Category: l10n.T("Video and Quality")},
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Enable debug output"), Category: l10n.T("Debug")},
		&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug output"), Category: l10n.T("Debug")},
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: l10n.T("Log level (debug, info, warn, error)"), Category: l10n.T("Logging")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output"), Category: l10n.T("Logging")},
	}
}

func encodeCommand() *cli.Command {
	flags := append(outputFlags(),
		&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Usage: l10n.T("Output video width (default: source width)"), Category: l10n.T("Frames")},
		&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Usage: l10n.T("Output video height (default: source height)"), Category: l10n.T("Frames")},
		&cli.BoolFlag{Name: "stretch", Usage: l10n.T("Stretch frames instead of letterboxing them"), Category: l10n.T("Frames")},
		&cli.StringFlag{Name: "background", Usage: l10n.T("Letterbox color (hex, e.g., #000000)"), Category: l10n.T("Frames")},
		&cli.IntFlag{Name: "max-frames", Usage: l10n.T("Use at most this many frames (0 = all)"), Category: l10n.T("Frames")},
		&cli.IntFlag{Name: "workers", Aliases: []string{"j"}, Usage: l10n.T("Frame preparation workers (0 = one per CPU)"), Category: l10n.T("Frames")},
	)
	return &cli.Command{
		Name:      "encode",
		Usage:     l10n.T("Encode a directory of images as an MJPEG AVI file"),
		ArgsUsage: "<dir>",
		Flags:     flags,
		Action:    runEncode,
	}
}

func demoCommand() *cli.Command {
	defaults := demosource.DefaultOptions()
	flags := append(outputFlags(),
		&cli.IntFlag{Name: "frames", Value: defaults.Frames, Usage: l10n.T("Number of frames to render"), Category: l10n.T("Frames")},
		&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Value: defaults.Width, Usage: l10n.T("Frame width"), Category: l10n.T("Frames")},
		&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Value: defaults.Height, Usage: l10n.T("Frame height"), Category: l10n.T("Frames")},
	)
	return &cli.Command{
		Name:   "demo",
		Usage:  l10n.T("Render a test animation as an MJPEG AVI file"),
		Flags:  flags,
		Action: runDemo,
	}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     l10n.T("Print and validate the structure of an AVI file"),
		ArgsUsage: "<file.avi>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: l10n.T("Print the result as JSON")},
		},
		Action: runInspect,
	}
}

func runEncode(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New(l10n.T("Frame directory argument is required"))
	}
	dir := c.Args().First()

	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	fs := osfilesystem.New()
	log := newLogger(c, cfg)
	renderer := ggrenderer.New(ggrenderer.WithLogger(log))

	src := imagedir.New(dir, cfg.FPS, fs, renderer, log)
	return runPipeline(c, cfg, src, "directory", dir, log)
}

func runDemo(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	opts := demosource.Options{
		Frames: c.Int("frames"),
		Width:  c.Int("width"),
		Height: c.Int("height"),
		FPS:    cfg.FPS,
	}
	// The animation is rendered at the output size.
	cfg.Width, cfg.Height = 0, 0

	log := newLogger(c, cfg)
	src := demosource.New(ggrenderer.New(ggrenderer.WithLogger(log)), opts)
	return runPipeline(c, cfg, src, "demo", "", log)
}

// buildConfig merges the config file, if any, with the flags that were set.
func buildConfig(c *cli.Context) (config.Config, error) {
	base := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return base, fmt.Errorf("load config: %w", err)
		}
		base = loaded
	}

	b := config.NewConfigBuilderFrom(base).WithOutput(c.String("output"))
	if c.IsSet("fps") {
		b.WithFPS(c.Int("fps"))
	}
	if c.IsSet("quality") {
		q, err := jpegenc.ParseQuality(c.String("quality"))
		if err != nil {
			return base, err
		}
		b.WithQuality(q)
	}
	if c.IsSet("outro-ms") {
		b.WithOutroMs(c.Int("outro-ms"))
	}
	if c.Bool("no-verify") {
		b.WithVerify(false)
	}
	if c.IsSet("debug") || c.IsSet("debug-dir") {
		b.WithDebug(c.Bool("debug") || base.Debug, c.String("debug-dir"))
	}
	if c.IsSet("log-level") {
		b.WithLogLevel(c.String("log-level"))
	}
	if c.IsSet("width") {
		b.WithWidth(c.Int("width"))
	}
	if c.IsSet("height") {
		b.WithHeight(c.Int("height"))
	}
	if c.Bool("stretch") {
		b.WithKeepAspect(false)
	}
	if c.IsSet("background") {
		b.WithBackground(c.String("background"))
	}
	if c.IsSet("max-frames") {
		b.WithMaxFrames(c.Int("max-frames"))
	}
	if c.IsSet("workers") {
		b.WithWorkers(c.Int("workers"))
	}

	// Build would clamp bad values, so they are reported first.
	if err := b.Config().Validate(); err != nil {
		return base, err
	}
	return b.Build(), nil
}

func newLogger(c *cli.Context, cfg config.Config) ports.Logger {
	if c.Bool("quiet") {
		return logger.NewNoop()
	}
	level, _ := ports.ParseLogLevel(cfg.LogLevel)
	if c.App.Writer == os.Stdout {
		return logger.NewConsole(level)
	}
	return logger.NewWriter(level, c.App.Writer, c.App.ErrWriter)
}

// withSignals cancels the returned context on SIGINT or SIGTERM.
func withSignals(parent context.Context, log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			log.Warn(l10n.T("Interrupted, shutting down..."))
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func runPipeline(c *cli.Context, cfg config.Config, src ports.FrameSource, kind, path string, log ports.Logger) error {
	ctx, cancel := withSignals(c.Context, log)
	defer cancel()

	fs := osfilesystem.New()
	renderer := ggrenderer.New(ggrenderer.WithLogger(log))

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	orch := orchestrator.New(
		source.NewStage(src, log),
		prepare.NewStage(renderer, sink, log, cfg.Workers),
		encode.NewStage(mjpegencoder.New(sink, log), log),
		inspect.NewStage(fs, sink, log),
		log,
	)

	result, err := orch.Run(ctx, cfg.ToOrchestratorConfig())
	if err != nil {
		return err
	}

	if summaryPath := c.String("summary"); summaryPath != "" {
		summary := summarizer.NewBuilder().
			WithSource(kind, path, 0, 0).
			WithSettings(summarizer.Settings{KeepAspect: cfg.KeepAspect, Workers: cfg.Workers}).
			WithRunResult(result, cfg.OutroMs).
			Build()
		formatter := summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(l10n.T),
			summarizer.WithVersion(version),
		)
		if err := summarizer.NewWriter(formatter, fs).Write(summaryPath, summary); err != nil {
			log.Error(l10n.F("Failed to write summary: %s", err))
		} else {
			log.Info(l10n.F("Summary saved to %s", summaryPath))
		}
	}

	return nil
}

func runInspect(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New(l10n.T("AVI file argument is required"))
	}
	path := c.Args().First()

	stage := inspect.NewStage(osfilesystem.New(), nullsink.New(), logger.NewNoop())
	result, err := stage.Execute(c.Context, pipeline.InspectInput{Path: path})
	if result.Info == nil {
		return err
	}

	if c.Bool("json") {
		data, jerr := json.MarshalIndent(result.Info, "", "  ")
		if jerr != nil {
			return jerr
		}
		fmt.Fprintln(c.App.Writer, string(data))
	} else {
		printInfo(c.App.Writer, path, result.Info)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Fprintln(c.App.ErrWriter, l10n.F("%s is valid", path))
	return nil
}

func printInfo(w io.Writer, path string, info *avi.FileInfo) {
	var largest uint32
	for _, e := range info.Index {
		largest = max(largest, e.Size)
	}

	fmt.Fprintf(w, "%-16s %s\n", l10n.T("File")+":", path)
	fmt.Fprintf(w, "%-16s %d\n", l10n.T("File size")+":", info.FileSize)
	fmt.Fprintf(w, "%-16s %dx%d\n", l10n.T("Frame size")+":", info.Width, info.Height)
	fmt.Fprintf(w, "%-16s %.2f fps\n", l10n.T("Frame rate")+":", info.FPS())
	fmt.Fprintf(w, "%-16s %d\n", l10n.T("Frames")+":", info.TotalFrames)
	fmt.Fprintf(w, "%-16s %s/%s\n", l10n.T("Codec")+":", info.Handler, info.Compression)
	fmt.Fprintf(w, "%-16s %d\n", l10n.T("Frame data")+":", info.MoviSize)
	fmt.Fprintf(w, "%-16s %d\n", l10n.T("Index entries")+":", len(info.Index))
	fmt.Fprintf(w, "%-16s %d\n", l10n.T("Largest frame")+":", largest)
}
