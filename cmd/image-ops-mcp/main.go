package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/ironsheep/image-ops-mcp/internal/config"
	"github.com/ironsheep/image-ops-mcp/internal/geometry"
	"github.com/ironsheep/image-ops-mcp/internal/imaging"
	"github.com/ironsheep/image-ops-mcp/internal/logging"
	"github.com/ironsheep/image-ops-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "image-ops-mcp",
		Usage: "MCP server for image resizing, composition and color analysis",
		Description: "Without a command the server speaks MCP over stdin/stdout.\n" +
			"Configure it in your MCP client (e.g., Claude Desktop).",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn, error or quiet (overrides " + config.EnvLogLevel + ")",
			},
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the MCP server on stdin/stdout",
				Action: runServe,
			},
			resizeCommand(),
			paletteCommand(),
			{
				Name:  "version",
				Usage: "Print version information",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "image-ops-mcp %s\n", Version)
					fmt.Fprintf(c.App.Writer, "  Build time: %s\n", BuildTime)
					fmt.Fprintf(c.App.Writer, "  Git commit: %s\n", GitCommit)
					return nil
				},
			},
		},
	}
}

// setup loads the configuration and builds the logger. Precedence is
// config file, then environment, then --log-level.
func setup(c *cli.Context) (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	cfg.ApplyEnv()
	if lvl := c.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.NewConsole(level), nil
}

func runServe(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server.Version = Version
	logger.Debug("image-ops-mcp %s (built %s, commit %s)", Version, BuildTime, GitCommit)

	err = server.New(cfg, logger).Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down")
		return nil
	}
	return err
}

func resizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "resize",
		Usage:     "Resize an image file",
		ArgsUsage: "<input> <output>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "width", Aliases: []string{"w"}, Usage: "desired width (0 = unset)"},
			&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Usage: "desired height (0 = unset)"},
			&cli.StringFlag{Name: "mode", Usage: "contain, cover or exact (default from config)"},
			&cli.StringFlag{Name: "filter", Usage: "nearest, bilinear, catmullrom or lanczos (default from config)"},
			&cli.BoolFlag{Name: "allow-increase", Usage: "allow enlarging the image (default from config)"},
			&cli.Float64Flag{Name: "align-x", Usage: "cover crop position 0..1 (default from config)"},
			&cli.Float64Flag{Name: "align-y", Usage: "cover crop position 0..1 (default from config)"},
			&cli.IntFlag{Name: "quality", Usage: "JPEG/WebP quality 1-100 (default from config)"},
		},
		Action: runResize,
	}
}

func runResize(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("resize needs <input> and <output>")
	}
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	input, output := c.Args().Get(0), c.Args().Get(1)

	opts := imaging.ResizeOptions{
		Width:         c.Int("width"),
		Height:        c.Int("height"),
		AllowIncrease: cfg.Resize.AllowIncrease,
		Mode:          cfg.Resize.Mode,
		AlignX:        cfg.Resize.AlignX,
		AlignY:        cfg.Resize.AlignY,
	}
	if m := c.String("mode"); m != "" {
		if opts.Mode, err = geometry.ParseSizingMode(m); err != nil {
			return err
		}
	}
	if c.IsSet("allow-increase") {
		opts.AllowIncrease = c.Bool("allow-increase")
	}
	if c.IsSet("align-x") {
		opts.AlignX = c.Float64("align-x")
	}
	if c.IsSet("align-y") {
		opts.AlignY = c.Float64("align-y")
	}
	filterName := c.String("filter")
	if filterName == "" {
		filterName = cfg.Resize.Filter
	}
	if opts.Filter, err = imaging.ParseFilter(filterName); err != nil {
		return err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	img, err := imaging.Decode(data)
	if err != nil {
		return err
	}
	resized, err := img.Resize(opts)
	if err != nil {
		return err
	}

	format, err := imaging.ParseFormat(strings.TrimPrefix(filepath.Ext(output), "."))
	if err != nil {
		format = img.Format()
	}
	encOpts := imaging.EncodeOptions{
		Quality:     cfg.Encode.JPEGQuality,
		Compression: png.CompressionLevel(cfg.Encode.PNGCompression),
		Lossless:    cfg.Encode.WebPLossless,
		Colors:      cfg.Encode.GIFColors,
	}
	if q := c.Int("quality"); q != 0 {
		encOpts.Quality = q
	}
	out, err := resized.Bytes(format, encOpts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return err
	}

	logger.Info("resized %s %dx%d -> %s %dx%d", input, img.Width(), img.Height(), output, resized.Width(), resized.Height())
	fmt.Fprintf(c.App.Writer, "%s %dx%d\n", output, resized.Width(), resized.Height())
	return nil
}

func paletteCommand() *cli.Command {
	return &cli.Command{
		Name:      "palette",
		Usage:     "Print the dominant colors of an image file",
		ArgsUsage: "<input>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "count", Aliases: []string{"k"}, Usage: "number of colors (default from config)"},
			&cli.Int64Flag{Name: "seed", Usage: "random seed for reproducible output (0 = config seed or random)"},
			&cli.IntFlag{Name: "sample-size", Usage: "downsample box before clustering, 0 = every pixel (default from config)"},
		},
		Action: runPalette,
	}
}

func runPalette(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("palette needs <input>")
	}
	cfg, _, err := setup(c)
	if err != nil {
		return err
	}

	p := cfg.Palette
	opts := imaging.PaletteOptions{
		Count:         p.Count,
		SampleSize:    p.SampleSize,
		Epsilon:       p.Epsilon,
		MaxIterations: p.MaxIterations,
		Workers:       p.Workers,
		Sort:          p.Sort,
	}
	if k := c.Int("count"); k != 0 {
		opts.Count = k
	}
	if c.IsSet("sample-size") {
		opts.SampleSize = c.Int("sample-size")
	}
	seed := p.Seed
	if s := c.Int64("seed"); s != 0 {
		seed = s
	}
	if seed != 0 {
		opts.Rand = rand.New(rand.NewSource(seed))
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return err
	}
	img, err := imaging.Decode(data)
	if err != nil {
		return err
	}
	result, err := img.DominantColors(opts)
	if err != nil {
		return err
	}
	for _, col := range result.Colors {
		fmt.Fprintf(c.App.Writer, "%s %6.2f%%\n", col.Hex, col.Percentage)
	}
	return nil
}
