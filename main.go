package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/milk9111/mockups/anim"
	"github.com/milk9111/mockups/render"
	"github.com/milk9111/mockups/render/raster"
	"github.com/milk9111/mockups/variants"
)

var (
	verbose     bool
	variantName string
	software    bool
	watch       bool
	baseMonitor bool

	snapshotDir    string
	snapshotFrames int
	snapshotWidth  float64
	snapshotHeight float64
	snapshotScale  float64
	snapshotSeed   int64

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "mockups",
	Short: "Pointer reactive mockup animations",
	Long: `mockups renders a gallery of pointer reactive animations.

Run without arguments to open the gallery window. Use the arrow keys to switch
variants and Tab for the variant menu.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runGallery,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available variants in gallery order",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range variants.List() {
			spec, err := variants.ByName(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-18s %-12s %s\n", name, spec.Label, spec.Title)
		}
		return nil
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [variant...]",
	Short: "Render variants headlessly to PNG files",
	Long: `Renders each named variant (all of them by default) for a number of frames
while a synthetic pointer sweeps across the container, then writes the last
frame to <dir>/<variant>.png.`,
	RunE: runSnapshots,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.Flags().StringVar(&variantName, "variant", "", "variant to open first")
	rootCmd.Flags().BoolVar(&software, "software", false, "rasterize on the CPU and drive frames from a background task")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "reload variant YAML from "+variants.OverrideDir+"/ on change")
	rootCmd.Flags().BoolVarP(&baseMonitor, "monitor", "m", false, "use base monitor instead of primary (for multi-monitor setups)")

	snapshotCmd.Flags().StringVarP(&snapshotDir, "out", "o", "snapshots", "output directory")
	snapshotCmd.Flags().IntVar(&snapshotFrames, "frames", 120, "frames to simulate before capturing")
	snapshotCmd.Flags().Float64Var(&snapshotWidth, "width", 960, "container width")
	snapshotCmd.Flags().Float64Var(&snapshotHeight, "height", 600, "container height")
	snapshotCmd.Flags().Float64Var(&snapshotScale, "scale", 1, "device pixel ratio (capped at 2)")
	snapshotCmd.Flags().Int64Var(&snapshotSeed, "seed", 1, "random seed for body placement")

	rootCmd.AddCommand(listCmd, snapshotCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGallery(cmd *cobra.Command, args []string) error {
	names := variants.List()
	if len(names) == 0 {
		return fmt.Errorf("no variants embedded")
	}
	start := 0
	if variantName != "" {
		start = -1
		for i, n := range names {
			if n == variantName {
				start = i
			}
		}
		if start < 0 {
			return fmt.Errorf("%w: %s", variants.ErrUnknownVariant, variantName)
		}
	}

	if baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(defaultWidth, defaultHeight)
	ebiten.SetWindowTitle("mockups")

	game, err := NewGame(GameOptions{
		Variants: names,
		Start:    start,
		Software: software,
		Watch:    watch,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = variants.List()
	}
	if err := os.MkdirAll(snapshotDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())
	for _, name := range names {
		g.Go(func() error {
			path := filepath.Join(snapshotDir, name+".png")
			if err := snapshot(ctx, name, path); err != nil {
				return fmt.Errorf("snapshot %s: %w", name, err)
			}
			logger.Info("snapshot written", zap.String("variant", name), zap.String("path", path))
			return nil
		})
	}
	return g.Wait()
}

func snapshot(ctx context.Context, name, path string) error {
	spec, err := variants.ByName(name)
	if err != nil {
		return err
	}
	q := anim.NewQueue()
	inst := anim.New(spec, anim.WithScheduler(q), anim.WithSeed(snapshotSeed), anim.WithLogger(logger))
	defer inst.Unmount()

	w, h := snapshotWidth, snapshotHeight
	inst.Mount(func() (render.Surface, error) {
		return raster.New(w, h, snapshotScale)
	}, w, h, snapshotScale)
	if inst.Disabled() {
		return render.ErrSurfaceUnavailable
	}

	inst.PointerEnter(w*0.2, h*0.5)
	for i := 0; i < snapshotFrames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := float64(i) / float64(max(snapshotFrames-1, 1))
		inst.PointerMove(w*(0.2+0.6*t), h*(0.5+0.15*(t-0.5)))
		q.Fire(time.Duration(i) * anim.DefaultFrameInterval)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	var werr error
	inst.View(func(s render.Surface) {
		if rs, ok := s.(*raster.Surface); ok {
			werr = rs.WritePNG(f)
		}
	})
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	return werr
}
