package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plotline/pkg/cache"
	"github.com/matzehuels/plotline/pkg/errors"
	"github.com/matzehuels/plotline/pkg/player"
	"github.com/matzehuels/plotline/pkg/render/sink"
	"github.com/matzehuels/plotline/pkg/scene"
)

const (
	formatSVG = "svg"
	formatPNG = "png"
	formatPDF = "pdf"
)

// validFormats is the set of supported frame formats.
var validFormats = map[string]bool{formatSVG: true, formatPNG: true, formatPDF: true}

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output  string   // output file, or directory when several frames are written
	formats []string // svg, png, pdf
	at      float64  // time of a single frame in seconds
	frames  int      // number of evenly spaced frames over the timeline
	all     bool     // one frame per timeline step
	seed    uint64   // overrides the scene seed when non-zero
	scale   float64  // PNG pixel scale
	stamp   bool     // embed the run id in SVG metadata
	cacheFlags
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 1}

	cmd := &cobra.Command{
		Use:   "render <scene.toml>",
		Short: "Render frames of a scene to SVG, PNG or PDF",
		Long: `Render evaluates the timeline of a scene at one or more times and writes
what the blocks draw. By default a single frame at --at seconds is written
next to the scene file.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single frame) or directory (several frames)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&opts.at, "at", 0, "time of the frame in seconds")
	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 0, "render this many frames spread over the timeline")
	cmd.Flags().BoolVar(&opts.all, "all", false, "render every frame at the scene's fps")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "override the scene seed")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG pixel scale")
	cmd.Flags().BoolVar(&opts.stamp, "stamp", false, "embed the run id in SVG metadata (bypasses the cache)")
	opts.cacheFlags.register(cmd)

	return cmd
}

// parseFormats splits the --format flag, defaulting to svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	return strings.Split(s, ",")
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be svg, png or pdf)", f)
		}
	}
	return nil
}

// frameTimes returns the times to render, in seconds.
func frameTimes(opts *renderOpts, totalSecs, fps float64) []float64 {
	n := opts.frames
	step := 0.0
	switch {
	case opts.all:
		n = int(totalSecs * fps)
		step = 1 / fps
	case n > 1:
		step = totalSecs / float64(n)
	default:
		return []float64{opts.at}
	}
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * step
	}
	return times
}

// basePath strips a known format extension from output, or derives a path
// from the scene file when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// framePath names frame i of n. Single frames use the base path as is;
// sequences go into a directory as frame-0000.<format>.
func framePath(opts *renderOpts, input string, i, n int, format string) string {
	if n == 1 {
		if opts.output != "" && len(opts.formats) == 1 && filepath.Ext(opts.output) != "" {
			return opts.output
		}
		return basePath(opts.output, input) + "." + format
	}
	dir := opts.output
	if dir == "" {
		dir = basePath("", input) + "-frames"
	}
	return filepath.Join(dir, fmt.Sprintf("frame-%04d.%s", i, format))
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	runID := uuid.New().String()
	logger = logger.With("run", runID[:8])
	logger.Infof("Rendering %s", input)

	sc, tl, err := c.loadScene(ctx, input, opts.seed)
	if err != nil {
		return err
	}
	store, keyer := opts.cacheFlags.open(ctx)
	defer store.Close()

	bg, err := sc.BackgroundColor()
	if err != nil {
		return err
	}
	svgOpts := []sink.SVGOption{sink.WithSize(sc.Width, sc.Height), sink.WithBackground(bg), sink.WithTitle(filepath.Base(input))}
	if opts.stamp {
		svgOpts = append(svgOpts, sink.WithRunID(runID))
	}

	r := &frameRenderer{
		player:    player.New(tl, sc.Width, sc.Height),
		scene:     sc,
		store:     store,
		keyer:     keyer,
		sceneHash: cache.Hash(sc.Raw),
		bg:        bg.Hex(),
		svgOpts:   svgOpts,
		scale:     opts.scale,
		useCache:  !opts.stamp,
	}

	times := frameTimes(opts, tl.TotalSecs, tl.FPS)
	prog := newProgress(logger)
	var spin *Spinner
	if len(times) > 1 {
		spin = newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d frames", len(times)))
		spin.Start()
	}

	var written []string
	for i, t := range times {
		if spin != nil {
			spin.SetMessage(fmt.Sprintf("Rendering frame %d/%d (%.2fs)", i+1, len(times), t))
		}
		for _, format := range opts.formats {
			data, err := r.render(ctx, t, format)
			if err != nil {
				if spin != nil {
					spin.StopWithError(fmt.Sprintf("frame at %.2fs failed", t))
				}
				return fmt.Errorf("frame at %.2fs: %w", t, err)
			}
			path := framePath(opts, input, i, len(times), format)
			if err := writeOutput(path, data); err != nil {
				if spin != nil {
					spin.Stop()
				}
				return err
			}
			written = append(written, path)
		}
	}
	if spin != nil {
		spin.Stop()
	}

	prog.done("Rendered %d frames", len(times))
	printStats(len(times), r.ops, r.hits)
	if len(written) <= 4 {
		for _, p := range written {
			printFile(p)
		}
	} else {
		printFile(filepath.Dir(written[0]))
	}
	printNextStep("Play it", fmt.Sprintf("%s play %s", appName, input))
	return nil
}

// frameRenderer renders frames through the artifact cache.
type frameRenderer struct {
	player    *player.Player
	scene     *scene.Scene
	store     cache.Cache
	keyer     cache.Keyer
	sceneHash string
	bg        string
	svgOpts   []sink.SVGOption
	scale     float64
	useCache  bool

	ops, hits int
}

func (r *frameRenderer) render(ctx context.Context, secs float64, format string) ([]byte, error) {
	key := r.keyer.FrameKey(r.sceneHash, cache.FrameKeyOpts{
		Seconds:    secs,
		Width:      int(r.scene.Width),
		Height:     int(r.scene.Height),
		Seed:       r.player.Timeline().Seed,
		Format:     fmt.Sprintf("%s@%g", format, r.scale),
		Background: r.bg,
	})
	if r.useCache {
		if data, ok, err := r.store.Get(ctx, key); err == nil && ok {
			r.hits++
			return data, nil
		}
	}

	ops, err := r.player.Frame(ctx, secs)
	if err != nil {
		return nil, err
	}
	r.ops += len(ops)

	var data []byte
	switch format {
	case formatPNG:
		data, err = sink.RenderPNG(ctx, ops, sink.WithPNGSVGOptions(r.svgOpts...), sink.WithScale(r.scale))
	case formatPDF:
		data, err = sink.RenderPDF(ctx, ops, r.svgOpts...)
	default:
		data = sink.RenderSVG(ops, r.svgOpts...)
	}
	if err != nil {
		return nil, err
	}
	if r.useCache {
		if err := r.store.Set(ctx, key, data, 0); err != nil {
			loggerFromContext(ctx).Debug("cache write failed", "key", key, "err", err)
		}
	}
	return data, nil
}

// writeOutput validates path, creates its directory and writes data.
func writeOutput(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
