package scene

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotline/pkg/block"
	"github.com/matzehuels/plotline/pkg/engine"
	"github.com/matzehuels/plotline/pkg/errors"
	"github.com/matzehuels/plotline/pkg/timeline"
	"github.com/matzehuels/plotline/pkg/value"
)

// Build instantiates the scene's graphs from cat and schedules them on a new
// timeline. A nil logger uses log.Default().
func (sc *Scene) Build(cat *block.Catalog, logger *log.Logger) (*timeline.Timeline, error) {
	if logger == nil {
		logger = log.Default()
	}
	tl := timeline.New(sc.TimelineWidth,
		timeline.WithTotalSecs(sc.TotalSecs),
		timeline.WithFPS(sc.FPS),
		timeline.WithSeed(sc.Seed),
		timeline.WithLogger(logger),
	)
	pxPerSec := tl.Width / tl.TotalSecs

	for i, spec := range sc.Items {
		g, err := buildGraph(spec, cat, logger.With("item", spec.Name))
		if err != nil {
			return nil, err
		}
		color := value.HSL(float64(i)*47, 0.55, 0.6)
		if spec.Color != "" {
			if color, err = value.ParseColor(spec.Color); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "item %s", spec.Name)
			}
		}
		tl.Add(&timeline.Item{
			Name:   spec.Name,
			X:      spec.Start * pxPerSec,
			Y:      spec.Row,
			Length: spec.Length * pxPerSec,
			Color:  color,
			Seed:   spec.Seed,
			Graph:  g,
		})
	}
	return tl, nil
}

// BackgroundColor returns the parsed background color, white when unset.
func (sc *Scene) BackgroundColor() (value.RGBA, error) {
	if sc.Background == "" {
		return value.White, nil
	}
	c, err := value.ParseColor(sc.Background)
	if err != nil {
		return value.RGBA{}, errors.Wrap(errors.ErrCodeInvalidScene, err, "background")
	}
	return c, nil
}

func buildGraph(spec ItemSpec, cat *block.Catalog, logger *log.Logger) (*engine.Context, error) {
	g := engine.New(engine.WithLogger(logger))
	byName := make(map[string]*block.Block, len(spec.Blocks))

	for _, bs := range spec.Blocks {
		b, err := g.AddFromCatalog(cat, bs.Kind)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "item %s: block %s", spec.Name, bs.Name)
		}
		b.X, b.Y = bs.X, bs.Y
		byName[bs.Name] = b

		for _, port := range slices.Sorted(maps.Keys(bs.Inputs)) {
			p := findInput(b, port)
			if p == nil {
				return nil, errors.New(errors.ErrCodeInvalidScene, "item %s: %s has no input %q (inputs: %s)",
					spec.Name, bs.Kind, port, inputNames(b))
			}
			v, err := convert(bs.Inputs[port], p.Value)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "item %s: %s.%s", spec.Name, bs.Name, port)
			}
			if err := g.SetInputValue(p.ID, v); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "item %s: %s.%s", spec.Name, bs.Name, port)
			}
		}
	}

	for _, w := range spec.Wires {
		out, err := resolvePort(byName, w.From, block.Output)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "item %s: wire %s -> %s", spec.Name, w.From, w.To)
		}
		in, err := resolvePort(byName, w.To, block.Input)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "item %s: wire %s -> %s", spec.Name, w.From, w.To)
		}
		ok, err := g.Connect(out.ID, in.ID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "item %s: wire %s -> %s", spec.Name, w.From, w.To)
		}
		if !ok {
			if _, taken := g.Source(in.ID); taken {
				return nil, errors.New(errors.ErrCodeInvalidScene, "item %s: %s is already wired", spec.Name, w.To)
			}
			return nil, errors.New(errors.ErrCodeInvalidScene, "item %s: cannot wire %s (%s) to %s (%s)",
				spec.Name, w.From, out.Value.Kind(), w.To, in.Value.Kind())
		}
	}
	return g, nil
}

func resolvePort(byName map[string]*block.Block, ref string, dir block.Direction) (*block.Port, error) {
	name, port, err := errors.SplitPortRef(ref)
	if err != nil {
		return nil, err
	}
	b, ok := byName[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no block named %q", name)
	}
	ports := b.Inputs
	if dir == block.Output {
		ports = b.Outputs
	}
	p := findPort(ports, port)
	if p == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "%s has no %s port %q", name, dir, port)
	}
	return p, nil
}

func findInput(b *block.Block, name string) *block.Port { return findPort(b.Inputs, name) }

// findPort matches port names case-insensitively and accepts "_" for spaces,
// since TOML bare keys cannot hold spaces.
func findPort(ports []*block.Port, name string) *block.Port {
	spaced := strings.ReplaceAll(name, "_", " ")
	for _, p := range ports {
		if strings.EqualFold(p.Name, name) || strings.EqualFold(p.Name, spaced) {
			return p
		}
	}
	return nil
}

func inputNames(b *block.Block) string {
	names := make([]string, len(b.Inputs))
	for i, p := range b.Inputs {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
