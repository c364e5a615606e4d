package scene

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/plotline/pkg/errors"
	"github.com/matzehuels/plotline/pkg/timeline"
)

// Defaults for fields a scene may omit.
const (
	DefaultWidth         = 800
	DefaultHeight        = 600
	DefaultTimelineWidth = 1200
)

// Scene is the decoded form of a scene file.
type Scene struct {
	Width         float64 `toml:"width" validate:"gte=0"`
	Height        float64 `toml:"height" validate:"gte=0"`
	TimelineWidth float64 `toml:"timeline_width" validate:"gte=0"`
	TotalSecs     float64 `toml:"total_secs" validate:"omitempty,gte=5"`
	FPS           float64 `toml:"fps" validate:"omitempty,gt=0,lte=240"`
	Seed          uint64  `toml:"seed"`
	Background    string  `toml:"background"`

	Items []ItemSpec `toml:"item" validate:"required,min=1,dive"`

	// Raw holds the bytes the scene was parsed from.
	Raw []byte `toml:"-"`
}

// ItemSpec describes one timeline item.
type ItemSpec struct {
	Name   string  `toml:"name" validate:"required"`
	Start  float64 `toml:"start" validate:"gte=0"`
	Length float64 `toml:"length" validate:"gt=0"`
	Row    float64 `toml:"row"`
	Color  string  `toml:"color"`
	Seed   *uint64 `toml:"seed"`

	Blocks []BlockSpec `toml:"block" validate:"required,min=1,dive"`
	Wires  []WireSpec  `toml:"wire" validate:"dive"`
}

// BlockSpec places one block. Inputs map port names to values.
type BlockSpec struct {
	Name   string         `toml:"name" validate:"required"`
	Kind   string         `toml:"kind" validate:"required"`
	X      float64        `toml:"x"`
	Y      float64        `toml:"y"`
	Inputs map[string]any `toml:"inputs"`
}

// WireSpec connects "block.port" references.
type WireSpec struct {
	From string `toml:"from" validate:"required,contains=."`
	To   string `toml:"to" validate:"required,contains=."`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFile reads and parses the scene at path.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "read %s", path)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scene, filling in defaults.
func Parse(data []byte) (*Scene, error) {
	var sc Scene
	md, err := toml.Decode(string(data), &sc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode scene")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidScene, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := validate.Struct(&sc); err != nil {
		return nil, validationError(err)
	}
	if err := sc.checkNames(); err != nil {
		return nil, err
	}

	sc.Raw = data
	sc.applyDefaults()
	return &sc, nil
}

func (sc *Scene) applyDefaults() {
	if sc.Width == 0 {
		sc.Width = DefaultWidth
	}
	if sc.Height == 0 {
		sc.Height = DefaultHeight
	}
	if sc.TimelineWidth == 0 {
		sc.TimelineWidth = DefaultTimelineWidth
	}
	if sc.TotalSecs == 0 {
		sc.TotalSecs = timeline.DefaultTotalSecs
	}
	if sc.FPS == 0 {
		sc.FPS = timeline.DefaultFPS
	}
}

// checkNames enforces unique, URL-safe item and block names.
func (sc *Scene) checkNames() error {
	items := make(map[string]bool, len(sc.Items))
	for _, it := range sc.Items {
		if err := errors.ValidateName(it.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "item %q", it.Name)
		}
		if items[it.Name] {
			return errors.New(errors.ErrCodeInvalidScene, "duplicate item %q", it.Name)
		}
		items[it.Name] = true

		blocks := make(map[string]bool, len(it.Blocks))
		for _, b := range it.Blocks {
			if err := errors.ValidateName(b.Name); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidScene, err, "item %s: block %q", it.Name, b.Name)
			}
			if blocks[b.Name] {
				return errors.New(errors.ErrCodeInvalidScene, "item %s: duplicate block %q", it.Name, b.Name)
			}
			blocks[b.Name] = true
		}
	}
	return nil
}

// validationError reports the first failed field in scene terms.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidScene, err, "validate scene")
	}
	fe := verrs[0]
	field := strings.TrimPrefix(fe.Namespace(), "Scene.")
	switch fe.Tag() {
	case "required":
		return errors.New(errors.ErrCodeInvalidScene, "%s is required", field)
	case "min":
		return errors.New(errors.ErrCodeInvalidScene, "%s needs at least %s entries", field, fe.Param())
	case "contains":
		return errors.New(errors.ErrCodeInvalidScene, "%s must be a block.port reference, got %q", field, fe.Value())
	default:
		return errors.New(errors.ErrCodeInvalidScene, "%s must satisfy %s=%s, got %v", field, fe.Tag(), fe.Param(), fe.Value())
	}
}
