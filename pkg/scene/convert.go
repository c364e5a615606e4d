package scene

import (
	"fmt"
	"strings"

	"github.com/matzehuels/plotline/pkg/value"
)

// convert interprets a decoded TOML value as the kind of want.
func convert(raw any, want value.Value) (value.Value, error) {
	switch want.Kind() {
	case value.KindNumber:
		x, err := number(raw)
		if err != nil {
			return value.Value{}, err
		}
		return value.Num(x), nil

	case value.KindPoint:
		p, err := point(raw)
		if err != nil {
			return value.Value{}, err
		}
		return value.FromPt(p), nil

	case value.KindColor:
		s, ok := raw.(string)
		if !ok {
			return value.Value{}, fmt.Errorf("want a color name or hex string, got %T", raw)
		}
		c, err := value.ParseColor(s)
		if err != nil {
			return value.Value{}, err
		}
		return value.Color(c), nil

	case value.KindSelection:
		return selection(raw, want)

	case value.KindListOfNumber:
		items, ok := raw.([]any)
		if !ok {
			return value.Value{}, fmt.Errorf("want an array of numbers, got %T", raw)
		}
		xs := make([]float64, len(items))
		for i, it := range items {
			x, err := number(it)
			if err != nil {
				return value.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			xs[i] = x
		}
		return value.Numbers(xs), nil

	case value.KindListOfPoint:
		items, ok := raw.([]any)
		if !ok {
			return value.Value{}, fmt.Errorf("want an array of [x, y] pairs, got %T", raw)
		}
		ps := make([]value.Pt, len(items))
		for i, it := range items {
			p, err := point(it)
			if err != nil {
				return value.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			ps[i] = p
		}
		return value.Points(ps), nil
	}
	return value.Value{}, fmt.Errorf("inputs of kind %s cannot be set from a scene", want.Kind())
}

func number(raw any) (float64, error) {
	switch x := raw.(type) {
	case int64:
		return float64(x), nil
	case float64:
		return x, nil
	}
	return 0, fmt.Errorf("want a number, got %T", raw)
}

func point(raw any) (value.Pt, error) {
	pair, ok := raw.([]any)
	if !ok || len(pair) != 2 {
		return value.Pt{}, fmt.Errorf("want an [x, y] pair, got %v", raw)
	}
	x, err := number(pair[0])
	if err != nil {
		return value.Pt{}, err
	}
	y, err := number(pair[1])
	if err != nil {
		return value.Pt{}, err
	}
	return value.Pt{X: x, Y: y}, nil
}

// selection accepts an option name or a zero-based index.
func selection(raw any, want value.Value) (value.Value, error) {
	opts := want.Choice().Options
	switch x := raw.(type) {
	case string:
		for i, o := range opts {
			if strings.EqualFold(o, x) {
				return want.WithIndex(i), nil
			}
		}
		return value.Value{}, fmt.Errorf("unknown option %q (options: %s)", x, strings.Join(opts, ", "))
	case int64:
		if x < 0 || int(x) >= len(opts) {
			return value.Value{}, fmt.Errorf("option index %d out of range [0, %d)", x, len(opts))
		}
		return want.WithIndex(int(x)), nil
	}
	return value.Value{}, fmt.Errorf("want an option name, got %T", raw)
}
