package value

import (
	"github.com/matzehuels/plotline/pkg/errors"
)

// Flatten collects the elements of an iteration into one list value.
// Numbers become a ListOfNumber and points a ListOfPoint. An empty input
// yields an empty ListOfNumber. Elements are expected to share the kind of
// the first one; any other element kind is reported as unsupported.
func Flatten(items []Value) (Value, error) {
	if len(items) == 0 {
		return Numbers(nil), nil
	}
	switch first := items[0].kind; first {
	case KindNumber:
		nums := make([]float64, len(items))
		for i, v := range items {
			if v.kind != KindNumber {
				return Value{}, errors.New(errors.ErrCodeUnsupported, "cannot flatten %s element at %d into a list of numbers", v.kind, i)
			}
			nums[i] = v.num
		}
		return Value{kind: KindListOfNumber, nums: nums}, nil
	case KindPoint:
		pts := make([]Pt, len(items))
		for i, v := range items {
			if v.kind != KindPoint {
				return Value{}, errors.New(errors.ErrCodeUnsupported, "cannot flatten %s element at %d into a list of points", v.kind, i)
			}
			pts[i] = v.pt
		}
		return Value{kind: KindListOfPoint, pts: pts}, nil
	default:
		return Value{}, errors.New(errors.ErrCodeUnsupported, "flattening %s values is not implemented", first)
	}
}
