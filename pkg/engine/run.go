package engine

import (
	"time"

	"github.com/matzehuels/plotline/pkg/block"
	"github.com/matzehuels/plotline/pkg/errors"
	"github.com/matzehuels/plotline/pkg/value"
)

// PassStats summarizes one evaluation pass.
type PassStats struct {
	Blocks   int           // blocks evaluated
	Calls    int           // Kind.Run invocations, counting fan-out
	Duration time.Duration // wall time of the pass
}

// Run evaluates every block once in dependency order.
//
// Wired inputs read the result their upstream output produced earlier in the
// same pass; unwired inputs use their stored default. When some inputs are
// iterations, all of them must have the same length n and the block runs n
// times, receiving element i of each iteration on call i. Results written to
// one output across those calls are merged in call order. Blocks that
// flatten their inputs instead receive each iteration as one list value and
// run once.
//
// The first error aborts the pass. Drawing already done is not undone.
func (c *Context) Run(rc *block.RunContext) error {
	if rc == nil {
		rc = block.NewRunContext(0, 0, 0, 0, nil)
	}
	start := time.Now()
	stats := PassStats{}
	defer func() {
		stats.Duration = time.Since(start)
		c.last = stats
	}()

	previous := make(map[block.ID]value.Result)
	for _, h := range c.order {
		b := c.blocks[h]
		in, n, err := c.resolve(b, previous)
		if err != nil {
			return err
		}
		if b.FlattenInputs {
			if err := flattenInputs(b, in); err != nil {
				return errors.Wrap(errors.ErrCodeUnsupported, err, "block %s", b.Name)
			}
			n = 1
		}

		merged := make([]value.Result, len(b.Outputs))
		written := make([]bool, len(b.Outputs))
		args := make([]value.Value, len(in))
		for i := range n {
			for j, r := range in {
				args[j] = r.At(i)
			}
			outs := b.Kind.Run(args, rc)
			stats.Calls++
			for j, r := range outs {
				if j >= len(b.Outputs) {
					break
				}
				if written[j] {
					merged[j] = value.Merge(merged[j], r)
				} else {
					merged[j], written[j] = r, true
				}
			}
		}
		for j, p := range b.Outputs {
			switch {
			case written[j]:
				previous[p.ID] = merged[j]
			case n == 0:
				previous[p.ID] = value.Iteration(nil)
			}
		}
		stats.Blocks++
	}
	return nil
}

// resolve gathers the inputs of b and the number of times b must run.
func (c *Context) resolve(b *block.Block, previous map[block.ID]value.Result) ([]value.Result, int, error) {
	in := make([]value.Result, len(b.Inputs))
	n := 1
	var first *block.Port
	for j, p := range b.Inputs {
		outID, wired := c.inputOutput[p.ID]
		if !wired {
			in[j] = value.Single(p.Value)
			continue
		}
		r, ok := previous[outID]
		if !ok {
			return nil, 0, errors.New(errors.ErrCodeDanglingDependency,
				"block %s depends on output %d of %s, but no value was produced for it in this pass",
				b.Name, outID, c.ownerName(outID))
		}
		if r.IsIteration() {
			if first == nil {
				first, n = p, r.Len()
			} else if r.Len() != n {
				a, z := c.inputs[first.ID], c.inputs[p.ID]
				return nil, 0, errors.New(errors.ErrCodeIterationMismatch,
					"Block %d depends on multiple iterations whose lengths dont match. Id(%d) %d != Id(%d) %d (%s, %s)",
					b.ID, a, n, z, r.Len(), c.Block(a).Name, c.Block(z).Name)
			}
		}
		in[j] = r
	}
	return in, n, nil
}

// flattenInputs replaces every iteration in in with a single list value.
// An empty iteration flattens to an empty list of the port's element kind.
func flattenInputs(b *block.Block, in []value.Result) error {
	for j, r := range in {
		if !r.IsIteration() {
			continue
		}
		var v value.Value
		if r.Len() == 0 && b.Inputs[j].Value.Kind() == value.KindPoint {
			v = value.Points(nil)
		} else {
			var err error
			if v, err = value.Flatten(r.Values()); err != nil {
				return err
			}
		}
		in[j] = value.Single(v)
	}
	return nil
}

func (c *Context) ownerName(portID block.ID) string {
	if p := c.ports[portID]; p != nil {
		if b := c.Block(p.Owner); b != nil {
			return b.Name
		}
	}
	return "a removed block"
}
