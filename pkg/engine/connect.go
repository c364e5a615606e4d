package engine

import (
	"github.com/matzehuels/plotline/pkg/block"
	"github.com/matzehuels/plotline/pkg/errors"
	"github.com/matzehuels/plotline/pkg/value"
)

// Connect wires two ports together, in either argument order. It reports
// false without error when the ports have the same direction, when their
// kinds differ, or when the input already has a wire; the existing wire
// wins. Unknown ports are an ErrCodeNotFound error and a wire that would
// close a dependency cycle is an ErrCodeCycle error.
func (c *Context) Connect(a, b block.ID) (bool, error) {
	pa, ok := c.ports[a]
	if !ok {
		return false, errors.New(errors.ErrCodeNotFound, "unknown port %d", a)
	}
	pb, ok := c.ports[b]
	if !ok {
		return false, errors.New(errors.ErrCodeNotFound, "unknown port %d", b)
	}
	if pa.Direction == pb.Direction {
		return false, nil
	}
	in, out := pa, pb
	if in.Direction == block.Output {
		in, out = out, in
	}
	if !value.SameKind(in.Value, out.Value) {
		c.logger.Debug("refusing wire between kinds", "input", in.Value.Kind(), "output", out.Value.Kind())
		return false, nil
	}
	if _, taken := c.inputs[in.ID]; taken {
		return false, nil
	}
	if c.graph.WouldCycle(c.blockIndex[in.Owner], c.blockIndex[out.Owner]) {
		return false, errors.New(errors.ErrCodeCycle, "wiring %s into %s would create a cycle",
			c.Block(out.Owner).Name, c.Block(in.Owner).Name)
	}

	c.inputs[in.ID] = out.Owner
	c.inputOutput[in.ID] = out.ID
	c.connections[Wire{Input: in.ID, Output: out.ID}] = struct{}{}
	c.Rebuild()
	return true, nil
}

// Disconnect removes every wire touching a port: the single incoming wire of
// an input, or all outgoing wires of an output. It reports whether anything
// was removed.
func (c *Context) Disconnect(portID block.ID) bool {
	if !c.unlink(portID) {
		return false
	}
	c.Rebuild()
	return true
}

func (c *Context) unlink(portID block.ID) bool {
	removed := false
	for w := range c.connections {
		if w.Input != portID && w.Output != portID {
			continue
		}
		delete(c.connections, w)
		delete(c.inputs, w.Input)
		delete(c.inputOutput, w.Input)
		removed = true
	}
	return removed
}

// BeginDrag takes the drag token for a block or port. Only one element may
// be dragged at a time; it reports false while another holds the token.
func (c *Context) BeginDrag(id block.ID) bool {
	if c.dragging != 0 && c.dragging != id {
		return false
	}
	c.dragging = id
	return true
}

// ReleaseDrag returns the drag token if id holds it.
func (c *Context) ReleaseDrag(id block.ID) {
	if c.dragging == id {
		c.dragging = 0
	}
}

// Dragging returns the holder of the drag token, or 0.
func (c *Context) Dragging() block.ID { return c.dragging }

// DragPort starts pulling a wire from a port. Dragging an input that already
// has a wire detaches that wire first.
func (c *Context) DragPort(portID block.ID) bool {
	p, ok := c.ports[portID]
	if !ok || !c.BeginDrag(portID) {
		return false
	}
	if p.Direction == block.Input {
		c.Disconnect(portID)
	}
	return true
}
