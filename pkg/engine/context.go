package engine

import (
	"cmp"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotline/pkg/block"
	"github.com/matzehuels/plotline/pkg/dag"
	"github.com/matzehuels/plotline/pkg/errors"
	"github.com/matzehuels/plotline/pkg/value"
)

// Wire identifies a connection by its input and output port.
type Wire struct {
	Input  block.ID
	Output block.ID
}

// Context owns the blocks of one graph instance, the wires between their
// ports and the evaluation order derived from those wires. A Context is not
// safe for concurrent use.
type Context struct {
	ids    *block.IDAllocator
	logger *log.Logger

	blocks     []*block.Block
	blockIndex map[block.ID]int
	ports      map[block.ID]*block.Port

	// inputs maps an input port to the block owning its upstream output.
	inputs map[block.ID]block.ID
	// inputOutput maps an input port to its upstream output port.
	inputOutput map[block.ID]block.ID
	connections map[Wire]struct{}

	graph *dag.Graph[block.ID]
	order []int

	dragging block.ID
	last     PassStats
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger used for rebuild and evaluation diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithIDs makes the context draw block and port IDs from ids.
func WithIDs(ids *block.IDAllocator) Option {
	return func(c *Context) {
		if ids != nil {
			c.ids = ids
		}
	}
}

// New returns an empty graph context.
func New(opts ...Option) *Context {
	c := &Context{
		ids:         &block.IDAllocator{},
		logger:      log.Default(),
		blockIndex:  make(map[block.ID]int),
		ports:       make(map[block.ID]*block.Port),
		inputs:      make(map[block.ID]block.ID),
		inputOutput: make(map[block.ID]block.ID),
		connections: make(map[Wire]struct{}),
		graph:       dag.New[block.ID](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddBlock places a new block of the given kind at (x, y).
func (c *Context) AddBlock(kind block.Kind, x, y float64) *block.Block {
	b := block.New(kind, c.ids)
	b.X, b.Y = x, y
	c.blockIndex[b.ID] = len(c.blocks)
	c.blocks = append(c.blocks, b)
	for _, p := range b.Ports() {
		c.ports[p.ID] = p
	}
	c.Rebuild()
	return b
}

// AddFromCatalog places a block of the named kind at the origin.
func (c *Context) AddFromCatalog(cat *block.Catalog, name string) (*block.Block, error) {
	k, ok := cat.Lookup(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown block kind %q", name)
	}
	return c.AddBlock(k, 0, 0), nil
}

// RemoveBlock deletes a block together with every wire touching its ports.
func (c *Context) RemoveBlock(id block.ID) error {
	i, ok := c.blockIndex[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "unknown block %d", id)
	}
	b := c.blocks[i]
	for _, p := range b.Ports() {
		c.unlink(p.ID)
		delete(c.ports, p.ID)
		if c.dragging == p.ID {
			c.dragging = 0
		}
	}
	if c.dragging == id {
		c.dragging = 0
	}

	c.blocks = slices.Delete(c.blocks, i, i+1)
	delete(c.blockIndex, id)
	for j := i; j < len(c.blocks); j++ {
		c.blockIndex[c.blocks[j].ID] = j
	}
	c.Rebuild()
	return nil
}

// MoveBlock sets a block's canvas position.
func (c *Context) MoveBlock(id block.ID, x, y float64) error {
	b := c.Block(id)
	if b == nil {
		return errors.New(errors.ErrCodeNotFound, "unknown block %d", id)
	}
	b.X, b.Y = x, y
	return nil
}

// SetInputValue replaces the stored default of an input port. The new value
// must have the port's kind.
func (c *Context) SetInputValue(portID block.ID, v value.Value) error {
	p, ok := c.ports[portID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "unknown port %d", portID)
	}
	if p.Direction != block.Input {
		return errors.New(errors.ErrCodeInvalidInput, "port %d (%s) is an output", portID, p.Name)
	}
	if !value.SameKind(p.Value, v) {
		return errors.New(errors.ErrCodeTypeMismatch, "port %d (%s) holds a %s, got %s", portID, p.Name, p.Value.Kind(), v.Kind())
	}
	p.Value = v
	return nil
}

// Rebuild derives the dependency graph from the current wires and
// recomputes the evaluation order. Every mutation calls it; callers only
// need it after editing blocks directly.
func (c *Context) Rebuild() {
	c.graph.Reset()
	for _, b := range c.blocks {
		c.graph.Add(dag.Node[block.ID]{Name: b.Name, Value: b.ID})
	}
	var deps dag.Deps
	for i, b := range c.blocks {
		for _, p := range b.Inputs {
			if up, ok := c.inputs[p.ID]; ok {
				deps = append(deps, dag.On(i, c.blockIndex[up]))
			}
		}
	}
	c.graph.SpecifyDependencies(deps)
	c.order = c.graph.CalculateOrderIndices()

	if c.logger.GetLevel() <= log.DebugLevel {
		names := make([]string, len(c.order))
		for i, h := range c.order {
			names[i] = c.blocks[h].Name
		}
		c.logger.Debug("evaluation order", "blocks", len(c.blocks), "wires", len(c.connections), "order", strings.Join(names, " -> "))
	}
	if !c.graph.IsIndexOrderValid(c.order) {
		c.logger.Warn("evaluation order violates a dependency; the graph may contain a cycle")
	}
}

// Order returns the blocks in evaluation order.
func (c *Context) Order() []*block.Block {
	out := make([]*block.Block, len(c.order))
	for i, h := range c.order {
		out[i] = c.blocks[h]
	}
	return out
}

// Blocks returns the blocks in insertion order.
func (c *Context) Blocks() []*block.Block { return slices.Clone(c.blocks) }

// Len returns the number of blocks.
func (c *Context) Len() int { return len(c.blocks) }

// Block returns the block with the given ID, or nil.
func (c *Context) Block(id block.ID) *block.Block {
	if i, ok := c.blockIndex[id]; ok {
		return c.blocks[i]
	}
	return nil
}

// Port returns the port with the given ID, or nil.
func (c *Context) Port(id block.ID) *block.Port { return c.ports[id] }

// Connections returns every wire, ordered by input port.
func (c *Context) Connections() []Wire {
	out := make([]Wire, 0, len(c.connections))
	for w := range c.connections {
		out = append(out, w)
	}
	slices.SortFunc(out, func(a, b Wire) int { return cmp.Compare(a.Input, b.Input) })
	return out
}

// Source returns the output port wired into an input port.
func (c *Context) Source(inputID block.ID) (block.ID, bool) {
	out, ok := c.inputOutput[inputID]
	return out, ok
}

// Graph returns the dependency graph of the last rebuild. Its handles are
// positions in [Context.Blocks].
func (c *Context) Graph() *dag.Graph[block.ID] { return c.graph }

// LastStats returns the statistics of the most recent [Context.Run].
func (c *Context) LastStats() PassStats { return c.last }
