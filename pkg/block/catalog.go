package block

import "strings"

// Entry pairs a kind constructor with its display name.
type Entry struct {
	Name string
	New  func() Kind
}

// Catalog is an ordered registry of the kinds a user may add to a graph.
type Catalog struct {
	entries []Entry
}

// NewCatalog returns a catalog holding kinds in the given order.
func NewCatalog(kinds ...Kind) *Catalog {
	c := &Catalog{}
	for _, k := range kinds {
		c.Register(k)
	}
	return c
}

// Register appends k. A kind registered under an existing name replaces it
// in place.
func (c *Catalog) Register(k Kind) {
	e := Entry{Name: k.Name(), New: func() Kind { return k }}
	for i := range c.entries {
		if c.entries[i].Name == e.Name {
			c.entries[i] = e
			return
		}
	}
	c.entries = append(c.entries, e)
}

// DefaultCatalog returns every built-in kind in menu order.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Clock{},
		Grid{},
		Circle{},
		HslColor{},
		RandomOffset{},
		Square{},
		SquareGrid{},
		Line{},
		RandomPoint{},
		PtExtract{},
		Iterate{},
		FlattenPoints{},
		PointConnection{},
		PtCombine{},
	)
}

// Entries returns a copy of the registered entries.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Names returns the registered names in order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Lookup finds a kind by name, ignoring case.
func (c *Catalog) Lookup(name string) (Kind, bool) {
	for _, e := range c.entries {
		if strings.EqualFold(e.Name, name) {
			return e.New(), true
		}
	}
	return nil, false
}
