package dag_test

import (
	"fmt"

	"github.com/matzehuels/plotline/pkg/dag"
)

func ExampleGraph_CalculateOrder() {
	// A depends on B, B depends on C
	g := dag.New[string]()
	a := g.AddNamed("A")
	b := g.AddNamed("B")
	c := g.AddNamed("C")
	g.SpecifyDependencies(dag.Deps{dag.On(a, b), dag.On(b, c)})

	for _, n := range g.CalculateOrder() {
		fmt.Println(n.Name)
	}
	// Output:
	// C
	// B
	// A
}

func ExampleGraph_IsOrderValid() {
	// A -> B -> C -> A
	g := dag.New[string]()
	c := g.AddNamed("C")
	b := g.AddNamed("B")
	a := g.AddNamed("A")
	g.SpecifyDependencies(dag.Deps{dag.On(a, b), dag.On(b, c), dag.On(c, a)})

	fmt.Println("valid:", g.IsOrderValid(g.CalculateOrder()))
	fmt.Println("validate:", g.Validate())
	// Output:
	// valid: false
	// validate: graph contains a cycle
}

func ExampleAddDependency() {
	g := dag.New[int]()
	g.AddValue(10)
	g.AddValue(20)
	dag.AddDependency(g, 10, 20)

	fmt.Println(g.CalculateOrderIndices())
	// Output:
	// [1 0]
}
