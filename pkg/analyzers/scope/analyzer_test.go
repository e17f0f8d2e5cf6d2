package scope_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/scope"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/traverse"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/syntax"
)

// nodeCounter counts the named nodes seen by a scope.
type nodeCounter struct {
	count int
}

func (c *nodeCounter) Analyze(n *syntax.Node, _ int, _ bool) func() {
	if n.Named {
		c.count++
	}

	return nil
}

func (c *nodeCounter) Score() int { return c.count }

func countFactory(_ scope.Kind, _ *syntax.Node) scope.Scorer[int] {
	return &nodeCounter{}
}

func analyze(t *testing.T, path, src string) *scope.Tree[int] {
	t.Helper()

	tree, err := syntax.NewParser().Parse(context.Background(), path, []byte(src))
	require.NoError(t, err)

	file := scope.NewFile(path, tree.Root, countFactory)

	tr := traverse.New()
	tr.Register(file)
	require.NoError(t, tr.Traverse(tree.Root))

	return file.Metrics()
}

type shape struct {
	name     string
	kind     scope.Kind
	children []shape
}

func shapeOf(tree *scope.Tree[int]) shape {
	s := shape{name: tree.Name, kind: tree.Scope}
	for _, child := range tree.Children {
		s.children = append(s.children, shapeOf(child))
	}

	return s
}

func TestRecognizeTopLevel_Shapes(t *testing.T) {
	t.Parallel()

	src := `
function decl() {}
const arrow = () => 1;
let obj = { a: 1 };
var legacy = function () {};
(function boot() {})();
(() => {})();
class Widget {}
`

	got := shapeOf(analyze(t, "a.ts", src))

	assert.Equal(t, shape{name: "a.ts", kind: scope.KindFile, children: []shape{
		{name: "decl", kind: scope.KindFunction},
		{name: "arrow", kind: scope.KindFunction},
		{name: "obj", kind: scope.KindObject},
		{name: "boot", kind: scope.KindFunction},
		{name: scope.NameIIFE, kind: scope.KindFunction},
		{name: "Widget", kind: scope.KindClass},
	}}, got)
}

func TestRecognizeTopLevel_ExportTransparent(t *testing.T) {
	t.Parallel()

	src := `
export function f() {}
export const g = () => {};
export class C {}
`

	got := shapeOf(analyze(t, "a.ts", src))

	require.Len(t, got.children, 3)
	assert.Equal(t, "f", got.children[0].name)
	assert.Equal(t, "g", got.children[1].name)
	assert.Equal(t, "C", got.children[2].name)
}

func TestRecognizeTopLevel_NestedInsideFunctionBody(t *testing.T) {
	t.Parallel()

	src := `
function outer() {
  function inner() {}
  const helper = () => {
    const deep = () => 1;
  };
  if (x) {
    function notDirect() {}
  }
}
`

	got := shapeOf(analyze(t, "a.ts", src))

	assert.Equal(t, []shape{{name: "outer", kind: scope.KindFunction, children: []shape{
		{name: "inner", kind: scope.KindFunction},
		{name: "helper", kind: scope.KindFunction, children: []shape{
			{name: "deep", kind: scope.KindFunction},
		}},
	}}}, got.children)
}

func TestRecognizeTopLevel_IgnoresNonStatementShapes(t *testing.T) {
	t.Parallel()

	src := `
foo(() => {});
const x = call(() => {});
for (const y of ys) { const z = () => {}; }
const o = { m: () => {} };
`

	got := shapeOf(analyze(t, "a.ts", src))

	require.Len(t, got.children, 1)
	assert.Equal(t, shape{name: "o", kind: scope.KindObject}, got.children[0])
}

func TestRecognizeMember_Names(t *testing.T) {
	t.Parallel()

	src := `
class Account {
  #balance = 0;
  constructor() {}
  get balance() { return this.#balance; }
  set balance(v) { this.#balance = v; }
  #audit() {}
  static create() { return new Account(); }
  deposit(n: number) {}
}
`

	got := shapeOf(analyze(t, "a.ts", src))

	require.Len(t, got.children, 1)

	class := got.children[0]
	assert.Equal(t, scope.KindClass, class.kind)

	names := make([]string, 0, len(class.children))
	for _, m := range class.children {
		assert.Equal(t, scope.KindMethod, m.kind)
		names = append(names, m.name)
	}

	assert.Equal(t, []string{"constructor", "get balance", "set balance", "#audit", "create", "deposit"}, names)
}

func TestRecognizeMember_NestedClassClaimsItsMembers(t *testing.T) {
	t.Parallel()

	src := `
class Outer {
  make() {
    class Inner {
      hidden() {}
    }
    return new Inner();
  }
}
`

	got := shapeOf(analyze(t, "a.ts", src))

	assert.Equal(t, []shape{{name: "Outer", kind: scope.KindClass, children: []shape{
		{name: "make", kind: scope.KindMethod, children: []shape{
			{name: "Inner", kind: scope.KindClass, children: []shape{
				{name: "hidden", kind: scope.KindMethod},
			}},
		}},
	}}}, got.children)
}

func TestRecognizeTopLevel_BoundClassExpression(t *testing.T) {
	t.Parallel()

	src := `
class A {
  m() {
    const B = class {
      x() {}
    };
    return new B();
  }
}
export const Named = class Impl {
  run() {}
};
`

	got := shapeOf(analyze(t, "a.ts", src))

	assert.Equal(t, []shape{
		{name: "A", kind: scope.KindClass, children: []shape{
			{name: "m", kind: scope.KindMethod, children: []shape{
				{name: "B", kind: scope.KindClass, children: []shape{
					{name: "x", kind: scope.KindMethod},
				}},
			}},
		}},
		{name: "Named", kind: scope.KindClass, children: []shape{
			{name: "run", kind: scope.KindMethod},
		}},
	}, got.children)
}

func TestAnalyzer_ParentsSeeNestedNodes(t *testing.T) {
	t.Parallel()

	tree := analyze(t, "a.ts", "function f() { g(); }")

	require.Len(t, tree.Children, 1)
	assert.Greater(t, tree.Score, tree.Children[0].Score)
	assert.Positive(t, tree.Children[0].Score)
}

func TestTree_WalkAndFind(t *testing.T) {
	t.Parallel()

	tree := analyze(t, "a.ts", "class A { m() {} }\nfunction b() {}")

	var visited []string

	tree.Walk(func(node *scope.Tree[int], depth int) {
		visited = append(visited, node.Name)

		if node.Name == "m" {
			assert.Equal(t, 2, depth)
		}
	})

	assert.Equal(t, []string{"a.ts", "A", "m", "b"}, visited)
	require.NotNil(t, tree.Find("A", "m"))
	assert.Nil(t, tree.Find("A", "missing"))
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	kind, err := scope.ParseKind("method")
	require.NoError(t, err)
	assert.Equal(t, scope.KindMethod, kind)
	assert.False(t, kind.IsAggregate())
	assert.True(t, scope.KindClass.IsAggregate())

	_, err = scope.ParseKind("module")
	require.Error(t, err)
}
