package cognitive_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/cognitive"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/scope"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/traverse"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/syntax"
)

func run(t *testing.T, src string) *scope.Tree[int] {
	t.Helper()

	tree, err := syntax.NewParser().Parse(context.Background(), "a.tsx", []byte(src))
	require.NoError(t, err)

	analyzer := cognitive.New("a.tsx", tree.Root)

	tr := traverse.New()
	tr.Register(analyzer)
	require.NoError(t, tr.Traverse(tree.Root))

	return analyzer.Metrics()
}

func TestCognitive_SiblingFunctions(t *testing.T) {
	t.Parallel()

	tree := run(t, "function x() { if(z) {} } function y() { if(z) {} if(z) {} }")

	assert.Equal(t, 3, tree.Score)
	require.Len(t, tree.Children, 2)
	assert.Equal(t, 1, tree.Children[0].Score)
	assert.Equal(t, 2, tree.Children[1].Score)
}

func TestCognitive_ElseIfChainIsFlat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, run(t, "if(x){1;}else if(y){2;}else{3;}").Score)

	// Nesting raises the leading if but not the continuations.
	nested := run(t, "function f() { for (;;) { if(x){1;}else if(y){2;}else{3;} } }")
	require.Len(t, nested.Children, 1)
	assert.Equal(t, 1+2+1+1, nested.Children[0].Score)
}

func TestCognitive_LogicalRuns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want int
	}{
		{name: "single operator", src: "a && b;", want: 1},
		{name: "same operator run", src: "a && b && c && d;", want: 1},
		{name: "one transition", src: "a && b && c || d;", want: 2},
		{name: "alternating", src: "a && b || c && d;", want: 3},
		{name: "parenthesized group", src: "a && (b || c);", want: 2},
		{name: "nullish is not logical", src: "a ?? b;", want: 0},
		{name: "inside condition", src: "if (a && b) {}", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, run(t, tt.src).Score)
		})
	}
}

func TestCognitive_NestingWeights(t *testing.T) {
	t.Parallel()

	src := `
function f() {
  if (a) {            // +1
    for (;;) {        // +2
      while (b) {}    // +3
    }
  }
  try {} catch (e) {  // +1
    c ? 1 : 2;        // +2
  }
  switch (d) {}       // +1
}`

	tree := run(t, src)

	require.Len(t, tree.Children, 1)
	assert.Equal(t, 10, tree.Children[0].Score)
	assert.Equal(t, 10, tree.Score)
}

func TestCognitive_NestedFunctionsAddNesting(t *testing.T) {
	t.Parallel()

	src := `
function f() {
  items.forEach(() => {
    if (a) {}
  });
  const g = function () { if (b) {} };
}`

	tree := run(t, src)

	require.Len(t, tree.Children, 1)
	assert.Equal(t, 4, tree.Children[0].Score)
}

func TestCognitive_SpawnedScopesStartFresh(t *testing.T) {
	t.Parallel()

	src := `
function outer() {
  function inner() {
    if (a) {}
  }
}`

	tree := run(t, src)

	require.Len(t, tree.Children, 1)

	outer := tree.Children[0]
	require.Len(t, outer.Children, 1)
	assert.Equal(t, 1, outer.Children[0].Score)
	assert.Equal(t, 1, outer.Score)

	// inner is not a top-level shape for the file, so the file nests it.
	assert.Equal(t, 2, tree.Score)
}

func TestCognitive_ObjectPropertyFunctionsDoNotNest(t *testing.T) {
	t.Parallel()

	src := `
const handlers = {
  click: () => { if (a) {} },
  key: function () { if (b) {} },
};`

	tree := run(t, src)

	require.Len(t, tree.Children, 1)
	assert.Equal(t, "handlers", tree.Children[0].Name)
	assert.Equal(t, 2, tree.Children[0].Score)
	assert.Equal(t, 2, tree.Score)
}

func TestCognitive_ClassMembers(t *testing.T) {
	t.Parallel()

	src := `
class C {
  m() { if (a) { if (b) {} } }
}`

	tree := run(t, src)

	require.Len(t, tree.Children, 1)

	class := tree.Children[0]
	assert.Equal(t, 3, class.Score)
	require.Len(t, class.Children, 1)
	assert.Equal(t, 3, class.Children[0].Score)
}

func TestCognitive_LabeledJumps(t *testing.T) {
	t.Parallel()

	src := `
outer: for (;;) {  // +1
  for (;;) {       // +2
    break outer;   // +1
    continue;      // 0
  }
}`

	assert.Equal(t, 4, run(t, src).Score)
}

func TestCognitive_ConditionalType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, run(t, "type T<X> = X extends string ? 1 : 2;").Score)
}

func TestCognitive_JSXExpressions(t *testing.T) {
	t.Parallel()

	src := `const View = () => <div>{ok ? <b>yes</b> : null}</div>;`

	tree := run(t, src)

	require.Len(t, tree.Children, 1)
	assert.Equal(t, 1, tree.Children[0].Score)
}
