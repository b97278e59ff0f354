package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanglvm/calc-hub/internal/affinity"
	"github.com/khanglvm/calc-hub/internal/recommend"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, 16, c.Len())
	tool, ok := c.Get("/tip-calculator")
	require.True(t, ok)
	assert.Equal(t, "Tip Calculator", tool.Name)
	assert.Equal(t, CategoryEveryday, tool.Category)

	assert.Equal(t, []string{CategoryEveryday, CategoryFinance, CategoryHealth}, c.Categories())
}

func TestNew_IgnoresDuplicatesAndEmptyIDs(t *testing.T) {
	c := New([]Tool{
		{ID: "/a", Name: "first"},
		{ID: "/a", Name: "second"},
		{ID: "", Name: "blank"},
	})

	assert.Equal(t, 1, c.Len())
	tool, _ := c.Get("/a")
	assert.Equal(t, "first", tool.Name)
	assert.False(t, c.Has(""))
}

func TestAll_ReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].Name = "changed"

	tool, _ := c.Get(all[0].ID)
	assert.NotEqual(t, "changed", tool.Name)
}

func TestCheckGraph_DefaultsAreConsistent(t *testing.T) {
	problems := Default().CheckGraph(affinity.DefaultGraph(), recommend.DefaultRules())
	assert.Empty(t, problems)
}

func TestCheckGraph_ReportsDanglingReferences(t *testing.T) {
	c := New([]Tool{{ID: "/a"}, {ID: "/b"}})
	g := affinity.NewGraph(map[string][]affinity.RelatedTool{
		"/a": {{ToolID: "/b"}, {ToolID: "/ghost"}},
		"/x": {{ToolID: "/a"}},
	})
	rules := []recommend.Rule{{Source: "/a", Field: "f", Comparison: recommend.Above, Target: "/nowhere"}}

	problems := c.CheckGraph(g, rules)
	require.Len(t, problems, 3)
	assert.Contains(t, problems[0], "/ghost")
	assert.Contains(t, problems[1], "/x")
	assert.Contains(t, problems[2], "/nowhere")
}
