package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlow_Definition(t *testing.T) {
	f := &Flow{
		ID:                 "booking",
		PersistenceContext: true,
		Attributes:         map[string]string{"owner": "sales"},
		EndStates:          []*EndState{{ID: "ok", Commit: true}, {ID: "cancel"}},
	}
	def := f.Definition()
	assert.Equal(t, "booking", def.ID)
	assert.True(t, def.IsPersistenceContext())
	assert.Equal(t, "sales", def.Attributes["owner"])

	es, ok := def.EndState("ok")
	require.True(t, ok)
	assert.True(t, es.Commit())
	es, ok = def.EndState("cancel")
	require.True(t, ok)
	assert.False(t, es.Commit())

	// The source attributes are not aliased.
	def.Attributes["owner"] = "changed"
	assert.Equal(t, "sales", f.Attributes["owner"])
}

func TestModel_Merge(t *testing.T) {
	a := NewModel()
	require.NoError(t, a.AddFlow(&Flow{ID: "a"}))
	a.Scenarios = []*Scenario{{Name: "s1"}}

	b := NewModel()
	require.NoError(t, b.AddFlow(&Flow{ID: "b"}))
	b.Scenarios = []*Scenario{{Name: "s2"}}

	require.NoError(t, a.Merge(b))
	require.NoError(t, a.Merge(nil))
	assert.Len(t, a.Flows, 2)
	assert.Len(t, a.Scenarios, 2)

	assert.Error(t, a.Merge(b), "merging the same flows twice must fail")
}

func TestInvocation_Walk(t *testing.T) {
	root := &Invocation{Flow: "a", Subflows: []*Invocation{
		{Flow: "b", Subflows: []*Invocation{{Flow: "c"}}},
		{Flow: "d"},
	}}
	var visited []string
	require.NoError(t, root.Walk(func(inv *Invocation) error {
		visited = append(visited, inv.Flow)
		return nil
	}))
	assert.Equal(t, []string{"a", "b", "c", "d"}, visited)
}
