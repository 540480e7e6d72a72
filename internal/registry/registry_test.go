package registry

import (
	"context"
	"testing"

	"github.com/specialistvlad/flowpc/internal/config"
	"github.com/specialistvlad/flowpc/internal/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel() *config.Model {
	m := config.NewModel()
	_ = m.AddFlow(&config.Flow{
		ID:                 "booking",
		PersistenceContext: true,
		EndStates:          []*config.EndState{{ID: "confirmed", Commit: true}},
	})
	_ = m.AddFlow(&config.Flow{
		ID:        "address",
		EndStates: []*config.EndState{{ID: "done"}},
	})
	m.Scenarios = []*config.Scenario{{
		Name: "ok",
		Root: &config.Invocation{
			Flow:       "booking",
			Outcome:    "confirmed",
			Statements: []string{"insert into T_BEAN (ID, NAME) values (1, 'x')"},
			Subflows:   []*config.Invocation{{Flow: "address", Outcome: "done"}},
		},
	}}
	return m
}

func TestRegistry_PopulateAndLookup(t *testing.T) {
	r := New()
	r.PopulateFromModel(testModel())

	def, err := r.Definition("booking")
	require.NoError(t, err)
	assert.True(t, def.IsPersistenceContext())
	assert.Equal(t, []string{"address", "booking"}, r.FlowIDs())

	_, err = r.Definition("nope")
	assert.Error(t, err)

	require.NoError(t, r.ValidateRegistry(context.Background()))
}

func TestRegistry_ValidateRegistry(t *testing.T) {
	r := New()
	r.PopulateFromModel(testModel())
	r.Register(flow.NewDefinition("empty"))
	r.Scenarios = append(r.Scenarios,
		&config.Scenario{Name: "ok", Root: &config.Invocation{Flow: "booking", Outcome: "confirmed"}},
		&config.Scenario{Name: "bad", Root: &config.Invocation{
			Flow:    "booking",
			Outcome: "missing",
			Subflows: []*config.Invocation{
				{Flow: "ghost", Outcome: "x"},
				{Flow: "address", Outcome: "done", Statements: []string{"delete from T_BEAN"}},
			},
		}},
	)

	err := r.ValidateRegistry(context.Background())
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "flow 'empty': no end states defined")
	assert.Contains(t, msg, "scenario 'ok': defined more than once")
	assert.Contains(t, msg, "flow 'booking' has no end state 'missing'")
	assert.Contains(t, msg, "unknown flow 'ghost'")
	assert.Contains(t, msg, "flow 'address' queues statements without a persistence context")
}
