package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/flowpc/internal/config"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "flows.hcl", `
flow "booking" {
  persistence_context = true
  attributes = {
    owner   = "sales"
    audited = true
  }

  end_state "confirmed" {
    commit = true
  }
  end_state "cancelled" {}
}

flow "address" {
  end_state "done" {}
}
`)
	writeFile(t, dir, "scenarios.hcl", `
scenario "happy_path" {
  session "booking" {
    outcome    = "confirmed"
    statements = ["insert into T_BEAN (ID, NAME) values (1, 'Keith')"]

    subflow "address" {
      outcome = "done"
      pause   = true
    }
  }
}
`)
	writeFile(t, dir, "notes.txt", "not hcl")

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	want := &config.Model{
		Flows: map[string]*config.Flow{
			"booking": {
				ID:                 "booking",
				PersistenceContext: true,
				Attributes:         map[string]string{"owner": "sales", "audited": "true"},
				EndStates: []*config.EndState{
					{ID: "confirmed", Commit: true},
					{ID: "cancelled", Commit: false},
				},
			},
			"address": {
				ID:        "address",
				EndStates: []*config.EndState{{ID: "done"}},
			},
		},
		Scenarios: []*config.Scenario{
			{
				Name: "happy_path",
				Root: &config.Invocation{
					Flow:       "booking",
					Outcome:    "confirmed",
					Statements: []string{"insert into T_BEAN (ID, NAME) values (1, 'Keith')"},
					Subflows: []*config.Invocation{
						{Flow: "address", Outcome: "done", Pause: true},
					},
				},
			},
		},
	}

	if diff := cmp.Diff(want, model); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}

	def := model.Flows["booking"].Definition()
	require.True(t, def.IsPersistenceContext())
	es, ok := def.EndState("confirmed")
	require.True(t, ok)
	require.True(t, es.Commit())
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errLike string
	}{
		{
			name:    "syntax error",
			content: `flow "a" {`,
			errLike: "failed to parse",
		},
		{
			name:    "duplicate flow",
			content: `flow "a" {}` + "\n" + `flow "a" {}`,
			errLike: `flow "a" defined more than once`,
		},
		{
			name: "duplicate end state",
			content: `flow "a" {
  end_state "x" {}
  end_state "x" {}
}`,
			errLike: `end state "x" defined more than once`,
		},
		{
			name:    "attributes not a map",
			content: `flow "a" { attributes = ["x"] }`,
			errLike: "attributes must be a map of strings",
		},
		{
			name:    "scenario without session",
			content: `scenario "s" {}`,
			errLike: "missing session block",
		},
		{
			name: "missing outcome",
			content: `scenario "s" {
  session "a" {}
}`,
			errLike: "failed to decode",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "main.hcl", tc.content)
			_, err := NewLoader().Load(context.Background(), dir)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errLike)
		})
	}
}

func TestLoader_MissingPathIsEmpty(t *testing.T) {
	model, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	require.Empty(t, model.Flows)
	require.Empty(t, model.Scenarios)
}
