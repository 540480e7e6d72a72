package integration_tests

import (
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/specialistvlad/flowpc/internal/testutil"
	"github.com/stretchr/testify/require"
)

const sharedFlows = `
flow "booking" {
  persistence_context = true
  end_state "confirmed" { commit = true }
  end_state "cancelled" {}
}

flow "address" {
  persistence_context = true
  end_state "done" {}
}

flow "lookup" {
  end_state "done" {}
}
`

// A child that opts in works inside its parent's unit of work: one context is
// created, reused once, and committed once by the parent.
func TestCoreExecution_ResourceInstanceSharing(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"flows.hcl": sharedFlows,
		"scenario.hcl": `
scenario "nested" {
  session "booking" {
    outcome    = "confirmed"
    statements = ["insert into T_BEAN (ID, NAME) values ({request}, 'Keith Donald')"]

    subflow "address" {
      outcome    = "done"
      statements = ["insert into T_ADDRESS (ID, BEAN_ID, VALUE) values ({request}, {request}, 'Sydney')"]
    }
  }
}
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, testutil.Options{})

	// --- Assert ---
	require.NoError(t, result.Err)
	m := result.App.Metrics()
	require.Equal(t, 1.0, promtest.ToFloat64(m.Created))
	require.Equal(t, 1.0, promtest.ToFloat64(m.Reused))
	require.Equal(t, 1.0, promtest.ToFloat64(m.Committed))
	require.Equal(t, 1.0, promtest.ToFloat64(m.Closed))

	// Work queued by the child is flushed by the parent's commit.
	testutil.AssertRowCount(t, result, "T_BEAN", 2)
	testutil.AssertRowCount(t, result, "T_ADDRESS", 2)
	testutil.AssertLogged(t, result, "Reusing parent persistence context.")
	testutil.AssertLogged(t, result, "Persistence context belongs to parent, nothing to release.")
}

// A child that does not opt in runs with the slot empty and hands the
// parent's context back when it ends.
func TestCoreExecution_TransparentSubflowRebindsParent(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"flows.hcl": sharedFlows,
		"scenario.hcl": `
scenario "transparent" {
  session "booking" {
    outcome    = "confirmed"
    statements = ["insert into T_BEAN (ID, NAME) values ({request}, 'Keith Donald')"]

    subflow "lookup" {
      outcome = "done"
    }
  }
}
`,
	}

	result := testutil.RunIntegrationTest(t, files, testutil.Options{})

	require.NoError(t, result.Err)
	testutil.AssertLogged(t, result, "Unbound parent persistence context for subflow without one.")
	testutil.AssertLogged(t, result, "Rebound parent persistence context.")
	testutil.AssertRowCount(t, result, "T_BEAN", 2)
	require.Equal(t, 0.0, promtest.ToFloat64(result.App.Metrics().Reused))
}

// A subflow under a transparent session owns a fresh context of its own.
func TestCoreExecution_ContextCreatedBelowTransparentSubflow(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"flows.hcl": sharedFlows + `
flow "audit" {
  persistence_context = true
  end_state "logged" { commit = true }
}
`,
		"scenario.hcl": `
scenario "chain" {
  session "booking" {
    outcome = "cancelled"
    statements = ["insert into T_BEAN (ID, NAME) values ({request}, 'discarded')"]

    subflow "lookup" {
      outcome = "done"

      subflow "audit" {
        outcome    = "logged"
        statements = ["insert into T_BEAN (ID, NAME) values (100, 'audit')"]
      }
    }
  }
}
`,
	}

	result := testutil.RunIntegrationTest(t, files, testutil.Options{})

	require.NoError(t, result.Err)
	m := result.App.Metrics()
	require.Equal(t, 2.0, promtest.ToFloat64(m.Created))
	require.Equal(t, 1.0, promtest.ToFloat64(m.Committed))
	require.Equal(t, 2.0, promtest.ToFloat64(m.Closed))
	// Only the audit row survives; the cancelled booking discards its work.
	testutil.AssertRowCount(t, result, "T_BEAN", 2)
}
