// Package hcl provides the concrete HCL implementation of config.Loader.
// It is responsible for file discovery, parsing, and HCL-to-model
// translation.
//
// A configuration file looks like:
//
//	flow "booking" {
//	  persistence_context = true
//	  attributes = { owner = "sales" }
//
//	  end_state "confirmed" { commit = true }
//	  end_state "cancelled" {}
//	}
//
//	scenario "happy_path" {
//	  session "booking" {
//	    outcome    = "confirmed"
//	    statements = ["insert into T_BEAN (ID, NAME) values (1, 'Keith')"]
//
//	    subflow "address" { outcome = "done" }
//	  }
//	}
package hcl
