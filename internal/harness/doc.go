// Package harness runs YAML calculation scenarios against the formula engine.
//
// A scenario fixes the seven inputs and states what the calculation must
// produce: whether the input gate passes, whether the outputs are sane and,
// optionally, expected output values within a relative tolerance.
//
// # Scenario Format
//
//	name: example_defaults
//	description: "Example values produce the reference outputs"
//	inputs:
//	  Drive Wheel Diameter: 66
//	  S: 26            # letters are accepted as keys
//	  Bore: 20.5
//	  Lead: 0.858
//	  Lap: 3.39
//	  Valve Travel: 5.5
//	  Port Width: 18
//	expect:
//	  valid: true
//	  sane: true
//	  tolerance: 0.005 # relative; default 0.005
//	  outputs:
//	    Wheel Speed: 348339.79
//	    TM: 1.252
//
// Inputs left out of the map stay at zero and so fail the input gate. When
// the gate is expected to fail, expect.invalid_input names the first input
// that must be reported.
//
// # Expectations
//
//   - valid: the input gate result (default true)
//   - sane: the output check result (only checked when set)
//   - invalid_input: name or letter of the first rejected input
//   - outputs: expected values, compared with a relative tolerance
//
// # Determinism
//
// Every scenario runs in a fresh session with no files and no database, so
// identical scenarios produce identical results and golden snapshots.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/example_defaults.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
