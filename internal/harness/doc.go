// Package harness provides conformance testing for the keyframe
// linking commands and the save-time sync hook.
//
// A scenario describes a document, a sequence of user steps, and
// assertions on the final state. The harness builds the document
// in-memory, drives the real command layer and save hook against it,
// and renders a deterministic text trace for golden comparison.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	document:
//	  scene: { frame: 10, editors: [dopesheet] }
//	  actions:
//	    - name: walk
//	      active: true
//	      linked_frames: [[[10, 0], [20, 1]]]
//	      curves:
//	        - name: arm.L/location.x
//	          keys: [{ frame: 10, value: 1.5 }]
//	steps:
//	  - select: [10, 20]
//	  - run: link
//	  - goto: 10
//	  - set_key: { action: walk, curve: arm.L/location.x, frame: 10, value: 2.0 }
//	  - save: true
//	assertions:
//	  - type: key
//	    action: walk
//	    curve: arm.R/location.x
//	    frame: 20
//	    value: -2.0
//
// # Step Kinds
//
// Each step carries exactly one directive:
//
//   - select: replace the key selection on the active action
//   - goto: move the scene playhead
//   - run: execute a command (link, flip, unlink, info)
//   - set_key: write a curve key, the way a user edit would
//   - save: save the document, running the pre-save sync hook
//
// # Assertion Types
//
//   - linked: the persisted linked-frame sets on an action
//   - key: a curve key's value on an action
//   - pose: one pose channel's value at a frame
//   - playhead: the scene playhead position
//   - selected: the selected key frames on an action
//   - clean: the document has no unsaved changes
//   - dirty: the document has unsaved changes
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory document with fixed
// sync run tokens, so the rendered trace is identical across runs and
// can be compared against a golden file:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/link_basic.yaml")
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
