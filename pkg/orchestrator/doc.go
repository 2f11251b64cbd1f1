// Package orchestrator drives one survey form: it applies field edits to the
// state store, starts an additional-questions fetch whenever the topic changes,
// runs validation on submit, and decides when the summary is revealed.
//
// An Orchestrator starts in StateEditing and moves to StateSummaryShown on the
// first submit that validates. Edits are accepted in both states and never run
// validation themselves.
package orchestrator
