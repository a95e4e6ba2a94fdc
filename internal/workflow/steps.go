// Package workflow drives a feature directory through the development
// pipeline: specify → clarify → plan → tasks → implement → review.
//
// The engine here is the only writer of workflow state during a run. It
// decides whether the implement step should keep looping by reparsing
// the task checklist, and persists progress through the state store
// after every step.
package workflow

import "github.com/nmorales-dev/flowspec/internal/state"

// PipelineOrder is the linear step sequence. state.StepComplete is the
// terminal value reached after review; it is not itself a runnable step.
var PipelineOrder = []state.Step{
	state.StepSpecify,
	state.StepClarify,
	state.StepPlan,
	state.StepTasks,
	state.StepImplement,
	state.StepReview,
}

// Index returns the ordinal position of a step in the pipeline, or -1
// for complete and unknown steps.
func Index(s state.Step) int {
	for i, step := range PipelineOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// Next returns the step that follows s. After review the pipeline is
// done and Next returns (complete, true); for complete and unknown
// steps it returns ("", false).
func Next(s state.Step) (state.Step, bool) {
	idx := Index(s)
	if idx < 0 {
		return "", false
	}
	if idx == len(PipelineOrder)-1 {
		return state.StepComplete, true
	}
	return PipelineOrder[idx+1], true
}
