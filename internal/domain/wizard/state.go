package wizard

import "fmt"

var transitions = map[Step]map[Event]Step{
	StepCollectingCosts: {
		EventSubmitCosts: StepCollectingPlayers,
	},
	StepCollectingPlayers: {
		EventSubmitPlayers: StepComputing,
		EventBack:          StepCollectingCosts,
	},
	StepComputing: {
		EventAdviceSettled: StepShowingResults,
	},
	StepShowingResults: {
		EventBack: StepCollectingPlayers,
	},
}

// Transition returns the step that follows from applying ev in step.
// start_over is accepted from every step.
func Transition(step Step, ev Event) (Step, error) {
	if !step.Valid() {
		return "", fmt.Errorf("%w: unknown step %q", ErrInvalidTransition, step)
	}
	if ev == EventStartOver {
		return StepCollectingCosts, nil
	}
	if next, ok := transitions[step][ev]; ok {
		return next, nil
	}
	return "", fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, step)
}
