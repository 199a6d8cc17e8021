package playback

// State is a playback state
type State int

const (
	Idle State = iota
	PrelabelDone
	TrainingDone
	Replaying
	Wordstep
	GroupingComputed
	Animating
	Settled
)

var stateNames = [...]string{
	Idle:             "idle",
	PrelabelDone:     "prelabel_done",
	TrainingDone:     "training_done",
	Replaying:        "replaying",
	Wordstep:         "wordstep",
	GroupingComputed: "grouping_computed",
	Animating:        "animating",
	Settled:          "settled",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Pause tells the driver how long to suspend after a step
type Pause int

const (
	// PauseNone means no suspension is needed; the controller is settled
	PauseNone Pause = iota
	// PauseWord is the fixed delay after each wordstep
	PauseWord
	// PauseTick is the fixed delay after each animation tick
	PauseTick
)
