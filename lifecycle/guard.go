// Package lifecycle guards the order in which the phases of a component are
// run.
//
// A Guard holds an ordered list of phases and a pointer to the current one.
// The pointer only moves forward, one phase at a time, and only after the
// current phase is completed. The current phase can be run again if the
// caller asks for a restart explicitly.
//
// The guard never calls into the component it protects; callers consult it
// before delegating.
package lifecycle

// Status is the state of a single phase.
type Status int

// The statuses a phase goes through.
const (
	Idling Status = iota
	Started
	Completed
)

func (s Status) String() string {
	switch s {
	case Idling:
		return "idling"
	case Started:
		return "started"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// The phases a component is driven through.
const (
	PhaseCreate     = "create"
	PhaseInitialize = "initialize"
	PhaseUpdate     = "update"
	PhaseFinalize   = "finalize"
)

// DefaultPhases lists the component phases in order.
func DefaultPhases() []string {
	return []string{PhaseCreate, PhaseInitialize, PhaseUpdate, PhaseFinalize}
}

// A Guard enforces the legal phase transitions of one component.
type Guard struct {
	phases  []string
	index   map[string]int
	status  []Status
	current int
}

// New creates a guard over the given phases. The default component phases
// are used if none are given. Phase names must be unique.
func New(phases ...string) *Guard {
	if len(phases) == 0 {
		phases = DefaultPhases()
	}

	g := &Guard{
		phases: append([]string(nil), phases...),
		index:  make(map[string]int, len(phases)),
		status: make([]Status, len(phases)),
	}

	for i, p := range g.phases {
		if _, dup := g.index[p]; dup {
			panic("lifecycle: duplicated phase " + p)
		}

		g.index[p] = i
	}

	return g
}

// Phases returns the ordered phase names.
func (g *Guard) Phases() []string {
	return append([]string(nil), g.phases...)
}

// Current returns the name of the current phase.
func (g *Guard) Current() string {
	return g.phases[g.current]
}

// Status returns the status of the current phase.
func (g *Guard) Status() Status {
	return g.status[g.current]
}

// StatusOf returns the status of the named phase. Unknown phases are
// reported as idling.
func (g *Guard) StatusOf(phase string) Status {
	i, ok := g.index[phase]
	if !ok {
		return Idling
	}

	return g.status[i]
}

// Reached tells if the guard has started the named phase or any phase after
// it.
func (g *Guard) Reached(phase string) bool {
	i, ok := g.index[phase]
	if !ok {
		return false
	}

	if i < g.current {
		return true
	}

	return i == g.current && g.status[i] != Idling
}

// Start marks a phase as started. The phase must be the current phase, or the
// phase right after a completed current phase. A completed current phase can
// only be started again if allowRestart is set. Starting a phase that is
// already running is a no-op.
func (g *Guard) Start(phase string, allowRestart bool) error {
	i, err := g.checkTransition("start", phase)
	if err != nil {
		return err
	}

	if i == g.current {
		if g.status[i] == Completed && !allowRestart {
			return g.fail("start", phase, ErrAlreadyCompleted)
		}
	}

	g.current = i
	g.status[i] = Started

	return nil
}

// Skip marks the phase right after a completed current phase as completed
// without running it.
func (g *Guard) Skip(phase string) error {
	i, err := g.checkTransition("skip", phase)
	if err != nil {
		return err
	}

	if i == g.current {
		return g.fail("skip", phase, ErrOutOfOrder)
	}

	g.current = i
	g.status[i] = Completed

	return nil
}

func (g *Guard) checkTransition(op, phase string) (int, error) {
	i, ok := g.index[phase]
	if !ok {
		return 0, g.fail(op, phase, ErrOutOfOrder)
	}

	switch {
	case i == g.current:
		return i, nil
	case i == g.current+1 && g.status[g.current] == Completed:
		return i, nil
	default:
		return 0, g.fail(op, phase, ErrOutOfOrder)
	}
}

// Complete marks the current phase as completed. Completing a completed phase
// is a no-op.
func (g *Guard) Complete() error {
	switch g.status[g.current] {
	case Started:
		g.status[g.current] = Completed
		return nil
	case Completed:
		return nil
	default:
		return g.fail("complete", g.Current(), ErrNotStarted)
	}
}

// Idle verifies that the current phase has not been started.
func (g *Guard) Idle() error {
	switch g.status[g.current] {
	case Started:
		return g.fail("idle", g.Current(), ErrAlreadyStarted)
	case Completed:
		return g.fail("idle", g.Current(), ErrAlreadyCompleted)
	default:
		return nil
	}
}

func (g *Guard) fail(op, phase string, err error) error {
	return &PhaseError{
		Op:      op,
		Phase:   phase,
		Current: g.Current(),
		Status:  g.Status(),
		Err:     err,
	}
}
