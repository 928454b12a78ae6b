package pipeline

import (
	"math"
	"sync"
)

// Phase names, in execution order.
const (
	PhasePlanner      = "planner"
	PhaseBooking      = "booking"
	PhaseScheduler    = "scheduler"
	PhasePresentation = "presentation"
)

// phaseOrder fixes the dependency order of the pipeline.
var phaseOrder = []string{PhasePlanner, PhaseBooking, PhaseScheduler, PhasePresentation}

// PhaseState is the lifecycle state of one phase.
// idle → running → {completed | failed}. A phase that never starts stays
// idle; it is never misreported as failed.
type PhaseState string

const (
	PhaseIdle      PhaseState = "idle"
	PhaseRunning   PhaseState = "running"
	PhaseCompleted PhaseState = "completed"
	PhaseFailed    PhaseState = "failed"
)

// RunState is the lifecycle state of a whole pipeline run.
type RunState string

const (
	RunNotStarted RunState = "not_started"
	RunInProgress RunState = "in_progress"
	RunSucceeded  RunState = "succeeded"
	RunFailed     RunState = "failed"
)

// PhaseStatus is a point-in-time snapshot of one phase.
type PhaseStatus struct {
	Name    string     `json:"name"`
	State   PhaseState `json:"state"`
	Percent int        `json:"percent"`
	Error   string     `json:"error,omitempty"`
}

// Progress is a snapshot of a whole run: the run state, the completed-phase
// percentage, and one PhaseStatus per phase in execution order.
type Progress struct {
	Run     RunState      `json:"run"`
	Overall int           `json:"overall_percent"`
	Phases  []PhaseStatus `json:"phases"`
}

// statusRegistry is the only mutable state shared between a running pipeline
// and its status queries. Writes happen from the single Run goroutine;
// snapshot reads may happen concurrently from any goroutine, so all access
// goes through an RWMutex and snapshots copy everything out.
type statusRegistry struct {
	mu      sync.RWMutex
	run     RunState
	entries map[string]*phaseEntry
}

// phaseEntry holds the mutable per-phase record: state, last progress
// percentage, error message once failed, and the output payload once
// completed.
type phaseEntry struct {
	state   PhaseState
	percent int
	errMsg  string
	output  any
}

func newStatusRegistry() *statusRegistry {
	entries := make(map[string]*phaseEntry, len(phaseOrder))
	for _, name := range phaseOrder {
		entries[name] = &phaseEntry{state: PhaseIdle}
	}
	return &statusRegistry{run: RunNotStarted, entries: entries}
}

func (r *statusRegistry) setRun(state RunState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.run = state
}

func (r *statusRegistry) setRunning(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entries[name]
	e.state = PhaseRunning
	e.percent = 0
}

func (r *statusRegistry) setCompleted(name string, output any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entries[name]
	e.state = PhaseCompleted
	e.percent = 100
	e.output = output
}

func (r *statusRegistry) setFailed(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entries[name]
	e.state = PhaseFailed
	e.errMsg = err.Error()
}

// snapshot returns a copy of the registry state. The returned Progress shares
// nothing with the registry, so callers can hold it indefinitely.
func (r *statusRegistry) snapshot() Progress {
	r.mu.RLock()
	defer r.mu.RUnlock()

	phases := make([]PhaseStatus, 0, len(phaseOrder))
	completed := 0
	for _, name := range phaseOrder {
		e := r.entries[name]
		phases = append(phases, PhaseStatus{
			Name:    name,
			State:   e.state,
			Percent: e.percent,
			Error:   e.errMsg,
		})
		if e.state == PhaseCompleted {
			completed++
		}
	}

	overall := int(math.Round(float64(completed) / float64(len(phaseOrder)) * 100))
	return Progress{Run: r.run, Overall: overall, Phases: phases}
}
