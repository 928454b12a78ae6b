package pipeline

// Phase is the common surface of a pipeline stage: a stable name used for
// status tracking and error tagging. Stages keep typed execute methods
// (Plan, Search, Schedule, Prepare) instead of a shared any-typed one; the
// Coordinator composes them through runPhase, which owns the status
// transitions around each typed call.
type Phase interface {
	Name() string
}

var (
	_ Phase = (*Planner)(nil)
	_ Phase = (*BookingSearcher)(nil)
	_ Phase = (*DayScheduler)(nil)
	_ Phase = (*Presenter)(nil)
)
