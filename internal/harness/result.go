package harness

// TraceEvent records one executed step.
type TraceEvent struct {
	Step    int    `json:"step"` // 1-based position in the scenario
	Op      string `json:"op"`
	Args    any    `json:"args,omitempty"`
	Outcome string `json:"outcome"` // "ok" or the error code
	Result  any    `json:"result,omitempty"`
}

// Outcome values that are not error codes.
const (
	OutcomeOK         = "ok"
	OutcomeUnresolved = "unresolved" // a player name could not be resolved
)

// registeredPlayer is the trace form of a registration. It leaves out the
// registration time so traces stay byte-stable.
type registeredPlayer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every step met its expectation and every assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains step and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step event.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}
