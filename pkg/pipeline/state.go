package pipeline

// State is the stage a generator run has reached. A failure leaves the run in
// the last state it completed.
type State uint8

const (
	StateIdle State = iota
	StateStubsGenerated
	StateDriverWritten
	StateCompiled
	StateExecuted
	StateCsvArtifactsReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStubsGenerated:
		return "stubs generated"
	case StateDriverWritten:
		return "driver written"
	case StateCompiled:
		return "compiled"
	case StateExecuted:
		return "executed"
	case StateCsvArtifactsReady:
		return "csv artifacts ready"
	default:
		return "unknown"
	}
}
