package models

// State is the authorization case's lifecycle state.
type State string

const (
	StateReceived               State = "RECEIVED"
	StatePendingCPTValidation   State = "PENDING_CPT_VALIDATION"
	StatePendingNetworkApproval State = "PENDING_NETWORK_APPROVAL"
	StatePendingAudit           State = "PENDING_AUDIT"
	StateApproved               State = "APPROVED"
	StateDenied                 State = "DENIED"
	StateClosed                 State = "CLOSED"
)

var validStates = map[State]bool{
	StateReceived:               true,
	StatePendingCPTValidation:   true,
	StatePendingNetworkApproval: true,
	StatePendingAudit:           true,
	StateApproved:               true,
	StateDenied:                 true,
	StateClosed:                 true,
}

var pendingStates = map[State]bool{
	StatePendingCPTValidation:   true,
	StatePendingNetworkApproval: true,
	StatePendingAudit:           true,
}

// IsValid returns true if the state is a defined lifecycle state.
func (s State) IsValid() bool { return validStates[s] }

// IsPending returns true while the case awaits an external reviewer decision.
func (s State) IsPending() bool { return pendingStates[s] }

// IsTerminal returns true when no further transitions are allowed.
func (s State) IsTerminal() bool { return s == StateClosed }

// IsDecided returns true once the case reached APPROVED or DENIED.
func (s State) IsDecided() bool { return s == StateApproved || s == StateDenied }

func (s State) String() string { return string(s) }

// PendingStateFor maps a reviewer-routing outcome to the pending state that
// accepts its reviewer decision.
func PendingStateFor(outcome RoutingOutcome) (State, bool) {
	switch outcome {
	case OutcomePendingCPTValidation:
		return StatePendingCPTValidation, true
	case OutcomePendingNetworkApproval:
		return StatePendingNetworkApproval, true
	case OutcomePendingAudit:
		return StatePendingAudit, true
	default:
		return "", false
	}
}
