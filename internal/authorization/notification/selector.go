// Package notification decides what channels a case outcome is communicated
// over. It only produces directives; delivery belongs to the transport
// collaborator.
package notification

import (
	"context"

	"autoriza/internal/authorization/models"
	id "autoriza/pkg/domain"
)

// Channel is a delivery channel a directive goes out on.
type Channel string

const (
	ChannelApp      Channel = "APP"
	ChannelPush     Channel = "PUSH"
	ChannelSMS      Channel = "SMS"
	ChannelEmail    Channel = "EMAIL"
	ChannelWhatsApp Channel = "WHATSAPP"

	// ChannelPortal is the provider portal inbox. Providers are not in the
	// preference directory, so the portal is always their channel.
	ChannelPortal Channel = "PORTAL"
)

var validChannels = map[Channel]bool{
	ChannelApp:      true,
	ChannelPush:     true,
	ChannelSMS:      true,
	ChannelEmail:    true,
	ChannelWhatsApp: true,
	ChannelPortal:   true,
}

// IsValid reports whether c is a known channel.
func (c Channel) IsValid() bool { return validChannels[c] }

// Severity grades how loudly an outcome must be communicated.
type Severity string

const (
	SeverityRoutine   Severity = "ROUTINE"
	SeverityHigh      Severity = "HIGH"
	SeverityEmergency Severity = "EMERGENCY"
)

// SeverityFor maps the request's urgency onto a notification severity.
func SeverityFor(u models.Urgency) Severity {
	switch u {
	case models.UrgencyEmergency:
		return SeverityEmergency
	case models.UrgencyHigh:
		return SeverityHigh
	default:
		return SeverityRoutine
	}
}

// Priority orders delivery on the transport side.
type Priority string

const (
	PriorityNormal Priority = "NORMAL"
	PriorityUrgent Priority = "URGENT"
)

// RecipientKind distinguishes who a directive addresses.
type RecipientKind string

const (
	RecipientBeneficiary RecipientKind = "BENEFICIARY"
	RecipientProvider    RecipientKind = "PROVIDER"
)

// Directive names one delivery the orchestrator should perform.
type Directive struct {
	Recipient string        `json:"recipient"`
	Kind      RecipientKind `json:"recipient_kind"`
	Channel   Channel       `json:"channel"`
	Priority  Priority      `json:"priority"`
}

// PreferenceLookup resolves the beneficiary's preferred channel. Lookups are
// best-effort: any error or unknown channel falls back to the default.
type PreferenceLookup interface {
	Preferred(ctx context.Context, beneficiaryID id.BeneficiaryID) (Channel, error)
}

// PreferenceLookupFunc adapts a function to the PreferenceLookup interface.
type PreferenceLookupFunc func(ctx context.Context, beneficiaryID id.BeneficiaryID) (Channel, error)

func (f PreferenceLookupFunc) Preferred(ctx context.Context, beneficiaryID id.BeneficiaryID) (Channel, error) {
	return f(ctx, beneficiaryID)
}

// guaranteedFallback pairs each preferred channel with a second channel that
// does not share the preferred channel's failure mode. App and push both die
// with the device, so they fall back to SMS.
var guaranteedFallback = map[Channel]Channel{
	ChannelApp:      ChannelSMS,
	ChannelPush:     ChannelSMS,
	ChannelSMS:      ChannelPush,
	ChannelEmail:    ChannelSMS,
	ChannelWhatsApp: ChannelSMS,
	ChannelPortal:   ChannelEmail,
}

// Selector chooses delivery channels for a case outcome.
type Selector struct {
	preferences PreferenceLookup
}

// NewSelector builds a Selector. A nil lookup means every beneficiary gets
// the default channel.
func NewSelector(preferences PreferenceLookup) *Selector {
	return &Selector{preferences: preferences}
}

// Select returns the ordered delivery directives for the case. The
// beneficiary gets the preferred channel; denials and emergency-severity
// outcomes add a distinct guaranteed fallback. Once the case is decided the
// requesting provider gets a portal directive carrying the same priority.
func (s *Selector) Select(ctx context.Context, c models.AuthorizationCase, severity Severity) []Directive {
	preferred := s.preferred(ctx, c.Request.BeneficiaryID)

	escalate := severity == SeverityEmergency || c.State == models.StateDenied
	priority := PriorityNormal
	if escalate {
		priority = PriorityUrgent
	}

	directives := []Directive{{
		Recipient: c.Request.BeneficiaryID.String(),
		Kind:      RecipientBeneficiary,
		Channel:   preferred,
		Priority:  priority,
	}}
	if escalate {
		directives = append(directives, Directive{
			Recipient: c.Request.BeneficiaryID.String(),
			Kind:      RecipientBeneficiary,
			Channel:   guaranteedFallback[preferred],
			Priority:  priority,
		})
	}
	if c.State.IsDecided() {
		directives = append(directives, Directive{
			Recipient: c.Request.ProviderID.String(),
			Kind:      RecipientProvider,
			Channel:   ChannelPortal,
			Priority:  priority,
		})
	}
	return directives
}

func (s *Selector) preferred(ctx context.Context, beneficiaryID id.BeneficiaryID) Channel {
	if s.preferences == nil {
		return ChannelApp
	}
	ch, err := s.preferences.Preferred(ctx, beneficiaryID)
	if err != nil || !ch.IsValid() {
		return ChannelApp
	}
	return ch
}
