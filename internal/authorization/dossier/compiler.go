package dossier

import (
	"fmt"
	"time"

	"autoriza/internal/authorization/models"
	pstrings "autoriza/pkg/platform/strings"
)

// Compile assembles the dossier for the case's current state. Called on entry
// to any pending state and once more on the decided state so the reviewer's
// verdict is captured. Completeness is re-derived on every call, never
// cached: an earlier incomplete compile does not taint a later complete one.
func Compile(c models.AuthorizationCase, ev Evidence, now time.Time) Dossier {
	evidence := clinicalEvidence(c.Request, ev)

	documents := []string{
		fmt.Sprintf("ORIGINAL_REQUEST_%s", c.Request.RequestID),
		fmt.Sprintf("CLINICAL_EVIDENCE_%s", c.Request.RequestID),
		fmt.Sprintf("RISK_CLASSIFICATION_%s", c.Request.RequestID),
		fmt.Sprintf("DECISION_REPORT_%s", c.Request.RequestID),
	}
	documents = append(documents, pstrings.DedupeAndTrim(ev.Attachments)...)

	risk := ev.RiskLevel
	if risk == "" {
		risk = classifyRisk(c.Request)
	}

	d := Dossier{
		CaseID:     c.ID,
		CompiledAt: now,
		Documents:  documents,
		Evidence:   evidence,
		RiskLevel:  risk,
		Decision:   decisionRecord(c),
		Compliance: Compliance{
			RetentionYears:      RetentionYears,
			RegulatoryCompliant: true,
			SchemaVersion:       SchemaVersion,
			PreparedBy:          PreparedBy,
		},
	}
	d.Complete = isComplete(d, c)
	return d
}

// clinicalEvidence merges the request's own justification with the
// caller-supplied items. A blank justification contributes nothing, which is
// what makes instant denials for missing justification compile incomplete.
func clinicalEvidence(req models.AuthorizationRequest, ev Evidence) []EvidenceItem {
	var items []EvidenceItem
	if req.HasJustification() {
		items = append(items, EvidenceItem{
			Kind:        "CLINICAL_JUSTIFICATION",
			Description: req.ClinicalJustification,
			RecordedAt:  req.EvaluationDate,
		})
	}
	items = append(items, ev.Clinical...)
	return items
}

// classifyRisk derives a priority classification when the caller supplied
// none.
func classifyRisk(req models.AuthorizationRequest) string {
	switch {
	case req.Urgency == models.UrgencyEmergency:
		return "CRITICAL"
	case req.RequestType == models.RequestTypeSurgery || req.RequestType == models.RequestTypeHospitalization:
		return "HIGH"
	case req.Urgency == models.UrgencyHigh:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func decisionRecord(c models.AuthorizationCase) *DecisionRecord {
	rec := &DecisionRecord{
		State:        c.State,
		Outcome:      c.Outcome,
		AppliedRule:  c.AppliedRule,
		ApprovalType: c.ApprovalType,
		DenialReason: c.DenialReason,
	}
	if c.AuditDecision != nil {
		rec.ReviewerID = c.AuditDecision.ReviewerID
		decidedAt := c.AuditDecision.DecidedAt
		rec.DecidedAt = &decidedAt
	}
	return rec
}

// isComplete re-checks the completeness rule: original request, at least one
// clinical-evidence item, a risk classification, and a decision record once
// the case is decided.
func isComplete(d Dossier, c models.AuthorizationCase) bool {
	hasOriginalRequest := len(d.Documents) > 0 &&
		d.Documents[0] == fmt.Sprintf("ORIGINAL_REQUEST_%s", c.Request.RequestID)
	hasEvidence := len(d.Evidence) > 0
	hasRisk := d.RiskLevel != ""

	hasDecision := true
	if c.State.IsDecided() || c.State.IsTerminal() {
		hasDecision = d.Decision != nil && d.Decision.State != "" &&
			(d.Decision.Outcome != "" || d.Decision.ReviewerID != "")
	}

	return hasOriginalRequest && hasEvidence && hasRisk && hasDecision
}
