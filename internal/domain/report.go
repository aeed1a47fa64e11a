package domain

import "time"

type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "draft"
	ReportStatusReviewed  ReportStatus = "reviewed"
	ReportStatusSubmitted ReportStatus = "submitted"
)

// Report is an incident report drafted by an officer.
type Report struct {
	ID           string       `json:"id" gorm:"primaryKey"`
	OfficerID    string       `json:"officerId" gorm:"index"`
	IncidentType string       `json:"incidentType"`
	Location     string       `json:"location"`
	Narrative    string       `json:"narrative"`
	Status       ReportStatus `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type FeedbackSeverity string

const (
	FeedbackSeverityHigh   FeedbackSeverity = "high"
	FeedbackSeverityMedium FeedbackSeverity = "medium"
	FeedbackSeverityLow    FeedbackSeverity = "low"
)

// ReportFeedback is one reviewer finding on a report narrative. Type is one of
// clarity, jargon, grammar, expansion, positive, procedural, objectivity,
// timeline, evidence.
type ReportFeedback struct {
	Type       string           `json:"type"`
	Text       string           `json:"text"`
	Suggestion string           `json:"suggestion"`
	LineNumber int              `json:"lineNumber,omitempty"`
	Severity   FeedbackSeverity `json:"severity,omitempty"`
}

// ReportAnalysis is the full review of a report narrative.
type ReportAnalysis struct {
	ReportID string           `json:"reportId,omitempty"`
	Feedback []ReportFeedback `json:"feedback"`
}
