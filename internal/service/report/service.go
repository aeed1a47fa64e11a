package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/ports"
)

var ErrNotFound = errors.New("report not found")

// analyzeSystemPrompt reviews a narrative the way opposing counsel would read
// it. The adversarial framing is deliberately kept out of the feedback items
// shown to the officer.
const analyzeSystemPrompt = `You are LARK, a Law Enforcement Assistant and Resource Kit, analyzing a police report from a defense attorney's perspective.

Your task is to thoroughly identify potential issues in the report that a defense attorney might exploit, including:
1. Vague or unclear language that could be interpreted multiple ways
2. Unexplained police jargon, codes, or terminology that might confuse a jury
3. Missing details or information gaps that raise questions about the officer's observations
4. Inconsistencies or contradictions in the narrative or timeline
5. Areas where more specific observations would strengthen the report's credibility
6. Potential procedural issues that could be challenged in court
7. Subjective statements or conclusions without supporting factual observations
8. Grammar, spelling, or punctuation errors that could undermine professionalism
9. Ambiguous pronouns or references that create confusion about who did what
10. Passive voice constructions that obscure who performed specific actions
11. Temporal gaps or unclear sequence of events
12. Lack of specificity in descriptions of evidence, locations, or individuals

IMPORTANT GUIDELINES:
- NEVER add content to the report or suggest specific facts to include
- Only suggest areas where more detail is needed, not what those details should be
- Focus on clarity, specificity, and completeness
- Identify police jargon that should be explained in plain language
- Point out where more objective descriptions would be helpful
- Highlight areas where the chain of events is unclear
- Check for proper documentation of Miranda warnings if applicable
- Evaluate whether witness statements are clearly attributed
- Assess if evidence collection and handling is properly documented
- Look for statements that might be interpreted as biased or prejudicial

Format your response as a JSON object with a 'feedback' array of feedback items, each with:
- type: "clarity" | "jargon" | "grammar" | "expansion" | "positive" | "procedural" | "objectivity" | "timeline" | "evidence"
- text: A brief description of the issue
- suggestion: A specific suggestion for improvement (without adding factual content)
- lineNumber: (optional) The approximate line number where the issue occurs
- severity: "high" | "medium" | "low" indicating how seriously this could impact the case

Include at least one positive feedback item if the report has strong elements.

DO NOT disclose to the officer that you are analyzing from a defense attorney perspective in your feedback items.`

type Service struct {
	repo      ports.ReportRepository
	primary   ports.CompletionClient
	alternate ports.CompletionClient
	log       *zap.Logger
}

// NewService wires the report store and both completion providers. alternate
// may be nil, in which case the primary serves every analysis.
func NewService(repo ports.ReportRepository, primary, alternate ports.CompletionClient, log *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		primary:   primary,
		alternate: alternate,
		log:       log,
	}
}

var _ ports.ReportService = (*Service)(nil)

func (s *Service) Create(ctx context.Context, report *domain.Report) error {
	if strings.TrimSpace(report.OfficerID) == "" {
		return errors.New("officer id is required")
	}
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	if report.Status == "" {
		report.Status = domain.ReportStatusDraft
	}
	now := time.Now()
	report.CreatedAt = now
	report.UpdatedAt = now

	if err := s.repo.Save(ctx, report); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	s.log.Info("report created",
		zap.String("id", report.ID),
		zap.String("officer_id", report.OfficerID),
	)
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Report, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrNotFound
	}
	return report, nil
}

func (s *Service) ListByOfficer(ctx context.Context, officerID string) ([]domain.Report, error) {
	return s.repo.FindByOfficerID(ctx, officerID)
}

func (s *Service) Update(ctx context.Context, report *domain.Report) error {
	existing, err := s.repo.FindByID(ctx, report.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	report.CreatedAt = existing.CreatedAt
	report.UpdatedAt = time.Now()
	return s.repo.Update(ctx, report)
}

type feedbackEnvelope struct {
	Feedback []domain.ReportFeedback `json:"feedback"`
}

// Analyze reviews a narrative and returns structured feedback. With
// useAlternateModel set the request goes to the alternate provider, which
// trades some quality for latency on long shifts with poor coverage.
func (s *Service) Analyze(ctx context.Context, content string, useAlternateModel bool) (*domain.ReportAnalysis, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("report content is required")
	}

	client := s.primary
	if useAlternateModel && s.alternate != nil {
		client = s.alternate
	}

	prompt := fmt.Sprintf("Analyze this police report:\n\n%s", content)
	result, err := client.CompleteJSON(ctx, analyzeSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("analyze report: %w", err)
	}

	var envelope feedbackEnvelope
	if err := json.Unmarshal([]byte(result.Text), &envelope); err != nil {
		s.log.Warn("unparseable analysis payload", zap.Error(err))
		return &domain.ReportAnalysis{Feedback: []domain.ReportFeedback{}}, nil
	}

	return &domain.ReportAnalysis{Feedback: envelope.Feedback}, nil
}
