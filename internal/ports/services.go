package ports

import (
	"context"

	"github.com/larkfield/lark-server/internal/domain"
)

// AssistantService is the dialogue engine: it maps an officer's utterance plus
// rolling context into a structured, speakable response.
type AssistantService interface {
	ProcessCommand(ctx context.Context, command string, profile domain.OfficerProfile) (*domain.AssistantResponse, error)
	AlertThreat(ctx context.Context, threat string, profile domain.OfficerProfile) (*domain.AssistantResponse, error)
	DeliverMirandaRights(ctx context.Context, language string, profile domain.OfficerProfile) (*domain.AssistantResponse, error)
	RequestBackup(ctx context.Context, situation string, profile domain.OfficerProfile) (*domain.AssistantResponse, error)
	TranslateCommunication(ctx context.Context, text, language string, profile domain.OfficerProfile) (*domain.AssistantResponse, error)

	SetOfflineMode(offline bool)
	SetCurrentActivity(activity string)
	SetLocation(loc domain.Location)

	RecentCommands() []string
	DetectedThreats() []string
}

// SpeechQueue serializes text-to-speech requests so at most one utterance is
// in flight at any time. Enqueue returns a channel that resolves when the
// request finishes playing, or with an error when playback fails or the
// request is discarded by Stop.
type SpeechQueue interface {
	Enqueue(text string, opts *domain.VoiceOptions) <-chan error
	Speak(ctx context.Context, text string, opts *domain.VoiceOptions) error
	Stop()
	SetDefaultOptions(opts domain.VoiceOptions)
	IsSpeaking() bool
}

// SpeechSynthesizer is the opaque playback primitive behind the speech queue.
// Speak returns once the utterance has fully played (or failed).
type SpeechSynthesizer interface {
	Speak(ctx context.Context, text string, opts domain.VoiceOptions) error
}

// CompletionResult carries a chat completion and its token usage.
type CompletionResult struct {
	Text             string `json:"text"`
	PromptTokens     int    `json:"promptTokens,omitempty"`
	CompletionTokens int    `json:"completionTokens,omitempty"`
	TotalTokens      int    `json:"totalTokens,omitempty"`
}

// CompletionClient generates text completions from a chat model.
type CompletionClient interface {
	Complete(ctx context.Context, system, prompt string) (*CompletionResult, error)
	// CompleteJSON requests a completion constrained to a JSON object.
	CompleteJSON(ctx context.Context, system, prompt string) (*CompletionResult, error)
}

// Transcriber turns recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// AudioAnalyzer scans ambient audio for threat sounds (gunshots, breaking
// glass). Implementations may return an empty result when nothing is detected.
type AudioAnalyzer interface {
	AnalyzeAudio(ctx context.Context, audio []byte) (*domain.AudioAnalysis, error)
}

// MirandaService serves Miranda rights text per language.
type MirandaService interface {
	GetRights(ctx context.Context, language string) (string, error)
	Languages() []string
}

// StatuteService provides statute search, retrieval, and AI suggestion.
type StatuteService interface {
	Search(ctx context.Context, query string) ([]domain.Statute, error)
	GetByID(ctx context.Context, id string) (*domain.Statute, error)
	Suggest(ctx context.Context, description string) ([]domain.StatuteSuggestion, error)
}

// ReportService persists report drafts and reviews narratives.
type ReportService interface {
	Create(ctx context.Context, report *domain.Report) error
	Get(ctx context.Context, id string) (*domain.Report, error)
	ListByOfficer(ctx context.Context, officerID string) ([]domain.Report, error)
	Update(ctx context.Context, report *domain.Report) error
	Analyze(ctx context.Context, content string, useAlternateModel bool) (*domain.ReportAnalysis, error)
}

// DispatchService forwards officer location and backup requests to dispatch.
type DispatchService interface {
	SendLocation(ctx context.Context, update domain.LocationUpdate) error
	RequestBackup(ctx context.Context, req domain.BackupRequest) error
	SetOfflineMode(offline bool)
}

// AuthService authenticates officers and validates session tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, string, error) // access, refresh, err
	Register(ctx context.Context, officer *domain.Officer) error
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	ValidateToken(ctx context.Context, token string) (*domain.Officer, error)
}
