package mocks

import (
	"context"
	"sync"

	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/ports"
)

// MockSpeechQueue is a mock implementation of SpeechQueue interface. Unless
// overridden, Enqueue records the request and resolves it immediately.
type MockSpeechQueue struct {
	mu       sync.Mutex
	Texts    []string
	Options  []*domain.VoiceOptions
	Defaults domain.VoiceOptions
	Stopped  bool

	EnqueueFunc    func(text string, opts *domain.VoiceOptions) <-chan error
	SpeakFunc      func(ctx context.Context, text string, opts *domain.VoiceOptions) error
	IsSpeakingFunc func() bool
}

func (m *MockSpeechQueue) Enqueue(text string, opts *domain.VoiceOptions) <-chan error {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(text, opts)
	}
	m.mu.Lock()
	m.Texts = append(m.Texts, text)
	m.Options = append(m.Options, opts)
	m.mu.Unlock()
	done := make(chan error, 1)
	done <- nil
	return done
}

func (m *MockSpeechQueue) Speak(ctx context.Context, text string, opts *domain.VoiceOptions) error {
	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx, text, opts)
	}
	return <-m.Enqueue(text, opts)
}

func (m *MockSpeechQueue) Stop() {
	m.mu.Lock()
	m.Stopped = true
	m.mu.Unlock()
}

func (m *MockSpeechQueue) SetDefaultOptions(opts domain.VoiceOptions) {
	m.mu.Lock()
	m.Defaults = opts
	m.mu.Unlock()
}

func (m *MockSpeechQueue) IsSpeaking() bool {
	if m.IsSpeakingFunc != nil {
		return m.IsSpeakingFunc()
	}
	return false
}

// EnqueuedTexts returns a copy of the enqueued utterances in arrival order.
func (m *MockSpeechQueue) EnqueuedTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Texts))
	copy(out, m.Texts)
	return out
}

// MockSpeechSynthesizer is a mock implementation of SpeechSynthesizer
// interface. It is safe for use from the queue's drain goroutine.
type MockSpeechSynthesizer struct {
	mu     sync.Mutex
	Spoken []string

	SpeakFunc func(ctx context.Context, text string, opts domain.VoiceOptions) error
}

func (m *MockSpeechSynthesizer) Speak(ctx context.Context, text string, opts domain.VoiceOptions) error {
	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx, text, opts)
	}
	m.mu.Lock()
	m.Spoken = append(m.Spoken, text)
	m.mu.Unlock()
	return nil
}

// SpokenTexts returns a copy of what has been played so far.
func (m *MockSpeechSynthesizer) SpokenTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Spoken))
	copy(out, m.Spoken)
	return out
}

// MockCompletionClient is a mock implementation of CompletionClient interface
type MockCompletionClient struct {
	CompleteFunc     func(ctx context.Context, system, prompt string) (*ports.CompletionResult, error)
	CompleteJSONFunc func(ctx context.Context, system, prompt string) (*ports.CompletionResult, error)
}

func (m *MockCompletionClient) Complete(ctx context.Context, system, prompt string) (*ports.CompletionResult, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, prompt)
	}
	return &ports.CompletionResult{}, nil
}

func (m *MockCompletionClient) CompleteJSON(ctx context.Context, system, prompt string) (*ports.CompletionResult, error) {
	if m.CompleteJSONFunc != nil {
		return m.CompleteJSONFunc(ctx, system, prompt)
	}
	return &ports.CompletionResult{Text: "{}"}, nil
}

// MockTranscriber is a mock implementation of Transcriber interface
type MockTranscriber struct {
	TranscribeFunc func(ctx context.Context, audio []byte, filename string) (string, error)
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audio, filename)
	}
	return "", nil
}

// MockAudioAnalyzer is a mock implementation of AudioAnalyzer interface
type MockAudioAnalyzer struct {
	AnalyzeAudioFunc func(ctx context.Context, audio []byte) (*domain.AudioAnalysis, error)
}

func (m *MockAudioAnalyzer) AnalyzeAudio(ctx context.Context, audio []byte) (*domain.AudioAnalysis, error) {
	if m.AnalyzeAudioFunc != nil {
		return m.AnalyzeAudioFunc(ctx, audio)
	}
	return &domain.AudioAnalysis{}, nil
}

// MockMirandaService is a mock implementation of MirandaService interface
type MockMirandaService struct {
	GetRightsFunc func(ctx context.Context, language string) (string, error)
	LanguagesFunc func() []string
}

func (m *MockMirandaService) GetRights(ctx context.Context, language string) (string, error) {
	if m.GetRightsFunc != nil {
		return m.GetRightsFunc(ctx, language)
	}
	return "", nil
}

func (m *MockMirandaService) Languages() []string {
	if m.LanguagesFunc != nil {
		return m.LanguagesFunc()
	}
	return []string{"english"}
}

// MockStatuteService is a mock implementation of StatuteService interface
type MockStatuteService struct {
	SearchFunc  func(ctx context.Context, query string) ([]domain.Statute, error)
	GetByIDFunc func(ctx context.Context, id string) (*domain.Statute, error)
	SuggestFunc func(ctx context.Context, description string) ([]domain.StatuteSuggestion, error)
}

func (m *MockStatuteService) Search(ctx context.Context, query string) ([]domain.Statute, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return []domain.Statute{}, nil
}

func (m *MockStatuteService) GetByID(ctx context.Context, id string) (*domain.Statute, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStatuteService) Suggest(ctx context.Context, description string) ([]domain.StatuteSuggestion, error) {
	if m.SuggestFunc != nil {
		return m.SuggestFunc(ctx, description)
	}
	return []domain.StatuteSuggestion{}, nil
}

// MockReportService is a mock implementation of ReportService interface
type MockReportService struct {
	CreateFunc        func(ctx context.Context, report *domain.Report) error
	GetFunc           func(ctx context.Context, id string) (*domain.Report, error)
	ListByOfficerFunc func(ctx context.Context, officerID string) ([]domain.Report, error)
	UpdateFunc        func(ctx context.Context, report *domain.Report) error
	AnalyzeFunc       func(ctx context.Context, content string, useAlternateModel bool) (*domain.ReportAnalysis, error)
}

func (m *MockReportService) Create(ctx context.Context, report *domain.Report) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, report)
	}
	return nil
}

func (m *MockReportService) Get(ctx context.Context, id string) (*domain.Report, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockReportService) ListByOfficer(ctx context.Context, officerID string) ([]domain.Report, error) {
	if m.ListByOfficerFunc != nil {
		return m.ListByOfficerFunc(ctx, officerID)
	}
	return []domain.Report{}, nil
}

func (m *MockReportService) Update(ctx context.Context, report *domain.Report) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, report)
	}
	return nil
}

func (m *MockReportService) Analyze(ctx context.Context, content string, useAlternateModel bool) (*domain.ReportAnalysis, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, content, useAlternateModel)
	}
	return &domain.ReportAnalysis{}, nil
}

// MockDispatchService is a mock implementation of DispatchService interface
type MockDispatchService struct {
	SendLocationFunc   func(ctx context.Context, update domain.LocationUpdate) error
	RequestBackupFunc  func(ctx context.Context, req domain.BackupRequest) error
	SetOfflineModeFunc func(offline bool)
}

func (m *MockDispatchService) SendLocation(ctx context.Context, update domain.LocationUpdate) error {
	if m.SendLocationFunc != nil {
		return m.SendLocationFunc(ctx, update)
	}
	return nil
}

func (m *MockDispatchService) RequestBackup(ctx context.Context, req domain.BackupRequest) error {
	if m.RequestBackupFunc != nil {
		return m.RequestBackupFunc(ctx, req)
	}
	return nil
}

func (m *MockDispatchService) SetOfflineMode(offline bool) {
	if m.SetOfflineModeFunc != nil {
		m.SetOfflineModeFunc(offline)
	}
}

// MockAuthService is a mock implementation of AuthService interface
type MockAuthService struct {
	LoginFunc         func(ctx context.Context, email, password string) (string, string, error)
	RegisterFunc      func(ctx context.Context, officer *domain.Officer) error
	RefreshTokenFunc  func(ctx context.Context, refreshToken string) (string, error)
	ValidateTokenFunc func(ctx context.Context, token string) (*domain.Officer, error)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "", "", nil
}

func (m *MockAuthService) Register(ctx context.Context, officer *domain.Officer) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, officer)
	}
	return nil
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	return "", nil
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*domain.Officer, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return nil, nil
}

// MockAssistantService is a mock implementation of AssistantService interface
type MockAssistantService struct {
	ProcessCommandFunc         func(ctx context.Context, command string, profile domain.OfficerProfile) (*domain.AssistantResponse, error)
	AlertThreatFunc            func(ctx context.Context, threat string, profile domain.OfficerProfile) (*domain.AssistantResponse, error)
	DeliverMirandaRightsFunc   func(ctx context.Context, language string, profile domain.OfficerProfile) (*domain.AssistantResponse, error)
	RequestBackupFunc          func(ctx context.Context, situation string, profile domain.OfficerProfile) (*domain.AssistantResponse, error)
	TranslateCommunicationFunc func(ctx context.Context, text, language string, profile domain.OfficerProfile) (*domain.AssistantResponse, error)

	Offline  bool
	Activity string
	Loc      domain.Location
}

func (m *MockAssistantService) ProcessCommand(ctx context.Context, command string, profile domain.OfficerProfile) (*domain.AssistantResponse, error) {
	if m.ProcessCommandFunc != nil {
		return m.ProcessCommandFunc(ctx, command, profile)
	}
	return &domain.AssistantResponse{}, nil
}

func (m *MockAssistantService) AlertThreat(ctx context.Context, threat string, profile domain.OfficerProfile) (*domain.AssistantResponse, error) {
	if m.AlertThreatFunc != nil {
		return m.AlertThreatFunc(ctx, threat, profile)
	}
	return &domain.AssistantResponse{}, nil
}

func (m *MockAssistantService) DeliverMirandaRights(ctx context.Context, language string, profile domain.OfficerProfile) (*domain.AssistantResponse, error) {
	if m.DeliverMirandaRightsFunc != nil {
		return m.DeliverMirandaRightsFunc(ctx, language, profile)
	}
	return &domain.AssistantResponse{}, nil
}

func (m *MockAssistantService) RequestBackup(ctx context.Context, situation string, profile domain.OfficerProfile) (*domain.AssistantResponse, error) {
	if m.RequestBackupFunc != nil {
		return m.RequestBackupFunc(ctx, situation, profile)
	}
	return &domain.AssistantResponse{}, nil
}

func (m *MockAssistantService) TranslateCommunication(ctx context.Context, text, language string, profile domain.OfficerProfile) (*domain.AssistantResponse, error) {
	if m.TranslateCommunicationFunc != nil {
		return m.TranslateCommunicationFunc(ctx, text, language, profile)
	}
	return &domain.AssistantResponse{}, nil
}

func (m *MockAssistantService) SetOfflineMode(offline bool) {
	m.Offline = offline
}

func (m *MockAssistantService) SetCurrentActivity(activity string) {
	m.Activity = activity
}

func (m *MockAssistantService) SetLocation(loc domain.Location) {
	m.Loc = loc
}

func (m *MockAssistantService) RecentCommands() []string {
	return nil
}

func (m *MockAssistantService) DetectedThreats() []string {
	return nil
}
