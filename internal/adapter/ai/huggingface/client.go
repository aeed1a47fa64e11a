package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/ports"
)

const defaultModel = "MIT/ast-finetuned-audioset-10-10-0.4593"

// threatLabels maps audio classification labels to the threat names the
// assistant announces. Matching is substring-based against the lowercased
// label.
var threatLabels = map[string]string{
	"gunshot":        "Gunshot",
	"gunfire":        "Gunshot",
	"machine gun":    "Gunshot",
	"glass":          "Glass breaking",
	"shatter":        "Glass breaking",
	"screaming":      "Screaming",
	"shout":          "Aggressive shouting",
	"explosion":      "Explosion",
	"siren":          "Emergency siren",
	"dog":            "Aggressive dog",
	"car alarm":      "Car alarm",
	"tire squeal":    "Vehicle fleeing",
	"vehicle horn":   "Vehicle alert",
	"breaking sound": "Forced entry",
}

// confidenceThreshold discards weak classifications so routine street noise
// does not page the officer.
const confidenceThreshold = 0.5

// Client scans ambient audio for threat sounds with a HuggingFace audio
// classification model.
type Client struct {
	apiKey     string
	endpoint   string
	model      string
	httpClient httpDoer
	log        *zap.Logger
}

// httpDoer lets the client run behind a circuit-breaking transport.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewClient(apiKey, endpoint, model string, log *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = "https://api-inference.huggingface.co/models/"
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:     apiKey,
		endpoint:   endpoint,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// SetHTTPClient swaps the underlying transport, typically for a
// circuit-breaking client.
func (c *Client) SetHTTPClient(d httpDoer) {
	c.httpClient = d
}

var _ ports.AudioAnalyzer = (*Client)(nil)

type classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// AnalyzeAudio classifies a WAV clip and maps recognized labels to threats.
// An empty result means nothing dangerous was heard.
func (c *Client) AnalyzeAudio(ctx context.Context, audio []byte) (*domain.AudioAnalysis, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("huggingface: API key not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+c.model, bytes.NewReader(audio))
	if err != nil {
		return nil, fmt.Errorf("huggingface: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface: API error status %d", resp.StatusCode)
	}

	var classifications []classification
	if err := json.NewDecoder(resp.Body).Decode(&classifications); err != nil {
		return nil, fmt.Errorf("huggingface: decode response: %w", err)
	}

	analysis := &domain.AudioAnalysis{DetectedThreats: []string{}}
	seen := make(map[string]bool)
	for _, cl := range classifications {
		if cl.Score < confidenceThreshold {
			continue
		}
		threat, ok := matchThreat(cl.Label)
		if !ok || seen[threat] {
			continue
		}
		seen[threat] = true
		analysis.DetectedThreats = append(analysis.DetectedThreats, threat)
		if cl.Score > analysis.Confidence {
			analysis.Confidence = cl.Score
		}
	}

	if len(analysis.DetectedThreats) > 0 {
		c.log.Warn("threat sounds detected",
			zap.Strings("threats", analysis.DetectedThreats),
			zap.Float64("confidence", analysis.Confidence),
		)
	}
	return analysis, nil
}

func matchThreat(label string) (string, bool) {
	lower := strings.ToLower(label)
	for fragment, threat := range threatLabels {
		if strings.Contains(lower, fragment) {
			return threat, true
		}
	}
	return "", false
}
