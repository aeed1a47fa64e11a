package statute

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/observability/telemetry"
	"github.com/larkfield/lark-server/internal/ports"
)

var ErrNotFound = errors.New("statute not found")

const (
	cacheTTL       = 10 * time.Minute
	cacheKeyByID   = "statutes:id:"
	cacheKeySearch = "statutes:search:"
)

// suggestSystemPrompt instructs the model to return Louisiana statute
// suggestions as a JSON object.
const suggestSystemPrompt = `You are LARK, a Law Enforcement Assistant and Resource Kit, analyzing an incident description to suggest applicable criminal statutes.

Your task is to identify potential criminal violations in Louisiana based on the incident description provided.

For each potential violation:
1. Provide the Louisiana Revised Statute (La. R.S.) number
2. Provide the title of the statute
3. Explain why this statute might apply to the described incident
4. Note any elements that might be missing from the description that would be needed to fully establish this violation

Format your response as a JSON object with a "suggestions" array, each entry with:
- id: The statute number (e.g., "14:67")
- title: The name of the offense
- explanation: A brief explanation of why this statute applies
- elements: Key elements needed to establish this violation

Focus on Louisiana criminal statutes only. Be specific and accurate with statute numbers.`

type Service struct {
	repo  ports.StatuteRepository
	cache ports.Cache
	ai    ports.CompletionClient
	log   *zap.Logger
}

func NewService(repo ports.StatuteRepository, cache ports.Cache, ai ports.CompletionClient, log *zap.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		ai:    ai,
		log:   log,
	}
}

var _ ports.StatuteService = (*Service)(nil)

// Search matches statutes by number or title. Results are cached per query so
// repeated lookups in the field stay fast and survive short outages.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Statute, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Statute{}, nil
	}

	cacheKey := cacheKeySearch + strings.ToLower(query)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var statutes []domain.Statute
		if err := json.Unmarshal([]byte(cached), &statutes); err == nil {
			telemetry.CacheHitsTotal.WithLabelValues("hit").Inc()
			return statutes, nil
		}
	}
	telemetry.CacheHitsTotal.WithLabelValues("miss").Inc()

	statutes, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("statute search: %w", err)
	}

	if err := s.cache.Set(ctx, cacheKey, statutes, cacheTTL); err != nil {
		s.log.Warn("failed to cache statute search", zap.String("query", query), zap.Error(err))
	}

	return statutes, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Statute, error) {
	cacheKey := cacheKeyByID + id
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var statute domain.Statute
		if err := json.Unmarshal([]byte(cached), &statute); err == nil {
			telemetry.CacheHitsTotal.WithLabelValues("hit").Inc()
			return &statute, nil
		}
	}
	telemetry.CacheHitsTotal.WithLabelValues("miss").Inc()

	statute, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if statute == nil {
		return nil, ErrNotFound
	}

	if err := s.cache.Set(ctx, cacheKey, statute, cacheTTL); err != nil {
		s.log.Warn("failed to cache statute", zap.String("id", id), zap.Error(err))
	}

	return statute, nil
}

type suggestionEnvelope struct {
	Suggestions []domain.StatuteSuggestion `json:"suggestions"`
}

// Suggest asks the completion model which statutes fit an incident
// description. An unparseable model reply degrades to an empty list rather
// than failing the request.
func (s *Service) Suggest(ctx context.Context, description string) ([]domain.StatuteSuggestion, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, errors.New("incident description is required")
	}

	prompt := fmt.Sprintf("Based on this incident description, suggest applicable Louisiana criminal statutes:\n\n%s", description)

	result, err := s.ai.CompleteJSON(ctx, suggestSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("statute suggestion: %w", err)
	}

	var envelope suggestionEnvelope
	if err := json.Unmarshal([]byte(result.Text), &envelope); err != nil {
		s.log.Warn("unparseable suggestion payload", zap.Error(err))
		return []domain.StatuteSuggestion{}, nil
	}

	return envelope.Suggestions, nil
}

// SampleStatutes is the seed set loaded into an empty database.
func SampleStatutes() []domain.Statute {
	return []domain.Statute{
		{
			ID:          "14:67",
			Title:       "Theft",
			Description: "Theft is the misappropriation or taking of anything of value which belongs to another, either without the consent of the other to the misappropriation or taking, or by means of fraudulent conduct, practices, or representations. An intent to deprive the other permanently of whatever may be the subject of the misappropriation or taking is essential.",
			Penalties:   "Penalties depend on the value of the stolen items and range from a fine of not more than $1,000 or imprisonment for not more than six months, or both, to imprisonment at hard labor for not more than twenty years.",
		},
		{
			ID:          "14:98",
			Title:       "Operating a vehicle while intoxicated",
			Description: "The crime of operating a vehicle while intoxicated is the operating of any motor vehicle, aircraft, watercraft, vessel, or other means of conveyance when the operator is under the influence of alcoholic beverages, or the operator's blood alcohol concentration is 0.08 percent or more by weight, or the operator is under the influence of any controlled dangerous substance.",
			Penalties:   "First offense: Fine of not less than $300 nor more than $1,000, and imprisonment for not less than 10 days nor more than 6 months. Subsequent offenses carry increased penalties.",
		},
	}
}
