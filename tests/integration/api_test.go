package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/adapter/http/fiber/handlers"
	"github.com/larkfield/lark-server/internal/adapter/http/fiber/middleware"
	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/mocks"
	"github.com/larkfield/lark-server/internal/service/assistant"
	"github.com/larkfield/lark-server/internal/service/auth"
	"github.com/larkfield/lark-server/internal/service/dispatch"
	"github.com/larkfield/lark-server/internal/service/miranda"
	"github.com/larkfield/lark-server/internal/service/statute"
)

// TestAPI_HealthCheck tests the health endpoint
func TestAPI_HealthCheck(t *testing.T) {
	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var result map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if result["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", result["status"])
	}
}

// TestAPI_AuthFlow tests the authentication flow
func TestAPI_AuthFlow(t *testing.T) {
	app := setupTestApp(t)

	t.Run("Register", func(t *testing.T) {
		payload := map[string]interface{}{
			"email":       "reyes@lpd.example.com",
			"password":    "password123",
			"rank":        "Sergeant",
			"firstName":   "Elena",
			"lastName":    "Reyes",
			"badgeNumber": "4411",
		}

		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Errorf("Expected status 201, got %d", resp.StatusCode)
		}
	})

	t.Run("Login", func(t *testing.T) {
		payload := map[string]interface{}{
			"email":    "reyes@lpd.example.com",
			"password": "password123",
		}

		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected status 200, got %d", resp.StatusCode)
		}

		var result struct {
			Tokens struct {
				AccessToken  string `json:"accessToken"`
				RefreshToken string `json:"refreshToken"`
			} `json:"tokens"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if result.Tokens.AccessToken == "" {
			t.Error("Expected accessToken in response")
		}
	})

	t.Run("InvalidLogin", func(t *testing.T) {
		payload := map[string]interface{}{
			"email":    "reyes@lpd.example.com",
			"password": "wrongpassword",
		}

		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", resp.StatusCode)
		}
	})

	t.Run("MissingToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", resp.StatusCode)
		}
	})
}

// TestAPI_AssistantCommand exercises the dialogue engine over HTTP
func TestAPI_AssistantCommand(t *testing.T) {
	app := setupTestApp(t)
	token := getAuthToken(t, app)

	t.Run("PursuitCommand", func(t *testing.T) {
		payload := map[string]interface{}{"text": "i'm in pursuit of a black sedan"}

		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/command", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}

		var result struct {
			Text     string                 `json:"text"`
			Priority string                 `json:"priority"`
			Action   map[string]interface{} `json:"action"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if result.Text == "" {
			t.Error("Expected a spoken response text")
		}
		if result.Priority != "high" {
			t.Errorf("Expected priority 'high', got '%s'", result.Priority)
		}
		if result.Action["type"] != "dispatch" {
			t.Errorf("Expected dispatch action, got %v", result.Action)
		}
		if result.Action["trackLocation"] != true {
			t.Error("Expected pursuit to enable location tracking")
		}
	})

	t.Run("EmptyCommand", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{"text": ""})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/command", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", resp.StatusCode)
		}
	})

	t.Run("CommandHistory", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/assistant/history", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		var result struct {
			RecentCommands []string `json:"recentCommands"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if len(result.RecentCommands) == 0 {
			t.Error("Expected recent commands to include the pursuit utterance")
		}
	})
}

// TestAPI_MirandaEndpoints tests the Miranda rights endpoints
func TestAPI_MirandaEndpoints(t *testing.T) {
	app := setupTestApp(t)
	token := getAuthToken(t, app)

	t.Run("Languages", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/miranda/languages", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		var result struct {
			Languages []string `json:"languages"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if len(result.Languages) != 5 {
			t.Errorf("Expected 5 languages, got %d", len(result.Languages))
		}
	})

	t.Run("GetRights", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/miranda/spanish", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}

		var result struct {
			Language string `json:"language"`
			Text     string `json:"text"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if result.Text == "" {
			t.Error("Expected non-empty rights text")
		}
	})

	t.Run("UnknownLanguage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/miranda/klingon", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", resp.StatusCode)
		}
	})
}

// TestAPI_StatuteSearch tests the statute search endpoint
func TestAPI_StatuteSearch(t *testing.T) {
	app := setupTestApp(t)
	token := getAuthToken(t, app)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/statutes?q=theft", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var statutes []domain.Statute
	if err := json.NewDecoder(resp.Body).Decode(&statutes); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(statutes) != 1 || statutes[0].ID != "14:67" {
		t.Errorf("Expected [14:67], got %v", statutes)
	}
}

// setupTestApp wires the real services onto in-memory repositories
func setupTestApp(t *testing.T) *fiber.App {
	logger := zap.NewNop()
	appCache := mocks.NewMockCache()

	var mu sync.Mutex
	officersByEmail := make(map[string]*domain.Officer)
	officersByID := make(map[string]*domain.Officer)
	officersByBadge := make(map[string]*domain.Officer)

	officerRepo := &mocks.MockOfficerRepository{
		SaveFunc: func(ctx context.Context, officer *domain.Officer) error {
			mu.Lock()
			defer mu.Unlock()
			copied := *officer
			officersByEmail[officer.Email] = &copied
			officersByID[officer.ID] = &copied
			officersByBadge[officer.BadgeNumber] = &copied
			return nil
		},
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.Officer, error) {
			mu.Lock()
			defer mu.Unlock()
			return officersByEmail[email], nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Officer, error) {
			mu.Lock()
			defer mu.Unlock()
			return officersByID[id], nil
		},
		FindByBadgeFunc: func(ctx context.Context, badge string) (*domain.Officer, error) {
			mu.Lock()
			defer mu.Unlock()
			return officersByBadge[badge], nil
		},
	}

	statuteRepo := &mocks.MockStatuteRepository{
		SearchFunc: func(ctx context.Context, query string) ([]domain.Statute, error) {
			if query == "theft" {
				return []domain.Statute{{ID: "14:67", Title: "Theft"}}, nil
			}
			return []domain.Statute{}, nil
		},
	}

	authService := auth.NewService(officerRepo, appCache, "integration-test-secret", logger)
	assistantService := assistant.NewService(&mocks.MockSpeechQueue{}, logger)
	mirandaService := miranda.NewService(appCache, logger)
	statuteService := statute.NewService(statuteRepo, appCache, &mocks.MockCompletionClient{}, logger)
	dispatchService := dispatch.NewService(mocks.NewMockMessageQueue(), logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
	})

	v1 := app.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(authService, logger)
	v1.Post("/auth/login", authHandler.Login)
	v1.Post("/auth/register", authHandler.Register)
	v1.Post("/auth/refresh", authHandler.RefreshToken)

	protected := v1.Group("", middleware.AuthRequired(authService))
	protected.Get("/auth/me", authHandler.Me)

	assistantHandler := handlers.NewAssistantHandler(assistantService, logger)
	protected.Post("/assistant/command", assistantHandler.ProcessCommand)
	protected.Get("/assistant/history", assistantHandler.GetHistory)

	mirandaHandler := handlers.NewMirandaHandler(mirandaService, assistantService, logger)
	protected.Get("/miranda/languages", mirandaHandler.Languages)
	protected.Get("/miranda/:language", mirandaHandler.GetRights)

	statuteHandler := handlers.NewStatuteHandler(statuteService, logger)
	protected.Get("/statutes", statuteHandler.Search)

	dispatchHandler := handlers.NewDispatchHandler(dispatchService, assistantService, logger)
	protected.Post("/dispatch/location", dispatchHandler.UpdateLocation)

	return app
}

// getAuthToken registers an officer and returns a valid access token
func getAuthToken(t *testing.T, app *fiber.App) string {
	payload := map[string]interface{}{
		"email":       "token@lpd.example.com",
		"password":    "password123",
		"rank":        "Officer",
		"firstName":   "Sam",
		"lastName":    "Okafor",
		"badgeNumber": "9090",
	}

	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to register: %v", err)
	}
	defer resp.Body.Close()

	var result struct {
		Tokens struct {
			AccessToken string `json:"accessToken"`
		} `json:"tokens"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode register response: %v", err)
	}

	if result.Tokens.AccessToken == "" {
		t.Fatal("Registration did not return an access token")
	}

	return result.Tokens.AccessToken
}
