package circuitbreaker

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPClient is an http.Client lookalike that routes every request through a
// breaker. The AI provider adapters use one per provider so a dead provider
// fails fast instead of stacking up thirty-second timeouts.
type HTTPClient struct {
	client  *http.Client
	breaker *Breaker
	log     *zap.Logger
}

func NewHTTPClient(name string, timeout time.Duration, manager *Manager, log *zap.Logger) *HTTPClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		breaker: manager.Get(name),
		log:     log,
	}
}

// Do executes the request under the breaker. A 5xx response counts as a
// failure; 4xx responses pass through untouched since they indicate a request
// problem, not a provider outage.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, fmt.Errorf("server error: %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if IsOpen(err) {
			c.log.Warn("request blocked by open circuit breaker",
				zap.String("breaker", c.breaker.Name()),
				zap.String("url", req.URL.String()),
			)
		}
		return nil, err
	}
	return result.(*http.Response), nil
}
