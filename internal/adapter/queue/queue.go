package queue

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/ports"
)

// New builds the broker named by driver. NATS is the default; RabbitMQ is
// selected per deployment where the agency already runs one.
func New(driver, url string, log *zap.Logger) (ports.MessageQueue, error) {
	switch driver {
	case "", "nats":
		return NewNATSQueue(url, log)
	case "rabbitmq":
		return NewRabbitMQQueue(url, log)
	default:
		return nil, fmt.Errorf("unknown queue driver: %s", driver)
	}
}
