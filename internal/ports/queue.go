package ports

// MessageQueue abstracts the broker carrying dispatch traffic. NATS is the
// default driver; RabbitMQ is available behind the same interface.
type MessageQueue interface {
	Publish(topic string, data []byte) error
	Subscribe(topic string, handler func([]byte) error) error
	Close() error
}
