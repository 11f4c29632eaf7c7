// Package bus delivers order-data commands from the message broker.
package bus

// MessageHandler processes one message. A non-nil error leaves the message
// unacknowledged so the broker redelivers it.
type MessageHandler func(data []byte) error

type Subscriber interface {
	Start(subject string, handler MessageHandler) error
	Close()
}
