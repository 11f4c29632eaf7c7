package bus

import (
	"log/slog"
	"time"

	"github.com/nats-io/stan.go"
)

const ackWait = 30 * time.Second

// StanSub consumes order-data commands from a NATS Streaming channel.
type StanSub struct {
	conn stan.Conn
	log  *slog.Logger
}

func NewStan(cluster, clientID, url string, log *slog.Logger) (*StanSub, error) {
	c, err := stan.Connect(cluster, clientID, stan.NatsURL(url))
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &StanSub{conn: c, log: log}, nil
}

// Start subscribes durably with manual acks; a message is acked only after
// handler succeeds.
func (s *StanSub) Start(subject string, handler MessageHandler) error {
	_, err := s.conn.Subscribe(subject, func(m *stan.Msg) {
		deliver(s.log, handler, delivery{
			subject:     subject,
			seq:         m.Sequence,
			redelivered: m.Redelivered,
			data:        m.Data,
			ack:         m.Ack,
		})
	}, stan.SetManualAckMode(),
		stan.DurableName(DurableName(subject)),
		stan.AckWait(ackWait),
		stan.DeliverAllAvailable())
	if err == nil {
		s.log.Info("stan subscribed", "subject", subject, "durable", DurableName(subject))
	}
	return err
}

func (s *StanSub) Close() {
	if err := s.conn.Close(); err != nil {
		s.log.Warn("stan close", "error", err)
	}
}

// DurableName is the durable subscription name used for subject.
func DurableName(subject string) string { return subject + "-durable" }

type delivery struct {
	subject     string
	seq         uint64
	redelivered bool
	data        []byte
	ack         func() error
}

// deliver runs handler on one message and acks it on success. A failed
// handler leaves the message un-acked so it comes back after ackWait.
// It reports whether the ack went through.
func deliver(log *slog.Logger, handler MessageHandler, d delivery) bool {
	if d.redelivered {
		log.Debug("redelivered message", "subject", d.subject, "seq", d.seq)
	}
	if err := handler(d.data); err != nil {
		log.Warn("handle message", "subject", d.subject, "seq", d.seq, "error", err)
		return false
	}
	if err := d.ack(); err != nil {
		log.Warn("ack message", "subject", d.subject, "seq", d.seq, "error", err)
		return false
	}
	return true
}
