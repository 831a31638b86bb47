package ratesfeed

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/bitpay/offer-engine/business/rates/domain"
	"github.com/bitpay/offer-engine/internal/wsconn"
)

// Stream receives pushed rate snapshots over a reconnecting WebSocket.
type Stream struct {
	conn    *wsconn.Client
	log     *slog.Logger
	updates chan *domain.Table

	closeOnce sync.Once
}

// NewStream creates a stream against the rates WebSocket URL.
func NewStream(url string, log *slog.Logger) (*Stream, error) {
	conn, err := wsconn.New(wsconn.DefaultConfig(url, "rates"))
	if err != nil {
		return nil, err
	}

	s := &Stream{
		conn:    conn,
		log:     log,
		updates: make(chan *domain.Table, 1),
	}

	conn.OnMessage(s.handleMessage)
	conn.OnStateChange(func(state wsconn.State, err error) {
		if err != nil {
			log.Warn("rates stream state change", "state", state, "error", err)
		} else {
			log.Debug("rates stream state change", "state", state)
		}
	})

	return s, nil
}

// Connect establishes the WebSocket connection.
func (s *Stream) Connect(ctx context.Context) error {
	return s.conn.Connect(ctx)
}

// Updates returns the channel delivering rate snapshots.
func (s *Stream) Updates() <-chan *domain.Table {
	return s.updates
}

// Close shuts the stream down.
func (s *Stream) Close() error {
	err := s.conn.Close()
	s.closeOnce.Do(func() { close(s.updates) })
	return err
}

func (s *Stream) handleMessage(ctx context.Context, msg []byte) {
	var m streamMessage
	if err := json.Unmarshal(msg, &m); err != nil || len(m.Rates) == 0 {
		s.log.Debug("ignoring unrecognized rates stream message")
		return
	}

	table := toTable(m.Rates, s.log)
	if table.Len() == 0 {
		return
	}

	// Drop the pending snapshot if the consumer is behind; only the
	// latest one matters.
	select {
	case s.updates <- table:
	default:
		select {
		case <-s.updates:
		default:
		}
		select {
		case s.updates <- table:
		default:
		}
	}
}
