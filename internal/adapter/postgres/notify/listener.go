// Package notify delivers PostgreSQL NOTIFY payloads to in-process
// subscribers. The activity_log trigger emits one notification per inserted
// row; the listener holds a dedicated connection from the pool and fans
// payloads out to all subscribers.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	subscriberBuffer = 64
	minBackoff       = time.Second
	maxBackoff       = 30 * time.Second
)

// Listener LISTENs on a single channel and fans out raw payloads.
// Subscribers that do not keep up have messages dropped rather than
// blocking the listening connection.
type Listener struct {
	pool    *pgxpool.Pool
	channel string
	log     *slog.Logger

	mu     sync.Mutex
	subs   map[int]chan []byte
	nextID int
}

// NewListener creates a listener for the given channel. The channel name
// must be a valid lowercase identifier; config validation guarantees this
// before the name is interpolated into the LISTEN statement.
func NewListener(pool *pgxpool.Pool, channel string, log *slog.Logger) *Listener {
	return &Listener{
		pool:    pool,
		channel: channel,
		log:     log.With("component", "notify_listener"),
		subs:    make(map[int]chan []byte),
	}
}

// Run blocks, receiving notifications until ctx is cancelled. Connection
// failures trigger reconnection with exponential backoff; the backoff resets
// once a connection is established again.
func (l *Listener) Run(ctx context.Context) {
	backoff := minBackoff
	for {
		if ctx.Err() != nil {
			return
		}

		connected, err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		if connected {
			backoff = minBackoff
		}

		l.log.Error("listener disconnected",
			slog.String("error", err.Error()),
			slog.Duration("retry_in", backoff),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < maxBackoff {
			backoff *= 2
		}
	}
}

// listen acquires a dedicated connection, issues LISTEN and blocks on
// notifications. Returns whether LISTEN succeeded together with the error
// that ended the session.
func (l *Listener) listen(ctx context.Context) (bool, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	// LISTEN does not accept bind parameters; the channel name is
	// validated at config load.
	if _, err := conn.Exec(ctx, "LISTEN "+l.channel); err != nil {
		return false, fmt.Errorf("listen %s: %w", l.channel, err)
	}

	l.log.Info("listening", slog.String("channel", l.channel))

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return true, fmt.Errorf("wait for notification: %w", err)
		}
		l.fanout([]byte(n.Payload))
	}
}

func (l *Listener) fanout(payload []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, ch := range l.subs {
		select {
		case ch <- payload:
		default:
			l.log.Warn("subscriber buffer full, dropping notification", slog.Int("subscriber", id))
		}
	}
}

// Subscribe registers a new subscriber. The returned cancel function
// unregisters it and closes the channel; cancel is idempotent.
func (l *Listener) Subscribe() (<-chan []byte, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	ch := make(chan []byte, subscriberBuffer)
	l.subs[id] = ch

	cancel := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}
