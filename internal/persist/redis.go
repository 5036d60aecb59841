package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"whiteboard/internal/object"
	"whiteboard/internal/protocol"
)

const defaultMaxPending = 1024

type pendingKey struct {
	board  string
	object string
}

// RedisSink batches object writes into one Redis hash per board.
// Only the latest state of an object is written per flush; a nil entry marks a delete.
type RedisSink struct {
	client     *redis.Client
	interval   time.Duration
	maxPending int
	log        zerolog.Logger

	mu      sync.Mutex
	pending map[pendingKey][]byte
	kick    chan struct{}
}

// NewRedisSink connects to Redis and verifies the connection.
func NewRedisSink(ctx context.Context, addr, password string, db int, interval time.Duration, logger zerolog.Logger) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("persist.NewRedisSink: ping: %w", err)
	}

	return newRedisSink(client, interval, logger), nil
}

func newRedisSink(client *redis.Client, interval time.Duration, logger zerolog.Logger) *RedisSink {
	return &RedisSink{
		client:     client,
		interval:   interval,
		maxPending: defaultMaxPending,
		log:        logger.With().Str("component", "persist").Logger(),
		pending:    make(map[pendingKey][]byte),
		kick:       make(chan struct{}, 1),
	}
}

// BoardKey returns the Redis hash holding a board's objects.
func BoardKey(boardID string) string {
	return "wb:board:" + boardID + ":objects"
}

func (s *RedisSink) ObjectUpdated(boardID string, obj object.Drawing) {
	data, err := json.Marshal(protocol.StateOf(obj))
	if err != nil {
		s.log.Warn().Err(err).Str("board", boardID).Str("object", obj.ID).Msg("encode object")
		return
	}
	s.put(pendingKey{board: boardID, object: obj.ID}, data)
}

func (s *RedisSink) ObjectDeleted(boardID, objectID string) {
	s.put(pendingKey{board: boardID, object: objectID}, nil)
}

func (s *RedisSink) put(k pendingKey, data []byte) {
	s.mu.Lock()
	s.pending[k] = data
	full := len(s.pending) >= s.maxPending
	s.mu.Unlock()

	if full {
		select {
		case s.kick <- struct{}{}:
		default:
		}
	}
}

func (s *RedisSink) take() map[pendingKey][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.pending
	s.pending = make(map[pendingKey][]byte, len(batch))
	return batch
}

// requeue puts a failed batch back, unless newer writes for the same object arrived meanwhile
func (s *RedisSink) requeue(batch map[pendingKey][]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, data := range batch {
		if _, newer := s.pending[k]; !newer {
			s.pending[k] = data
		}
	}
}

// Run flushes every interval (or early when the batch is full) until ctx ends, then flushes once more.
func (s *RedisSink) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.Flush(flushCtx); err != nil {
				s.log.Error().Err(err).Msg("final flush")
			}
			cancel()
			return
		case <-ticker.C:
		case <-s.kick:
		}

		if err := s.Flush(ctx); err != nil {
			s.log.Error().Err(err).Msg("flush")
		}
	}
}

// Flush writes all pending changes in one pipeline.
func (s *RedisSink) Flush(ctx context.Context) error {
	batch := s.take()
	if len(batch) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for k, data := range batch {
		if data == nil {
			pipe.HDel(ctx, BoardKey(k.board), k.object)
			continue
		}
		pipe.HSet(ctx, BoardKey(k.board), k.object, data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		s.requeue(batch)
		return fmt.Errorf("persist.RedisSink.Flush: %w", err)
	}

	s.log.Debug().Int("writes", len(batch)).Msg("flushed")
	return nil
}

func (s *RedisSink) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("persist.RedisSink.Close: %w", err)
	}
	return nil
}
