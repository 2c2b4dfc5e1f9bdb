package main

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultBackupQueue is the queue id snapshots are published on.
const DefaultBackupQueue = "bookshelf:backup"

var (
	_ Queuer = (*redisQueue)(nil)  // ensure redisQueue implements Queuer.
	_ Queuer = (*memoryQueue)(nil) // ensure memoryQueue implements Queuer.
)

// Snapshot is the full content of a storage key right after a successful
// write, or the removal of that key when Deleted is set.
type Snapshot struct {
	Key     string    `json:"key"`
	Value   []byte    `json:"value,omitempty"`
	Deleted bool      `json:"deleted,omitempty"`
	At      time.Time `json:"at"`
}

// Queuer describes a queue of snapshots.
type Queuer interface {
	Push(ctx context.Context, snap Snapshot) error
	Pop(ctx context.Context) (Snapshot, error)
}

// redisQueue represents a redis list based queue.
type redisQueue struct {
	client *redis.Client
	qid    string
}

// NewRedisQueue provides a queue backed by the redis list named qid.
func NewRedisQueue(client *redis.Client, qid string) Queuer {
	if qid == "" {
		qid = DefaultBackupQueue
	}
	return &redisQueue{client: client, qid: qid}
}

// Push enqueues a snapshot at the tail of the list.
func (q *redisQueue) Push(ctx context.Context, snap Snapshot) error {
	snapBytes, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, q.qid, snapBytes).Err()
}

// Pop blocks until a snapshot is available or the context is done.
func (q *redisQueue) Pop(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	infos, err := q.client.BLPop(ctx, 0*time.Second, q.qid).Result()
	if err != nil {
		return snap, err
	}
	err = json.Unmarshal([]byte(infos[1]), &snap)
	return snap, err
}

// memoryQueue is an in-process queue used when no redis server is configured.
type memoryQueue struct {
	mu     sync.Mutex
	items  []Snapshot
	notify chan struct{}
}

// NewMemoryQueue provides an unbounded in-process queue.
func NewMemoryQueue() Queuer {
	return &memoryQueue{notify: make(chan struct{}, 1)}
}

// Push appends the snapshot and wakes up a waiting consumer.
func (q *memoryQueue) Push(_ context.Context, snap Snapshot) error {
	q.mu.Lock()
	q.items = append(q.items, snap)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

// Pop blocks until a snapshot is available or the context is done.
func (q *memoryQueue) Pop(ctx context.Context) (Snapshot, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			snap := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return snap, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		case <-q.notify:
		}
	}
}
