package chat

import (
	"context"
	"sync"
	"time"

	"jamp-chat/internal/database"
	"jamp-chat/pkg/logger"
)

const (
	sessionQueueSize = 256
	sessionTimeout   = 5 * time.Second
)

type sessionOp struct {
	connID string
	name   string
	open   bool
}

// sessionLog writes presence rows off the event loop. One worker drains the queue,
// so a connection's close is always written after its open.
type sessionLog struct {
	repo database.SessionRepository
	ops  chan sessionOp
	done chan struct{}
	once sync.Once
}

func newSessionLog(repo database.SessionRepository) *sessionLog {
	if repo == nil {
		repo = database.NopSessions{}
	}
	l := &sessionLog{
		repo: repo,
		ops:  make(chan sessionOp, sessionQueueSize),
		done: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *sessionLog) open(connID, name string) {
	l.enqueue(sessionOp{connID: connID, name: name, open: true})
}

func (l *sessionLog) end(connID string) {
	l.enqueue(sessionOp{connID: connID})
}

// enqueue never blocks the caller; a full queue loses the write.
func (l *sessionLog) enqueue(op sessionOp) {
	select {
	case l.ops <- op:
	default:
		logger.Warn("Session log queue full, dropping write for %s", op.connID)
	}
}

func (l *sessionLog) run() {
	defer close(l.done)
	for op := range l.ops {
		l.write(op)
	}
}

func (l *sessionLog) write(op sessionOp) {
	ctx, cancel := context.WithTimeout(context.Background(), sessionTimeout)
	defer cancel()

	if op.open {
		if err := l.repo.CreateActiveSession(ctx, op.connID, op.name); err != nil {
			logger.Error("Error creating active session: %v", err)
		}
		return
	}
	if err := l.repo.RemoveActiveSession(ctx, op.connID); err != nil {
		logger.Error("Error removing active session: %v", err)
	}
}

// close drains pending writes. Nothing may be enqueued afterwards.
func (l *sessionLog) close() {
	l.once.Do(func() { close(l.ops) })
	<-l.done
}
