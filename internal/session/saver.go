package session

import (
	"context"
	"sync"
	"time"

	"github.com/diewo77/window-configurator/internal/store"
	"go.uber.org/zap"
)

const saveTimeout = 5 * time.Second

type saveOp struct {
	key     string
	value   []byte
	clear   bool
	barrier chan struct{}
}

// saver writes to the store from a single goroutine so writes land in the
// order they were issued. Callers never wait for it except through flush.
type saver struct {
	store  store.ConfigStore
	logger *zap.Logger

	mu      sync.Mutex
	queue   []saveOp
	closed  bool
	lastErr error

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
}

func newSaver(s store.ConfigStore, logger *zap.Logger) *saver {
	sv := &saver{
		store:  s,
		logger: logger,
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go sv.run()
	return sv
}

func (s *saver) save(key string, value []byte) { s.enqueue(saveOp{key: key, value: value}) }

func (s *saver) clear(key string) { s.enqueue(saveOp{key: key, clear: true}) }

func (s *saver) enqueue(op saveOp) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if op.barrier == nil {
			s.logger.Warn("persist after close dropped", zap.String("key", op.key))
		}
		return false
	}
	s.queue = append(s.queue, op)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return true
}

// flush blocks until every write queued before the call has been attempted.
func (s *saver) flush(ctx context.Context) error {
	barrier := make(chan struct{})
	if !s.enqueue(saveOp{barrier: barrier}) {
		return nil
	}
	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close drains the queue and stops the worker.
func (s *saver) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	s.mu.Unlock()
	close(s.quit)
	<-s.done
}

func (s *saver) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *saver) take() ([]saveOp, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ops := s.queue
	s.queue = nil
	return ops, s.closed
}

func (s *saver) run() {
	defer close(s.done)
	for {
		ops, closed := s.take()
		for _, op := range ops {
			s.apply(op)
		}
		if len(ops) > 0 {
			continue
		}
		if closed {
			return
		}
		select {
		case <-s.wake:
		case <-s.quit:
		}
	}
}

func (s *saver) apply(op saveOp) {
	if op.barrier != nil {
		close(op.barrier)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	var err error
	if op.clear {
		err = s.store.Clear(ctx, op.key)
	} else {
		err = s.store.Save(ctx, op.key, op.value)
	}
	if err != nil {
		s.logger.Error("persist configurator state", zap.String("key", op.key), zap.Bool("clear", op.clear), zap.Error(err))
	}
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
