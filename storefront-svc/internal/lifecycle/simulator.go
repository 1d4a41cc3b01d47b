// Package lifecycle advances placed orders through their delivery statuses on
// a fixed timetable. Each order is tracked independently of whoever is
// looking at it and stops advancing once its context is cancelled.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/Ram071/market/storefront-svc/internal/domain"

	"go.uber.org/zap"
)

// Stage is a status reached After time units from the order's placement.
type Stage struct {
	Status domain.OrderStatus
	After  int
}

// DefaultStages stop at delivering; nothing ever reports the food as delivered.
var DefaultStages = []Stage{
	{Status: domain.StatusPreparing, After: 3},
	{Status: domain.StatusDelivering, After: 6},
}

var DeliveredStage = Stage{Status: domain.StatusDelivered, After: 9}

// ApplyFunc moves an order from one status to the next. It returns false if
// the order is gone or is no longer in status from.
type ApplyFunc func(orderID string, from, to domain.OrderStatus) bool

type Simulator struct {
	clock  Clock
	unit   time.Duration
	stages []Stage
	logger *zap.Logger

	mu     sync.Mutex
	tracks map[string]*track
}

type track struct {
	orderID string
	placed  time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	release func() bool
	apply   ApplyFunc
	timer   Timer
}

type Option func(*Simulator)

func WithClock(c Clock) Option { return func(s *Simulator) { s.clock = c } }

func WithUnit(d time.Duration) Option { return func(s *Simulator) { s.unit = d } }

func WithLogger(l *zap.Logger) Option { return func(s *Simulator) { s.logger = l } }

// WithDelivered appends the delivered stage to the timetable.
func WithDelivered() Option {
	return func(s *Simulator) {
		s.stages = append(append([]Stage{}, s.stages...), DeliveredStage)
	}
}

func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		clock:  RealClock(),
		unit:   time.Second,
		stages: DefaultStages,
		logger: zap.NewNop(),
		tracks: make(map[string]*track),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Stages() []Stage {
	return append([]Stage{}, s.stages...)
}

// Track schedules the remaining transitions of order. Stage deadlines count
// from order.Date, or from now when the order carries no date. Tracking stops
// when ctx is cancelled, when Cancel is called for the order, or after the
// last stage.
func (s *Simulator) Track(ctx context.Context, order domain.Order, apply ApplyFunc) {
	placed := order.Date
	if placed.IsZero() {
		placed = s.clock.Now()
	}
	tctx, cancel := context.WithCancel(ctx)
	t := &track{orderID: order.ID, placed: placed, ctx: tctx, cancel: cancel, apply: apply}

	s.mu.Lock()
	// drop takes s.mu, so it cannot observe t before release is set
	t.release = context.AfterFunc(tctx, func() { s.drop(t) })
	if prev, ok := s.tracks[order.ID]; ok {
		s.stopLocked(prev)
	}
	s.tracks[order.ID] = t
	s.mu.Unlock()

	s.logger.Info("tracking order", zap.String("order_id", order.ID), zap.String("status", string(order.Status)))
	s.schedule(t, order.Status)
}

func (s *Simulator) schedule(t *track, from domain.OrderStatus) {
	idx := s.nextStage(from)
	if idx < 0 {
		s.finish(t)
		return
	}
	st := s.stages[idx]
	delay := t.placed.Add(time.Duration(st.After) * s.unit).Sub(s.clock.Now())
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ctx.Err() != nil {
		return
	}
	t.timer = s.clock.AfterFunc(delay, func() { s.fire(t, from, st) })
}

func (s *Simulator) nextStage(from domain.OrderStatus) int {
	next, ok := from.Next()
	if !ok {
		return -1
	}
	for i, st := range s.stages {
		if st.Status == next {
			return i
		}
	}
	return -1
}

func (s *Simulator) fire(t *track, from domain.OrderStatus, st Stage) {
	if t.ctx.Err() != nil {
		return
	}
	if !t.apply(t.orderID, from, st.Status) {
		s.logger.Warn("dropping stale transition",
			zap.String("order_id", t.orderID),
			zap.String("from", string(from)),
			zap.String("to", string(st.Status)),
		)
		s.finish(t)
		return
	}
	s.schedule(t, st.Status)
}

// Cancel stops every pending transition of orderID.
func (s *Simulator) Cancel(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tracks[orderID]; ok {
		s.stopLocked(t)
	}
}

func (s *Simulator) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tracks {
		s.stopLocked(t)
	}
}

// Tracking reports whether orderID still has transitions pending.
func (s *Simulator) Tracking(orderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tracks[orderID]
	return ok
}

func (s *Simulator) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tracks)
}

func (s *Simulator) stopLocked(t *track) {
	t.release()
	t.cancel()
	if t.timer != nil {
		t.timer.Stop()
	}
	if s.tracks[t.orderID] == t {
		delete(s.tracks, t.orderID)
	}
}

func (s *Simulator) finish(t *track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(t)
}

// drop runs once the track's context is done.
func (s *Simulator) drop(t *track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(t)
	s.logger.Debug("order tracking finished", zap.String("order_id", t.orderID))
}
