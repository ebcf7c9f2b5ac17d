package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/kuponqurban/kupon/internal/errs"
	"github.com/kuponqurban/kupon/internal/layout"
)

// Session owns the canonical options of an interactive form. Every change
// supersedes the run in flight: only the newest run is ever committed, and
// a new cell measurement relays out the committed coupons without
// generating them again.
type Session struct {
	gen *Generator

	mu       sync.Mutex
	options  Options
	seq      uint64
	cancel   context.CancelFunc
	current  *Run
	measured *layout.CellSize
}

// NewSession creates a session starting from the generator's options.
// The generator's encoder, browser and logger serve every run.
func NewSession(g *Generator) *Session {
	return &Session{gen: g, options: g.Options()}
}

// Options returns the canonical options
func (s *Session) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

// Current returns the last committed run, or nil before the first commit.
func (s *Session) Current() *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update replaces the options and cancels the run in flight. The next
// Start uses the new options.
func (s *Session) Update(options Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = options
	s.seq++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Start generates a run from the current options and the latest cell
// measurement. If Update or another Start happens before it finishes, its
// result is discarded and ErrStaleRun is returned.
func (s *Session) Start(ctx context.Context) (*Run, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	snapshot := s.options
	measured := s.measured
	s.mu.Unlock()
	defer cancel()

	run, err := s.run(ctx, snapshot, seq, measured)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != seq {
		s.gen.log().DebugContext(ctx, "discarding stale run", "seq", seq, "current", s.seq)
		return nil, fmt.Errorf("%w: run %d superseded by %d", errs.ErrStaleRun, seq, s.seq)
	}
	s.cancel = nil
	if err != nil {
		return nil, err
	}
	// A measurement observed while generating applies to this run too.
	if s.measured != measured {
		relaid, err := s.gen.paginate(run.Options, seq, run.Items, s.measured)
		if err != nil {
			return nil, err
		}
		relaid.logo = run.logo
		run = relaid
	}
	s.current = run
	return run, nil
}

func (s *Session) run(ctx context.Context, o Options, seq uint64, measured *layout.CellSize) (*Run, error) {
	o, err := o.Validate()
	if err != nil {
		return nil, err
	}
	return s.gen.generate(ctx, o, seq, measured)
}

// Observe records the latest rendered cell size and relays out the
// committed run from scratch. The committed run is replaced by the returned
// one; runs handed out earlier stay untouched. An invalid size clears the
// measurement, returning the layout to the declared grid. Before the first
// commit the measurement is only stored and Observe returns nil.
func (s *Session) Observe(cell layout.CellSize) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.measured = nil
	if cell.Valid() {
		c := cell
		s.measured = &c
	}
	if s.current == nil {
		return nil, nil
	}

	prev := s.current
	run, err := s.gen.paginate(prev.Options, prev.Seq, prev.Items, s.measured)
	if err != nil {
		return nil, err
	}
	run.logo = prev.logo
	s.current = run
	return run, nil
}
