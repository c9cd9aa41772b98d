package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"citysync-v0/internal/engine/domain"
	journaldomain "citysync-v0/internal/journal/domain"
	sharedlogger "citysync-v0/internal/shared/logger"
)

// PollMode is the poller's current cadence.
type PollMode string

const (
	ModeFast PollMode = "fast"
	ModeSlow PollMode = "slow"
)

// PollerConfig holds the adaptive polling parameters.
type PollerConfig struct {
	FastInterval   time.Duration
	SlowInterval   time.Duration
	QuietThreshold int
}

func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		FastInterval:   1 * time.Second,
		SlowInterval:   5 * time.Second,
		QuietThreshold: 10,
	}
}

// NextMode is the adaptive transition: any observed change snaps back
// to fast polling and resets the quiet streak; a quiet streak reaching
// the threshold drops to slow. It is a pure function so the policy can
// be tested without running the loop.
func NextMode(mode PollMode, quietCycles int, changed bool, threshold int) (PollMode, int) {
	if changed {
		return ModeFast, 0
	}
	quietCycles++
	if mode == ModeFast && quietCycles >= threshold {
		return ModeSlow, quietCycles
	}
	return mode, quietCycles
}

// Fetcher retrieves the raw bulk payload from the source.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]byte, error)
}

// Recorder receives per-cycle instrumentation. Implementations are
// optional; a nil Recorder disables it.
type Recorder interface {
	RecordCycle(mode string, duration time.Duration, result journaldomain.Cycle)
	RecordFetchError()
	RecordCacheSize(n int)
}

// PollerStatus is the externally visible poller state.
type PollerStatus struct {
	Running       bool      `json:"running"`
	Mode          PollMode  `json:"mode"`
	QuietCycles   int       `json:"quiet_cycles"`
	Cycles        uint64    `json:"cycles"`
	LastCycleAt   time.Time `json:"last_cycle_at"`
	LastError     string    `json:"last_error,omitempty"`
	LastTotal     int       `json:"last_total"`
	LastNew       int       `json:"last_new"`
	LastChanged   int       `json:"last_changed"`
	LastRemoved   int       `json:"last_removed"`
	LastUnchanged int       `json:"last_unchanged"`
	LastSkipped   int       `json:"last_skipped"`
}

// Poller drives the sync loop: fetch, parse, diff, apply, journal,
// notify, then adapt the cadence to what it saw.
type Poller struct {
	logger   sharedlogger.Logger
	cache    *Cache
	differ   *domain.Differ
	fetcher  Fetcher
	journal  journaldomain.Repository
	notifier Notifier
	recorder Recorder
	config   PollerConfig

	mu          sync.Mutex
	running     bool
	inFlight    bool
	mode        PollMode
	quietCycles int
	cycles      uint64
	lastStatus  PollerStatus

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPoller wires the sync loop. journal, notifier and recorder may be
// nil; the loop then runs without history, notifications or metrics.
func NewPoller(
	logger sharedlogger.Logger,
	cache *Cache,
	differ *domain.Differ,
	fetcher Fetcher,
	journal journaldomain.Repository,
	notifier Notifier,
	recorder Recorder,
	config PollerConfig,
) *Poller {
	if config.FastInterval <= 0 || config.SlowInterval <= 0 || config.QuietThreshold <= 0 {
		config = DefaultPollerConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		logger:   logger,
		cache:    cache,
		differ:   differ,
		fetcher:  fetcher,
		journal:  journal,
		notifier: notifier,
		recorder: recorder,
		config:   config,
		mode:     ModeFast,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the polling loop. Starting an already running poller
// is a no-op. A restart always begins on the fast cadence with a fresh
// quiet streak, whatever state the previous run stopped in.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mode = ModeFast
	p.quietCycles = 0
	ctx, cancel := context.WithCancel(context.Background())
	p.ctx, p.cancel = ctx, cancel
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(ctx)
	}()

	p.logger.Info("Poller started", "fast_interval", p.config.FastInterval, "slow_interval", p.config.SlowInterval, "quiet_threshold", p.config.QuietThreshold)
}

// Stop halts the loop. A cycle still in flight is discarded: its fetch
// is cancelled and its results never reach the cache.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	p.mu.Unlock()

	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		p.logger.Warn("Poller stop timeout exceeded", "err", ctx.Err())
		return ctx.Err()
	case <-done:
		p.logger.Info("Poller stopped")
		return nil
	}
}

// RefreshNow runs one cycle immediately, outside the loop's cadence.
// It shares the in-flight guard with the loop; a concurrent cycle makes
// it return ErrCycleInFlight.
func (p *Poller) RefreshNow(ctx context.Context) error {
	return p.runCycle(ctx)
}

// ErrCycleInFlight means a sync cycle was requested while another one
// was still running.
var ErrCycleInFlight = errors.New("sync cycle already in flight")

// Status returns a copy of the current poller state.
func (p *Poller) Status() PollerStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := p.lastStatus
	st.Running = p.running
	st.Mode = p.mode
	st.QuietCycles = p.quietCycles
	st.Cycles = p.cycles
	return st
}

func (p *Poller) run(ctx context.Context) {
	timer := time.NewTimer(p.interval())
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			if err := p.runCycle(ctx); err != nil && !errors.Is(err, ErrCycleInFlight) && !errors.Is(err, context.Canceled) {
				p.logger.Warn("Sync cycle failed", "err", err)
			}
			timer.Reset(p.interval())
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode == ModeSlow {
		return p.config.SlowInterval
	}
	return p.config.FastInterval
}

func (p *Poller) runCycle(ctx context.Context) error {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		p.logger.Debug("Skipping cycle, previous one still in flight")
		return ErrCycleInFlight
	}
	p.inFlight = true
	mode := p.mode
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
	}()

	started := time.Now()
	uid := uuid.NewString()

	body, err := p.fetcher.FetchAll(ctx)
	if err != nil {
		// A failed fetch leaves cache and cadence untouched.
		p.logger.Warn("Fetch failed", "mode", mode, "err", err)
		p.recordFailure(ctx, started, mode, err)
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	records, warnings, err := domain.ParsePayload(body)
	if err != nil {
		p.logger.Error("Payload rejected", "err", err)
		p.recordFailure(ctx, started, mode, err)
		return err
	}
	for _, w := range warnings {
		p.logger.Warn("Record skipped", "index", w.Index, "reason", w.Reason)
	}

	result := p.differ.Diff(records, p.cache.SnapshotAll())

	// Stop during the fetch discards the cycle entirely.
	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, ent := range result.Entities {
		p.cache.Upsert(ent)
	}

	cycle := summarize(result, started, string(mode), len(warnings))
	changed := cycle.New+cycle.Changed+cycle.Removed > 0

	p.mu.Lock()
	p.mode, p.quietCycles = NextMode(p.mode, p.quietCycles, changed, p.config.QuietThreshold)
	p.cycles++
	cycleNum := p.cycles
	p.lastStatus = PollerStatus{
		LastCycleAt:   started,
		LastTotal:     cycle.Total,
		LastNew:       cycle.New,
		LastChanged:   cycle.Changed,
		LastRemoved:   cycle.Removed,
		LastUnchanged: cycle.Unchanged,
		LastSkipped:   cycle.Skipped,
	}
	newMode := p.mode
	p.mu.Unlock()

	p.logger.Debug("Sync cycle done",
		"cycle", cycleNum, "uid", uid, "mode", newMode, "total", cycle.Total,
		"new", cycle.New, "changed", cycle.Changed, "removed", cycle.Removed,
		"duration", cycle.Duration)

	p.journalCycle(ctx, cycle, result)
	p.notify(uid, cycleNum, result)

	if p.recorder != nil {
		p.recorder.RecordCycle(string(newMode), cycle.Duration, cycle)
		p.recorder.RecordCacheSize(p.cache.Len())
	}

	return nil
}

func summarize(result domain.DiffResult, started time.Time, mode string, skipped int) journaldomain.Cycle {
	cycle := journaldomain.Cycle{
		StartedAt: started,
		Duration:  time.Since(started),
		Mode:      mode,
		Total:     len(result.Entities),
		Skipped:   skipped,
	}
	for _, ch := range result.Changes {
		switch ch.Kind {
		case domain.ChangeNew:
			cycle.New++
		case domain.ChangeAttribute, domain.ChangeColor:
			cycle.Changed++
		case domain.ChangeRemoved:
			cycle.Removed++
		case domain.ChangeUnchanged:
			cycle.Unchanged++
		}
	}
	return cycle
}

// recordFailure journals an aborted cycle so failed syncs stay visible
// in the history. Cycles aborted by shutdown are discarded, not
// journaled.
func (p *Poller) recordFailure(ctx context.Context, started time.Time, mode PollMode, err error) {
	p.mu.Lock()
	p.lastStatus.LastCycleAt = started
	p.lastStatus.LastError = err.Error()
	p.mu.Unlock()

	if p.recorder != nil {
		p.recorder.RecordFetchError()
	}

	if p.journal == nil || ctx.Err() != nil {
		return
	}
	cycle := journaldomain.Cycle{
		StartedAt:  started,
		Duration:   time.Since(started),
		Mode:       string(mode),
		FetchError: err.Error(),
	}
	if _, jerr := p.journal.InsertCycle(ctx, cycle); jerr != nil {
		p.logger.Error("Failed to journal cycle", "err", jerr)
	}
}

func (p *Poller) journalCycle(ctx context.Context, cycle journaldomain.Cycle, result domain.DiffResult) {
	if p.journal == nil {
		return
	}

	cycleID, err := p.journal.InsertCycle(ctx, cycle)
	if err != nil {
		p.logger.Error("Failed to journal cycle", "err", err)
		return
	}

	changes := make([]journaldomain.Change, 0, cycle.New+cycle.Changed+cycle.Removed)
	for _, ch := range result.Changes {
		if ch.Kind == domain.ChangeUnchanged {
			continue
		}
		changes = append(changes, journaldomain.Change{
			CycleID:    cycleID,
			Key:        ch.Key,
			Kind:       string(ch.Kind),
			ObservedAt: cycle.StartedAt,
		})
	}
	if len(changes) == 0 {
		return
	}
	if err := p.journal.InsertChanges(ctx, cycleID, changes); err != nil {
		p.logger.Error("Failed to journal changes", "err", err)
	}
}

func (p *Poller) notify(uid string, cycleNum uint64, result domain.DiffResult) {
	if p.notifier == nil {
		return
	}

	var changes []domain.ChangeRecord
	for _, ch := range result.Changes {
		if ch.Kind == domain.ChangeUnchanged {
			continue
		}
		changes = append(changes, ch)
	}
	if len(changes) == 0 {
		return
	}
	p.notifier.NotifyChanges(ChangeNotification{UID: uid, Cycle: cycleNum, Changes: changes})
}
