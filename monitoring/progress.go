package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/coupler/coupling"
	"github.com/sarchlab/coupler/sim"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	sync.Mutex
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

type progressRsp struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

func (b *ProgressBar) snapshot() progressRsp {
	b.Lock()
	defer b.Unlock()

	return progressRsp{
		ID:         b.ID,
		Name:       b.Name,
		StartTime:  b.StartTime,
		Total:      b.Total,
		Finished:   b.Finished,
		InProgress: b.InProgress,
	}
}

// IncrementInProgress adds the number of in-progress element.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress += amount
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// MoveInProgressToFinished reduces the number of in progress item by a certain
// amount and increase the finished item by the same amount.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress -= amount
	b.Finished += amount
}

// progressHook shows every Run of the driver as a bar counting steps.
type progressHook struct {
	monitor *Monitor
	driver  *coupling.Driver
	bar     *ProgressBar
}

func (h *progressHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case coupling.HookPosBeforeRun:
		target := ctx.Item.(sim.VTimeInSec)

		steps, err := coupling.StepBoundaries(
			h.driver.Now(), target, h.driver.Interval())
		if err != nil {
			return
		}

		h.bar = h.monitor.CreateProgressBar(h.driver.Name(), uint64(len(steps)))
	case coupling.HookPosBeforeStep:
		if h.bar != nil {
			h.bar.IncrementInProgress(1)
		}
	case coupling.HookPosAfterStep:
		if h.bar != nil {
			h.bar.MoveInProgressToFinished(1)
		}
	case coupling.HookPosAfterRun, coupling.HookPosRunAborted:
		if h.bar != nil {
			h.monitor.CompleteProgressBar(h.bar)
			h.bar = nil
		}
	}
}

// gate holds the driver before every step while paused.
type gate struct {
	lock   sync.Mutex
	cond   *sync.Cond
	paused bool
}

func newGate() *gate {
	g := &gate{}
	g.cond = sync.NewCond(&g.lock)

	return g
}

func (g *gate) pause() {
	g.lock.Lock()
	g.paused = true
	g.lock.Unlock()
}

func (g *gate) resume() {
	g.lock.Lock()
	g.paused = false
	g.lock.Unlock()

	g.cond.Broadcast()
}

// Func blocks at the start of a step until the gate is open.
func (g *gate) Func(ctx sim.HookCtx) {
	if ctx.Pos != coupling.HookPosBeforeStep {
		return
	}

	g.lock.Lock()
	for g.paused {
		g.cond.Wait()
	}
	g.lock.Unlock()
}
