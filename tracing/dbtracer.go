package tracing

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/sarchlab/coupler/coupling"
	"github.com/sarchlab/coupler/datarecording"
)

// DBTracer writes every step and transfer of a run into a DataRecorder, and
// the final state of every port when the run terminates.
type DBTracer struct {
	mu      sync.Mutex
	backend datarecording.DataRecorder
	run     string
	clock   WallClock

	stepStart time.Time
	counts    *CountTracer
	wall      *WallTimeTracer
}

// NewDBTracer creates the coupling tables in the recorder. Rows carry the
// given run name. A nil clock means the system clock.
func NewDBTracer(
	recorder datarecording.DataRecorder,
	run string,
	clock WallClock,
) *DBTracer {
	if clock == nil {
		clock = SystemClock()
	}

	datarecording.CreateCouplingTables(recorder)

	return &DBTracer{
		backend: recorder,
		run:     run,
		clock:   clock,
		counts:  NewCountTracer(),
		wall:    NewWallTimeTracer(clock),
	}
}

// StartStep notes when the step started.
func (t *DBTracer) StartStep(step coupling.Step) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stepStart = t.clock.Now()
	t.wall.StartStep(step)
}

// EndPortUpdate accounts the update for the port summary.
func (t *DBTracer) EndPortUpdate(port *coupling.Port, step coupling.Step) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counts.EndPortUpdate(port, step)
	t.wall.EndPortUpdate(port, step)
}

// EndTransfer writes a summary of the delivered values.
func (t *DBTracer) EndTransfer(b *coupling.Binding, step coupling.Step) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.wall.EndTransfer(b, step)

	entry := datarecording.TransferEntry{
		Run:     t.run,
		Step:    step.Index,
		Time:    step.Time,
		Binding: b.String(),
		Count:   len(b.Last()),
	}

	if m := b.Mapper(); m != nil {
		entry.Method = m.Name()
	}

	if values := b.Last(); len(values) > 0 {
		entry.Min = floats.Min(values)
		entry.Max = floats.Max(values)
		entry.Mean = floats.Sum(values) / float64(len(values))
	}

	t.backend.InsertData(datarecording.TableTransfer, entry)
}

// EndStep writes the step.
func (t *DBTracer) EndStep(step coupling.Step) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.wall.EndStep(step)

	t.backend.InsertData(datarecording.TableStep, datarecording.StepEntry{
		Run:      t.run,
		Step:     step.Index,
		Time:     step.Time,
		Target:   step.Target,
		WallTime: t.clock.Now().Sub(t.stepStart).Seconds(),
	})
}

// Terminate writes the state of every port of the driver and flushes.
func (t *DBTracer) Terminate(d *coupling.Driver) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, p := range d.Snapshot().Ports {
		t.backend.InsertData(datarecording.TablePort, datarecording.PortEntry{
			Run:       t.run,
			Port:      p.Name,
			Component: p.Component,
			Optional:  p.Optional,
			Active:    p.Active,
			Phase:     p.Phase,
			Status:    p.Status,
			Time:      p.Time,
			Updates:   t.counts.Updates(p.Name),
			WallTime:  t.wall.PortTime(p.Name).Seconds(),
			Error:     p.Error,
		})
	}

	t.backend.Flush()
}
