// Package tracing follows the steps of a coupled run. Tracers are attached
// to a driver with CollectTrace and see every step, port update and value
// transfer as it happens.
package tracing

import (
	"time"

	"github.com/sarchlab/coupler/coupling"
)

// A Tracer follows the steps of a coupled run.
type Tracer interface {
	// StartStep is called before the ports are advanced to a boundary.
	StartStep(step coupling.Step)

	// EndPortUpdate is called after a port is advanced.
	EndPortUpdate(port *coupling.Port, step coupling.Step)

	// EndTransfer is called after a binding delivered its values.
	EndTransfer(binding *coupling.Binding, step coupling.Step)

	// EndStep is called once every port reached the boundary.
	EndStep(step coupling.Step)
}

// A WallClock tells the real time.
type WallClock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns the clock of the machine.
func SystemClock() WallClock {
	return systemClock{}
}
