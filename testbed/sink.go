package testbed

import (
	"github.com/sarchlab/coupler/coupling"
	"github.com/sarchlab/coupler/sim"
)

// A Sample is one value array a Sink received.
type Sample struct {
	Time   sim.VTimeInSec
	Var    string
	Values []float64
}

// A Sink accepts any variable and keeps every array it receives.
type Sink struct {
	model

	history []Sample
	updates []sim.VTimeInSec
}

// NewSink creates a sink for a port.
func NewSink(name string) *Sink {
	return &Sink{model: newModel(name)}
}

// Initialize reads the common settings.
func (s *Sink) Initialize(args coupling.InitArgs) error {
	return s.setup(args.Scope)
}

// Update moves the sink to the given time.
func (s *Sink) Update(until sim.VTimeInSec) error {
	if err := s.advance(until); err != nil {
		return err
	}

	s.updates = append(s.updates, until)

	return nil
}

// SetValue records the values at the current time.
func (s *Sink) SetValue(name string, values []float64) error {
	s.values[name] = values
	s.history = append(s.history, Sample{Time: s.now, Var: name, Values: values})

	return nil
}

// History returns the samples in the order they arrived.
func (s *Sink) History() []Sample {
	return s.history
}

// Updates returns the times the sink was updated to.
func (s *Sink) Updates() []sim.VTimeInSec {
	return s.updates
}
