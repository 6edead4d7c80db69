// Package simulation puts together a driver with the services around it:
// recording into a database, tracing and the monitoring server.
package simulation

import (
	"errors"

	"github.com/sarchlab/coupler/coupling"
	"github.com/sarchlab/coupler/datarecording"
	"github.com/sarchlab/coupler/lifecycle"
	"github.com/sarchlab/coupler/monitoring"
	"github.com/sarchlab/coupler/sim"
	"github.com/sarchlab/coupler/tracing"
)

// A Simulation is a driver plus the services attached to it.
type Simulation struct {
	id     string
	driver *coupling.Driver

	dataRecorder datarecording.DataRecorder
	execRecorder *datarecording.ExecRecorder
	dbTracer     *tracing.DBTracer
	counts       *tracing.CountTracer
	monitor      *monitoring.Monitor
	monitorURL   string
	terminated   bool
}

// ID returns the unique id of the run.
func (s *Simulation) ID() string {
	return s.id
}

// Driver returns the driver of the run.
func (s *Simulation) Driver() *coupling.Driver {
	return s.driver
}

// GetDataRecorder returns the data recorder, or nil if recording is off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor, or nil if monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns the address of the monitoring server.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// Counts returns the step and update counts of the run.
func (s *Simulation) Counts() *tracing.CountTracer {
	return s.counts
}

// Execute initializes the driver unless that already happened, runs it
// until the given time and finalizes it. The driver is finalized even if the run fails.
func (s *Simulation) Execute(until sim.VTimeInSec) error {
	d := s.driver

	if !d.Guard().Reached(lifecycle.PhaseInitialize) {
		if err := d.Initialize(); err != nil {
			return errors.Join(err, d.Finalize())
		}
	}

	if err := d.Run(until); err != nil {
		return errors.Join(err, d.Finalize())
	}

	return d.Finalize()
}

// Terminate writes the final state of the ports and closes the database.
// It is safe to call more than once.
func (s *Simulation) Terminate() error {
	if s.terminated {
		return nil
	}

	s.terminated = true

	if s.dataRecorder == nil {
		return nil
	}

	s.dbTracer.Terminate(s.driver)
	s.execRecorder.End()

	return s.dataRecorder.Close()
}
