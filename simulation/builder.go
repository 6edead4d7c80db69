package simulation

import (
	"errors"
	"log/slog"

	"github.com/rs/xid"

	"github.com/sarchlab/coupler/config"
	"github.com/sarchlab/coupler/coupling"
	"github.com/sarchlab/coupler/datarecording"
	"github.com/sarchlab/coupler/monitoring"
	"github.com/sarchlab/coupler/sim"
	"github.com/sarchlab/coupler/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	cfg            *config.Config
	registry       *coupling.Registry
	logger         *slog.Logger
	monitorOn      bool
	monitorPort    int
	recordingOn    bool
	outputFileName string
}

// MakeBuilder creates a new builder. Monitoring and recording are on by
// default.
func MakeBuilder() Builder {
	return Builder{
		monitorOn:   true,
		recordingOn: true,
	}
}

// WithConfig sets the description of the run.
func (b Builder) WithConfig(cfg *config.Config) Builder {
	b.cfg = cfg
	return b
}

// WithRegistry sets the registry the components are created from.
func (b Builder) WithRegistry(reg *coupling.Registry) Builder {
	b.registry = reg
	return b
}

// WithLogger sets the logger handed to the driver. Every driver hook is also
// logged at debug level.
func (b Builder) WithLogger(l *slog.Logger) Builder {
	b.logger = l
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithoutRecording sets the simulation to not write a database.
func (b Builder) WithoutRecording() Builder {
	b.recordingOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.recordingOn && b.outputFileName != "" {
		panic("output file cannot be set when recording is disabled")
	}
}

// Build creates the driver and attaches recording and monitoring to it.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	if b.cfg == nil {
		return nil, errors.New("simulation: no configuration")
	}

	if b.registry == nil {
		return nil, errors.New("simulation: no registry")
	}

	s := &Simulation{
		id:     xid.New().String(),
		counts: tracing.NewCountTracer(),
	}

	var opts []coupling.Option
	if b.logger != nil {
		opts = append(opts, coupling.WithLogger(b.logger))
	}

	d, err := coupling.NewDriver(b.cfg, b.registry, opts...)
	if err != nil {
		return nil, err
	}

	s.driver = d
	tracing.CollectTrace(d, s.counts)

	if b.logger != nil {
		d.AcceptHook(sim.NewLogHook(b.logger))
	}

	if b.recordingOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "coupler_run_" + s.id
		}

		s.dataRecorder = datarecording.New(outputPath)
		s.execRecorder = datarecording.NewExecRecorder(s.dataRecorder)
		s.execRecorder.Start(
			datarecording.ExecEntry{Property: "Run", Value: s.id},
			datarecording.ExecEntry{Property: "Name", Value: d.Name()},
		)

		s.dbTracer = tracing.NewDBTracer(s.dataRecorder, s.id, nil)
		tracing.CollectTrace(d, s.dbTracer)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}

		s.monitor.RegisterDriver(d)
		s.monitorURL = s.monitor.StartServer()
	}

	return s, nil
}
