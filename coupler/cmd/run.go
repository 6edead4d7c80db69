package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/sarchlab/coupler/config"
	"github.com/sarchlab/coupler/coupling"
	"github.com/sarchlab/coupler/sim"
	"github.com/sarchlab/coupler/simulation"
	"github.com/sarchlab/coupler/testbed"
)

type runOptions struct {
	*rootOptions

	until       float64
	noMonitor   bool
	monitorPort int
	openMonitor bool
	noRecord    bool
	output      string
	plot        string
}

func newRunCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <config>",
		Short: "Run the coupled components to a time.",
		Long: `Run initializes every port, advances them to the end time and ` +
			`finalizes them. The run is recorded into a SQLite file and can ` +
			`be watched through the monitor while it runs.

Example:
  coupler run ramp.yaml --until 10 --plot sink.forcing
  coupler run ramp.yaml --no-record --open-monitor`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}

			until, err := endTime(cmd, cfg, opts.until)
			if err != nil {
				return err
			}

			return opts.run(cmd, cfg, until)
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&opts.until, "until", 0,
		"time to run to (default end_time of the config)")
	flags.BoolVar(&opts.noMonitor, "no-monitor", false,
		"do not start the monitoring server")
	flags.IntVar(&opts.monitorPort, "monitor-port", 0,
		"port of the monitoring server (default any free port)")
	flags.BoolVar(&opts.openMonitor, "open-monitor", false,
		"open the monitor in a browser")
	flags.BoolVar(&opts.noRecord, "no-record", false,
		"do not record the run into a database")
	flags.StringVarP(&opts.output, "output", "o", "",
		"database file name without the .sqlite3 extension")
	flags.StringVar(&opts.plot, "plot", "",
		"plot the mean of a variable at every step, as <port>.<var>")

	cmd.MarkFlagsMutuallyExclusive("no-monitor", "monitor-port")
	cmd.MarkFlagsMutuallyExclusive("no-monitor", "open-monitor")
	cmd.MarkFlagsMutuallyExclusive("no-record", "output")

	return cmd
}

func (o *runOptions) builder(cfg *config.Config) simulation.Builder {
	b := simulation.MakeBuilder().
		WithConfig(cfg).
		WithRegistry(testbed.Registry()).
		WithLogger(o.logger)

	if o.noMonitor {
		b = b.WithoutMonitoring()
	} else if o.monitorPort > 0 {
		b = b.WithMonitorPort(o.monitorPort)
	}

	if o.noRecord {
		b = b.WithoutRecording()
	} else if o.output != "" {
		b = b.WithOutputFileName(o.output)
	}

	return b
}

func (o *runOptions) run(
	cmd *cobra.Command,
	cfg *config.Config,
	until sim.VTimeInSec,
) error {
	var p *plotter
	if o.plot != "" {
		var err error
		if p, err = newPlotter(o.plot); err != nil {
			return err
		}
	}

	s, err := o.builder(cfg).Build()
	if err != nil {
		return err
	}

	if p != nil {
		if _, err := s.Driver().Port(p.port); err != nil {
			return fmt.Errorf("plot %s: %w", o.plot, err)
		}

		s.Driver().AcceptHook(p)
	}

	if o.openMonitor && s.MonitorURL() != "" {
		if err := browser.OpenURL(s.MonitorURL()); err != nil {
			o.logger.Warn("cannot open the monitor", "url", s.MonitorURL(), "error", err)
		}
	}

	runErr := s.Execute(until)

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s: %s at %g after %d steps",
		orNone(s.Driver().Name()), s.Driver().State(), s.Driver().Now(),
		s.Counts().Steps())))
	fmt.Fprintln(w, summary(s))

	if p != nil && p.err == nil && len(p.series) > 0 {
		fmt.Fprintln(w, p.render())
	}

	errs := []error{runErr, s.Terminate()}
	if p != nil {
		errs = append(errs, p.err)
	}

	return errors.Join(errs...)
}

func summary(s *simulation.Simulation) string {
	headers := []string{"PORT", "COMPONENT", "ACTIVE", "PHASE", "TIME", "UPDATES", "ERROR"}

	var rows [][]string
	for _, p := range s.Driver().Snapshot().Ports {
		rows = append(rows, []string{
			p.Name,
			p.Component,
			fmt.Sprint(p.Active),
			p.Phase + " " + p.Status,
			fmt.Sprintf("%g", p.Time),
			fmt.Sprint(s.Counts().Updates(p.Name)),
			orNone(p.Error),
		})
	}

	return renderTable(headers, rows, hasError)
}

// plotter samples the mean of a variable after every step.
type plotter struct {
	port, variable string

	times  []sim.VTimeInSec
	series []float64
	err    error
}

func newPlotter(target string) (*plotter, error) {
	port, variable, ok := strings.Cut(target, ".")
	if !ok || port == "" || variable == "" {
		return nil, fmt.Errorf("plot %q: want <port>.<var>", target)
	}

	return &plotter{port: port, variable: variable}, nil
}

func (p *plotter) Func(ctx sim.HookCtx) {
	if ctx.Pos != coupling.HookPosAfterStep || p.err != nil {
		return
	}

	d := ctx.Domain.(*coupling.Driver)
	step := ctx.Item.(coupling.Step)

	var values []float64

	err := d.Inspect(p.port, func(c coupling.Component) {
		if c != nil {
			values, p.err = c.GetValue(p.variable)
		}
	})
	if err != nil {
		p.err = err
	}

	if p.err != nil || len(values) == 0 {
		return
	}

	p.times = append(p.times, step.Time)
	p.series = append(p.series, floats.Sum(values)/float64(len(values)))
}

func (p *plotter) render() string {
	caption := fmt.Sprintf("mean %s.%s from %g to %g",
		p.port, p.variable, p.times[0], p.times[len(p.times)-1])

	return asciigraph.Plot(p.series,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption(caption),
	)
}
