package cmd

import (
	"errors"
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/coupler/config"
	"github.com/sarchlab/coupler/coupling"
	"github.com/sarchlab/coupler/sim"
	"github.com/sarchlab/coupler/testbed"
)

var errNoEndTime = errors.New("no end time: set end_time or pass --until")

type scheduleOptions struct {
	*rootOptions

	until    float64
	interval float64
}

func newScheduleCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &scheduleOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schedule <config>",
		Short: "Print the coupling boundaries of a run without running it.",
		Long: `Schedule initializes the ports to find the start time and the ` +
			`coupling interval, prints every boundary a run would stop at, ` +
			`and finalizes the ports again.`,
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

			return opts.schedule(cmd, cfg, until)
		},
	}

	cmd.Flags().Float64Var(&opts.until, "until", 0,
		"time to schedule to (default end_time of the config)")
	cmd.Flags().Float64Var(&opts.interval, "interval", 0,
		"coupling interval (default from the config and the ports)")

	return cmd
}

func (o *scheduleOptions) schedule(
	cmd *cobra.Command,
	cfg *config.Config,
	until sim.VTimeInSec,
) error {
	d, err := coupling.NewDriver(cfg, testbed.Registry(),
		coupling.WithLogger(o.logger))
	if err != nil {
		return err
	}

	if err := d.Initialize(); err != nil {
		return errors.Join(err, d.Finalize())
	}

	interval := d.Interval()
	if o.interval > 0 {
		interval = o.interval
	}

	boundaries, err := coupling.StepBoundaries(d.Now(), until, interval)
	if err != nil {
		return errors.Join(err, d.Finalize())
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "start %g, until %g, interval %g\n", d.Now(), until, interval)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tTIME")

	for i, t := range boundaries {
		fmt.Fprintf(tw, "%d\t%g\n", i, t)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	return d.Finalize()
}

// endTime picks --until when given, the end_time of the config otherwise.
func endTime(
	cmd *cobra.Command,
	cfg *config.Config,
	until float64,
) (sim.VTimeInSec, error) {
	if !cmd.Flags().Changed("until") {
		until = cfg.EndTime
		if until <= 0 {
			return 0, errNoEndTime
		}
	}

	if math.IsInf(until, 0) || math.IsNaN(until) {
		return 0, fmt.Errorf("cannot run until %v", until)
	}

	return until, nil
}
