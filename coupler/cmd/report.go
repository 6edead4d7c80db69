package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sarchlab/coupler/datarecording"
)

type reportOptions struct {
	*rootOptions

	run       string
	transfers bool
}

func newReportCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &reportOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report <database>",
		Short: "Summarize a recorded run.",
		Long: `Report reads a database written by "coupler run" and prints ` +
			`how the run was started, the final state of every port and the ` +
			`time spent in each step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := datarecording.NewReader(args[0])
			if err != nil {
				return err
			}
			defer reader.Close()

			datarecording.MapCouplingTables(reader)

			return opts.report(cmd.Context(), cmd.OutOrStdout(), reader)
		},
	}

	cmd.Flags().StringVar(&opts.run, "run", "",
		"only report this run id (default every run)")
	cmd.Flags().BoolVar(&opts.transfers, "transfers", false,
		"also list every transfer")

	return cmd
}

func (o *reportOptions) params(orderBy string) datarecording.QueryParams {
	p := datarecording.QueryParams{OrderBy: orderBy}
	if o.run != "" {
		p.Where = "Run = ?"
		p.Args = []any{o.run}
	}

	return p
}

func (o *reportOptions) report(
	ctx context.Context,
	w io.Writer,
	reader datarecording.DataReader,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	execs, _, err := reader.Query(ctx, datarecording.TableExec,
		datarecording.QueryParams{})
	if err != nil {
		return err
	}

	for _, e := range execs {
		entry := e.(*datarecording.ExecEntry)
		fmt.Fprintf(w, "%-18s %s\n", entry.Property+":", entry.Value)
	}

	if err := o.reportPorts(ctx, w, reader); err != nil {
		return err
	}

	if err := o.reportSteps(ctx, w, reader); err != nil {
		return err
	}

	if o.transfers {
		return o.reportTransfers(ctx, w, reader)
	}

	return nil
}

func (o *reportOptions) reportPorts(
	ctx context.Context,
	w io.Writer,
	reader datarecording.DataReader,
) error {
	ports, _, err := reader.Query(ctx, datarecording.TablePort,
		o.params("Run, Port"))
	if err != nil {
		return err
	}

	var rows [][]string
	for _, e := range ports {
		p := e.(*datarecording.PortEntry)
		rows = append(rows, []string{
			p.Run,
			p.Port,
			p.Component,
			fmt.Sprint(p.Active),
			p.Phase + " " + p.Status,
			fmt.Sprintf("%g", p.Time),
			fmt.Sprint(p.Updates),
			fmt.Sprintf("%.3fs", p.WallTime),
			orNone(p.Error),
		})
	}

	fmt.Fprintln(w, titleStyle.Render("Ports"))
	fmt.Fprintln(w, renderTable([]string{
		"RUN", "PORT", "COMPONENT", "ACTIVE", "PHASE", "TIME", "UPDATES",
		"WALL", "ERROR",
	}, rows, hasError))

	return nil
}

func (o *reportOptions) reportSteps(
	ctx context.Context,
	w io.Writer,
	reader datarecording.DataReader,
) error {
	steps, total, err := reader.Query(ctx, datarecording.TableStep,
		o.params("Run, Step"))
	if err != nil {
		return err
	}

	var wall, slowest float64

	slowestStep := -1

	for _, e := range steps {
		s := e.(*datarecording.StepEntry)

		wall += s.WallTime
		if s.WallTime > slowest || slowestStep < 0 {
			slowest, slowestStep = s.WallTime, s.Step
		}
	}

	fmt.Fprintln(w, titleStyle.Render("Steps"))
	fmt.Fprintf(w, "%d steps in %.3fs\n", total, wall)

	if slowestStep >= 0 {
		fmt.Fprintf(w, "slowest step %d took %.3fs\n", slowestStep, slowest)
	}

	return nil
}

func (o *reportOptions) reportTransfers(
	ctx context.Context,
	w io.Writer,
	reader datarecording.DataReader,
) error {
	transfers, _, err := reader.Query(ctx, datarecording.TableTransfer,
		o.params("Run, Step, Binding"))
	if err != nil {
		return err
	}

	var rows [][]string
	for _, e := range transfers {
		t := e.(*datarecording.TransferEntry)
		rows = append(rows, []string{
			fmt.Sprint(t.Step),
			fmt.Sprintf("%g", t.Time),
			t.Binding,
			t.Method,
			fmt.Sprint(t.Count),
			fmt.Sprintf("%g", t.Min),
			fmt.Sprintf("%g", t.Max),
			fmt.Sprintf("%g", t.Mean),
		})
	}

	fmt.Fprintln(w, titleStyle.Render("Transfers"))
	fmt.Fprintln(w, renderTable([]string{
		"STEP", "TIME", "BINDING", "METHOD", "COUNT", "MIN", "MAX", "MEAN",
	}, rows, nil))

	return nil
}
