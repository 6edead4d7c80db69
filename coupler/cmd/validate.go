package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/coupler/config"
	"github.com/sarchlab/coupler/coupling"
	"github.com/sarchlab/coupler/testbed"
)

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config>",
		Short: "Check a configuration and create its components.",
		Long: `Validate checks a configuration against the schema and the ` +
			`consistency rules, then creates the component of every port ` +
			`without initializing it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}

			d, err := coupling.NewDriver(cfg, testbed.Registry(),
				coupling.WithLogger(opts.logger))
			if err != nil {
				return err
			}

			describe(cmd.OutOrStdout(), args[0], d)

			return d.Finalize()
		},
	}
}

func describe(w io.Writer, path string, d *coupling.Driver) {
	cfg := d.Config()
	initOrder, runOrder, finalizeOrder := d.Orders()

	fmt.Fprintf(w, "%s is valid\n", path)
	fmt.Fprintf(w, "name:           %s\n", orNone(cfg.Name))
	fmt.Fprintf(w, "driver:         %s\n", orNone(d.Primary()))
	fmt.Fprintf(w, "ports:          %s\n", joinOrNone(cfg.Ports))
	fmt.Fprintf(w, "optional:       %s\n", joinOrNone(cfg.OptionalPorts))
	fmt.Fprintf(w, "init order:     %s\n", joinOrNone(initOrder))
	fmt.Fprintf(w, "run order:      %s\n", joinOrNone(runOrder))
	fmt.Fprintf(w, "finalize order: %s\n", joinOrNone(finalizeOrder))

	for _, p := range d.Ports() {
		status := "created"
		if !p.Active() {
			status = "inactive: " + rootCause(p.Err())
		}

		fmt.Fprintf(w, "port %s (%s): %s\n", p.Name(), p.Kind(), status)
	}

	for _, b := range d.Bindings() {
		fmt.Fprintf(w, "binding %s (%s)\n", b, b.Method())
	}
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

func joinOrNone(l []string) string {
	return orNone(strings.Join(l, ", "))
}

func rootCause(err error) string {
	if err == nil {
		return "-"
	}

	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}

		err = next
	}
}
