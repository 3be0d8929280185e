package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/client"
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/netem"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func newShowCommand(ctx context.Context) *cobra.Command {
	opts := newClientOptions()
	output := outputTable

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the netem settings currently programmed by the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputTable && output != outputJSON {
				return errors.Errorf("unknown output format %q", output)
			}

			m := opts.newModel()
			if err := client.Pull(ctx, opts.client(), m); err != nil {
				return errors.Wrap(err, "failed to read settings")
			}
			return printModel(cmd.OutOrStdout(), m, output)
		},
	}
	opts.AddFlags(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", output, "Output format, one of: table, json.")
	return cmd
}

func printModel(out io.Writer, m *netem.Model, output string) error {
	if output == outputJSON {
		p, err := m.ToApplyPayload()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, dir := range m.Directions() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		device := m.Device(dir)
		if device == "" {
			device = "<none>"
		}
		fmt.Fprintf(w, "%s: %s\n", dir, device)
		fmt.Fprintln(w, "SECTION\tSTATE\tFIELD\tVALUE\tEDITABLE")
		fmt.Fprintln(w, "-------\t-----\t-----\t-----\t--------")
		for _, section := range netem.Sections {
			state := color.RedString("off")
			if m.SectionToggle(dir, section) {
				state = color.GreenString("on")
			}
			for j, path := range netem.FieldPaths(section) {
				v, err := m.Field(dir, path)
				if err != nil {
					return err
				}
				name, st := "", ""
				if j == 0 {
					name, st = string(section), state
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name, st, path, formatFloat(v), yesNo(m.IsEnabled(dir, path)))
			}
			if section == netem.SectionDelay {
				s, err := m.Settings(dir)
				if err != nil {
					return err
				}
				dist := string(s.Delay.Distribution)
				if dist == "" {
					dist = "-"
				}
				fmt.Fprintf(w, "\t\t%s\t%s\t%s\n", "delay.distribution", dist, yesNo(s.DistributionEnabled()))
			}
		}
	}
	return w.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
