package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/netem"
)

func newDevicesCommand(ctx context.Context) *cobra.Command {
	opts := newClientOptions()

	cmd := &cobra.Command{
		Use:     "devices",
		Aliases: []string{"nics"},
		Short:   "List the network devices of the backend host",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.client().Devices(ctx)
			if err != nil {
				return errors.Wrap(err, "failed to list devices")
			}
			return printDevices(cmd.OutOrStdout(), p)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func printDevices(out io.Writer, p *netem.DevicesPayload) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tIP\tLABEL")
	fmt.Fprintln(w, "----\t--\t-----")
	for _, nic := range p.AllDevices {
		ip := nic.IP
		if ip == "" {
			ip = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", nic.Name, ip, nic.Label)
	}
	return w.Flush()
}
