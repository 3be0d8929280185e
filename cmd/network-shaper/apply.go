package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/client"
)

func newApplyCommand(ctx context.Context) *cobra.Command {
	opts := newClientOptions()
	e := &edits{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Edit the current netem settings and apply them",
		Long: `apply reads the settings currently programmed by the backend, applies the requested
edits on top of them and sends the result back. Fields of sections which are off,
or which depend on a field that is zero, are kept but not applied.`,
		Example: `  network-shaper apply --device inbound=eth0 --enable inbound.delay --set inbound.delay.time=100
  network-shaper apply --single-device --enable loss --set loss.percent=2.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e.allowNoIPChanged = cmd.Flags().Changed("allow-no-ip")

			c := opts.client()
			m := opts.newModel()
			if err := client.Pull(ctx, c, m); err != nil {
				return errors.Wrap(err, "failed to read settings")
			}
			if err := e.apply(m); err != nil {
				return err
			}
			klog.V(4).InfoS("applying settings", "directions", m.Directions())
			if err := client.Push(ctx, c, m); err != nil {
				return errors.Wrap(err, "failed to apply settings")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings applied successfully")
			return nil
		},
	}
	opts.AddFlags(cmd.Flags())
	e.AddFlags(cmd.Flags())
	return cmd
}
