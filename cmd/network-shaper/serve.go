package main

import (
	"context"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/server"
)

func newServeCommand(ctx context.Context) *cobra.Command {
	opts := server.NewOptions()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Restore the persisted shaping and serve the HTTP API",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			srv, err := server.NewServer(opts)
			if err != nil {
				klog.Exit(err)
			}

			if err = srv.Run(ctx); err != nil {
				klog.Exit(err)
			}
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}
