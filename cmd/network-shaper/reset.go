package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newResetCommand(ctx context.Context) *cobra.Command {
	opts := newClientOptions()

	cmd := &cobra.Command{
		Use:     "reset",
		Aliases: []string{"remove"},
		Short:   "Remove every netem setting programmed by the backend",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.client().Remove(ctx)
			if err != nil {
				return errors.Wrap(err, "failed to remove settings")
			}
			m := opts.newModel()
			if err = m.ApplyRefreshResponse(p); err != nil {
				return err
			}
			return printModel(cmd.OutOrStdout(), m, outputTable)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}
