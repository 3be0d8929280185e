package client

import (
	"context"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/netem"
)

// Backend is the part of the backend API used to synchronize a model
type Backend interface {
	Refresh(ctx context.Context) (*netem.RefreshPayload, error)
	Apply(ctx context.Context, p *netem.ApplyPayload) error
}

// Pull replaces the content of m with the settings currently programmed by the backend.
// m is left unchanged on failure.
func Pull(ctx context.Context, b Backend, m *netem.Model) error {
	p, err := b.Refresh(ctx)
	if err != nil {
		return err
	}
	return m.ApplyRefreshResponse(p)
}

// Push sends the content of m to the backend. nothing is sent if m fails the device check.
func Push(ctx context.Context, b Backend, m *netem.Model) error {
	p, err := m.ToApplyPayload()
	if err != nil {
		return err
	}
	return b.Apply(ctx, p)
}
