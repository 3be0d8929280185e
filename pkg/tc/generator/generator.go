package generator

import (
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/netem"
	tctypes "github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/types"
)

// Objects is a struct containing TC objects
type Objects struct {
	// QDisc is the netem QDisc that should be attached at the root of the device,
	// nil if no impairment is requested
	QDisc tctypes.QDisc
}

// Generator is an interface to generate Objects from netem parameters
type Generator interface {
	// GenerateFromParams creates Objects that correspond to the provided netem parameters
	GenerateFromParams(params *netem.NetemParams) (*Objects, error)
}
