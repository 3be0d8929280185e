package tc

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/generator"
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/types"
)

// NewActuatorTCImpl creates a new ActuatorTCImpl
func NewActuatorTCImpl(tcIfc TC, log klog.Logger) *ActuatorTCImpl {
	return &ActuatorTCImpl{tcAPI: tcIfc, log: log}
}

// ActuatorTCImpl is an Actuator programming the device through a TC
type ActuatorTCImpl struct {
	tcAPI TC
	log   klog.Logger
}

// Actuate implements Actuator interface.
// Only the root netem qdisc is managed. A non netem root qdisc is replaced when shaping
// is requested and left alone when shaping is removed.
func (a *ActuatorTCImpl) Actuate(objects *generator.Objects) error {
	qdiscs, err := a.tcAPI.QDiscList()
	if err != nil {
		return errors.Wrap(err, "failed to list qdiscs")
	}
	current := types.FindRootNetem(qdiscs)

	if objects.QDisc == nil {
		return a.remove(current)
	}

	if current != nil && current.Equals(objects.QDisc) {
		a.log.V(4).Info("root netem qdisc is up to date")
		return nil
	}

	if current == nil {
		if root := findRoot(qdiscs); root != nil {
			a.log.V(2).Info("replacing root qdisc", "type", root.Type())
		}
	}
	a.log.V(4).Info("replacing root netem qdisc", "args", objects.QDisc.GenCmdLineArgs())
	if err = a.tcAPI.QDiscReplace(objects.QDisc); err != nil {
		return errors.Wrap(err, "failed to replace root qdisc")
	}
	return nil
}

func (a *ActuatorTCImpl) remove(current *types.NetemQDisc) error {
	if current == nil {
		a.log.V(4).Info("no root netem qdisc to delete")
		return nil
	}
	a.log.V(4).Info("deleting root netem qdisc")
	if err := a.tcAPI.QDiscDel(current); err != nil {
		return errors.Wrap(err, "failed to delete root netem qdisc")
	}
	return nil
}

// findRoot returns the qdisc attached at the root of the device, nil if there is none
func findRoot(qdiscs []types.QDisc) types.QDisc {
	for _, q := range qdiscs {
		if q.Attrs().IsRoot() {
			return q
		}
	}
	return nil
}
