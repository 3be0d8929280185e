package tc

import (
	tctypes "github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/types"
)

// TC is the qdisc subset of Linux Traffic Control used to shape a device.
// An implementation is bound to a single device.
type TC interface {
	// QDiscReplace attaches qdisc, replacing whatever qdisc is attached at its parent
	QDiscReplace(qdisc tctypes.QDisc) error
	// QDiscDel detaches qdisc
	QDiscDel(qdisc tctypes.QDisc) error
	// QDiscList lists the qdiscs attached to the device
	QDiscList() ([]tctypes.QDisc, error)
}
