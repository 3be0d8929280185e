package tc

import (
	"github.com/containernetworking/plugins/pkg/ns"
	"github.com/pkg/errors"

	tctypes "github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/types"
)

// NewNetNSTC returns a TC which runs every call of inner in the network namespace at nsPath
func NewNetNSTC(inner TC, nsPath string) *NetNSTC {
	return &NetNSTC{inner: inner, nsPath: nsPath}
}

// NetNSTC is a TC decorator which switches to a network namespace for the duration of each call
type NetNSTC struct {
	inner  TC
	nsPath string
}

// QDiscReplace implements TC interface
func (n *NetNSTC) QDiscReplace(qdisc tctypes.QDisc) error {
	return n.do(func() error { return n.inner.QDiscReplace(qdisc) })
}

// QDiscDel implements TC interface
func (n *NetNSTC) QDiscDel(qdisc tctypes.QDisc) error {
	return n.do(func() error { return n.inner.QDiscDel(qdisc) })
}

// QDiscList implements TC interface
func (n *NetNSTC) QDiscList() ([]tctypes.QDisc, error) {
	var qdiscs []tctypes.QDisc
	err := n.do(func() error {
		var err error
		qdiscs, err = n.inner.QDiscList()
		return err
	})
	return qdiscs, err
}

func (n *NetNSTC) do(f func() error) error {
	return RunInNetNS(n.nsPath, f)
}

// RunInNetNS runs f in the network namespace at nsPath, or in the current one if nsPath is empty
func RunInNetNS(nsPath string, f func() error) error {
	if nsPath == "" {
		return f()
	}
	var inner error
	err := ns.WithNetNSPath(nsPath, func(_ ns.NetNS) error {
		inner = f()
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to enter network namespace %s", nsPath)
	}
	return inner
}
