package netlink

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/vishvananda/netlink"
	klog "k8s.io/klog/v2"

	multinet "github.com/k8snetworkplumbingwg/network-shaper/pkg/net"
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/types"
)

// NewTcNetlinkImpl creates a new instance of TcNetlinkImpl. the link is resolved by name
// on each call so the driver can be used from within a network namespace.
func NewTcNetlinkImpl(linkName string, log klog.Logger, netlinkIfc multinet.NetlinkProvider) *TcNetlinkImpl {
	return &TcNetlinkImpl{
		linkName:   linkName,
		netlinkIfc: netlinkIfc,
		log:        log,
	}
}

// TcNetlinkImpl is a concrete implementation of TC interface utilizing netlink lib
type TcNetlinkImpl struct {
	linkName   string
	netlinkIfc multinet.NetlinkProvider
	log        klog.Logger
}

func (t *TcNetlinkImpl) link() (netlink.Link, error) {
	link, err := t.netlinkIfc.LinkByName(t.linkName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get link %s", t.linkName)
	}
	return link, nil
}

// QDiscReplace implements TC interface
func (t *TcNetlinkImpl) QDiscReplace(qdisc types.QDisc) error {
	t.log.V(10).Info("QDiscReplace()")

	netem, ok := qdisc.(*types.NetemQDisc)
	if !ok {
		return fmt.Errorf("unsupported qdisc type: %s", qdisc.Type())
	}

	link, err := t.link()
	if err != nil {
		return err
	}

	return t.netlinkIfc.QdiscReplace(netemToNlNetem(netem, link.Attrs().Index, t.log))
}

// QDiscDel implements TC interface
func (t *TcNetlinkImpl) QDiscDel(qdisc types.QDisc) error {
	t.log.V(10).Info("QDiscDel()")

	link, err := t.link()
	if err != nil {
		return err
	}

	var nlQdisc netlink.Qdisc
	if netem, ok := qdisc.(*types.NetemQDisc); ok {
		nlQdisc = netemToNlNetem(netem, link.Attrs().Index, t.log)
	} else {
		nlQdisc = qdiscToNlGenericQdisc(qdisc, link.Attrs().Index)
	}

	return t.netlinkIfc.QdiscDel(nlQdisc)
}

// QDiscList implements TC interface
func (t *TcNetlinkImpl) QDiscList() ([]types.QDisc, error) {
	t.log.V(10).Info("QDiscList()")

	link, err := t.link()
	if err != nil {
		return nil, err
	}

	nlQdiscs, err := t.netlinkIfc.QdiscList(link)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list qdiscs")
	}

	qdiscs := make([]types.QDisc, 0, len(nlQdiscs))
	for _, nlQdisc := range nlQdiscs {
		if nlNetem, ok := nlQdisc.(*netlink.Netem); ok {
			qdiscs = append(qdiscs, nlNetemToNetem(nlNetem))
			continue
		}
		qdiscs = append(qdiscs, nlQdiscToGenericQdisc(nlQdisc))
	}
	return qdiscs, nil
}
