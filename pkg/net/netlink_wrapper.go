package net

import (
	"github.com/vishvananda/netlink"
)

// NetlinkProvider is the part of vishvananda/netlink used to look up devices and program netem.
// It allows the shaper and the netlink tc driver to be tested without touching the host.
type NetlinkProvider interface {
	// LinkByName returns Link by netdev name
	LinkByName(name string) (netlink.Link, error)
	// LinkList lists all links
	LinkList() ([]netlink.Link, error)
	// AddrList lists addresses of link for the given address family
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)

	// QdiscReplace adds qdisc, replacing the qdisc attached at the same parent
	QdiscReplace(qdisc netlink.Qdisc) error
	// QdiscDel deletes qdisc
	QdiscDel(qdisc netlink.Qdisc) error
	// QdiscList lists Qdiscs for link
	QdiscList(link netlink.Link) ([]netlink.Qdisc, error)
}

// NewNetlinkProviderImpl creates a new NetlinkProviderImpl
func NewNetlinkProviderImpl() *NetlinkProviderImpl {
	return &NetlinkProviderImpl{}
}

// NetlinkProviderImpl implements NetlinkProvider in the network namespace of the calling thread
type NetlinkProviderImpl struct{}

var _ NetlinkProvider = NetlinkProviderImpl{}

// LinkByName implements NetlinkProvider interface
func (n NetlinkProviderImpl) LinkByName(name string) (netlink.Link, error) {
	return netlink.LinkByName(name)
}

// LinkList implements NetlinkProvider interface
func (n NetlinkProviderImpl) LinkList() ([]netlink.Link, error) {
	return netlink.LinkList()
}

// AddrList implements NetlinkProvider interface
func (n NetlinkProviderImpl) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	return netlink.AddrList(link, family)
}

// QdiscReplace implements NetlinkProvider interface
func (n NetlinkProviderImpl) QdiscReplace(qdisc netlink.Qdisc) error {
	return netlink.QdiscReplace(qdisc)
}

// QdiscDel implements NetlinkProvider interface
func (n NetlinkProviderImpl) QdiscDel(qdisc netlink.Qdisc) error {
	return netlink.QdiscDel(qdisc)
}

// QdiscList implements NetlinkProvider interface
func (n NetlinkProviderImpl) QdiscList(link netlink.Link) ([]netlink.Qdisc, error) {
	return netlink.QdiscList(link)
}
