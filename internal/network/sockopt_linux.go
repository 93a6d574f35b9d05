//go:build linux

package network

import (
	"errors"

	"golang.org/x/sys/unix"
)

// disablePMTUDiscovery clears per-route path-MTU discovery so outgoing
// datagrams never carry the don't-fragment bit.
func disablePMTUDiscovery(fd int, network string) error {
	var err error
	if network == "udp6" {
		err = unix.SetsockoptInt(fd, unix.IPPROTO_IPV6, unix.IPV6_MTU_DISCOVER, unix.IPV6_PMTUDISC_DONT)
	} else {
		err = unix.SetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_MTU_DISCOVER, unix.IP_PMTUDISC_DONT)
	}
	if err != nil && (errors.Is(err, unix.ENOPROTOOPT) || errors.Is(err, unix.EINVAL)) {
		return nil
	}
	return err
}
