package network

import (
	"context"
	"net"
	"net/netip"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// Diffserv marking for interactive traffic: AF42 with ECT(0).
const (
	dscpAF42 = 0x90
	ecnECT0  = 0x02
)

// wildcardEndpoint returns the unspecified address of the given family with
// port 0.
func wildcardEndpoint(ipv6 bool) Endpoint {
	if ipv6 {
		return Endpoint{addr: netip.IPv6Unspecified()}
	}
	return Endpoint{addr: netip.IPv4Unspecified()}
}

// listenUDP opens a datagram socket bound to local, applying the transport's
// socket options between socket creation and bind.
func listenUDP(local Endpoint) (*net.UDPConn, error) {
	lc := net.ListenConfig{Control: setupSocket}
	pc, err := lc.ListenPacket(context.Background(), local.Network(), local.String())
	if err != nil {
		return nil, err
	}
	return pc.(*net.UDPConn), nil
}

// setupSocket disables path-MTU discovery where the OS supports it, so the
// kernel never sets the don't-fragment bit, and marks traffic AF42 | ECT(0).
// The diffserv marking is advisory and its failure is swallowed.
func setupSocket(network, address string, conn syscall.RawConn) error {
	var optErr error
	err := conn.Control(func(fd uintptr) {
		s := int(fd)

		if err := disablePMTUDiscovery(s, network); err != nil {
			optErr = os.NewSyscallError("setsockopt", err)
			return
		}

		tos := dscpAF42 | ecnECT0
		if network == "udp6" {
			_ = unix.SetsockoptInt(s, unix.IPPROTO_IPV6, unix.IPV6_TCLASS, tos)
		} else {
			_ = unix.SetsockoptInt(s, unix.IPPROTO_IP, unix.IP_TOS, tos)
		}
	})
	if err != nil {
		return err
	}
	return optErr
}
