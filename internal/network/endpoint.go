package network

import (
	"fmt"
	"net/netip"
)

// Endpoint is a family-tagged UDP peer address. It is a plain value: copy it
// freely. The family is carried by the address itself, so an IPv4 endpoint
// and its v4-in-v6 mapped twin are distinct endpoints.
type Endpoint struct {
	addr netip.Addr
	port uint16
}

// ResolveEndpoint parses a numeric host address and port. Hostnames are
// rejected: the transport never performs DNS lookups, so roaming comparisons
// stay deterministic.
func ResolveEndpoint(host string, port int) (Endpoint, error) {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %q is not a numeric address", ErrResolutionFailed, host)
	}
	return Endpoint{addr: addr, port: uint16(port)}, nil
}

// BindAnyEndpoint returns the IPv6 wildcard endpoint with port 0.
func BindAnyEndpoint() Endpoint {
	return Endpoint{addr: netip.IPv6Unspecified()}
}

// EndpointFromAddrPort converts a received source address.
func EndpointFromAddrPort(ap netip.AddrPort) Endpoint {
	return Endpoint{addr: ap.Addr(), port: ap.Port()}
}

// Port returns the port in host order.
func (e Endpoint) Port() int {
	return int(e.port)
}

// SetPort replaces the port, leaving the address untouched.
func (e *Endpoint) SetPort(port int) {
	e.port = uint16(port)
}

// Address returns the printable address without the port.
func (e Endpoint) Address() string {
	return e.addr.String()
}

// String renders the endpoint as address:port.
func (e Endpoint) String() string {
	return e.AddrPort().String()
}

// AddrPort converts to the stdlib form used by the socket layer.
func (e Endpoint) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(e.addr, e.port)
}

// IsIPv6 reports the endpoint's address family. A v4-in-v6 mapped address is
// an IPv6 endpoint: it lives on an IPv6 socket.
func (e Endpoint) IsIPv6() bool {
	return !e.addr.Is4()
}

// Network returns the net package network string for the endpoint's family.
func (e Endpoint) Network() string {
	if e.IsIPv6() {
		return "udp6"
	}
	return "udp4"
}

// Equal compares family, address, and port. Addresses of different families
// never compare equal, even when one is the v4-in-v6 mapping of the other.
func (e Endpoint) Equal(other Endpoint) bool {
	return e.addr == other.addr && e.port == other.port
}
