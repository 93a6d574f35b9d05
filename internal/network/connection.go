// Package network implements the roaming encrypted datagram transport: one
// UDP socket per session, authenticated framing with a direction-partitioned
// nonce, server-side endpoint roaming, and reciprocal 16-bit round-trip
// timing.
package network

import (
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/driftsh/driftsh/internal/crypto"
)

const (
	// SendMTU bounds outgoing payloads. It is deliberately small so a
	// datagram survives paths that fragment badly.
	SendMTU = 500
	// ReceiveMTU bounds incoming datagrams; anything larger is an error,
	// never a truncation.
	ReceiveMTU = 2048

	// Default bind search range for servers with no explicit port
	// request, swept in ascending order.
	PortRangeLow  = 60001
	PortRangeHigh = 60999
)

// ServerConfig parameterises server construction. The zero value of any
// field falls back to its default.
type ServerConfig struct {
	// IP is the bind address to try first (numeric, empty for any).
	IP string
	// Port binds only that port; zero sweeps the port range instead.
	Port int
	// PortRangeLow and PortRangeHigh bound the sweep.
	PortRangeLow  int
	PortRangeHigh int
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		PortRangeLow:  PortRangeLow,
		PortRangeHigh: PortRangeHigh,
	}
}

// packetConn is the slice of *net.UDPConn the connection relies on.
// MockConn implements it for tests.
type packetConn interface {
	ReadFromUDPAddrPort(b []byte) (int, netip.AddrPort, error)
	WriteToUDPAddrPort(b []byte, addr netip.AddrPort) (int, error)
	LocalAddr() net.Addr
	SetReadDeadline(t time.Time) error
	Close() error
}

// Connection is one end of a session. It owns its socket and crypto session
// exclusively and is not safe for concurrent use: the caller multiplexes
// readiness externally and drives Send/Recv from a single loop.
type Connection struct {
	sock          packetConn
	remoteAddr    Endpoint
	hasRemoteAddr bool
	server        bool
	mtu           int

	key     crypto.Key
	session *crypto.Session

	direction           Direction
	nextSeq             uint64
	expectedReceiverSeq uint64

	savedTimestamp           uint16
	savedTimestampReceivedAt uint64
	hasSavedTimestamp        bool

	portRangeLow  int
	portRangeHigh int

	rtt     rttEstimator
	sendErr error

	clock *Clock
	log   *logrus.Entry
}

func newConnection(server bool, key crypto.Key, session *crypto.Session) *Connection {
	c := &Connection{
		server:        server,
		mtu:           SendMTU,
		key:           key,
		session:       session,
		direction:     ToServer,
		portRangeLow:  PortRangeLow,
		portRangeHigh: PortRangeHigh,
		rtt:           newRTTEstimator(),
		clock:         NewClock(),
	}
	role := "client"
	if server {
		c.direction = ToClient
		role = "server"
	}
	c.log = logrus.WithField("role", role)
	return c
}

// NewServerConnection generates a session key and binds a listening socket.
// When cfg.IP is non-empty it is tried first (multihomed hosts ask for a
// specific interface); on any failure there the wildcard address is tried,
// and a failure of that second attempt is fatal. When cfg.Port is zero the
// configured port range is swept instead.
func NewServerConnection(cfg ServerConfig) (*Connection, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	session, err := crypto.NewSession(key)
	if err != nil {
		return nil, err
	}
	c := newConnection(true, key, session)
	if cfg.PortRangeLow != 0 {
		c.portRangeLow = cfg.PortRangeLow
	}
	if cfg.PortRangeHigh != 0 {
		c.portRangeHigh = cfg.PortRangeHigh
	}

	if cfg.IP != "" {
		if local, err := ResolveEndpoint(cfg.IP, cfg.Port); err == nil {
			if c.tryBind(local, cfg.Port) == nil {
				return c, nil
			}
		}
	}

	local := BindAnyEndpoint()
	if cfg.Port != 0 {
		local.SetPort(cfg.Port)
	}
	if err := c.tryBind(local, cfg.Port); err != nil {
		return nil, err
	}
	return c, nil
}

// tryBind attempts to bind local's address on each candidate port. With an
// explicit port request only that port is tried; otherwise the configured
// range is swept ascending and the first success wins. Each attempt creates
// a fresh socket and a failed attempt's socket is closed before the next
// one, so a mid-construction family change can never leak a descriptor.
func (c *Connection) tryBind(local Endpoint, desiredPort int) error {
	searchLow, searchHigh := c.portRangeLow, c.portRangeHigh
	if desiredPort != 0 {
		searchLow, searchHigh = desiredPort, desiredPort
	}

	var lastErr error
	for port := searchLow; port <= searchHigh; port++ {
		local.SetPort(port)
		sock, err := listenUDP(local)
		if err == nil {
			c.sock = sock
			return nil
		}
		lastErr = err
	}

	local.SetPort(searchHigh)
	c.log.WithFields(logrus.Fields{
		"addr": local.Address(),
		"port": local.Port(),
	}).WithError(lastErr).Error("Failed binding")
	return fmt.Errorf("%w: %v", ErrBindFailed, lastErr)
}

// NewClientConnection parses the session key, resolves the server endpoint
// numerically, and opens a socket of the matching family on an ephemeral
// local port.
func NewClientConnection(keyStr, ip string, port int) (*Connection, error) {
	key, err := crypto.ParseKey(keyStr)
	if err != nil {
		return nil, err
	}
	session, err := crypto.NewSession(key)
	if err != nil {
		return nil, err
	}

	remote, err := ResolveEndpoint(ip, port)
	if err != nil {
		return nil, err
	}

	c := newConnection(false, key, session)
	c.remoteAddr = remote
	c.hasRemoteAddr = true

	sock, err := listenUDP(wildcardEndpoint(remote.IsIPv6()))
	if err != nil {
		return nil, err
	}
	c.sock = sock
	return c, nil
}

// newPacket stamps the next outgoing packet. A timestamp received within the
// last second is echoed back advanced by the time it was held here, so the
// peer's round-trip math excludes our hold time.
func (c *Connection) newPacket(payload []byte) *Packet {
	reply := absentTimestamp

	now := c.clock.Now()
	if c.hasSavedTimestamp && now-c.savedTimestampReceivedAt < 1000 {
		reply = c.savedTimestamp + uint16(now-c.savedTimestampReceivedAt)
		c.hasSavedTimestamp = false
		c.savedTimestamp = 0
		c.savedTimestampReceivedAt = 0
	}

	p := &Packet{
		Seq:            c.nextSeq,
		Direction:      c.direction,
		Timestamp:      c.clock.Timestamp16(),
		TimestampReply: reply,
		Payload:        payload,
	}
	c.nextSeq++
	return p
}

// Send transmits one payload to the current remote endpoint. Send failures
// are latched for SendError instead of returned: a sendto that succeeds
// proves little anyway, because the datagram can still be lost in flight.
func (c *Connection) Send(payload []byte) {
	if !c.hasRemoteAddr {
		c.sendErr = fmt.Errorf("sendto: no remote address")
		return
	}

	p := c.newPacket(payload)
	coded := p.Encode(c.session)

	n, err := c.sock.WriteToUDPAddrPort(coded, c.remoteAddr.AddrPort())
	switch {
	case err != nil:
		c.sendErr = fmt.Errorf("sendto: %w", err)
	case n != len(coded):
		c.sendErr = fmt.Errorf("sendto: short write (%d of %d bytes)", n, len(coded))
	default:
		c.sendErr = nil
	}
}

// Recv reads one datagram and returns its payload. Adversarial input
// (undecryptable, malformed, or reflected packets) returns ErrPacketDropped
// and touches no state. Out-of-order and duplicate payloads are still
// delivered; only timing and targeting state is gated behind the sequence
// check, because a replay could otherwise skew the round-trip estimate or
// redirect the session.
func (c *Connection) Recv() ([]byte, error) {
	buf := make([]byte, ReceiveMTU+1)
	n, src, err := c.sock.ReadFromUDPAddrPort(buf)
	if err != nil {
		return nil, fmt.Errorf("recvfrom: %w", err)
	}
	if n > ReceiveMTU {
		return nil, fmt.Errorf("%w (size %d, limit %d)", ErrOversizedDatagram, n, ReceiveMTU)
	}

	p, err := DecodePacket(buf[:n], c.session)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPacketDropped, err)
	}

	// A packet tagged with our own direction is a reflection of our own
	// traffic; never process it.
	if p.Direction != c.expectedDirection() {
		return nil, fmt.Errorf("%w: wrong direction", ErrPacketDropped)
	}

	if p.Seq >= c.expectedReceiverSeq {
		c.expectedReceiverSeq = p.Seq + 1

		if p.Timestamp != absentTimestamp {
			c.savedTimestamp = p.Timestamp
			c.savedTimestampReceivedAt = c.clock.Now()
			c.hasSavedTimestamp = true
		}

		if p.TimestampReply != absentTimestamp {
			r := TimestampDiff(c.clock.Timestamp16(), p.TimestampReply)
			if r < 5000 { // discard samples held across a stop, e.g. a Ctrl-Z'ed server
				c.rtt.observe(float64(r))
			}
		}

		c.hasRemoteAddr = true

		if c.server { // only the client roams
			newRemote := EndpointFromAddrPort(src)
			if !newRemote.Equal(c.remoteAddr) {
				c.remoteAddr = newRemote
				c.log.WithFields(logrus.Fields{
					"addr": newRemote.Address(),
					"port": newRemote.Port(),
				}).Info("Server now attached to client")
			}
		}
	}

	return p.Payload, nil
}

func (c *Connection) expectedDirection() Direction {
	if c.server {
		return ToServer
	}
	return ToClient
}

// Port returns the local port the socket is bound to.
func (c *Connection) Port() int {
	return c.sock.LocalAddr().(*net.UDPAddr).Port
}

// Key returns the text form of the session key. Servers print it once at
// startup for the client to dial with.
func (c *Connection) Key() string {
	return c.key.String()
}

// Timeout returns the advised retransmission timeout in milliseconds.
func (c *Connection) Timeout() uint64 {
	return c.rtt.rto()
}

// SRTT returns the smoothed round-trip estimate in milliseconds.
func (c *Connection) SRTT() float64 {
	return c.rtt.srtt
}

// HasRemoteAddr reports whether a peer endpoint is known. A freshly bound
// server has none until the first accepted packet arrives.
func (c *Connection) HasRemoteAddr() bool {
	return c.hasRemoteAddr
}

// RemoteAddr returns the current peer endpoint.
func (c *Connection) RemoteAddr() Endpoint {
	return c.remoteAddr
}

// SendError returns the latched error from the most recent Send, or nil if
// it succeeded.
func (c *Connection) SendError() error {
	return c.sendErr
}

// MTU returns the outgoing payload bound.
func (c *Connection) MTU() int {
	return c.mtu
}

// Clock returns the connection's frozen clock. The event loop ticks it once
// per iteration.
func (c *Connection) Clock() *Clock {
	return c.clock
}

// SetRecvTimeout bounds the next Recv calls. A timed-out Recv returns an
// error wrapping os.ErrDeadlineExceeded.
func (c *Connection) SetRecvTimeout(d time.Duration) error {
	return c.sock.SetReadDeadline(time.Now().Add(d))
}

// Close releases the socket. There is no graceful teardown at this layer;
// the protocol above signals end of session.
func (c *Connection) Close() error {
	return c.sock.Close()
}
