package network

import "errors"

var (
	// ErrResolutionFailed means an endpoint string was not a numeric address.
	ErrResolutionFailed = errors.New("address resolution failed")
	// ErrBindFailed means every attempted port refused the bind.
	ErrBindFailed = errors.New("could not bind")
	// ErrOversizedDatagram means a datagram exceeded ReceiveMTU.
	ErrOversizedDatagram = errors.New("received oversize datagram")
	// ErrMalformedPacket means a decrypted datagram was too short to carry
	// the timestamp header.
	ErrMalformedPacket = errors.New("malformed packet")
	// ErrPacketDropped wraps the per-datagram failures (decryption,
	// malformed header, wrong direction) that the transport absorbs.
	// Callers should skip the datagram and keep receiving.
	ErrPacketDropped = errors.New("packet dropped")
)
