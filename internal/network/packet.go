package network

import (
	"encoding/binary"
	"fmt"

	"github.com/driftsh/driftsh/internal/crypto"
)

// Direction tags which way a packet travels. It occupies the top bit of the
// AEAD nonce, splitting the nonce space between the two streams.
type Direction uint64

const (
	ToServer Direction = 0
	ToClient Direction = 1
)

const (
	directionMask = uint64(1) << 63
	sequenceMask  = ^directionMask

	// headerSize is the two big-endian 16-bit timestamp words.
	headerSize = 4
)

// Packet is one plaintext datagram: a 63-bit sequence number and direction
// (which together form the nonce), two 16-bit timestamp words, and opaque
// payload bytes. The sentinel 0xFFFF in either timestamp word means "absent".
type Packet struct {
	Seq            uint64
	Direction      Direction
	Timestamp      uint16
	TimestampReply uint16
	Payload        []byte
}

// Encode seals the packet into its wire form under the session.
func (p *Packet) Encode(session *crypto.Session) []byte {
	nonce := (uint64(p.Direction) << 63) | (p.Seq & sequenceMask)

	plaintext := make([]byte, headerSize+len(p.Payload))
	binary.BigEndian.PutUint16(plaintext[0:2], p.Timestamp)
	binary.BigEndian.PutUint16(plaintext[2:4], p.TimestampReply)
	copy(plaintext[headerSize:], p.Payload)

	return session.Encrypt(nonce, plaintext)
}

// DecodePacket opens a wire datagram. Decryption failures and short
// plaintexts abort only this datagram, never the connection.
func DecodePacket(coded []byte, session *crypto.Session) (*Packet, error) {
	nonce, plaintext, err := session.Decrypt(coded)
	if err != nil {
		return nil, err
	}

	if len(plaintext) < headerSize {
		return nil, fmt.Errorf("%w: %d byte plaintext", ErrMalformedPacket, len(plaintext))
	}

	p := &Packet{
		Seq:            nonce & sequenceMask,
		Direction:      ToServer,
		Timestamp:      binary.BigEndian.Uint16(plaintext[0:2]),
		TimestampReply: binary.BigEndian.Uint16(plaintext[2:4]),
		Payload:        plaintext[headerSize:],
	}
	if nonce&directionMask != 0 {
		p.Direction = ToClient
	}
	return p, nil
}
