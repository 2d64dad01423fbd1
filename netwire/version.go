package netwire

import (
	"bytes"
	"fmt"
	"io"
	"net"

	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	// netAddressSize is the encoded size of a NetAddress inside a version
	// message: services, IPv6 (or IPv4-mapped) address and port.
	netAddressSize = 8 + 16 + 2

	// maxVersionPayload is the largest payload of a version message.
	maxVersionPayload = 4 + 8 + 8 + 2*netAddressSize + 8 +
		maxVarIntPayload + MaxUserAgentLen + 4 + 1
)

// NetAddress is the address of a peer as carried in a version message.
type NetAddress struct {
	// Services is the service bitfield the peer advertises.
	Services uint64

	// IP is the IPv6 address, or an IPv4-mapped IPv6 address.
	IP [16]byte

	// Port is the TCP port. It is the only big endian field on the wire.
	Port uint16
}

// NewNetAddress creates a NetAddress from a TCP address.
func NewNetAddress(addr *net.TCPAddr, services uint64) NetAddress {
	na := NetAddress{
		Services: services,
		Port:     uint16(addr.Port),
	}
	if ip := addr.IP.To16(); ip != nil {
		copy(na.IP[:], ip)
	}

	return na
}

// String returns the address in host:port form.
func (n NetAddress) String() string {
	return net.JoinHostPort(
		net.IP(n.IP[:]).String(), fmt.Sprintf("%d", n.Port),
	)
}

// Version is the first message each side of a connection sends. It
// advertises the protocol version, services and chain height of the sender.
type Version struct {
	// ProtocolVersion is the protocol version of the sender.
	ProtocolVersion int32

	// Services is the service bitfield of the sender.
	Services uint64

	// Timestamp is the unix time the message was created at.
	Timestamp int64

	// AddrRecv is the address of the receiving peer.
	AddrRecv NetAddress

	// AddrFrom is the address of the sending peer.
	AddrFrom NetAddress

	// Nonce detects connections to self.
	Nonce uint64

	// UserAgent identifies the software of the sender.
	UserAgent string

	// LastBlock is the height of the best block of the sender.
	LastBlock int32

	// Relay is the BIP37 relay flag. Peers predating BIP37 omit it.
	Relay fn.Option[bool]
}

// A compile time check to ensure Version implements the Message interface.
var _ Message = (*Version)(nil)

func (v *Version) elements() []interface{} {
	return []interface{}{
		&v.ProtocolVersion,
		&v.Services,
		&v.Timestamp,
		&v.AddrRecv,
		&v.AddrFrom,
		&v.Nonce,
		&v.UserAgent,
		&v.LastBlock,
	}
}

// Decode deserializes a serialized Version message stored in the passed
// io.Reader observing the specified protocol version.
//
// The trailing relay flag is optional, so it is only read when the reader is
// a *bytes.Reader that still holds data. The payload must therefore be
// delimited by its envelope.
//
// This is part of the Message interface.
func (v *Version) Decode(r io.Reader, pver uint32) error {
	if err := readElements(r, pver, v.elements()...); err != nil {
		return err
	}

	if len(v.UserAgent) > MaxUserAgentLen {
		return malformed(CmdVersion, fmt.Sprintf("user agent too "+
			"long: %d bytes, max %d", len(v.UserAgent),
			MaxUserAgentLen), nil)
	}

	v.Relay = fn.None[bool]()
	if br, ok := r.(*bytes.Reader); ok && br.Len() > 0 {
		var relay bool
		if err := readElement(r, pver, &relay); err != nil {
			return err
		}
		v.Relay = fn.Some(relay)
	}

	return nil
}

// Encode serializes the target Version into the passed buffer observing the
// protocol version specified.
//
// This is part of the Message interface.
func (v *Version) Encode(w *bytes.Buffer, pver uint32) error {
	if len(v.UserAgent) > MaxUserAgentLen {
		return fmt.Errorf("user agent too long: %d bytes, max %d",
			len(v.UserAgent), MaxUserAgentLen)
	}

	if err := writeElements(w, pver, v.elements()...); err != nil {
		return err
	}

	var err error
	v.Relay.WhenSome(func(relay bool) {
		err = writeElement(w, pver, &relay)
	})

	return err
}

// Command returns the command identifying this message type on the wire.
//
// This is part of the Message interface.
func (v *Version) Command() Command {
	return CmdVersion
}

// MaxPayloadLength returns the maximum allowed payload size for a Version
// message.
//
// This is part of the Message interface.
func (v *Version) MaxPayloadLength(uint32) uint32 {
	return maxVersionPayload
}
