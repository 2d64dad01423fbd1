package netwire

import (
	"bytes"
	"io"
)

// Ping is sent to confirm that a connection is still valid. The receiver
// answers with a Pong carrying the same nonce.
type Ping struct {
	// Nonce is echoed back in the matching Pong.
	Nonce uint64
}

// NewPing returns a new Ping message with the given nonce.
func NewPing(nonce uint64) *Ping {
	return &Ping{
		Nonce: nonce,
	}
}

// A compile time check to ensure Ping implements the Message interface.
var _ Message = (*Ping)(nil)

// Decode deserializes a serialized Ping message stored in the passed
// io.Reader observing the specified protocol version.
//
// This is part of the Message interface.
func (p *Ping) Decode(r io.Reader, pver uint32) error {
	return readElements(r, pver, &p.Nonce)
}

// Encode serializes the target Ping into the passed buffer observing the
// protocol version specified.
//
// This is part of the Message interface.
func (p *Ping) Encode(w *bytes.Buffer, pver uint32) error {
	return writeElements(w, pver, &p.Nonce)
}

// Command returns the command identifying this message type on the wire.
//
// This is part of the Message interface.
func (p *Ping) Command() Command {
	return CmdPing
}

// MaxPayloadLength returns the maximum allowed payload size for a Ping
// message.
//
// This is part of the Message interface.
func (p *Ping) MaxPayloadLength(uint32) uint32 {
	return 8
}

// Pong defines a message which is the direct response to a received Ping
// message. A Pong reply indicates that a connection is still active. The Pong
// reply to a Ping message should contain the nonce carried in the original
// Ping message.
type Pong struct {
	// Nonce is the unique nonce that was associated with the Ping message
	// that this Pong is replying to.
	Nonce uint64
}

// NewPong returns a new Pong message binded to the specified nonce.
func NewPong(nonce uint64) *Pong {
	return &Pong{
		Nonce: nonce,
	}
}

// A compile time check to ensure Pong implements the Message interface.
var _ Message = (*Pong)(nil)

// Decode deserializes a serialized Pong message stored in the passed
// io.Reader observing the specified protocol version.
//
// This is part of the Message interface.
func (p *Pong) Decode(r io.Reader, pver uint32) error {
	return readElements(r, pver, &p.Nonce)
}

// Encode serializes the target Pong into the passed buffer observing the
// protocol version specified.
//
// This is part of the Message interface.
func (p *Pong) Encode(w *bytes.Buffer, pver uint32) error {
	return writeElements(w, pver, &p.Nonce)
}

// Command returns the command identifying this message type on the wire.
//
// This is part of the Message interface.
func (p *Pong) Command() Command {
	return CmdPong
}

// MaxPayloadLength returns the maximum allowed payload size for a Pong
// message.
//
// This is part of the Message interface.
func (p *Pong) MaxPayloadLength(uint32) uint32 {
	return 8
}
