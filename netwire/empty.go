package netwire

import (
	"bytes"
	"io"
)

// VerAck acknowledges a received Version message. It has no payload.
type VerAck struct{}

// A compile time check to ensure VerAck implements the Message interface.
var _ Message = (*VerAck)(nil)

// Decode is a no-op, verack carries no payload.
//
// This is part of the Message interface.
func (v *VerAck) Decode(io.Reader, uint32) error {
	return nil
}

// Encode is a no-op, verack carries no payload.
//
// This is part of the Message interface.
func (v *VerAck) Encode(*bytes.Buffer, uint32) error {
	return nil
}

// Command returns the command identifying this message type on the wire.
//
// This is part of the Message interface.
func (v *VerAck) Command() Command {
	return CmdVerAck
}

// MaxPayloadLength returns zero, verack carries no payload.
//
// This is part of the Message interface.
func (v *VerAck) MaxPayloadLength(uint32) uint32 {
	return 0
}

// SendHeaders asks the peer to announce new blocks with headers rather than
// inv messages (BIP130). It has no payload.
type SendHeaders struct{}

// A compile time check to ensure SendHeaders implements the Message
// interface.
var _ Message = (*SendHeaders)(nil)

// Decode is a no-op, sendheaders carries no payload.
//
// This is part of the Message interface.
func (s *SendHeaders) Decode(io.Reader, uint32) error {
	return nil
}

// Encode is a no-op, sendheaders carries no payload.
//
// This is part of the Message interface.
func (s *SendHeaders) Encode(*bytes.Buffer, uint32) error {
	return nil
}

// Command returns the command identifying this message type on the wire.
//
// This is part of the Message interface.
func (s *SendHeaders) Command() Command {
	return CmdSendHeaders
}

// MaxPayloadLength returns zero, sendheaders carries no payload.
//
// This is part of the Message interface.
func (s *SendHeaders) MaxPayloadLength(uint32) uint32 {
	return 0
}
