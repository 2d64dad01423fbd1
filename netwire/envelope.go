// Copyright (c) 2013-2017 The btcsuite developers
// code derived from https://github .com/btcsuite/btcd/blob/master/wire/message.go

package netwire

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// checksumSize is the number of leading double-SHA256 bytes used as the
// payload checksum.
const checksumSize = 4

// MessageHeader is the fixed size header that frames every message on the
// wire.
type MessageHeader struct {
	// Net identifies the network the message belongs to.
	Net wire.BitcoinNet

	// Command identifies the payload type.
	Command Command

	// Length is the payload length in bytes.
	Length uint32

	// Checksum is the first four bytes of the double-SHA256 of the
	// payload.
	Checksum [checksumSize]byte
}

// Envelope is one complete framed message: the network it was sent on and
// its decoded payload.
type Envelope struct {
	// Net identifies the network the message belongs to.
	Net wire.BitcoinNet

	// Message is the decoded payload.
	Message Message
}

// String returns a short description of the envelope.
func (e *Envelope) String() string {
	return fmt.Sprintf("%v on %v", e.Message.Command(), e.Net)
}

// payloadChecksum returns the checksum of the payload.
func payloadChecksum(payload []byte) [checksumSize]byte {
	var sum [checksumSize]byte
	copy(sum[:], chainhash.DoubleHashB(payload))

	return sum
}

// encodeCommand pads cmd to CommandSize bytes.
func encodeCommand(cmd Command) ([CommandSize]byte, error) {
	var b [CommandSize]byte
	if len(cmd) == 0 || len(cmd) > CommandSize {
		return b, fmt.Errorf("command %q must be between 1 and %d "+
			"bytes", cmd, CommandSize)
	}
	copy(b[:], cmd)

	return b, nil
}

// decodeCommand parses a NUL padded command. Only printable ASCII is allowed
// before the padding and nothing but NUL bytes after it.
func decodeCommand(b []byte) (Command, error) {
	end := bytes.IndexByte(b, 0)
	if end == -1 {
		end = len(b)
	}
	if end == 0 {
		return "", fmt.Errorf("empty command")
	}

	for _, c := range b[:end] {
		if c < 0x20 || c > 0x7e {
			return "", fmt.Errorf("non printable command byte "+
				"0x%02x", c)
		}
	}
	for _, c := range b[end:] {
		if c != 0 {
			return "", fmt.Errorf("non zero command padding")
		}
	}

	return Command(b[:end]), nil
}

// WriteMessage writes the envelope of msg, header and payload, to buf and
// returns the number of bytes written. If any error is encountered, the
// buffer passed will be reset to its original state since we don't want any
// broken bytes left. In other words, no bytes will be written if there's an
// error. Either all or none of the message bytes will be written to the
// buffer.
//
// NOTE: this method is not concurrent safe.
func WriteMessage(buf *bytes.Buffer, net wire.BitcoinNet, msg Message,
	pver uint32) (int, error) {

	// Record the size of the bytes already written in buffer.
	oldByteSize := buf.Len()

	// cleanBrokenBytes is a helper closure that helps reset the buffer to
	// its original state. It truncates all the bytes written in current
	// scope.
	var cleanBrokenBytes = func(b *bytes.Buffer) int {
		b.Truncate(oldByteSize)
		return 0
	}

	cmd, err := encodeCommand(msg.Command())
	if err != nil {
		return 0, err
	}

	payload, err := EncodePayload(msg, pver)
	if err != nil {
		return 0, err
	}

	lenp := len(payload)
	maxLen := msg.MaxPayloadLength(pver)
	if lenp > MaxMessagePayload || uint32(lenp) > maxLen {
		return 0, fmt.Errorf("%v payload is too large - encoded %d "+
			"bytes, but maximum message payload is %d bytes",
			msg.Command(), lenp, maxLen)
	}

	var hdr [MessageHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(net))
	copy(hdr[4:4+CommandSize], cmd[:])
	binary.LittleEndian.PutUint32(hdr[16:20], uint32(lenp))
	checksum := payloadChecksum(payload)
	copy(hdr[20:24], checksum[:])

	if _, err := buf.Write(hdr[:]); err != nil {
		return cleanBrokenBytes(buf), err
	}
	if _, err := buf.Write(payload); err != nil {
		return cleanBrokenBytes(buf), err
	}

	return buf.Len() - oldByteSize, nil
}

// EnvelopeDecoder decodes framed messages of a single network from byte
// slices. It never retains the slices it is handed.
type EnvelopeDecoder struct {
	// Net is the network magic every message must carry.
	Net wire.BitcoinNet

	// ProtocolVersion is the protocol version payloads are decoded with.
	ProtocolVersion uint32
}

// NewEnvelopeDecoder returns a decoder for the given network and protocol
// version.
func NewEnvelopeDecoder(net wire.BitcoinNet,
	pver uint32) *EnvelopeDecoder {

	return &EnvelopeDecoder{
		Net:             net,
		ProtocolVersion: pver,
	}
}

// DecodeHeader parses and validates the envelope header at the head of b.
// It returns ErrIncomplete if fewer than MessageHeaderSize bytes are present
// and a MalformedError if the header can never start a valid message.
func (d *EnvelopeDecoder) DecodeHeader(b []byte) (*MessageHeader, error) {
	if len(b) < MessageHeaderSize {
		return nil, fmt.Errorf("%w: have %d of %d header bytes",
			ErrIncomplete, len(b), MessageHeaderSize)
	}

	hdr := &MessageHeader{
		Net:    wire.BitcoinNet(binary.LittleEndian.Uint32(b[0:4])),
		Length: binary.LittleEndian.Uint32(b[16:20]),
	}
	copy(hdr.Checksum[:], b[20:24])

	if hdr.Net != d.Net {
		return nil, malformed("", fmt.Sprintf("network magic 0x%08x "+
			"does not match 0x%08x", uint32(hdr.Net),
			uint32(d.Net)), nil)
	}

	cmd, err := decodeCommand(b[4 : 4+CommandSize])
	if err != nil {
		return nil, malformed("", "invalid command", err)
	}
	hdr.Command = cmd

	// The declared length is checked before the payload is awaited so a
	// hostile peer cannot make the caller buffer without bound.
	if hdr.Length > MaxMessagePayload {
		return nil, malformed(cmd, fmt.Sprintf("payload length %d "+
			"exceeds protocol maximum %d", hdr.Length,
			MaxMessagePayload), nil)
	}

	return hdr, nil
}

// Decode attempts to decode one complete message from the head of b. On
// success it returns the envelope and the number of bytes it occupied.
// ErrIncomplete is returned while b holds only a prefix of a message, and a
// MalformedError once the bytes present can no longer form a valid message.
func (d *EnvelopeDecoder) Decode(b []byte) (*Envelope, int, error) {
	hdr, err := d.DecodeHeader(b)
	if err != nil {
		return nil, 0, err
	}

	msg := makeEmptyMessage(hdr.Command)
	maxLen := msg.MaxPayloadLength(d.ProtocolVersion)
	if hdr.Length > maxLen {
		return nil, 0, malformed(hdr.Command, fmt.Sprintf("payload "+
			"length %d exceeds message maximum %d", hdr.Length,
			maxLen), nil)
	}

	total := MessageHeaderSize + int(hdr.Length)
	if len(b) < total {
		return nil, 0, fmt.Errorf("%w: have %d of %d %v bytes",
			ErrIncomplete, len(b), total, hdr.Command)
	}

	payload := b[MessageHeaderSize:total]
	if payloadChecksum(payload) != hdr.Checksum {
		return nil, 0, malformed(hdr.Command, fmt.Sprintf("checksum "+
			"mismatch: header %x, payload %x", hdr.Checksum,
			payloadChecksum(payload)), nil)
	}

	// The payload is complete at this point, so running out of bytes
	// means the declared length lies about the content. The cause is not
	// wrapped so the result never reads as incomplete.
	n, err := DecodePayload(payload, msg, d.ProtocolVersion)
	switch {
	case IsIncomplete(err):
		return nil, 0, malformed(hdr.Command, fmt.Sprintf("payload "+
			"shorter than its fields: %v", err), nil)

	case err != nil:
		return nil, 0, err

	case n != len(payload):
		return nil, 0, malformed(hdr.Command, fmt.Sprintf("%d "+
			"trailing payload bytes", len(payload)-n), nil)
	}

	log.Tracef("Decoded %v message with %d byte payload", hdr.Command,
		hdr.Length)

	return &Envelope{Net: hdr.Net, Message: msg}, total, nil
}
