package netwire

import (
	"bytes"
	"io"
)

// Alert is the deprecated network alert message. Both the serialized alert
// and its signature are kept opaque.
type Alert struct {
	// Payload is the serialized alert.
	Payload []byte

	// Signature is the signature over Payload by the alert key.
	Signature []byte
}

// A compile time check to ensure Alert implements the Message interface.
var _ Message = (*Alert)(nil)

func (a *Alert) elements() []interface{} {
	return []interface{}{&a.Payload, &a.Signature}
}

// Decode deserializes a serialized Alert message stored in the passed
// io.Reader observing the specified protocol version.
//
// This is part of the Message interface.
func (a *Alert) Decode(r io.Reader, pver uint32) error {
	return readElements(r, pver, a.elements()...)
}

// Encode serializes the target Alert into the passed buffer observing the
// protocol version specified.
//
// This is part of the Message interface.
func (a *Alert) Encode(w *bytes.Buffer, pver uint32) error {
	return writeElements(w, pver, a.elements()...)
}

// Command returns the command identifying this message type on the wire.
//
// This is part of the Message interface.
func (a *Alert) Command() Command {
	return CmdAlert
}

// MaxPayloadLength returns the maximum allowed payload size for an Alert
// message.
//
// This is part of the Message interface.
func (a *Alert) MaxPayloadLength(uint32) uint32 {
	return MaxMessagePayload
}

// Unknown holds the raw payload of a message whose command is not modelled
// by this package. Returning it rather than an error lets a connection
// survive commands introduced by newer protocol versions.
type Unknown struct {
	// Cmd is the command found in the envelope.
	Cmd Command

	// Payload is the undecoded payload.
	Payload []byte
}

// A compile time check to ensure Unknown implements the Message interface.
var _ Message = (*Unknown)(nil)

// Decode reads the remainder of r as the opaque payload.
//
// This is part of the Message interface.
func (u *Unknown) Decode(r io.Reader, _ uint32) error {
	payload, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		payload = nil
	}
	u.Payload = payload

	return nil
}

// Encode writes the opaque payload.
//
// This is part of the Message interface.
func (u *Unknown) Encode(w *bytes.Buffer, _ uint32) error {
	_, err := w.Write(u.Payload)
	return err
}

// Command returns the command found in the envelope.
//
// This is part of the Message interface.
func (u *Unknown) Command() Command {
	return u.Cmd
}

// MaxPayloadLength returns the protocol wide payload limit.
//
// This is part of the Message interface.
func (u *Unknown) MaxPayloadLength(uint32) uint32 {
	return MaxMessagePayload
}
