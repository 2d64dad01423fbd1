package netwire

import (
	"bytes"
	"io"
)

const (
	// maxVarIntPayload is the largest encoding of a compact size.
	maxVarIntPayload = 9

	// inventorySize is the encoded size of a single Inventory.
	inventorySize = 4 + HashSize

	// maxInvListPayload is the largest payload of an inventory list
	// message.
	maxInvListPayload = maxVarIntPayload + MaxInvPerMsg*inventorySize
)

// Inv advertises one or more objects the sending peer knows about.
type Inv struct {
	// InvList is the list of advertised objects.
	InvList []Inventory
}

// A compile time check to ensure Inv implements the Message interface.
var _ Message = (*Inv)(nil)

// Decode deserializes a serialized Inv message stored in the passed io.Reader
// observing the specified protocol version.
//
// This is part of the Message interface.
func (i *Inv) Decode(r io.Reader, pver uint32) error {
	return readElements(r, pver, &i.InvList)
}

// Encode serializes the target Inv into the passed buffer observing the
// protocol version specified.
//
// This is part of the Message interface.
func (i *Inv) Encode(w *bytes.Buffer, pver uint32) error {
	return writeElements(w, pver, &i.InvList)
}

// Command returns the command identifying this message type on the wire.
//
// This is part of the Message interface.
func (i *Inv) Command() Command {
	return CmdInv
}

// MaxPayloadLength returns the maximum allowed payload size for an Inv
// message.
//
// This is part of the Message interface.
func (i *Inv) MaxPayloadLength(uint32) uint32 {
	return maxInvListPayload
}

// GetData requests the objects referenced by its inventory list, typically
// in response to an Inv.
type GetData struct {
	// InvList is the list of requested objects.
	InvList []Inventory
}

// A compile time check to ensure GetData implements the Message interface.
var _ Message = (*GetData)(nil)

// Decode deserializes a serialized GetData message stored in the passed
// io.Reader observing the specified protocol version.
//
// This is part of the Message interface.
func (g *GetData) Decode(r io.Reader, pver uint32) error {
	return readElements(r, pver, &g.InvList)
}

// Encode serializes the target GetData into the passed buffer observing the
// protocol version specified.
//
// This is part of the Message interface.
func (g *GetData) Encode(w *bytes.Buffer, pver uint32) error {
	return writeElements(w, pver, &g.InvList)
}

// Command returns the command identifying this message type on the wire.
//
// This is part of the Message interface.
func (g *GetData) Command() Command {
	return CmdGetData
}

// MaxPayloadLength returns the maximum allowed payload size for a GetData
// message.
//
// This is part of the Message interface.
func (g *GetData) MaxPayloadLength(uint32) uint32 {
	return maxInvListPayload
}

// NotFound is the reply to a GetData for objects the peer does not have.
type NotFound struct {
	// InvList is the list of objects that could not be served.
	InvList []Inventory
}

// A compile time check to ensure NotFound implements the Message interface.
var _ Message = (*NotFound)(nil)

// Decode deserializes a serialized NotFound message stored in the passed
// io.Reader observing the specified protocol version.
//
// This is part of the Message interface.
func (n *NotFound) Decode(r io.Reader, pver uint32) error {
	return readElements(r, pver, &n.InvList)
}

// Encode serializes the target NotFound into the passed buffer observing the
// protocol version specified.
//
// This is part of the Message interface.
func (n *NotFound) Encode(w *bytes.Buffer, pver uint32) error {
	return writeElements(w, pver, &n.InvList)
}

// Command returns the command identifying this message type on the wire.
//
// This is part of the Message interface.
func (n *NotFound) Command() Command {
	return CmdNotFound
}

// MaxPayloadLength returns the maximum allowed payload size for a NotFound
// message.
//
// This is part of the Message interface.
func (n *NotFound) MaxPayloadLength(uint32) uint32 {
	return maxInvListPayload
}
