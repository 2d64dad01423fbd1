package netwire

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// GCSFilterRegular is the regular BIP158 filter type, carried in the
// FilterType field of the messages below.
const GCSFilterRegular uint8 = 0

// GetCFilters requests the compact filters of a range of blocks.
type GetCFilters struct {
	FilterType  uint8
	StartHeight uint32
	StopHash    chainhash.Hash
}

// A compile time check to ensure GetCFilters implements the Message interface.
var _ Message = (*GetCFilters)(nil)

func (g *GetCFilters) elements() []interface{} {
	return []interface{}{&g.FilterType, &g.StartHeight, &g.StopHash}
}

// Decode deserializes a serialized GetCFilters message stored in the passed
// io.Reader observing the specified protocol version.
//
// This is part of the Message interface.
func (g *GetCFilters) Decode(r io.Reader, pver uint32) error {
	return readElements(r, pver, g.elements()...)
}

// Encode serializes the target GetCFilters into the passed buffer observing
// the protocol version specified.
//
// This is part of the Message interface.
func (g *GetCFilters) Encode(w *bytes.Buffer, pver uint32) error {
	return writeElements(w, pver, g.elements()...)
}

// Command returns the command identifying this message type on the wire.
//
// This is part of the Message interface.
func (g *GetCFilters) Command() Command {
	return CmdGetCFilters
}

// MaxPayloadLength returns the maximum allowed payload size.
//
// This is part of the Message interface.
func (g *GetCFilters) MaxPayloadLength(uint32) uint32 {
	return 1 + 4 + HashSize
}

// GetCFHeaders requests the filter headers of the blocks between BlockHash
// and StopHash.
type GetCFHeaders struct {
	FilterType uint8
	BlockHash  chainhash.Hash
	StopHash   chainhash.Hash
}

// A compile time check to ensure GetCFHeaders implements the Message
// interface.
var _ Message = (*GetCFHeaders)(nil)

func (g *GetCFHeaders) elements() []interface{} {
	return []interface{}{&g.FilterType, &g.BlockHash, &g.StopHash}
}

// Decode deserializes a serialized GetCFHeaders message stored in the passed
// io.Reader observing the specified protocol version.
//
// This is part of the Message interface.
func (g *GetCFHeaders) Decode(r io.Reader, pver uint32) error {
	return readElements(r, pver, g.elements()...)
}

// Encode serializes the target GetCFHeaders into the passed buffer observing
// the protocol version specified.
//
// This is part of the Message interface.
func (g *GetCFHeaders) Encode(w *bytes.Buffer, pver uint32) error {
	return writeElements(w, pver, g.elements()...)
}

// Command returns the command identifying this message type on the wire.
//
// This is part of the Message interface.
func (g *GetCFHeaders) Command() Command {
	return CmdGetCFHeaders
}

// MaxPayloadLength returns the maximum allowed payload size.
//
// This is part of the Message interface.
func (g *GetCFHeaders) MaxPayloadLength(uint32) uint32 {
	return 1 + 2*HashSize
}

// CFilter carries the compact filter of a single block.
type CFilter struct {
	FilterType uint8
	BlockHash  chainhash.Hash

	// Data is the serialized filter.
	Data []byte
}

// A compile time check to ensure CFilter implements the Message interface.
var _ Message = (*CFilter)(nil)

func (c *CFilter) elements() []interface{} {
	return []interface{}{
		&c.FilterType,
		&c.BlockHash,
		boundedBytes(&c.Data, MaxCFilterDataSize, "filter data"),
	}
}

// Decode deserializes a serialized CFilter message stored in the passed
// io.Reader observing the specified protocol version.
//
// This is part of the Message interface.
func (c *CFilter) Decode(r io.Reader, pver uint32) error {
	return readElements(r, pver, c.elements()...)
}

// Encode serializes the target CFilter into the passed buffer observing the
// protocol version specified.
//
// This is part of the Message interface.
func (c *CFilter) Encode(w *bytes.Buffer, pver uint32) error {
	return writeElements(w, pver, c.elements()...)
}

// Command returns the command identifying this message type on the wire.
//
// This is part of the Message interface.
func (c *CFilter) Command() Command {
	return CmdCFilter
}

// MaxPayloadLength returns the maximum allowed payload size.
//
// This is part of the Message interface.
func (c *CFilter) MaxPayloadLength(uint32) uint32 {
	return 1 + HashSize + maxVarIntPayload + MaxCFilterDataSize
}

// CFHeaders carries a range of filter hashes, anchored by the filter header
// preceding the range.
type CFHeaders struct {
	FilterType       uint8
	StopHash         chainhash.Hash
	PrevFilterHeader chainhash.Hash
	FilterHashes     []chainhash.Hash
}

// A compile time check to ensure CFHeaders implements the Message interface.
var _ Message = (*CFHeaders)(nil)

func (c *CFHeaders) elements() []interface{} {
	return []interface{}{
		&c.FilterType,
		&c.StopHash,
		&c.PrevFilterHeader,
		boundedHashes(
			&c.FilterHashes, MaxCFHeadersPerMsg, "filter hashes",
		),
	}
}

// Decode deserializes a serialized CFHeaders message stored in the passed
// io.Reader observing the specified protocol version.
//
// This is part of the Message interface.
func (c *CFHeaders) Decode(r io.Reader, pver uint32) error {
	return readElements(r, pver, c.elements()...)
}

// Encode serializes the target CFHeaders into the passed buffer observing the
// protocol version specified.
//
// This is part of the Message interface.
func (c *CFHeaders) Encode(w *bytes.Buffer, pver uint32) error {
	return writeElements(w, pver, c.elements()...)
}

// Command returns the command identifying this message type on the wire.
//
// This is part of the Message interface.
func (c *CFHeaders) Command() Command {
	return CmdCFHeaders
}

// MaxPayloadLength returns the maximum allowed payload size.
//
// This is part of the Message interface.
func (c *CFHeaders) MaxPayloadLength(uint32) uint32 {
	return 1 + 2*HashSize + maxVarIntPayload +
		MaxCFHeadersPerMsg*HashSize
}

// GetCFCheckpt requests filter headers at evenly spaced intervals up to
// StopHash.
type GetCFCheckpt struct {
	FilterType uint8
	StopHash   chainhash.Hash
}

// A compile time check to ensure GetCFCheckpt implements the Message
// interface.
var _ Message = (*GetCFCheckpt)(nil)

func (g *GetCFCheckpt) elements() []interface{} {
	return []interface{}{&g.FilterType, &g.StopHash}
}

// Decode deserializes a serialized GetCFCheckpt message stored in the passed
// io.Reader observing the specified protocol version.
//
// This is part of the Message interface.
func (g *GetCFCheckpt) Decode(r io.Reader, pver uint32) error {
	return readElements(r, pver, g.elements()...)
}

// Encode serializes the target GetCFCheckpt into the passed buffer observing
// the protocol version specified.
//
// This is part of the Message interface.
func (g *GetCFCheckpt) Encode(w *bytes.Buffer, pver uint32) error {
	return writeElements(w, pver, g.elements()...)
}

// Command returns the command identifying this message type on the wire.
//
// This is part of the Message interface.
func (g *GetCFCheckpt) Command() Command {
	return CmdGetCFCheckpt
}

// MaxPayloadLength returns the maximum allowed payload size.
//
// This is part of the Message interface.
func (g *GetCFCheckpt) MaxPayloadLength(uint32) uint32 {
	return 1 + HashSize
}

// CFCheckpt carries the filter headers at the checkpoint interval.
type CFCheckpt struct {
	FilterType    uint8
	StopHash      chainhash.Hash
	FilterHeaders []chainhash.Hash
}

// A compile time check to ensure CFCheckpt implements the Message interface.
var _ Message = (*CFCheckpt)(nil)

func (c *CFCheckpt) elements() []interface{} {
	return []interface{}{
		&c.FilterType,
		&c.StopHash,
		boundedHashes(
			&c.FilterHeaders, MaxCFHeadersPerMsg, "filter headers",
		),
	}
}

// Decode deserializes a serialized CFCheckpt message stored in the passed
// io.Reader observing the specified protocol version.
//
// This is part of the Message interface.
func (c *CFCheckpt) Decode(r io.Reader, pver uint32) error {
	return readElements(r, pver, c.elements()...)
}

// Encode serializes the target CFCheckpt into the passed buffer observing the
// protocol version specified.
//
// This is part of the Message interface.
func (c *CFCheckpt) Encode(w *bytes.Buffer, pver uint32) error {
	return writeElements(w, pver, c.elements()...)
}

// Command returns the command identifying this message type on the wire.
//
// This is part of the Message interface.
func (c *CFCheckpt) Command() Command {
	return CmdCFCheckpt
}

// MaxPayloadLength returns the maximum allowed payload size.
//
// This is part of the Message interface.
func (c *CFCheckpt) MaxPayloadLength(uint32) uint32 {
	return 1 + HashSize + maxVarIntPayload +
		MaxCFHeadersPerMsg*HashSize
}
