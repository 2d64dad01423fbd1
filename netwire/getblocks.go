package netwire

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// maxLocatorPayload is the largest payload of a getblocks or getheaders
// message: version, locator list and stop hash.
const maxLocatorPayload = 4 + maxVarIntPayload +
	MaxBlockLocatorsPerMsg*HashSize + HashSize

// GetBlocks asks a peer for an inv listing the blocks that follow the most
// recent block of the locator the peer knows about.
type GetBlocks struct {
	// ProtocolVersion is the protocol version of the requester.
	ProtocolVersion uint32

	// BlockLocatorHashes is ordered newest to oldest. The remote peer
	// walks the list to find the most recent common ancestor.
	BlockLocatorHashes []chainhash.Hash

	// HashStop references the block to stop at. The zero hash requests
	// the maximum of 500 blocks.
	HashStop chainhash.Hash
}

// NewGetBlocks returns a getblocks message for the given locator and stop
// hash, advertising the package ProtocolVersion.
func NewGetBlocks(locator []chainhash.Hash,
	hashStop chainhash.Hash) *GetBlocks {

	return &GetBlocks{
		ProtocolVersion:    ProtocolVersion,
		BlockLocatorHashes: locator,
		HashStop:           hashStop,
	}
}

// A compile time check to ensure GetBlocks implements the Message interface.
var _ Message = (*GetBlocks)(nil)

// elements returns the wire fields of the message in order.
func (g *GetBlocks) elements() []interface{} {
	return []interface{}{
		&g.ProtocolVersion,
		boundedHashes(
			&g.BlockLocatorHashes, MaxBlockLocatorsPerMsg,
			"locator hashes",
		),
		&g.HashStop,
	}
}

// Decode deserializes a serialized GetBlocks message stored in the passed
// io.Reader observing the specified protocol version.
//
// This is part of the Message interface.
func (g *GetBlocks) Decode(r io.Reader, pver uint32) error {
	return readElements(r, pver, g.elements()...)
}

// Encode serializes the target GetBlocks into the passed buffer observing the
// protocol version specified.
//
// This is part of the Message interface.
func (g *GetBlocks) Encode(w *bytes.Buffer, pver uint32) error {
	return writeElements(w, pver, g.elements()...)
}

// Command returns the command identifying this message type on the wire.
//
// This is part of the Message interface.
func (g *GetBlocks) Command() Command {
	return CmdGetBlocks
}

// MaxPayloadLength returns the maximum allowed payload size for a GetBlocks
// message.
//
// This is part of the Message interface.
func (g *GetBlocks) MaxPayloadLength(uint32) uint32 {
	return maxLocatorPayload
}

// GetHeaders asks a peer for the headers that follow the most recent block
// of the locator the peer knows about.
type GetHeaders struct {
	// ProtocolVersion is the protocol version of the requester.
	ProtocolVersion uint32

	// BlockLocatorHashes is ordered newest to oldest. The remote peer
	// walks the list to find the most recent common ancestor.
	BlockLocatorHashes []chainhash.Hash

	// HashStop references the header to stop at. The zero hash requests
	// the maximum of 2000 headers.
	HashStop chainhash.Hash
}

// NewGetHeaders returns a getheaders message for the given locator and stop
// hash, advertising the package ProtocolVersion.
func NewGetHeaders(locator []chainhash.Hash,
	hashStop chainhash.Hash) *GetHeaders {

	return &GetHeaders{
		ProtocolVersion:    ProtocolVersion,
		BlockLocatorHashes: locator,
		HashStop:           hashStop,
	}
}

// A compile time check to ensure GetHeaders implements the Message interface.
var _ Message = (*GetHeaders)(nil)

// elements returns the wire fields of the message in order.
func (g *GetHeaders) elements() []interface{} {
	return []interface{}{
		&g.ProtocolVersion,
		boundedHashes(
			&g.BlockLocatorHashes, MaxBlockLocatorsPerMsg,
			"locator hashes",
		),
		&g.HashStop,
	}
}

// Decode deserializes a serialized GetHeaders message stored in the passed
// io.Reader observing the specified protocol version.
//
// This is part of the Message interface.
func (g *GetHeaders) Decode(r io.Reader, pver uint32) error {
	return readElements(r, pver, g.elements()...)
}

// Encode serializes the target GetHeaders into the passed buffer observing
// the protocol version specified.
//
// This is part of the Message interface.
func (g *GetHeaders) Encode(w *bytes.Buffer, pver uint32) error {
	return writeElements(w, pver, g.elements()...)
}

// Command returns the command identifying this message type on the wire.
//
// This is part of the Message interface.
func (g *GetHeaders) Command() Command {
	return CmdGetHeaders
}

// MaxPayloadLength returns the maximum allowed payload size for a GetHeaders
// message.
//
// This is part of the Message interface.
func (g *GetHeaders) MaxPayloadLength(uint32) uint32 {
	return maxLocatorPayload
}
