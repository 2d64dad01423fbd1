package netwire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

const (
	// ProtocolVersion is the protocol version advertised by messages
	// constructed by this package.
	ProtocolVersion uint32 = 70001

	// HashSize is the size of every hash field on the wire.
	HashSize = chainhash.HashSize

	// CommandSize is the fixed size of the command field of an envelope.
	CommandSize = wire.CommandSize

	// MessageHeaderSize is the number of bytes in an envelope header:
	// magic (4) + command (12) + payload length (4) + checksum (4).
	MessageHeaderSize = wire.MessageHeaderSize

	// MaxMessagePayload is the largest payload any envelope may announce.
	MaxMessagePayload = wire.MaxMessagePayload

	// MaxBlockLocatorsPerMsg is the maximum number of locator hashes in a
	// getblocks or getheaders message.
	MaxBlockLocatorsPerMsg = 500

	// MaxInvPerMsg is the maximum number of inventory objects in a single
	// inv, getdata or notfound message.
	MaxInvPerMsg = 50000

	// MaxCFHeadersPerMsg is the maximum number of filter hashes in a
	// cfheaders or cfcheckpt message.
	MaxCFHeadersPerMsg = 2000

	// MaxCFilterDataSize is the largest filter a cfilter message may
	// carry.
	MaxCFilterDataSize = 256 * 1024

	// MaxUserAgentLen is the longest user agent a version message may
	// carry.
	MaxUserAgentLen = 256

	// maxHashListLen bounds hash lists that are not declared with a
	// tighter limit.
	maxHashListLen = MaxInvPerMsg
)

// hashList is a field descriptor for a compact-size prefixed list of hashes
// bounded by max entries.
type hashList struct {
	hashes *[]chainhash.Hash
	max    uint64
	name   string
}

// boundedHashes declares a hash list field holding at most max entries.
func boundedHashes(hashes *[]chainhash.Hash, max uint64,
	name string) hashList {

	return hashList{hashes: hashes, max: max, name: name}
}

// varBytes is a field descriptor for a compact-size prefixed byte slice
// bounded by max bytes.
type varBytes struct {
	data *[]byte
	max  uint32
	name string
}

// boundedBytes declares a byte slice field holding at most max bytes.
func boundedBytes(data *[]byte, max uint32, name string) varBytes {
	return varBytes{data: data, max: max, name: name}
}

// writeElement writes the little endian representation of element to w.
// Every element is passed as a pointer to the field it encodes so that the
// same field list drives both directions.
func writeElement(w *bytes.Buffer, pver uint32, element interface{}) error {
	switch e := element.(type) {
	case *uint8:
		return w.WriteByte(*e)

	case *uint16:
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], *e)
		_, err := w.Write(b[:])
		return err

	case *uint32:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], *e)
		_, err := w.Write(b[:])
		return err

	case *int32:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(*e))
		_, err := w.Write(b[:])
		return err

	case *uint64:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], *e)
		_, err := w.Write(b[:])
		return err

	case *int64:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(*e))
		_, err := w.Write(b[:])
		return err

	case *bool:
		var b byte
		if *e {
			b = 1
		}
		return w.WriteByte(b)

	case *InvType:
		v := uint32(*e)
		return writeElement(w, pver, &v)

	case *chainhash.Hash:
		_, err := w.Write(e[:])
		return err

	case *[]chainhash.Hash:
		return writeElement(
			w, pver, boundedHashes(e, maxHashListLen, "hashes"),
		)

	case hashList:
		count := uint64(len(*e.hashes))
		if count > e.max {
			return fmt.Errorf("too many %s: %d, max %d", e.name,
				count, e.max)
		}
		if err := wire.WriteVarInt(w, pver, count); err != nil {
			return err
		}
		for i := range *e.hashes {
			if _, err := w.Write((*e.hashes)[i][:]); err != nil {
				return err
			}
		}

		return nil

	case *[]byte:
		return writeElement(
			w, pver, boundedBytes(e, MaxMessagePayload, "bytes"),
		)

	case varBytes:
		if uint64(len(*e.data)) > uint64(e.max) {
			return fmt.Errorf("%s too long: %d bytes, max %d",
				e.name, len(*e.data), e.max)
		}

		return wire.WriteVarBytes(w, pver, *e.data)

	case *string:
		return wire.WriteVarString(w, pver, *e)

	case *Inventory:
		return writeElements(w, pver, e.elements()...)

	case *[]Inventory:
		count := uint64(len(*e))
		if count > MaxInvPerMsg {
			return fmt.Errorf("too many inventory objects: %d, "+
				"max %d", count, MaxInvPerMsg)
		}
		if err := wire.WriteVarInt(w, pver, count); err != nil {
			return err
		}
		for i := range *e {
			if err := writeElement(w, pver, &(*e)[i]); err != nil {
				return err
			}
		}

		return nil

	case *NetAddress:
		if err := writeElement(w, pver, &e.Services); err != nil {
			return err
		}
		if _, err := w.Write(e.IP[:]); err != nil {
			return err
		}

		// The port is the one big endian field of the protocol.
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], e.Port)
		_, err := w.Write(b[:])
		return err

	default:
		return fmt.Errorf("unknown type in writeElement: %T", e)
	}
}

// writeElements writes each element in the elements slice to the passed
// buffer using writeElement.
func writeElements(w *bytes.Buffer, pver uint32,
	elements ...interface{}) error {

	for _, element := range elements {
		if err := writeElement(w, pver, element); err != nil {
			return err
		}
	}

	return nil
}

// readElement is a one-stop utility function to deserialize any datastructure
// encoded using the serialization format of the bitcoin wire protocol.
func readElement(r io.Reader, pver uint32, element interface{}) error {
	switch e := element.(type) {
	case *uint8:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		*e = b[0]

	case *uint16:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		*e = binary.LittleEndian.Uint16(b[:])

	case *uint32:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		*e = binary.LittleEndian.Uint32(b[:])

	case *int32:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		*e = int32(binary.LittleEndian.Uint32(b[:]))

	case *uint64:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		*e = binary.LittleEndian.Uint64(b[:])

	case *int64:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		*e = int64(binary.LittleEndian.Uint64(b[:]))

	case *bool:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		*e = b[0] != 0

	case *InvType:
		var v uint32
		if err := readElement(r, pver, &v); err != nil {
			return err
		}

		invType := InvType(v)
		if !invType.IsKnown() {
			return malformed(
				"", "unknown inventory type",
				&UnknownInvTypeError{Type: v},
			)
		}
		*e = invType

	case *chainhash.Hash:
		if _, err := io.ReadFull(r, e[:]); err != nil {
			return err
		}

	case *[]chainhash.Hash:
		return readElement(
			r, pver, boundedHashes(e, maxHashListLen, "hashes"),
		)

	case hashList:
		count, err := wire.ReadVarInt(r, pver)
		if err != nil {
			return err
		}
		if count > e.max {
			return malformed("", fmt.Sprintf("too many %s: %d, "+
				"max %d", e.name, count, e.max), nil)
		}

		// An empty list decodes to nil so that decoded values compare
		// equal to their zero value.
		var hashes []chainhash.Hash
		if count > 0 {
			hashes = make([]chainhash.Hash, count)
		}
		for i := range hashes {
			if _, err := io.ReadFull(r, hashes[i][:]); err != nil {
				return err
			}
		}
		*e.hashes = hashes

	case *[]byte:
		return readElement(
			r, pver, boundedBytes(e, MaxMessagePayload, "bytes"),
		)

	case varBytes:
		b, err := wire.ReadVarBytes(r, pver, e.max, e.name)
		if err != nil {
			return err
		}
		if len(b) == 0 {
			b = nil
		}
		*e.data = b

	case *string:
		s, err := wire.ReadVarString(r, pver)
		if err != nil {
			return err
		}
		*e = s

	case *Inventory:
		return readElements(r, pver, e.elements()...)

	case *[]Inventory:
		count, err := wire.ReadVarInt(r, pver)
		if err != nil {
			return err
		}
		if count > MaxInvPerMsg {
			return malformed("", fmt.Sprintf("too many inventory "+
				"objects: %d, max %d", count, MaxInvPerMsg),
				nil)
		}

		var invList []Inventory
		if count > 0 {
			invList = make([]Inventory, count)
		}
		for i := range invList {
			if err := readElement(r, pver, &invList[i]); err != nil {
				return err
			}
		}
		*e = invList

	case *NetAddress:
		if err := readElement(r, pver, &e.Services); err != nil {
			return err
		}
		if _, err := io.ReadFull(r, e.IP[:]); err != nil {
			return err
		}

		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		e.Port = binary.BigEndian.Uint16(b[:])

	default:
		return fmt.Errorf("unknown type in readElement: %T", e)
	}

	return nil
}

// readElements deserializes a variable number of elements into the passed
// io.Reader, with each element being deserialized according to the
// readElement function.
func readElements(r io.Reader, pver uint32, elements ...interface{}) error {
	for _, element := range elements {
		if err := readElement(r, pver, element); err != nil {
			return err
		}
	}

	return nil
}
