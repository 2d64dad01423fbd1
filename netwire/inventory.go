package netwire

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// InvWitnessFlag is the bit set on an inventory type to request the witness
// serialization of the referenced object.
const InvWitnessFlag = 1 << 30

// InvType is the kind of object an Inventory refers to. The set of kinds is
// closed; a value outside of it is rejected when decoding.
type InvType uint32

// The inventory kinds understood on the wire.
const (
	// InvTypeError marks an inventory that can be ignored.
	InvTypeError InvType = 0

	// InvTypeTx references a transaction.
	InvTypeTx InvType = 1

	// InvTypeBlock references a block.
	InvTypeBlock InvType = 2

	// InvTypeWitnessTx references a transaction with witness data.
	InvTypeWitnessTx = InvTypeTx | InvWitnessFlag

	// InvTypeWitnessBlock references a block with witness data.
	InvTypeWitnessBlock = InvTypeBlock | InvWitnessFlag
)

// String returns the InvType in human-readable form.
func (t InvType) String() string {
	switch t {
	case InvTypeError:
		return "ERROR"
	case InvTypeTx:
		return "MSG_TX"
	case InvTypeBlock:
		return "MSG_BLOCK"
	case InvTypeWitnessTx:
		return "MSG_WITNESS_TX"
	case InvTypeWitnessBlock:
		return "MSG_WITNESS_BLOCK"
	default:
		return fmt.Sprintf("Unknown InvType (%d)", uint32(t))
	}
}

// IsKnown returns true if the type is one of the defined inventory kinds.
func (t InvType) IsKnown() bool {
	switch t {
	case InvTypeError, InvTypeTx, InvTypeBlock, InvTypeWitnessTx,
		InvTypeWitnessBlock:

		return true
	}

	return false
}

// IsWitness returns true if the witness flag is set.
func (t InvType) IsWitness() bool {
	return t&InvWitnessFlag != 0
}

// UnknownInvTypeError is returned when an inventory type tag outside of the
// defined set is decoded.
type UnknownInvTypeError struct {
	Type uint32
}

// Error returns a human readable string describing the error.
//
// This is part of the error interface.
func (u *UnknownInvTypeError) Error() string {
	return fmt.Sprintf("unknown inventory type: 0x%08x", u.Type)
}

// Inventory is a reference to a network object: the kind of object and its
// hash. It is used to advertise or request data without transmitting the
// object itself.
type Inventory struct {
	// Type is the kind of object referenced.
	Type InvType

	// Hash is the hash of the referenced object.
	Hash chainhash.Hash
}

// NewInventory returns a new Inventory using the provided type and hash.
func NewInventory(typ InvType, hash chainhash.Hash) Inventory {
	return Inventory{
		Type: typ,
		Hash: hash,
	}
}

// elements returns the wire fields of the inventory in order.
func (i *Inventory) elements() []interface{} {
	return []interface{}{&i.Type, &i.Hash}
}

// String returns the inventory in human-readable form.
func (i Inventory) String() string {
	return fmt.Sprintf("%v:%v", i.Type, i.Hash)
}
