package netwire

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/fn/v2"
	"pgregory.net/rapid"
)

// TestMessage is an interface that extends the base Message interface with a
// method to populate the message with random testing data.
type TestMessage interface {
	Message

	// RandTestMessage populates the message with random data suitable for
	// testing. It uses the rapid testing framework to generate random
	// values.
	RandTestMessage(t *rapid.T) Message
}

// RandHash returns a random 32-byte hash.
func RandHash(t *rapid.T, label string) chainhash.Hash {
	var h chainhash.Hash
	copy(h[:], rapid.SliceOfN(rapid.Byte(), HashSize, HashSize).Draw(
		t, label,
	))

	return h
}

// RandHashes returns up to maxLen random hashes. An empty list is nil, matching
// what decoding produces.
func RandHashes(t *rapid.T, maxLen int, label string) []chainhash.Hash {
	n := rapid.IntRange(0, maxLen).Draw(t, label+"Len")
	if n == 0 {
		return nil
	}

	hashes := make([]chainhash.Hash, n)
	for i := range hashes {
		hashes[i] = RandHash(t, label)
	}

	return hashes
}

// RandBytes returns up to maxLen random bytes, nil when empty.
func RandBytes(t *rapid.T, maxLen int, label string) []byte {
	b := rapid.SliceOfN(rapid.Byte(), 0, maxLen).Draw(t, label)
	if len(b) == 0 {
		return nil
	}

	return b
}

// RandInvType returns one of the defined inventory types.
func RandInvType(t *rapid.T) InvType {
	return rapid.SampledFrom([]InvType{
		InvTypeError, InvTypeTx, InvTypeBlock, InvTypeWitnessTx,
		InvTypeWitnessBlock,
	}).Draw(t, "invType")
}

// RandInventory returns an inventory of a defined type.
func RandInventory(t *rapid.T) Inventory {
	return NewInventory(RandInvType(t), RandHash(t, "invHash"))
}

// RandInventoryList returns up to maxLen inventories, nil when empty.
func RandInventoryList(t *rapid.T, maxLen int) []Inventory {
	n := rapid.IntRange(0, maxLen).Draw(t, "invListLen")
	if n == 0 {
		return nil
	}

	list := make([]Inventory, n)
	for i := range list {
		list[i] = RandInventory(t)
	}

	return list
}

// RandNetAddress returns a random version message address.
func RandNetAddress(t *rapid.T, label string) NetAddress {
	var addr NetAddress
	addr.Services = rapid.Uint64().Draw(t, label+"Services")
	copy(addr.IP[:], rapid.SliceOfN(rapid.Byte(), 16, 16).Draw(
		t, label+"IP",
	))
	addr.Port = rapid.Uint16().Draw(t, label+"Port")

	return addr
}

// A compile time check to ensure Version implements the TestMessage
// interface.
var _ TestMessage = (*Version)(nil)

// RandTestMessage populates the message with random data suitable for testing.
//
// This is part of the TestMessage interface.
func (v *Version) RandTestMessage(t *rapid.T) Message {
	msg := &Version{
		ProtocolVersion: rapid.Int32().Draw(t, "protocolVersion"),
		Services:        rapid.Uint64().Draw(t, "services"),
		Timestamp:       rapid.Int64().Draw(t, "timestamp"),
		AddrRecv:        RandNetAddress(t, "addrRecv"),
		AddrFrom:        RandNetAddress(t, "addrFrom"),
		Nonce:           rapid.Uint64().Draw(t, "nonce"),
		UserAgent: rapid.StringN(0, 64, MaxUserAgentLen).Draw(
			t, "userAgent",
		),
		LastBlock: rapid.Int32().Draw(t, "lastBlock"),
		Relay:     fn.None[bool](),
	}

	if rapid.Bool().Draw(t, "includeRelay") {
		msg.Relay = fn.Some(rapid.Bool().Draw(t, "relay"))
	}

	return msg
}

// A compile time check to ensure VerAck implements the TestMessage interface.
var _ TestMessage = (*VerAck)(nil)

// RandTestMessage returns an empty VerAck.
//
// This is part of the TestMessage interface.
func (v *VerAck) RandTestMessage(*rapid.T) Message {
	return &VerAck{}
}

// A compile time check to ensure SendHeaders implements the TestMessage
// interface.
var _ TestMessage = (*SendHeaders)(nil)

// RandTestMessage returns an empty SendHeaders.
//
// This is part of the TestMessage interface.
func (s *SendHeaders) RandTestMessage(*rapid.T) Message {
	return &SendHeaders{}
}

// A compile time check to ensure Ping implements the TestMessage interface.
var _ TestMessage = (*Ping)(nil)

// RandTestMessage populates the message with random data suitable for testing.
//
// This is part of the TestMessage interface.
func (p *Ping) RandTestMessage(t *rapid.T) Message {
	return NewPing(rapid.Uint64().Draw(t, "nonce"))
}

// A compile time check to ensure Pong implements the TestMessage interface.
var _ TestMessage = (*Pong)(nil)

// RandTestMessage populates the message with random data suitable for testing.
//
// This is part of the TestMessage interface.
func (p *Pong) RandTestMessage(t *rapid.T) Message {
	return NewPong(rapid.Uint64().Draw(t, "nonce"))
}

// A compile time check to ensure Alert implements the TestMessage interface.
var _ TestMessage = (*Alert)(nil)

// RandTestMessage populates the message with random data suitable for testing.
//
// This is part of the TestMessage interface.
func (a *Alert) RandTestMessage(t *rapid.T) Message {
	return &Alert{
		Payload:   RandBytes(t, 300, "payload"),
		Signature: RandBytes(t, 80, "signature"),
	}
}

// A compile time check to ensure Inv implements the TestMessage interface.
var _ TestMessage = (*Inv)(nil)

// RandTestMessage populates the message with random data suitable for testing.
//
// This is part of the TestMessage interface.
func (i *Inv) RandTestMessage(t *rapid.T) Message {
	return &Inv{InvList: RandInventoryList(t, 20)}
}

// A compile time check to ensure GetData implements the TestMessage
// interface.
var _ TestMessage = (*GetData)(nil)

// RandTestMessage populates the message with random data suitable for testing.
//
// This is part of the TestMessage interface.
func (g *GetData) RandTestMessage(t *rapid.T) Message {
	return &GetData{InvList: RandInventoryList(t, 20)}
}

// A compile time check to ensure NotFound implements the TestMessage
// interface.
var _ TestMessage = (*NotFound)(nil)

// RandTestMessage populates the message with random data suitable for testing.
//
// This is part of the TestMessage interface.
func (n *NotFound) RandTestMessage(t *rapid.T) Message {
	return &NotFound{InvList: RandInventoryList(t, 20)}
}

// A compile time check to ensure GetBlocks implements the TestMessage
// interface.
var _ TestMessage = (*GetBlocks)(nil)

// RandTestMessage populates the message with random data suitable for testing.
//
// This is part of the TestMessage interface.
func (g *GetBlocks) RandTestMessage(t *rapid.T) Message {
	return &GetBlocks{
		ProtocolVersion:    rapid.Uint32().Draw(t, "protocolVersion"),
		BlockLocatorHashes: RandHashes(t, 30, "locator"),
		HashStop:           RandHash(t, "hashStop"),
	}
}

// A compile time check to ensure GetHeaders implements the TestMessage
// interface.
var _ TestMessage = (*GetHeaders)(nil)

// RandTestMessage populates the message with random data suitable for testing.
//
// This is part of the TestMessage interface.
func (g *GetHeaders) RandTestMessage(t *rapid.T) Message {
	return &GetHeaders{
		ProtocolVersion:    rapid.Uint32().Draw(t, "protocolVersion"),
		BlockLocatorHashes: RandHashes(t, 30, "locator"),
		HashStop:           RandHash(t, "hashStop"),
	}
}

// A compile time check to ensure GetCFilters implements the TestMessage
// interface.
var _ TestMessage = (*GetCFilters)(nil)

// RandTestMessage populates the message with random data suitable for testing.
//
// This is part of the TestMessage interface.
func (g *GetCFilters) RandTestMessage(t *rapid.T) Message {
	return &GetCFilters{
		FilterType:  rapid.Uint8().Draw(t, "filterType"),
		StartHeight: rapid.Uint32().Draw(t, "startHeight"),
		StopHash:    RandHash(t, "stopHash"),
	}
}

// A compile time check to ensure GetCFHeaders implements the TestMessage
// interface.
var _ TestMessage = (*GetCFHeaders)(nil)

// RandTestMessage populates the message with random data suitable for testing.
//
// This is part of the TestMessage interface.
func (g *GetCFHeaders) RandTestMessage(t *rapid.T) Message {
	return &GetCFHeaders{
		FilterType: rapid.Uint8().Draw(t, "filterType"),
		BlockHash:  RandHash(t, "blockHash"),
		StopHash:   RandHash(t, "stopHash"),
	}
}

// A compile time check to ensure CFilter implements the TestMessage
// interface.
var _ TestMessage = (*CFilter)(nil)

// RandTestMessage populates the message with random data suitable for testing.
//
// This is part of the TestMessage interface.
func (c *CFilter) RandTestMessage(t *rapid.T) Message {
	return &CFilter{
		FilterType: rapid.Uint8().Draw(t, "filterType"),
		BlockHash:  RandHash(t, "blockHash"),
		Data:       RandBytes(t, 500, "data"),
	}
}

// A compile time check to ensure CFHeaders implements the TestMessage
// interface.
var _ TestMessage = (*CFHeaders)(nil)

// RandTestMessage populates the message with random data suitable for testing.
//
// This is part of the TestMessage interface.
func (c *CFHeaders) RandTestMessage(t *rapid.T) Message {
	return &CFHeaders{
		FilterType:       rapid.Uint8().Draw(t, "filterType"),
		StopHash:         RandHash(t, "stopHash"),
		PrevFilterHeader: RandHash(t, "prevFilterHeader"),
		FilterHashes:     RandHashes(t, 30, "filterHashes"),
	}
}

// A compile time check to ensure GetCFCheckpt implements the TestMessage
// interface.
var _ TestMessage = (*GetCFCheckpt)(nil)

// RandTestMessage populates the message with random data suitable for testing.
//
// This is part of the TestMessage interface.
func (g *GetCFCheckpt) RandTestMessage(t *rapid.T) Message {
	return &GetCFCheckpt{
		FilterType: rapid.Uint8().Draw(t, "filterType"),
		StopHash:   RandHash(t, "stopHash"),
	}
}

// A compile time check to ensure CFCheckpt implements the TestMessage
// interface.
var _ TestMessage = (*CFCheckpt)(nil)

// RandTestMessage populates the message with random data suitable for testing.
//
// This is part of the TestMessage interface.
func (c *CFCheckpt) RandTestMessage(t *rapid.T) Message {
	return &CFCheckpt{
		FilterType:    rapid.Uint8().Draw(t, "filterType"),
		StopHash:      RandHash(t, "stopHash"),
		FilterHeaders: RandHashes(t, 30, "filterHeaders"),
	}
}

// A compile time check to ensure Unknown implements the TestMessage
// interface.
var _ TestMessage = (*Unknown)(nil)

// RandTestMessage populates the message with a command no other message type
// uses and a random payload.
//
// This is part of the TestMessage interface.
func (u *Unknown) RandTestMessage(t *rapid.T) Message {
	return &Unknown{
		Cmd: Command(rapid.StringMatching(`x[a-z0-9]{0,11}`).Draw(
			t, "command",
		)),
		Payload: RandBytes(t, 300, "payload"),
	}
}

// AllTestMessages returns one value of every message type that implements
// TestMessage.
func AllTestMessages() []TestMessage {
	return []TestMessage{
		&Version{}, &VerAck{}, &SendHeaders{}, &Ping{}, &Pong{},
		&Alert{}, &Inv{}, &GetData{}, &NotFound{}, &GetBlocks{},
		&GetHeaders{}, &GetCFilters{}, &GetCFHeaders{}, &CFilter{},
		&CFHeaders{}, &GetCFCheckpt{}, &CFCheckpt{}, &Unknown{},
	}
}
