package netwire

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

// TestInvTypeWireValues checks the exact tag written for every inventory
// type.
func TestInvTypeWireValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		invType InvType
		tag     string
	}{
		{InvTypeError, "00000000"},
		{InvTypeTx, "01000000"},
		{InvTypeBlock, "02000000"},
		{InvTypeWitnessTx, "01000040"},
		{InvTypeWitnessBlock, "02000040"},
	}

	for _, test := range tests {
		var buf bytes.Buffer
		invType := test.invType
		require.NoError(t, writeElement(&buf, ProtocolVersion, &invType))
		require.Equal(t, test.tag, hex.EncodeToString(buf.Bytes()),
			test.invType.String())

		var decoded InvType
		err := readElement(
			bytes.NewReader(buf.Bytes()), ProtocolVersion, &decoded,
		)
		require.NoError(t, err)
		require.Equal(t, test.invType, decoded)
	}

	require.EqualValues(t, 0x40000002, InvTypeWitnessBlock)
	require.EqualValues(t, 0x40000001, InvTypeWitnessTx)
	require.True(t, InvTypeWitnessBlock.IsWitness())
	require.False(t, InvTypeBlock.IsWitness())
}

// TestInventoryDecodeBlock decodes tag 2 as a block reference.
func TestInventoryDecodeBlock(t *testing.T) {
	t.Parallel()

	hash := chainhash.Hash{0x01, 0x02, 0x03}
	payload := append([]byte{0x01, 0x02, 0x00, 0x00, 0x00}, hash[:]...)

	var msg GetData
	n, err := DecodePayload(payload, &msg, ProtocolVersion)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)
	require.Equal(t, []Inventory{{Type: InvTypeBlock, Hash: hash}},
		msg.InvList)
}

// TestInventoryUnknownType rejects tags outside of the defined set without
// panicking.
func TestInventoryUnknownType(t *testing.T) {
	t.Parallel()

	for _, tag := range []uint32{3, 4, 0x40000000, 0x40000003, 0xffffffff} {
		var tagBytes [4]byte
		tagBytes[0] = byte(tag)
		tagBytes[1] = byte(tag >> 8)
		tagBytes[2] = byte(tag >> 16)
		tagBytes[3] = byte(tag >> 24)

		payload := append([]byte{0x01}, tagBytes[:]...)
		payload = append(payload, make([]byte, HashSize)...)

		var msg Inv
		require.NotPanics(t, func() {
			_, err := DecodePayload(payload, &msg, ProtocolVersion)
			require.True(t, IsMalformed(err))

			var unknown *UnknownInvTypeError
			require.ErrorAs(t, err, &unknown)
			require.Equal(t, tag, unknown.Type)

			var m *MalformedError
			require.ErrorAs(t, err, &m)
			require.Equal(t, CmdInv, m.Command)
		})
	}
}

// TestInventoryListLimit rejects a count above MaxInvPerMsg before reading
// any entries.
func TestInventoryListLimit(t *testing.T) {
	t.Parallel()

	// 0xfe prefix with a count of MaxInvPerMsg+1.
	count := uint32(MaxInvPerMsg + 1)
	payload := []byte{
		0xfe, byte(count), byte(count >> 8), byte(count >> 16),
		byte(count >> 24),
	}

	var msg NotFound
	_, err := DecodePayload(payload, &msg, ProtocolVersion)
	require.True(t, IsMalformed(err))
}

// TestInventoryEmptyList encodes an empty list as a single zero count.
func TestInventoryEmptyList(t *testing.T) {
	t.Parallel()

	payload, err := EncodePayload(&Inv{}, ProtocolVersion)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, payload)

	var msg Inv
	n, err := DecodePayload(payload, &msg, ProtocolVersion)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Nil(t, msg.InvList)
}

// TestInventoryString formats known and unknown types.
func TestInventoryString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "MSG_WITNESS_BLOCK", InvTypeWitnessBlock.String())
	require.Contains(t, InvType(7).String(), "Unknown")

	inv := NewInventory(InvTypeTx, chainhash.Hash{})
	require.Contains(t, inv.String(), "MSG_TX")
}
