package netwire

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestPayloadRoundTrip checks that every message type decodes back to the
// value it was encoded from and that decoding consumes the whole payload.
func TestPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	for _, testMsg := range AllTestMessages() {
		testMsg := testMsg
		name := fmt.Sprintf("%T", testMsg)

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rapid.Check(t, func(r *rapid.T) {
				msg := testMsg.RandTestMessage(r)

				payload, err := EncodePayload(msg, ProtocolVersion)
				require.NoError(r, err)

				// Encoding is deterministic.
				again, err := EncodePayload(msg, ProtocolVersion)
				require.NoError(r, err)
				require.Equal(r, payload, again)

				decoded := makeEmptyMessage(msg.Command())
				n, err := DecodePayload(
					payload, decoded, ProtocolVersion,
				)
				require.NoError(r, err)
				require.Equal(r, len(payload), n)
				require.Equal(r, msg, decoded)
			})
		})
	}
}

// TestEnvelopeRoundTrip frames every message type and decodes it again.
func TestEnvelopeRoundTrip(t *testing.T) {
	t.Parallel()

	dec := NewEnvelopeDecoder(wire.TestNet3, ProtocolVersion)

	rapid.Check(t, func(r *rapid.T) {
		testMsg := rapid.SampledFrom(AllTestMessages()).Draw(r, "type")
		msg := testMsg.RandTestMessage(r)

		var buf bytes.Buffer
		n, err := WriteMessage(&buf, wire.TestNet3, msg, ProtocolVersion)
		require.NoError(r, err)
		require.Equal(r, buf.Len(), n)

		env, consumed, err := dec.Decode(buf.Bytes())
		require.NoError(r, err)
		require.Equal(r, n, consumed)
		require.Equal(r, wire.TestNet3, env.Net)
		require.Equal(r, msg, env.Message)
	})
}

// TestDecodePayloadIncomplete checks that every strict prefix of a payload
// with a fixed layout reports ErrIncomplete.
func TestDecodePayloadIncomplete(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(r *rapid.T) {
		testMsg := rapid.SampledFrom([]TestMessage{
			&Ping{}, &Pong{}, &Alert{}, &Inv{}, &GetBlocks{},
			&GetHeaders{}, &GetCFilters{}, &GetCFHeaders{},
			&CFilter{}, &CFHeaders{}, &GetCFCheckpt{},
			&CFCheckpt{},
		}).Draw(r, "type")
		msg := testMsg.RandTestMessage(r)

		payload, err := EncodePayload(msg, ProtocolVersion)
		require.NoError(r, err)

		cut := rapid.IntRange(0, len(payload)-1).Draw(r, "cut")
		decoded := makeEmptyMessage(msg.Command())
		_, err = DecodePayload(payload[:cut], decoded, ProtocolVersion)
		require.ErrorIs(r, err, ErrIncomplete)
		require.False(r, IsMalformed(err))
	})
}

// TestDecodePayloadLeavesTrailingBytes reports only the bytes the payload
// occupies.
func TestDecodePayloadLeavesTrailingBytes(t *testing.T) {
	t.Parallel()

	payload, err := EncodePayload(NewPing(7), ProtocolVersion)
	require.NoError(t, err)

	var ping Ping
	n, err := DecodePayload(
		append(payload, 0xde, 0xad), &ping, ProtocolVersion,
	)
	require.NoError(t, err)
	require.Equal(t, 8, n)
	require.Equal(t, uint64(7), ping.Nonce)
}

// TestDecodePayloadVersionIncomplete cuts a version payload without a relay
// flag anywhere before its end.
func TestDecodePayloadVersionIncomplete(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(r *rapid.T) {
		version := (&Version{}).RandTestMessage(r).(*Version)
		version.Relay = fn.None[bool]()

		payload, err := EncodePayload(version, ProtocolVersion)
		require.NoError(r, err)

		cut := rapid.IntRange(0, len(payload)-1).Draw(r, "cut")
		var decoded Version
		_, err = DecodePayload(payload[:cut], &decoded, ProtocolVersion)
		require.ErrorIs(r, err, ErrIncomplete)
		require.False(r, IsMalformed(err))
	})
}

// TestDecodePayloadUndelimited pins that Version and Unknown payloads extend
// to the end of the slice they are given.
func TestDecodePayloadUndelimited(t *testing.T) {
	t.Parallel()

	version := &Version{
		ProtocolVersion: int32(ProtocolVersion),
		UserAgent:       "/wiredump:0.1.0/",
		Relay:           fn.None[bool](),
	}
	payload, err := EncodePayload(version, ProtocolVersion)
	require.NoError(t, err)

	// A byte after the height is the relay flag.
	var decoded Version
	n, err := DecodePayload(
		append(payload, 0x01, 0xaa), &decoded, ProtocolVersion,
	)
	require.NoError(t, err)
	require.Equal(t, len(payload)+1, n)
	require.Equal(t, fn.Some(true), decoded.Relay)

	// Without it the flag stays unset.
	decoded = Version{}
	n, err = DecodePayload(payload, &decoded, ProtocolVersion)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)
	require.True(t, decoded.Relay.IsNone())

	unknown := &Unknown{Cmd: "feefilter"}
	n, err = DecodePayload([]byte{1, 2, 3}, unknown, ProtocolVersion)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte{1, 2, 3}, unknown.Payload)
}

// TestDecodePayloadNonCanonicalCount rejects a compact size that is not
// minimally encoded.
func TestDecodePayloadNonCanonicalCount(t *testing.T) {
	t.Parallel()

	// 0xfd followed by a two byte count of 1.
	payload := []byte{0xfd, 0x01, 0x00}
	payload = append(payload, make([]byte, inventorySize)...)

	var inv Inv
	_, err := DecodePayload(payload, &inv, ProtocolVersion)
	require.True(t, IsMalformed(err))

	var m *MalformedError
	require.ErrorAs(t, err, &m)
	require.Equal(t, CmdInv, m.Command)
}

// TestWriteMessageAllOrNothing leaves the buffer untouched when a message
// cannot be encoded.
func TestWriteMessageAllOrNothing(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := WriteMessage(&buf, wire.MainNet, &VerAck{}, ProtocolVersion)
	require.NoError(t, err)
	before := bytes.Clone(buf.Bytes())

	tooLong := &Version{UserAgent: string(make([]byte, MaxUserAgentLen+1))}
	n, err := WriteMessage(&buf, wire.MainNet, tooLong, ProtocolVersion)
	require.Error(t, err)
	require.Zero(t, n)
	require.Equal(t, before, buf.Bytes())

	badCmd := &Unknown{Cmd: "thiscommandistoolong"}
	_, err = WriteMessage(&buf, wire.MainNet, badCmd, ProtocolVersion)
	require.Error(t, err)
	require.Equal(t, before, buf.Bytes())

	tooManyHashes := &GetBlocks{
		BlockLocatorHashes: make(
			[]chainhash.Hash, MaxBlockLocatorsPerMsg+1,
		),
	}
	_, err = WriteMessage(&buf, wire.MainNet, tooManyHashes, ProtocolVersion)
	require.Error(t, err)
	require.Equal(t, before, buf.Bytes())
}
