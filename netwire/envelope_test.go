package netwire

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Envelopes captured from a Bitcoin Core 0.17.1 node on mainnet.
var (
	versionEnvelope = mustHex("f9beb4d976657273696f6e00000000006600" +
		"0000be61b8277f1101000d04000000000000f00f4d5c0000000000000000" +
		"0000000000000000000000000000ffff5bf08c80b4bd0d04000000000000" +
		"000000000000000000000000000000000000faa99559cc68a1c1102f5361" +
		"746f7368693a302e31372e312f938c080001")

	verAckEnvelope = mustHex("f9beb4d976657261636b00000000000000000000" +
		"5df6e0e2")

	pingEnvelope = mustHex("f9beb4d970696e6700000000000000000800" +
		"00002467f11d6400000000000000")

	alertEnvelope = mustHex("f9beb4d9616c65727400000000000000a8000000" +
		"1bf9aaea60010000000000000000000000ffffff7f00000000ffffff7ffe" +
		"ffff7f01ffffff7f00000000ffffff7f00ffffff7f002f555247454e543a" +
		"20416c657274206b657920636f6d70726f6d697365642c20757067726164" +
		"65207265717569726564004630440220653febd6410f470f6bae11cad19c" +
		"48413becb1ac2c17f908fd0fd53bdc3abd5202206d0e9c96fe88d4a0f01e" +
		"d9dedae2b6f9e00da94cad0fecaae66ecf689bf71b50")
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}

	return b
}

func mainnetDecoder() *EnvelopeDecoder {
	return NewEnvelopeDecoder(wire.MainNet, ProtocolVersion)
}

// TestDecodeCapturedEnvelopes decodes real traffic and re-encodes it byte for
// byte.
func TestDecodeCapturedEnvelopes(t *testing.T) {
	t.Parallel()

	recvIP := [16]byte{
		10: 0xff, 11: 0xff, 12: 0x5b, 13: 0xf0, 14: 0x8c, 15: 0x80,
	}

	tests := []struct {
		name string
		raw  []byte
		want Message
	}{
		{
			name: "version",
			raw:  versionEnvelope,
			want: &Version{
				ProtocolVersion: 70015,
				Services:        1037,
				Timestamp:       1548554224,
				AddrRecv: NetAddress{
					IP:   recvIP,
					Port: 46269,
				},
				AddrFrom: NetAddress{
					Services: 1037,
				},
				Nonce:     13952548347456104954,
				UserAgent: "/Satoshi:0.17.1/",
				LastBlock: 560275,
				Relay:     fn.Some(true),
			},
		},
		{
			name: "verack",
			raw:  verAckEnvelope,
			want: &VerAck{},
		},
		{
			name: "ping",
			raw:  pingEnvelope,
			want: NewPing(100),
		},
		{
			name: "alert",
			raw:  alertEnvelope,
			want: &Alert{
				Payload:   alertEnvelope[25 : 25+96],
				Signature: alertEnvelope[25+96+1:],
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			env, n, err := mainnetDecoder().Decode(test.raw)
			require.NoError(t, err)
			require.Equal(t, len(test.raw), n)
			require.Equal(t, wire.MainNet, env.Net)
			require.Equal(t, test.want, env.Message)

			var buf bytes.Buffer
			_, err = WriteMessage(
				&buf, wire.MainNet, env.Message, ProtocolVersion,
			)
			require.NoError(t, err)
			require.Equal(t, test.raw, buf.Bytes())
		})
	}
}

// TestDecodeEnvelopePrefix reports ErrIncomplete for every strict prefix of
// a valid envelope and never consumes anything.
func TestDecodeEnvelopePrefix(t *testing.T) {
	t.Parallel()

	for _, raw := range [][]byte{
		versionEnvelope, verAckEnvelope, pingEnvelope, alertEnvelope,
	} {
		for i := 0; i < len(raw); i++ {
			env, n, err := mainnetDecoder().Decode(raw[:i])
			require.ErrorIs(t, err, ErrIncomplete, "prefix %d", i)
			require.Nil(t, env)
			require.Zero(t, n)
		}
	}
}

// TestDecodeEnvelopeTrailingStream decodes only the first envelope of a
// longer buffer.
func TestDecodeEnvelopeTrailingStream(t *testing.T) {
	t.Parallel()

	raw := append(bytes.Clone(pingEnvelope), verAckEnvelope[:10]...)

	env, n, err := mainnetDecoder().Decode(raw)
	require.NoError(t, err)
	require.Equal(t, len(pingEnvelope), n)
	require.Equal(t, CmdPing, env.Message.Command())
}

// TestDecodeEnvelopeMalformed covers the ways a header or payload can be
// rejected.
func TestDecodeEnvelopeMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(b []byte) []byte
	}{
		{
			name: "wrong magic",
			mutate: func(b []byte) []byte {
				binary.LittleEndian.PutUint32(
					b[0:4], uint32(wire.TestNet3),
				)
				return b
			},
		},
		{
			name: "bad checksum",
			mutate: func(b []byte) []byte {
				b[20] ^= 0xff
				return b
			},
		},
		{
			name: "non printable command",
			mutate: func(b []byte) []byte {
				b[4] = 0x07
				return b
			},
		},
		{
			name: "garbage after command padding",
			mutate: func(b []byte) []byte {
				b[15] = 'x'
				return b
			},
		},
		{
			name: "empty command",
			mutate: func(b []byte) []byte {
				copy(b[4:16], make([]byte, CommandSize))
				return b
			},
		},
		{
			name: "length above protocol maximum",
			mutate: func(b []byte) []byte {
				binary.LittleEndian.PutUint32(
					b[16:20], MaxMessagePayload+1,
				)
				return b[:MessageHeaderSize]
			},
		},
		{
			name: "length above message maximum",
			mutate: func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b[16:20], 9)
				return b[:MessageHeaderSize]
			},
		},
		{
			name: "payload longer than its fields",
			mutate: func(b []byte) []byte {
				payload := []byte{0x00, 0x00, 0x01}
				return fixEnvelope(b[:MessageHeaderSize], payload,
					CmdAlert)
			},
		},
		{
			name: "payload shorter than its fields",
			mutate: func(b []byte) []byte {
				payload := []byte{0x01, 0x02, 0x03}
				return fixEnvelope(b[:MessageHeaderSize], payload,
					CmdPing)
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			raw := test.mutate(bytes.Clone(pingEnvelope))

			env, n, err := mainnetDecoder().Decode(raw)
			require.True(t, IsMalformed(err), "got %v", err)
			require.False(t, IsIncomplete(err))
			require.Nil(t, env)
			require.Zero(t, n)
		})
	}
}

// fixEnvelope rewrites header for payload with a valid length and checksum.
func fixEnvelope(header, payload []byte, cmd Command) []byte {
	b := bytes.Clone(header)
	copy(b[4:16], make([]byte, CommandSize))
	copy(b[4:16], cmd)
	binary.LittleEndian.PutUint32(b[16:20], uint32(len(payload)))
	sum := payloadChecksum(payload)
	copy(b[20:24], sum[:])

	return append(b, payload...)
}

// TestDecodeUnknownCommand keeps the raw payload of a command that is not
// modelled.
func TestDecodeUnknownCommand(t *testing.T) {
	t.Parallel()

	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	raw := fixEnvelope(pingEnvelope[:MessageHeaderSize], payload,
		"wtxidrelay2")

	env, n, err := mainnetDecoder().Decode(raw)
	require.NoError(t, err)
	require.Equal(t, len(raw), n)
	require.Equal(t, &Unknown{Cmd: "wtxidrelay2", Payload: payload},
		env.Message)
	require.Equal(t, "wtxidrelay2 on MainNet", env.String())
}

// TestDecodeHeader exposes the parsed header fields.
func TestDecodeHeader(t *testing.T) {
	t.Parallel()

	hdr, err := mainnetDecoder().DecodeHeader(alertEnvelope)
	require.NoError(t, err)
	require.Equal(t, wire.MainNet, hdr.Net)
	require.Equal(t, CmdAlert, hdr.Command)
	require.Equal(t, uint32(168), hdr.Length)
	require.Equal(t, [4]byte{0x1b, 0xf9, 0xaa, 0xea}, hdr.Checksum)
}

// TestDecodeEnvelopeNeverPanics feeds arbitrary bytes behind a valid magic.
func TestDecodeEnvelopeNeverPanics(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(r *rapid.T) {
		tail := rapid.SliceOfN(rapid.Byte(), 0, 200).Draw(r, "tail")
		raw := append(bytes.Clone(pingEnvelope[:4]), tail...)

		require.NotPanics(r, func() {
			env, n, err := mainnetDecoder().Decode(raw)
			if err != nil {
				require.True(r, IsIncomplete(err) ||
					IsMalformed(err), "%v", err)
				return
			}
			require.NotNil(r, env)
			require.LessOrEqual(r, n, len(raw))
		})
	})
}
