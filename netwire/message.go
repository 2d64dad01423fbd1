// Copyright (c) 2013-2017 The btcsuite developers
// code derived from https://github .com/btcsuite/btcd/blob/master/wire/message.go

package netwire

import (
	"bytes"
	"fmt"
	"io"
)

// Command is the ASCII command string that identifies the type of a message
// inside its envelope. On the wire it occupies CommandSize bytes, padded with
// zero bytes.
type Command string

// The commands this package knows how to decode.
const (
	CmdVersion      Command = "version"
	CmdVerAck       Command = "verack"
	CmdPing         Command = "ping"
	CmdPong         Command = "pong"
	CmdAlert        Command = "alert"
	CmdInv          Command = "inv"
	CmdGetData      Command = "getdata"
	CmdNotFound     Command = "notfound"
	CmdGetBlocks    Command = "getblocks"
	CmdGetHeaders   Command = "getheaders"
	CmdSendHeaders  Command = "sendheaders"
	CmdGetCFilters  Command = "getcfilters"
	CmdGetCFHeaders Command = "getcfheaders"
	CmdCFilter      Command = "cfilter"
	CmdCFHeaders    Command = "cfheaders"
	CmdGetCFCheckpt Command = "getcfcheckpt"
	CmdCFCheckpt    Command = "cfcheckpt"
)

// String returns the command as a plain string.
func (c Command) String() string {
	return string(c)
}

// Serializable is an interface which defines a wire serializable object.
type Serializable interface {
	// Decode reads the bytes stream and converts it to the object.
	Decode(io.Reader, uint32) error

	// Encode converts object to the bytes stream and write it into the
	// write buffer.
	Encode(*bytes.Buffer, uint32) error
}

// Message is an interface that describes a bitcoin wire protocol message
// payload. The interface is general in order to allow implementing types full
// control over the representation of their data.
type Message interface {
	Serializable

	// Command returns the command carried in the envelope of this
	// message.
	Command() Command

	// MaxPayloadLength is the largest payload this message type may carry
	// for the given protocol version.
	MaxPayloadLength(uint32) uint32
}

// makeEmptyMessage creates a new empty message of the proper concrete type
// based on the passed command. Commands that are not modelled by this package
// yield an Unknown message that keeps the raw payload.
func makeEmptyMessage(cmd Command) Message {
	var msg Message

	switch cmd {
	case CmdVersion:
		msg = &Version{}
	case CmdVerAck:
		msg = &VerAck{}
	case CmdPing:
		msg = &Ping{}
	case CmdPong:
		msg = &Pong{}
	case CmdAlert:
		msg = &Alert{}
	case CmdInv:
		msg = &Inv{}
	case CmdGetData:
		msg = &GetData{}
	case CmdNotFound:
		msg = &NotFound{}
	case CmdGetBlocks:
		msg = &GetBlocks{}
	case CmdGetHeaders:
		msg = &GetHeaders{}
	case CmdSendHeaders:
		msg = &SendHeaders{}
	case CmdGetCFilters:
		msg = &GetCFilters{}
	case CmdGetCFHeaders:
		msg = &GetCFHeaders{}
	case CmdCFilter:
		msg = &CFilter{}
	case CmdCFHeaders:
		msg = &CFHeaders{}
	case CmdGetCFCheckpt:
		msg = &GetCFCheckpt{}
	case CmdCFCheckpt:
		msg = &CFCheckpt{}
	default:
		msg = &Unknown{Cmd: cmd}
	}

	return msg
}

// EncodePayload returns the canonical encoding of the message payload. The
// same message always produces the same bytes.
func EncodePayload(msg Message, pver uint32) ([]byte, error) {
	var b bytes.Buffer
	if err := msg.Encode(&b, pver); err != nil {
		return nil, fmt.Errorf("unable to encode %v: %w",
			msg.Command(), err)
	}

	return b.Bytes(), nil
}

// DecodePayload decodes a payload of msg's type from the head of b and
// returns the number of bytes consumed. Bytes after the payload are left
// untouched. If b ends before the payload is complete, ErrIncomplete is
// returned, while invalid content yields a MalformedError.
//
// NOTE: Version and Unknown payloads are not self delimiting. A Version reads
// any byte after its user agent and height as the relay flag, and an Unknown
// takes every remaining byte. For those types b must hold exactly one
// payload, as the envelope decoder passes it.
func DecodePayload(b []byte, msg Message, pver uint32) (int, error) {
	r := bytes.NewReader(b)
	if err := msg.Decode(r, pver); err != nil {
		return 0, classifyDecodeErr(msg.Command(), err)
	}

	return len(b) - r.Len(), nil
}
