package netwire

import (
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/wire"
)

// ErrIncomplete is returned when the bytes handed to a decoder end before a
// complete value could be read. It signals that the caller should wait for
// more data and retry with a longer buffer, not that the data is invalid.
var ErrIncomplete = errors.New("incomplete data")

// MalformedError is returned when the bytes present are structurally or
// semantically invalid. Unlike ErrIncomplete, waiting for more data will
// never make a malformed stream valid.
type MalformedError struct {
	// Command is the command of the message being decoded, if known.
	Command Command

	// Reason is a human readable description of the violation.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

// Error returns a human readable string describing the error.
//
// This is part of the error interface.
func (m *MalformedError) Error() string {
	prefix := "malformed message"
	if m.Command != "" {
		prefix = fmt.Sprintf("malformed %v message", m.Command)
	}

	if m.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, m.Reason, m.Err)
	}

	return fmt.Sprintf("%s: %s", prefix, m.Reason)
}

// Unwrap returns the underlying error.
func (m *MalformedError) Unwrap() error {
	return m.Err
}

// malformed is a helper that creates a MalformedError.
func malformed(cmd Command, reason string, err error) *MalformedError {
	return &MalformedError{
		Command: cmd,
		Reason:  reason,
		Err:     err,
	}
}

// IsIncomplete returns true if the error reports that more bytes are needed.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

// IsMalformed returns true if the error reports invalid bytes.
func IsMalformed(err error) bool {
	var m *MalformedError
	return errors.As(err, &m)
}

// classifyDecodeErr maps a raw error surfaced while reading from an in-memory
// buffer onto the two decode failure classes. Running out of bytes becomes
// ErrIncomplete, everything else becomes a MalformedError.
func classifyDecodeErr(cmd Command, err error) error {
	switch {
	case err == nil:
		return nil

	case IsIncomplete(err):
		return err

	case IsMalformed(err):
		// Field level checks do not know which message they belong
		// to.
		var m *MalformedError
		if errors.As(err, &m) && m.Command == "" {
			m.Command = cmd
		}

		return err

	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: %v payload truncated", ErrIncomplete,
			cmd)
	}

	// btcd reports non-canonical compact sizes and oversized var
	// length fields as a MessageError.
	var msgErr *wire.MessageError
	if errors.As(err, &msgErr) {
		return malformed(cmd, msgErr.Description, err)
	}

	return malformed(cmd, "invalid payload", err)
}
