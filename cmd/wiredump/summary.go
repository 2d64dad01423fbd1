package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lightningnetwork/wirestream/netwire"
)

// messageSummary returns a human readable string that summarizes a message.
// Not all messages have or need a summary.
func messageSummary(msg netwire.Message) string {
	switch m := msg.(type) {
	case *netwire.Version:
		return fmt.Sprintf("agent=%s, pver=%d, services=%d, height=%d, "+
			"relay=%v", m.UserAgent, m.ProtocolVersion, m.Services,
			m.LastBlock, m.Relay.UnwrapOr(true))

	case *netwire.Ping:
		return fmt.Sprintf("nonce=%d", m.Nonce)

	case *netwire.Pong:
		return fmt.Sprintf("nonce=%d", m.Nonce)

	case *netwire.Inv:
		return invSummary(m.InvList)

	case *netwire.GetData:
		return invSummary(m.InvList)

	case *netwire.NotFound:
		return invSummary(m.InvList)

	case *netwire.GetBlocks:
		return fmt.Sprintf("locators=%d, stop=%v",
			len(m.BlockLocatorHashes), m.HashStop)

	case *netwire.GetHeaders:
		return fmt.Sprintf("locators=%d, stop=%v",
			len(m.BlockLocatorHashes), m.HashStop)

	case *netwire.GetCFilters:
		return fmt.Sprintf("type=%d, start_height=%d, stop=%v",
			m.FilterType, m.StartHeight, m.StopHash)

	case *netwire.GetCFHeaders:
		return fmt.Sprintf("type=%d, block=%v, stop=%v",
			m.FilterType, m.BlockHash, m.StopHash)

	case *netwire.CFilter:
		return fmt.Sprintf("type=%d, block=%v, size=%d",
			m.FilterType, m.BlockHash, len(m.Data))

	case *netwire.CFHeaders:
		return fmt.Sprintf("type=%d, stop=%v, headers=%d",
			m.FilterType, m.StopHash, len(m.FilterHashes))

	case *netwire.GetCFCheckpt:
		return fmt.Sprintf("type=%d, stop=%v", m.FilterType, m.StopHash)

	case *netwire.CFCheckpt:
		return fmt.Sprintf("type=%d, stop=%v, headers=%d",
			m.FilterType, m.StopHash, len(m.FilterHeaders))

	case *netwire.Alert:
		return fmt.Sprintf("payload=%d, sig=%d", len(m.Payload),
			len(m.Signature))

	case *netwire.Unknown:
		return fmt.Sprintf("payload=%d", len(m.Payload))
	}

	return ""
}

// invSummary describes an inventory list by its length and first entry.
func invSummary(invList []netwire.Inventory) string {
	if len(invList) == 0 {
		return "num_inv=0"
	}

	return fmt.Sprintf("num_inv=%d, first=%v", len(invList), invList[0])
}

// logMessage writes information about a message exchanged with a remote peer,
// using directional prepositions to signal whether the message was sent or
// received.
func logMessage(ctx context.Context, peer string, msg netwire.Message,
	read bool) {

	var action = "Received"
	var preposition = "from"
	if !read {
		action = "Sending"
		preposition = "to"
	}

	summary := messageSummary(msg)
	if len(summary) > 0 {
		summary = "(" + summary + ")"
	}

	wdmpLog.DebugS(ctx, fmt.Sprintf("%s %v%s %s %s", action,
		msg.Command(), summary, preposition, peer),
		slog.String("peer", peer))

	wdmpLog.Tracef("%v", spewMessage(msg))
}
