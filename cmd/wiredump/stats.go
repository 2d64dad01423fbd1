package main

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lightningnetwork/wirestream/netwire"
)

// messageStats counts decoded messages by command.
type messageStats struct {
	counts map[netwire.Command]int
	total  int
}

func newMessageStats() *messageStats {
	return &messageStats{
		counts: make(map[netwire.Command]int),
	}
}

// record counts one message with the given command.
func (s *messageStats) record(cmd netwire.Command) {
	s.counts[cmd]++
	s.total++
}

// table renders the counts as a text table, one row per command in
// alphabetical order.
func (s *messageStats) table(title string) string {
	cmds := make([]netwire.Command, 0, len(s.counts))
	for cmd := range s.counts {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i] < cmds[j]
	})

	t := table.NewWriter()
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Command", "Messages"})
	for _, cmd := range cmds {
		t.AppendRow(table.Row{cmd.String(), s.counts[cmd]})
	}
	t.AppendFooter(table.Row{"Total", s.total})

	return t.Render()
}
