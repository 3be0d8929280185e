package cmdline

import (
	"regexp"
	"strings"
)

// qdiscLineRE matches one qdisc line of "tc qdisc show" output
var qdiscLineRE = regexp.MustCompile(
	`^qdisc\s+(\S+)\s+([0-9a-f]*:[0-9a-f]*)\s+(?:dev\s+\S+\s+)?(?:(root)|parent\s+([0-9a-f]*:[0-9a-f]*))(.*)$`)

// cQDisc is a qdisc as printed by "tc qdisc show"
type cQDisc struct {
	Kind    string
	Handle  string
	Parent  string
	Root    bool
	Options string
}

// parseQDiscLines parses "tc qdisc show" output. Input is lower-cased and lines which are not
// qdisc lines (e.g statistics) are skipped.
func parseQDiscLines(out string) []cQDisc {
	var qdiscs []cQDisc
	for _, line := range strings.Split(strings.ToLower(out), "\n") {
		m := qdiscLineRE.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		qdiscs = append(qdiscs, cQDisc{
			Kind:    m[1],
			Handle:  m[2],
			Root:    m[3] != "",
			Parent:  m[4],
			Options: strings.TrimSpace(m[5]),
		})
	}
	return qdiscs
}
