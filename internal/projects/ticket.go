package projects

import (
	"regexp"
	"strconv"
)

var ticketPattern = regexp.MustCompile(`^([A-Z]+)-(\d+)$`)

// Ticket is a human-facing issue identifier such as SBS-123.
type Ticket struct {
	Project  string
	Sequence int
}

func (t Ticket) String() string {
	return FormatTicket(t.Project, t.Sequence)
}

// FormatTicket renders a ticket ID as <code>-<sequence>.
func FormatTicket(code string, sequence int) string {
	return code + "-" + strconv.Itoa(sequence)
}

// ParseTicket parses text as a ticket ID. It reports false when the text
// does not match <CODE>-<digits> exactly, when CODE is not registered, or
// when the number does not fit in an int. Leading zeros are accepted.
func (r *Registry) ParseTicket(text string) (Ticket, bool) {
	m := ticketPattern.FindStringSubmatch(text)
	if m == nil {
		return Ticket{}, false
	}
	if !r.Has(m[1]) {
		return Ticket{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return Ticket{}, false
	}
	return Ticket{Project: m[1], Sequence: n}, true
}
