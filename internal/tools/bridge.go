package tools

import (
	"log/slog"

	"github.com/HendryAvila/plane-mcp/internal/journal"
	"github.com/HendryAvila/plane-mcp/internal/plane"
)

// Activity describes one mutating tool call after it finished.
type Activity struct {
	Tool     string
	Project  string
	TicketID string
	Detail   string
	Err      error
}

// ActivityObserver is notified after every mutating tool call.
// It's an optional dependency: tools work fine with a nil observer.
type ActivityObserver interface {
	OnToolCall(a Activity)
}

// JournalBridge records tool activity in the journal.
type JournalBridge struct {
	store  *journal.Store
	logger *slog.Logger
}

// NewJournalBridge returns nil if store is nil. Callers should check
// before assigning it to an ActivityObserver variable.
func NewJournalBridge(store *journal.Store, logger *slog.Logger) *JournalBridge {
	if store == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &JournalBridge{store: store, logger: logger}
}

// OnToolCall writes one journal entry. Failures are logged and dropped:
// the Plane call already happened and its result must still reach the host.
func (b *JournalBridge) OnToolCall(a Activity) {
	p := journal.RecordParams{
		Tool:     a.Tool,
		Project:  a.Project,
		TicketID: a.TicketID,
		Outcome:  journal.OutcomeOK,
		Detail:   a.Detail,
	}
	if a.Err != nil {
		p.Outcome = journal.OutcomeError
		p.Detail = plane.Describe(a.Err)
	}

	if _, err := b.store.Record(p); err != nil {
		b.logger.Warn("journal: record failed", "tool", a.Tool, "ticket", a.TicketID, "err", err)
	}
}

// notifyObserver is a nil-safe helper called from mutating tool Handle methods.
func notifyObserver(obs ActivityObserver, a Activity) {
	if obs == nil {
		return
	}
	obs.OnToolCall(a)
}
