package model

// LogEntry is one step of the narrative calculation log.
type LogEntry struct {
	Description string
	Formula     string
	Substituted string
	Result      string
	Tags        []string
}

// CalculationLog is an ordered, append-only record of how a schedule was
// derived. The numeric code never reads it back.
type CalculationLog struct {
	entries []LogEntry
}

// NewCalculationLog returns an empty log.
func NewCalculationLog() *CalculationLog {
	return &CalculationLog{}
}

// Add appends an entry. A nil log discards it, so callers need not check.
func (l *CalculationLog) Add(e LogEntry) {
	if l == nil {
		return
	}
	l.entries = append(l.entries, e)
}

// Note appends a description-only entry.
func (l *CalculationLog) Note(description string, tags ...string) {
	l.Add(LogEntry{Description: description, Tags: tags})
}

// Entries returns a copy of the recorded entries.
func (l *CalculationLog) Entries() []LogEntry {
	if l == nil {
		return nil
	}
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *CalculationLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}
