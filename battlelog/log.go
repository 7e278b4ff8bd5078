package battlelog

import (
	"strconv"
	"strings"
)

// Field is one ordered key-value pair within an Entry. Order matters:
// Entry.String() renders fields in append order, and tests match
// either full string equality or a [verb, substring-key, ...] pattern
// against that rendering (spec.md §6).
type Field struct {
	Key   string
	Value string
}

// Entry is a single log line: a verb plus an ordered set of fields.
type Entry struct {
	Verb   string
	Fields []Field
}

// New builds an Entry from a verb and an even list of key, value, key,
// value, ... pairs — the ergonomic constructor call sites use instead
// of building a []Field literal by hand.
func New(verb string, kv ...string) Entry {
	e := Entry{Verb: verb}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Fields = append(e.Fields, Field{Key: kv[i], Value: kv[i+1]})
	}
	return e
}

// With appends one more field and returns the entry, for call sites
// that build a field list conditionally.
func (e Entry) With(key, value string) Entry {
	e.Fields = append(e.Fields, Field{Key: key, Value: value})
	return e
}

// String renders the stable pipe-separated form: verb|k1:v1|k2:v2|...
func (e Entry) String() string {
	var b strings.Builder
	b.WriteString(e.Verb)
	for _, f := range e.Fields {
		b.WriteByte('|')
		b.WriteString(f.Key)
		b.WriteByte(':')
		b.WriteString(f.Value)
	}
	return b.String()
}

// Log is the append-only sequence of Entry values for one battle. It
// is not safe for concurrent mutation; battlehost serializes all
// writes through the single battle task per spec.md §5.
type Log struct {
	entries []Entry
	cursor  int // index of the first entry not yet drained
}

// NewLog creates an empty Log.
func NewLog() *Log {
	return &Log{}
}

// Append adds entries to the log in order.
func (l *Log) Append(entries ...Entry) {
	l.entries = append(l.entries, entries...)
}

// Turn appends the "turn" group marker that demarcates the start of a
// new turn's entries.
func (l *Log) Turn(n int) {
	l.Append(New("turn", "turn", strconv.Itoa(n)))
}

// Residual appends the "residual" group marker that demarcates the
// end-of-turn residual phase.
func (l *Log) Residual() {
	l.Append(New("residual"))
}

// Time appends the "time" group marker some hosts use to separate
// real-time-correlated chunks of an otherwise turn-based log.
func (l *Log) Time() {
	l.Append(New("time"))
}

// Split appends the "split" marker for side i, followed by the public
// and private renderings of the same event. A subscriber's transport
// exposes exactly one of the two lines that follow a split marker,
// chosen by whether that subscriber can see side i's exact HP (spec.md
// §4.9).
func (l *Log) Split(sideIndex int, public, private Entry) {
	l.Append(New("split", "side", strconv.Itoa(sideIndex)), public, private)
}

// All returns every entry appended so far, in order.
func (l *Log) All() []Entry {
	return l.entries
}

// Clone returns a log starting from the same entries and cursor but
// with its own backing slice, so appends made against the clone (e.g.
// during a move-result simulation) never touch l.
func (l *Log) Clone() *Log {
	return &Log{entries: append([]Entry(nil), l.entries...), cursor: l.cursor}
}

// Drain returns every entry appended since the last Drain call and
// advances the cursor, implementing the driver API's
// new_log_entries() (spec.md §6): "returns and clears the pending log
// delta."
func (l *Log) Drain() []Entry {
	pending := l.entries[l.cursor:]
	l.cursor = len(l.entries)
	out := make([]Entry, len(pending))
	copy(out, pending)
	return out
}
