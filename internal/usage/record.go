package usage

// Kind labels the billable unit class of one external call
type Kind string

const (
	// KindModel is one hosted-model completion call
	KindModel Kind = "model"

	// KindEmbedding is one embedding-service call, billed per input char
	KindEmbedding Kind = "embedding"

	// KindRetrieval is one vector-search query
	KindRetrieval Kind = "retrieval"

	// KindWarehouse is one warehouse query, billed per byte scanned
	KindWarehouse Kind = "warehouse"
)

// Entry records exactly one external call
type Entry struct {
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`

	// KindModel
	InputUnits  int `json:"inputUnits,omitempty"`
	OutputUnits int `json:"outputUnits,omitempty"`

	// KindEmbedding
	Chars int `json:"chars,omitempty"`

	// KindWarehouse
	Bytes int64 `json:"bytes,omitempty"`
}

// Record accumulates usage entries across one question's processing. It is
// owned exclusively by the single sequential flow handling that question, so
// no locking is needed. All Add methods are nil-safe so call sites never
// have to guard.
type Record struct {
	entries []Entry
}

// NewRecord returns an empty per-question usage record
func NewRecord() *Record {
	return &Record{}
}

// AddModelCall records one completion call with its token counts
func (r *Record) AddModelCall(label string, inputUnits, outputUnits int) {
	if r == nil {
		return
	}
	r.entries = append(r.entries, Entry{
		Kind:        KindModel,
		Label:       label,
		InputUnits:  inputUnits,
		OutputUnits: outputUnits,
	})
}

// AddEmbedding records one embedding call with the query length in chars
func (r *Record) AddEmbedding(label string, chars int) {
	if r == nil {
		return
	}
	r.entries = append(r.entries, Entry{Kind: KindEmbedding, Label: label, Chars: chars})
}

// AddRetrieval records one vector-search query
func (r *Record) AddRetrieval(label string) {
	if r == nil {
		return
	}
	r.entries = append(r.entries, Entry{Kind: KindRetrieval, Label: label})
}

// AddWarehouse records one warehouse query with the bytes it scanned
func (r *Record) AddWarehouse(label string, bytes int64) {
	if r == nil {
		return
	}
	r.entries = append(r.entries, Entry{Kind: KindWarehouse, Label: label, Bytes: bytes})
}

// Entries returns a copy of the accumulated entries
func (r *Record) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of recorded external calls
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Reset clears the record at the start of a new question
func (r *Record) Reset() {
	if r == nil {
		return
	}
	r.entries = r.entries[:0]
}
