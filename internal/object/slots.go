package object

// SlotID is a named, uniquely identified function-pointer position in a
// vtable layout. The identifier doubles as the generated struct field name
// and is a pure function of the method name, which makes classification
// deterministic and idempotent.
type SlotID string

// SlotFor derives the slot identifier for a method name.
func SlotFor(method string) SlotID {
	return SlotID("my_" + method)
}

// SlotEntry records where and with what signature a slot was introduced.
type SlotEntry struct {
	Method string
	Slot   SlotID
	Sig    Signature
	// Owner is the class that introduced the slot. Descendants reference
	// it, they never re-own it.
	Owner string
	// Lifecycle marks the four mandatory construct/destruct/migrate/release
	// slots seeded by the root class.
	Lifecycle bool
}

// SlotTable accumulates slot entries across a whole inheritance chain.
// Entries are never removed or renumbered; subclass tables are built by
// cloning the superclass table and appending.
type SlotTable struct {
	entries []SlotEntry
	index   map[string]int
}

// NewSlotTable returns an empty slot table.
func NewSlotTable() *SlotTable {
	return &SlotTable{index: make(map[string]int, 8)}
}

// Clone returns an independent copy sharing no mutable state.
func (t *SlotTable) Clone() *SlotTable {
	if t == nil {
		return NewSlotTable()
	}
	cp := &SlotTable{
		entries: make([]SlotEntry, len(t.entries)),
		index:   make(map[string]int, len(t.index)+8),
	}
	copy(cp.entries, t.entries)
	for k, v := range t.index {
		cp.index[k] = v
	}
	return cp
}

// Add appends a new slot entry. Adding a method name that already has a
// slot is a programming error; classification must reuse inherited slots.
func (t *SlotTable) Add(e SlotEntry) {
	if _, ok := t.index[e.Method]; ok {
		panic("object: duplicate slot for method " + e.Method)
	}
	t.index[e.Method] = len(t.entries)
	t.entries = append(t.entries, e)
}

// Lookup finds the slot entry for a method name anywhere in the chain.
func (t *SlotTable) Lookup(method string) (SlotEntry, bool) {
	if t == nil {
		return SlotEntry{}, false
	}
	i, ok := t.index[method]
	if !ok {
		return SlotEntry{}, false
	}
	return t.entries[i], true
}

// Entries returns the accumulated entries in introduction order.
// The returned slice must not be modified.
func (t *SlotTable) Entries() []SlotEntry {
	if t == nil {
		return nil
	}
	return t.entries
}

// Len returns the number of accumulated slots.
func (t *SlotTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}
