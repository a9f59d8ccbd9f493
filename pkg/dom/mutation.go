package dom

// MutationKind classifies a Mutation.
type MutationKind uint8

const (
	// AttrSet reports a new or changed attribute (class and style included).
	AttrSet MutationKind = iota
	// AttrRemoved reports a removed attribute.
	AttrRemoved
	// ChildInserted reports an element newly connected under Parent.
	ChildInserted
	// ChildRemoved reports an element disconnected from the document.
	ChildRemoved
	// ChildMoved reports a connected element moved to a new position.
	ChildMoved
	// ContentReplaced reports that Target's children were replaced wholesale.
	ContentReplaced
)

var mutationKindNames = [...]string{
	AttrSet:         "AttrSet",
	AttrRemoved:     "AttrRemoved",
	ChildInserted:   "ChildInserted",
	ChildRemoved:    "ChildRemoved",
	ChildMoved:      "ChildMoved",
	ContentReplaced: "ContentReplaced",
}

// String returns the kind name.
func (k MutationKind) String() string {
	if int(k) < len(mutationKindNames) {
		return mutationKindNames[k]
	}
	return "Unknown"
}

// Mutation describes one change to a connected element.
type Mutation struct {
	Kind   MutationKind
	Target *Element

	// Name and Value are set for attribute mutations.
	Name  string
	Value string

	// Parent and Index are set for inserts and moves.
	Parent *Element
	Index  int
}

// Observer receives mutations in the order they happen.
type Observer func(m Mutation)

type observerEntry struct {
	id uint64
	fn Observer
}
