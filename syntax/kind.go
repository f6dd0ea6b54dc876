package syntax

// Kind tags which catalog a SyntaxInfo belongs to (spec.md §2.4): each
// kind gets its own priority-ordered list and its own recency list.
type Kind int

const (
	KindExpression Kind = iota
	KindEffect
	KindSection
	KindEvent
	KindComparator
)

func (k Kind) String() string {
	switch k {
	case KindExpression:
		return "expression"
	case KindEffect:
		return "effect"
	case KindSection:
		return "section"
	case KindEvent:
		return "event"
	case KindComparator:
		return "comparator"
	default:
		return "unknown"
	}
}
