package attribution

// ChoiceKind discriminates the closed set of answers a prompt can yield.
type ChoiceKind int

const (
	// ChoiceSelect picks an entry from the presented list.
	ChoiceSelect ChoiceKind = iota
	// ChoiceUnknown means the operator can't identify the payer from the list.
	ChoiceUnknown
	// ChoiceCarryForward routes the payment to an unpaid attendee of a
	// different recent session.
	ChoiceCarryForward
	// ChoiceIncidental logs the payment as unrelated to anyone's dues.
	ChoiceIncidental
	// ChoiceIgnore drops the payment from attribution entirely.
	ChoiceIgnore
)

// Choice is a parsed operator decision. Index is meaningful only for
// ChoiceSelect.
type Choice struct {
	Kind  ChoiceKind
	Index int
}

// Select returns a Choice picking the list entry at i.
func Select(i int) Choice {
	return Choice{Kind: ChoiceSelect, Index: i}
}
