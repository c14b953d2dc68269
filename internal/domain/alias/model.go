package alias

// Alias maps a bank account identifier to the attendee names it has been
// seen paying for, in learning order. A freshly learned account holds one
// name; accounts that later pay for someone else are promoted to a list.
type Alias struct {
	AccountID string   `json:"account_id"`
	Names     []string `json:"names"`
}

// Single returns the sole stored name, if exactly one is held.
func (a Alias) Single() (string, bool) {
	if len(a.Names) == 1 {
		return a.Names[0], true
	}
	return "", false
}

// Contains reports whether the alias already includes name.
func (a Alias) Contains(name string) bool {
	for _, n := range a.Names {
		if n == name {
			return true
		}
	}
	return false
}

// FirstIn returns the first stored name present in the given roster.
func (a Alias) FirstIn(names []string) (string, bool) {
	inRoster := make(map[string]bool, len(names))
	for _, n := range names {
		inRoster[n] = true
	}
	for _, n := range a.Names {
		if inRoster[n] {
			return n, true
		}
	}
	return "", false
}
