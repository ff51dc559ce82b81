package domain

// AccountMatcher decides whether a ledger line belongs to the requested
// account set. A line matches when its code or id intersects the respective
// filter set. When both sets are empty every line matches.
type AccountMatcher struct {
	codes map[string]struct{}
	ids   map[string]struct{}
}

// NewAccountMatcher creates a matcher from optional code and id filters.
func NewAccountMatcher(codes, ids []string) *AccountMatcher {
	m := &AccountMatcher{
		codes: make(map[string]struct{}, len(codes)),
		ids:   make(map[string]struct{}, len(ids)),
	}
	for _, c := range codes {
		m.codes[c] = struct{}{}
	}
	for _, id := range ids {
		m.ids[id] = struct{}{}
	}
	return m
}

// Unfiltered reports whether no account filtering was requested.
func (m *AccountMatcher) Unfiltered() bool {
	return len(m.codes) == 0 && len(m.ids) == 0
}

// Matches reports whether a line with the given account code and id belongs
// to the requested set.
func (m *AccountMatcher) Matches(code, id string) bool {
	if m.Unfiltered() {
		return true
	}
	if code != "" {
		if _, ok := m.codes[code]; ok {
			return true
		}
	}
	if id != "" {
		if _, ok := m.ids[id]; ok {
			return true
		}
	}
	return false
}
