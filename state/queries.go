package state

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"askora/ledger"
	"askora/state/account"
	"askora/state/question"
	"askora/state/questionref"
)

// Accounts lists every deployed account of this market.
func (m *Market) Accounts() []account.Data {
	var out []account.Data
	for _, addr := range m.addressesWithCode(m.Codes.Account) {
		if d, err := account.AllData(m.Ledger, addr); err == nil && d.Root == m.Root {
			out = append(out, d)
		}
	}
	return out
}

// Questions lists every deployed question of this market.
func (m *Market) Questions() []question.Data {
	var out []question.Data
	for _, addr := range m.addressesWithCode(m.Codes.Question) {
		if d, err := question.AllData(m.Ledger, addr); err == nil {
			out = append(out, d)
		}
	}
	return out
}

// QuestionRefs lists every deployed question ref of this market.
func (m *Market) QuestionRefs() []questionref.Data {
	var out []questionref.Data
	for _, addr := range m.addressesWithCode(m.Codes.QuestionRef) {
		if d, err := questionref.AllData(m.Ledger, addr); err == nil {
			out = append(out, d)
		}
	}
	return out
}

// Census counts actors by code name.
func (m *Market) Census() (names []string, counts map[string]int) {
	counts = make(map[string]int)
	for _, addr := range m.Ledger.Addresses() {
		state, ok := m.Ledger.Instance(addr)
		if !ok {
			continue
		}
		name := m.Ledger.CodeName(state.Code)
		if name == "" {
			name = "uninitialized"
		}
		counts[name]++
	}
	names = maps.Keys(counts)
	slices.Sort(names)
	return names, counts
}

func (m *Market) addressesWithCode(code ledger.Code) []ledger.Address {
	var out []ledger.Address
	for _, addr := range m.Ledger.Addresses() {
		if state, ok := m.Ledger.Instance(addr); ok && string(state.Code) == string(code.Image) {
			out = append(out, addr)
		}
	}
	return out
}
