package ledger

import (
	"sort"
	"sync"

	"homeledger/internal/models"
)

// State is the in-memory working set one app instance serves reads
// from: the transactions, categories, and households loaded for the
// current user set. It is built once at the composition root and
// handed to whoever needs it; all mutation goes through its methods.
type State struct {
	mu           sync.RWMutex
	transactions map[string]models.Transaction
	categories   map[string]models.Category
	households   map[string]models.Household
}

func NewState() *State {
	return &State{
		transactions: make(map[string]models.Transaction),
		categories:   make(map[string]models.Category),
		households:   make(map[string]models.Household),
	}
}

func (s *State) SetTransactions(txs []models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = make(map[string]models.Transaction, len(txs))
	for _, t := range txs {
		s.transactions[t.ID] = t
	}
}

// Transactions returns the working set sorted newest first.
func (s *State) Transactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		out = append(out, t)
	}
	sortTransactions(out)
	return out
}

func (s *State) TransactionByID(id string) (models.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transactions[id]
	return t, ok
}

func (s *State) UpsertTransaction(t models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions[t.ID] = t
}

func (s *State) RemoveTransaction(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.transactions, id)
}

// RemovePortionsOf drops every split portion derived from the given
// main transaction. The main record's fate is tracked separately, so a
// failed portion cleanup in the store never strands entries here.
func (s *State) RemovePortionsOf(mainID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.transactions {
		if t.IsSplitPortion && t.MainTransactionID == mainID {
			delete(s.transactions, id)
		}
	}
}

func (s *State) SetCategories(cats []models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = make(map[string]models.Category, len(cats))
	for _, c := range cats {
		s.categories[c.ID] = c
	}
}

func (s *State) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *State) UpsertCategory(c models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories[c.ID] = c
}

func (s *State) RemoveCategory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.categories, id)
}

func (s *State) SetHouseholds(hhs []models.Household) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.households = make(map[string]models.Household, len(hhs))
	for _, h := range hhs {
		s.households[h.ID] = h
	}
}

func (s *State) Households() []models.Household {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Household, 0, len(s.households))
	for _, h := range s.households {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *State) UpsertHousehold(h models.Household) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.households[h.ID] = h
}

func (s *State) RemoveHousehold(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.households, id)
}

func sortTransactions(txs []models.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].ID < txs[j].ID
	})
}
