// Package listfilter keeps the transaction list in sync with the active
// filter chip.
package listfilter

import (
	"walletdash/internal/models"
	"walletdash/internal/sinks"
)

// FilterState is the active filter of one dashboard view
type FilterState struct {
	Active models.FilterKey
}

// DefaultState selects all transactions
func DefaultState() FilterState {
	return FilterState{Active: models.FilterAll}
}

// Engine holds the full transaction set and re-renders the list sink on
// every filter change. The transaction set is never modified.
type Engine struct {
	state FilterState
	all   *models.TransactionSet
	list  sinks.ListSink
	chips sinks.ChipSink
}

// New creates an engine with the default state. list and chips may be nil.
func New(txs []models.Transaction, list sinks.ListSink, chips sinks.ChipSink) *Engine {
	return NewWithState(DefaultState(), txs, list, chips)
}

// NewWithState creates an engine starting from the given state
func NewWithState(state FilterState, txs []models.Transaction, list sinks.ListSink, chips sinks.ChipSink) *Engine {
	copied := make([]models.Transaction, len(txs))
	copy(copied, txs)
	state.Active = models.ParseFilterKey(string(state.Active))
	return &Engine{
		state: state,
		all:   models.NewTransactionSet(copied),
		list:  list,
		chips: chips,
	}
}

// State returns the current filter state
func (e *Engine) State() FilterState {
	return e.state
}

// Start renders the current state, as the page does once it is ready
func (e *Engine) Start() []models.Transaction {
	return e.SetFilter(e.state.Active)
}

// SetFilter activates exactly one chip, projects the transactions and
// replaces the list contents with one row per match in original order.
func (e *Engine) SetFilter(key models.FilterKey) []models.Transaction {
	key = models.ParseFilterKey(string(key))
	e.state.Active = key

	if e.chips != nil {
		for _, k := range e.chips.Keys() {
			e.chips.SetActive(k, k == key)
		}
	}

	filtered := e.all.FilterByKey(key).Transactions
	if e.list != nil {
		e.list.Replace(sinks.NewItemViews(filtered))
	}
	return filtered
}

// Counts returns the number of rows each filter key would show
func (e *Engine) Counts() map[models.FilterKey]int {
	return map[models.FilterKey]int{
		models.FilterAll:     e.all.Len(),
		models.FilterIncome:  e.all.FilterIncome().Len(),
		models.FilterExpense: e.all.FilterExpense().Len(),
	}
}
