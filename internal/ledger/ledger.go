package ledger

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"crypto-calc/internal/engine"
	"crypto-calc/internal/logger"
	"crypto-calc/internal/store"
	"crypto-calc/internal/token"
)

const (
	tradesKey  = "comparison_trades"
	sortKeyKey = "comparison_sort"
)

// SortKey selects the field a sorted view is ordered by.
type SortKey string

const (
	SortProfit     SortKey = "profit"
	SortPercentage SortKey = "percentage"
	SortInvestment SortKey = "investment"
	SortToken      SortKey = "token"
	SortDate       SortKey = "date"
)

// Direction is the sort direction of a view.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Summary is the subset of calculator outputs kept with a queued trade.
type Summary struct {
	TokensCanBuy     float64 `json:"tokens_can_buy"`
	TotalRevenue     float64 `json:"total_revenue"`
	NetProfit        float64 `json:"net_profit"`
	ProfitPercentage float64 `json:"profit_percentage"`
	TotalFees        float64 `json:"total_fees"`
}

// QueuedTrade is an immutable snapshot of a computed trade saved for
// side-by-side comparison.
type QueuedTrade struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Token     token.Token   `json:"token"`
	Params    engine.Params `json:"params"`
	Results   Summary       `json:"results"`
}

// NewTrade builds a snapshot from a computed result.
func NewTrade(tok token.Token, p engine.Params, r *engine.Result) QueuedTrade {
	now := time.Now()
	return QueuedTrade{
		ID:        fmt.Sprintf("%s-%d", tok.ID, now.UnixMilli()),
		Timestamp: now,
		Token:     tok,
		Params:    p,
		Results: Summary{
			TokensCanBuy:     r.TokensCanBuy,
			TotalRevenue:     r.TotalRevenue,
			NetProfit:        r.NetProfit,
			ProfitPercentage: r.ProfitPercentage,
			TotalFees:        r.TotalFees,
		},
	}
}

// Preference is the persisted sort setting for the comparison view.
type Preference struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

// Ledger is an ordered collection of queued trades. Insertion order is the
// canonical storage order; sorted views never mutate it. All access is
// serialized through one mutex, and every mutation is written back to the
// store as a full-collection overwrite.
type Ledger struct {
	mu       sync.Mutex
	store    store.Store
	trades   []QueuedTrade
	collator *collate.Collator
}

// New creates a ledger hydrated from the store. Absent or malformed
// persisted data yields an empty ledger, never an error.
func New(s store.Store) *Ledger {
	l := &Ledger{
		store:    s,
		collator: collate.New(language.English),
	}
	l.load()
	return l
}

func (l *Ledger) load() {
	raw, ok := l.store.Get(tradesKey)
	if !ok {
		return
	}
	var trades []QueuedTrade
	if err := json.Unmarshal([]byte(raw), &trades); err != nil {
		logger.Warn("Ledger", fmt.Sprintf("discarding malformed saved trades: %v", err))
		return
	}
	l.trades = trades
	logger.Info("Ledger", fmt.Sprintf("restored %d saved trades", len(trades)))
}

// persist must be called with the mutex held.
func (l *Ledger) persist() {
	data, err := json.Marshal(l.trades)
	if err != nil {
		logger.Warn("Ledger", fmt.Sprintf("marshal trades: %v", err))
		return
	}
	if err := l.store.Set(tradesKey, string(data)); err != nil {
		logger.Warn("Ledger", fmt.Sprintf("persist trades: %v", err))
	}
}

// Add appends a trade unless an equal one is already queued. Two trades are
// duplicates when they share token id, investment amount, buy price, and
// sell price. Returns whether the trade was stored.
func (l *Ledger) Add(t QueuedTrade) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, existing := range l.trades {
		if existing.Token.ID == t.Token.ID &&
			existing.Params.Investment == t.Params.Investment &&
			existing.Params.BuyPrice == t.Params.BuyPrice &&
			existing.Params.SellPrice == t.Params.SellPrice {
			return false
		}
	}
	l.trades = append(l.trades, t)
	l.persist()
	return true
}

// Remove deletes the trade with the given id. Returns whether it existed.
func (l *Ledger) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, t := range l.trades {
		if t.ID == id {
			l.trades = append(l.trades[:i], l.trades[i+1:]...)
			l.persist()
			return true
		}
	}
	return false
}

// Clear empties the ledger unconditionally.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trades = nil
	l.persist()
}

// Len reports the number of queued trades.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.trades)
}

// SortedView returns a new sequence ordered by key and direction; the
// canonical insertion order is untouched. The sort is stable, so trades with
// equal keys keep their relative insertion order. An unknown key falls back
// to date order.
func (l *Ledger) SortedView(key SortKey, dir Direction) []QueuedTrade {
	l.mu.Lock()
	defer l.mu.Unlock()

	view := make([]QueuedTrade, len(l.trades))
	copy(view, l.trades)

	less := l.lessFunc(key, view)
	if dir == Descending {
		base := less
		less = func(i, j int) bool { return base(j, i) }
	}
	sort.SliceStable(view, less)
	return view
}

func (l *Ledger) lessFunc(key SortKey, view []QueuedTrade) func(i, j int) bool {
	switch key {
	case SortProfit:
		return func(i, j int) bool { return view[i].Results.NetProfit < view[j].Results.NetProfit }
	case SortPercentage:
		return func(i, j int) bool {
			return view[i].Results.ProfitPercentage < view[j].Results.ProfitPercentage
		}
	case SortInvestment:
		return func(i, j int) bool { return view[i].Params.Investment < view[j].Params.Investment }
	case SortToken:
		return func(i, j int) bool {
			return l.collator.CompareString(view[i].Token.Symbol, view[j].Token.Symbol) < 0
		}
	default: // SortDate
		return func(i, j int) bool { return view[i].Timestamp.Before(view[j].Timestamp) }
	}
}

// SavePreference persists the comparison view's sort setting.
func (l *Ledger) SavePreference(p Preference) {
	data, err := json.Marshal(p)
	if err != nil {
		logger.Warn("Ledger", fmt.Sprintf("marshal sort preference: %v", err))
		return
	}
	if err := l.store.Set(sortKeyKey, string(data)); err != nil {
		logger.Warn("Ledger", fmt.Sprintf("persist sort preference: %v", err))
	}
}

// SortPreference returns the persisted sort setting, defaulting to newest
// first.
func (l *Ledger) SortPreference() Preference {
	pref := Preference{Key: SortDate, Direction: Descending}
	raw, ok := l.store.Get(sortKeyKey)
	if !ok {
		return pref
	}
	if err := json.Unmarshal([]byte(raw), &pref); err != nil {
		return Preference{Key: SortDate, Direction: Descending}
	}
	return pref
}
