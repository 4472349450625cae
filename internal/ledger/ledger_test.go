package ledger

import (
	"fmt"
	"testing"
	"time"

	"crypto-calc/internal/engine"
	"crypto-calc/internal/store"
	"crypto-calc/internal/token"
)

func mustToken(t *testing.T, id string) token.Token {
	t.Helper()
	tok, ok := token.ByID(id)
	if !ok {
		t.Fatalf("unknown token %q", id)
	}
	return tok
}

func computedTrade(t *testing.T, tokenID string, investment, buy, sell float64) QueuedTrade {
	t.Helper()
	p := engine.Params{Investment: investment, BuyPrice: buy, SellPrice: sell, Mode: engine.ModeProfit}
	res := engine.Compute(p)
	if res == nil {
		t.Fatalf("Compute nil for %v/%v/%v", investment, buy, sell)
	}
	return NewTrade(mustToken(t, tokenID), p, res)
}

func TestAdd_AppendsInInsertionOrder(t *testing.T) {
	l := New(store.NewMemory())

	a := computedTrade(t, "eth-ethereum", 1000, 10, 11)
	b := computedTrade(t, "sol-solana", 500, 100, 110)
	if !l.Add(a) || !l.Add(b) {
		t.Fatal("Add returned false for distinct trades")
	}

	view := l.SortedView(SortDate, Ascending)
	if len(view) != 2 {
		t.Fatalf("len = %d, want 2", len(view))
	}
	if view[0].ID != a.ID || view[1].ID != b.ID {
		t.Errorf("order = [%s %s], want [%s %s]", view[0].ID, view[1].ID, a.ID, b.ID)
	}
}

func TestAdd_RejectsDuplicates(t *testing.T) {
	l := New(store.NewMemory())

	first := computedTrade(t, "eth-ethereum", 1000, 10, 11)
	if !l.Add(first) {
		t.Fatal("first Add returned false")
	}
	// Same token, investment, buy, and sell: a duplicate even with a new id.
	dup := computedTrade(t, "eth-ethereum", 1000, 10, 11)
	if l.Add(dup) {
		t.Error("duplicate Add returned true")
	}
	if l.Len() != 1 {
		t.Errorf("Len = %d, want 1", l.Len())
	}

	// Changing any key component makes it a distinct trade.
	if !l.Add(computedTrade(t, "eth-ethereum", 1000, 10, 12)) {
		t.Error("trade with different sell price rejected")
	}
	if !l.Add(computedTrade(t, "sol-solana", 1000, 10, 11)) {
		t.Error("trade with different token rejected")
	}
}

func TestRemove(t *testing.T) {
	l := New(store.NewMemory())
	tr := computedTrade(t, "xrp-xrp", 200, 0.5, 0.6)
	l.Add(tr)

	if !l.Remove(tr.ID) {
		t.Error("Remove returned false for existing id")
	}
	if l.Remove(tr.ID) {
		t.Error("Remove returned true for absent id")
	}
	if l.Len() != 0 {
		t.Errorf("Len = %d, want 0", l.Len())
	}
}

func TestClear(t *testing.T) {
	l := New(store.NewMemory())
	l.Add(computedTrade(t, "eth-ethereum", 1000, 10, 11))
	l.Add(computedTrade(t, "sol-solana", 1000, 10, 11))
	l.Clear()
	if l.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", l.Len())
	}
	l.Clear() // idempotent on empty
	if l.Len() != 0 {
		t.Errorf("Len after second Clear = %d", l.Len())
	}
}

func TestSortedView_TokenSymbolOrder(t *testing.T) {
	l := New(store.NewMemory())
	// Insert out of alphabetical order.
	for _, id := range []string{"sol-solana", "eth-ethereum", "sui-sui", "xrp-xrp"} {
		l.Add(computedTrade(t, id, 1000, 10, 11))
	}

	asc := l.SortedView(SortToken, Ascending)
	gotAsc := symbols(asc)
	wantAsc := []string{"ETH", "SOL", "SUI", "XRP"}
	for i := range wantAsc {
		if gotAsc[i] != wantAsc[i] {
			t.Fatalf("ascending symbols = %v, want %v", gotAsc, wantAsc)
		}
	}

	desc := l.SortedView(SortToken, Descending)
	gotDesc := symbols(desc)
	for i := range wantAsc {
		if gotDesc[i] != wantAsc[len(wantAsc)-1-i] {
			t.Fatalf("descending symbols = %v, want reverse of %v", gotDesc, wantAsc)
		}
	}
}

func symbols(trades []QueuedTrade) []string {
	out := make([]string, len(trades))
	for i, tr := range trades {
		out[i] = tr.Token.Symbol
	}
	return out
}

func TestSortedView_NumericKeys(t *testing.T) {
	l := New(store.NewMemory())
	l.Add(computedTrade(t, "eth-ethereum", 2000, 10, 11)) // profit ≈ 195.6
	l.Add(computedTrade(t, "sol-solana", 500, 10, 15))    // profit ≈ 248.5
	l.Add(computedTrade(t, "xrp-xrp", 1000, 10, 10.5))    // profit ≈ 47.9

	byProfit := l.SortedView(SortProfit, Descending)
	if byProfit[0].Token.Symbol != "SOL" || byProfit[2].Token.Symbol != "XRP" {
		t.Errorf("profit desc order = %v", symbols(byProfit))
	}

	byInvestment := l.SortedView(SortInvestment, Ascending)
	if byInvestment[0].Params.Investment != 500 || byInvestment[2].Params.Investment != 2000 {
		t.Errorf("investment asc order = %v", symbols(byInvestment))
	}

	byPct := l.SortedView(SortPercentage, Ascending)
	prev := byPct[0].Results.ProfitPercentage
	for _, tr := range byPct[1:] {
		if tr.Results.ProfitPercentage < prev {
			t.Errorf("percentage asc not ordered: %v", symbols(byPct))
		}
		prev = tr.Results.ProfitPercentage
	}
}

func TestSortedView_StableForEqualKeys(t *testing.T) {
	l := New(store.NewMemory())
	// Identical numbers on different tokens: equal profit keys.
	first := computedTrade(t, "eth-ethereum", 1000, 10, 11)
	second := computedTrade(t, "sol-solana", 1000, 10, 11)
	third := computedTrade(t, "xrp-xrp", 1000, 10, 11)
	l.Add(first)
	l.Add(second)
	l.Add(third)

	view := l.SortedView(SortProfit, Ascending)
	if view[0].ID != first.ID || view[1].ID != second.ID || view[2].ID != third.ID {
		t.Errorf("equal-key order = %v, want insertion order", symbols(view))
	}
}

func TestSortedView_DoesNotMutateCanonicalOrder(t *testing.T) {
	l := New(store.NewMemory())
	a := computedTrade(t, "xrp-xrp", 1000, 10, 11)
	b := computedTrade(t, "eth-ethereum", 500, 10, 11)
	l.Add(a)
	l.Add(b)

	l.SortedView(SortToken, Ascending)

	canonical := l.SortedView(SortDate, Ascending)
	if canonical[0].ID != a.ID || canonical[1].ID != b.ID {
		t.Error("sorting a view mutated canonical order")
	}
}

func TestPersistence_RoundTrip(t *testing.T) {
	s := store.NewMemory()

	l1 := New(s)
	tr := computedTrade(t, "sui-sui", 750, 4, 5)
	l1.Add(tr)
	l1.SavePreference(Preference{Key: SortProfit, Direction: Ascending})

	// A fresh ledger over the same store sees the saved state.
	l2 := New(s)
	if l2.Len() != 1 {
		t.Fatalf("rehydrated Len = %d, want 1", l2.Len())
	}
	got := l2.SortedView(SortDate, Ascending)[0]
	if got.ID != tr.ID || got.Results.NetProfit != tr.Results.NetProfit {
		t.Errorf("rehydrated trade = %+v, want %+v", got, tr)
	}
	pref := l2.SortPreference()
	if pref.Key != SortProfit || pref.Direction != Ascending {
		t.Errorf("rehydrated preference = %+v", pref)
	}
}

func TestPersistence_MalformedBlobYieldsEmptyLedger(t *testing.T) {
	s := store.NewMemory()
	s.Set("comparison_trades", "{not json")

	l := New(s)
	if l.Len() != 0 {
		t.Errorf("Len = %d, want 0 for malformed blob", l.Len())
	}
}

func TestSortPreference_DefaultsToNewestFirst(t *testing.T) {
	l := New(store.NewMemory())
	pref := l.SortPreference()
	if pref.Key != SortDate || pref.Direction != Descending {
		t.Errorf("default preference = %+v", pref)
	}
}

func TestNewTrade_IDDerivedFromTokenAndTime(t *testing.T) {
	tok := mustToken(t, "eth-ethereum")
	p := engine.Params{Investment: 100, BuyPrice: 10, SellPrice: 11, Mode: engine.ModeProfit}
	tr := NewTrade(tok, p, engine.Compute(p))

	wantPrefix := fmt.Sprintf("%s-", tok.ID)
	if len(tr.ID) <= len(wantPrefix) || tr.ID[:len(wantPrefix)] != wantPrefix {
		t.Errorf("ID = %q, want %q prefix", tr.ID, wantPrefix)
	}
	if time.Since(tr.Timestamp) > time.Minute {
		t.Errorf("Timestamp = %v, not recent", tr.Timestamp)
	}
}
