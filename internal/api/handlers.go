package api

import (
	"encoding/json"
	"net/http"

	"crypto-calc/internal/engine"
	"crypto-calc/internal/ledger"
	"crypto-calc/internal/state"
	"crypto-calc/internal/token"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status": "ok",
		"prices": s.prices.Status(),
	})
}

// tokenView joins a catalog token with its current quote and whether saved
// inputs exist for it.
type tokenView struct {
	token.Token
	Quote      token.Quote `json:"quote"`
	SavedInput bool        `json:"saved_input"`
}

func (s *Server) handleGetTokens(w http.ResponseWriter, r *http.Request) {
	quotes := s.prices.Quotes(r.Context())
	saved := s.state.SavedTokens()

	views := make([]tokenView, 0, len(token.Catalog()))
	for _, tok := range token.Catalog() {
		views = append(views, tokenView{
			Token:      tok,
			Quote:      quotes[tok.ID],
			SavedInput: saved[tok.ID],
		})
	}
	writeJSON(w, views)
}

func (s *Server) handleRefreshPrices(w http.ResponseWriter, r *http.Request) {
	quotes := s.prices.Refresh(r.Context())
	writeJSON(w, map[string]interface{}{
		"quotes": quotes,
		"status": s.prices.Status(),
	})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var params engine.Params
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, 400, "invalid json")
		return
	}

	// A nil result is the normal empty state for incomplete inputs.
	writeJSON(w, map[string]interface{}{
		"result": engine.Compute(params),
	})
}

func (s *Server) handleGetInputs(w http.ResponseWriter, r *http.Request) {
	tokenID := r.PathValue("tokenID")
	tok, ok := token.ByID(tokenID)
	if !ok {
		writeError(w, 400, "unknown token")
		return
	}

	if in, ok := s.state.InputsFor(tok.ID); ok {
		writeJSON(w, in)
		return
	}

	// No saved inputs yet: auto-fill defaults from the current quote and
	// the global investment amount.
	quote := s.prices.Quotes(r.Context())[tok.ID]
	session := s.state.Session()
	investment := state.Field{Status: state.FieldSet, Value: session.Investment}.Resolve(0)
	mode := engine.ModeProfit
	writeJSON(w, state.Defaults(quote.Price, mode, investment))
}

func (s *Server) handlePutInputs(w http.ResponseWriter, r *http.Request) {
	tokenID := r.PathValue("tokenID")
	tok, ok := token.ByID(tokenID)
	if !ok {
		writeError(w, 400, "unknown token")
		return
	}

	var in state.Inputs
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	s.state.SaveInputs(tok.ID, in)
	writeJSON(w, in)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.state.Session())
}

func (s *Server) handlePutSession(w http.ResponseWriter, r *http.Request) {
	var sess state.Session
	if err := json.NewDecoder(r.Body).Decode(&sess); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	if sess.SelectedToken != "" {
		if _, ok := token.ByID(sess.SelectedToken); !ok {
			writeError(w, 400, "unknown token")
			return
		}
	}
	s.state.SaveSession(sess)
	writeJSON(w, sess)
}

func validSortKey(k ledger.SortKey) bool {
	switch k {
	case ledger.SortProfit, ledger.SortPercentage, ledger.SortInvestment, ledger.SortToken, ledger.SortDate:
		return true
	}
	return false
}

func validDirection(d ledger.Direction) bool {
	return d == ledger.Ascending || d == ledger.Descending
}

func (s *Server) handleGetComparison(w http.ResponseWriter, r *http.Request) {
	pref := s.ledger.SortPreference()
	if k := r.URL.Query().Get("sort"); k != "" {
		if !validSortKey(ledger.SortKey(k)) {
			writeError(w, 400, "unknown sort key")
			return
		}
		pref.Key = ledger.SortKey(k)
	}
	if d := r.URL.Query().Get("dir"); d != "" {
		if !validDirection(ledger.Direction(d)) {
			writeError(w, 400, "unknown sort direction")
			return
		}
		pref.Direction = ledger.Direction(d)
	}
	writeJSON(w, map[string]interface{}{
		"trades": s.ledger.SortedView(pref.Key, pref.Direction),
		"sort":   pref,
	})
}

func (s *Server) handleAddComparison(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TokenID string        `json:"token_id"`
		Params  engine.Params `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, 400, "invalid json")
		return
	}

	tok, ok := token.ByID(body.TokenID)
	if !ok {
		writeError(w, 400, "unknown token")
		return
	}

	res := engine.Compute(body.Params)
	if res == nil {
		writeError(w, 400, "incomplete trade parameters")
		return
	}

	// Queue the resolved sell price so duplicates match across modes.
	params := body.Params
	params.SellPrice = res.RequiredSellPrice

	added := s.ledger.Add(ledger.NewTrade(tok, params, res))
	writeJSON(w, map[string]interface{}{
		"added": added,
		"count": s.ledger.Len(),
	})
}

func (s *Server) handleDeleteComparison(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed := s.ledger.Remove(id)
	writeJSON(w, map[string]interface{}{
		"removed": removed,
		"count":   s.ledger.Len(),
	})
}

func (s *Server) handleClearComparison(w http.ResponseWriter, r *http.Request) {
	s.ledger.Clear()
	writeJSON(w, map[string]interface{}{"count": 0})
}

func (s *Server) handleGetSortPreference(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.ledger.SortPreference())
}

func (s *Server) handlePutSortPreference(w http.ResponseWriter, r *http.Request) {
	var pref ledger.Preference
	if err := json.NewDecoder(r.Body).Decode(&pref); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	if !validSortKey(pref.Key) {
		writeError(w, 400, "unknown sort key")
		return
	}
	if !validDirection(pref.Direction) {
		writeError(w, 400, "unknown sort direction")
		return
	}
	s.ledger.SavePreference(pref)
	writeJSON(w, pref)
}
