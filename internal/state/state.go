package state

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"crypto-calc/internal/engine"
	"crypto-calc/internal/logger"
	"crypto-calc/internal/store"
	"crypto-calc/internal/token"
)

const (
	inputsKey  = "calculator_inputs"
	sessionKey = "calculator_session"
)

// FieldStatus tracks whether a numeric input still shows its auto-filled
// default, was cleared by the user, or carries a user-entered value.
type FieldStatus string

const (
	FieldDefault FieldStatus = "default"
	FieldCleared FieldStatus = "cleared"
	FieldSet     FieldStatus = "set"
)

// Field is one tri-state numeric input. Value is meaningful only when
// Status is FieldSet.
type Field struct {
	Status FieldStatus `json:"status"`
	Value  string      `json:"value,omitempty"`
}

// Resolve returns the effective numeric value of the field: the auto-filled
// value (or the supplied default) while untouched, zero when cleared, and
// the parsed user value otherwise (zero if unparseable).
func (f Field) Resolve(def float64) float64 {
	switch f.Status {
	case FieldSet:
		v, err := strconv.ParseFloat(f.Value, 64)
		if err != nil {
			return 0
		}
		return v
	case FieldCleared:
		return 0
	default:
		if f.Value != "" {
			if v, err := strconv.ParseFloat(f.Value, 64); err == nil {
				return v
			}
		}
		return def
	}
}

// Inputs is the saved input set for one token. Mode is remembered per token.
type Inputs struct {
	Investment   Field       `json:"investment"`
	BuyPrice     Field       `json:"buy_price"`
	SellPrice    Field       `json:"sell_price"`
	TargetProfit Field       `json:"target_profit"`
	Mode         engine.Mode `json:"mode"`
}

// Defaults returns the auto-filled input set for a freshly selected token:
// buy price from the live quote, plus a 5% gain sell price in profit mode,
// or a 5% target profit in sell-price mode (against a $1000 stand-in when no
// investment is set yet).
func Defaults(quote float64, mode engine.Mode, investment float64) Inputs {
	in := Inputs{
		Investment:   Field{Status: FieldDefault},
		BuyPrice:     Field{Status: FieldDefault},
		SellPrice:    Field{Status: FieldDefault},
		TargetProfit: Field{Status: FieldDefault},
		Mode:         mode,
	}
	if quote <= 0 {
		return in
	}
	in.BuyPrice = Field{
		Status: FieldDefault,
		Value:  strconv.FormatFloat(quote, 'f', -1, 64),
	}
	switch mode {
	case engine.ModeSellPrice:
		if investment <= 0 {
			investment = 1000
		}
		in.TargetProfit = Field{
			Status: FieldDefault,
			Value:  strconv.FormatFloat(investment*0.05, 'f', -1, 64),
		}
	default:
		in.SellPrice = Field{
			Status: FieldDefault,
			Value:  strconv.FormatFloat(quote*1.05, 'f', -1, 64),
		}
	}
	return in
}

// Session is the cross-token state: which token is selected and the global
// investment amount.
type Session struct {
	SelectedToken string `json:"selected_token"`
	Investment    string `json:"investment"`
}

// Manager persists per-token saved inputs and the session record through
// the store. Loads are best-effort: absent or malformed blobs yield zero
// values, never errors.
type Manager struct {
	mu    sync.Mutex
	store store.Store
}

// NewManager creates a manager over the given store.
func NewManager(s store.Store) *Manager {
	return &Manager{store: s}
}

func (m *Manager) loadAll() map[string]Inputs {
	raw, ok := m.store.Get(inputsKey)
	if !ok {
		return map[string]Inputs{}
	}
	var all map[string]Inputs
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		logger.Warn("State", fmt.Sprintf("discarding malformed saved inputs: %v", err))
		return map[string]Inputs{}
	}
	return all
}

// InputsFor returns the saved inputs for a token, if any.
func (m *Manager) InputsFor(tokenID string) (Inputs, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.loadAll()[tokenID]
	return in, ok
}

// SaveInputs stores the inputs for a token, overwriting any previous set.
func (m *Manager) SaveInputs(tokenID string, in Inputs) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := m.loadAll()
	all[tokenID] = in
	data, err := json.Marshal(all)
	if err != nil {
		logger.Warn("State", fmt.Sprintf("marshal inputs: %v", err))
		return
	}
	if err := m.store.Set(inputsKey, string(data)); err != nil {
		logger.Warn("State", fmt.Sprintf("persist inputs: %v", err))
	}
}

// SavedTokens reports which catalog tokens have saved inputs.
func (m *Manager) SavedTokens() map[string]bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]bool)
	for id := range m.loadAll() {
		if _, ok := token.ByID(id); ok {
			out[id] = true
		}
	}
	return out
}

// Session returns the persisted session record.
func (m *Manager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.store.Get(sessionKey)
	if !ok {
		return Session{}
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Session{}
	}
	return s
}

// SaveSession stores the session record.
func (m *Manager) SaveSession(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.Marshal(s)
	if err != nil {
		logger.Warn("State", fmt.Sprintf("marshal session: %v", err))
		return
	}
	if err := m.store.Set(sessionKey, string(data)); err != nil {
		logger.Warn("State", fmt.Sprintf("persist session: %v", err))
	}
}
