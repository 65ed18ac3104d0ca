// Package feed distributes symbol statistics to clients over HTTP and
// WebSocket.
package feed

import (
	"time"

	"symbolstats/internal/calculator"
	"symbolstats/internal/model"
)

// SymbolView is the client-facing shape of a symbol.
type SymbolView struct {
	Name        string                `json:"name"`
	DisplayName string                `json:"displayName"`
	Type        string                `json:"type"`
	Bid         *float64              `json:"bid"`
	Marks       map[string]model.Mark `json:"marks,omitempty"`
	ChangeH     *float64              `json:"changeH"` // percent vs. the hour mark
	ChangeD     *float64              `json:"changeD"` // percent vs. the day mark
	Scanned     bool                  `json:"scanned"`

	// Day aggregates stay null until a day scan has run.
	Volume *float64 `json:"volume"`
	HighD  *float64 `json:"highD"`
	LowD   *float64 `json:"lowD"`
	HighM  *float64 `json:"highM"`
	LowM   *float64 `json:"lowM"`

	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// NewView builds the client view of a symbol, including percentage changes
// where both a bid and the matching mark are known.
func NewView(s model.Symbol) SymbolView {
	st := s.Stats.Clone()
	v := SymbolView{
		Name:        s.Name,
		DisplayName: s.DisplayName,
		Type:        s.Type,
		Bid:         st.Bid,
		Marks:       st.Marks,
		Scanned:     st.Scanned,
	}
	if st.Scanned {
		v.Volume = model.Float(st.Volume)
		v.HighD = model.Float(st.HighD)
		v.LowD = model.Float(st.LowD)
		v.HighM = model.Float(st.HighM)
		v.LowM = model.Float(st.LowM)
	}
	if !st.UpdatedAt.IsZero() {
		at := st.UpdatedAt
		v.UpdatedAt = &at
	}
	if st.Bid != nil {
		v.ChangeH = changeVs(*st.Bid, st.Marks, model.MarkHour)
		v.ChangeD = changeVs(*st.Bid, st.Marks, model.MarkDay)
	}
	return v
}

// NewViews builds views for all symbols, keeping order.
func NewViews(symbols []model.Symbol) []SymbolView {
	out := make([]SymbolView, len(symbols))
	for i, s := range symbols {
		out[i] = NewView(s)
	}
	return out
}

func changeVs(bid float64, marks map[string]model.Mark, key string) *float64 {
	m, ok := marks[key]
	if !ok {
		return nil
	}
	pct, err := calculator.PercentChange(bid, m.Price)
	if err != nil {
		return nil
	}
	return &pct
}
