package model

import "time"

// Mark keys used for percentage-change baselines.
const (
	MarkHour = "H"
	MarkDay  = "D"
)

// Mark is an anchor point: the time and price a percentage change is
// measured against.
type Mark struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// Stats holds the derived, mutable fields of a symbol.
type Stats struct {
	Bid   *float64        `json:"bid"`
	Marks map[string]Mark `json:"marks"`

	// Daily aggregates, valid once Scanned is true.
	Volume  float64 `json:"volume"`
	HighD   float64 `json:"highD"`
	LowD    float64 `json:"lowD"`
	HighM   float64 `json:"highM"`
	LowM    float64 `json:"lowM"`
	Scanned bool    `json:"scanned"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a copy that shares no memory with s.
func (s Stats) Clone() Stats {
	out := s
	if s.Bid != nil {
		bid := *s.Bid
		out.Bid = &bid
	}
	if s.Marks != nil {
		out.Marks = make(map[string]Mark, len(s.Marks))
		for k, v := range s.Marks {
			out.Marks[k] = v
		}
	}
	return out
}

// Equal reports whether s and o hold the same values, ignoring UpdatedAt.
// A nil and an empty Marks map are equal.
func (s Stats) Equal(o Stats) bool {
	if s.HasBid() != o.HasBid() || (s.HasBid() && *s.Bid != *o.Bid) {
		return false
	}
	if s.Volume != o.Volume || s.HighD != o.HighD || s.LowD != o.LowD ||
		s.HighM != o.HighM || s.LowM != o.LowM || s.Scanned != o.Scanned {
		return false
	}
	if len(s.Marks) != len(o.Marks) {
		return false
	}
	for k, m := range s.Marks {
		om, ok := o.Marks[k]
		if !ok || om.Price != m.Price || !om.Time.Equal(m.Time) {
			return false
		}
	}
	return true
}

// HasBid reports whether a price is known.
func (s Stats) HasBid() bool { return s.Bid != nil }

// Symbol is a tradable instrument and its derived statistics.
type Symbol struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Type        string `json:"type"`
	Stats       Stats  `json:"stats"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
