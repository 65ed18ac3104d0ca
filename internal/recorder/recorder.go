package recorder

import "symbolstats/internal/model"

// Recorder persists historical statistics snapshots for analysis.
type Recorder interface {
	RecordStats(symbols []model.Symbol) error
	Close() error
}
