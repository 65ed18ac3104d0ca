package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"symbolstats/internal/model"
)

// DefaultType is used for symbols whose metadata carries no category.
const DefaultType = "other"

// symbolMeta is one entry of the symbol metadata file.
type symbolMeta struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Type        string `json:"type"`
}

// Load builds a registry from a JSON metadata file.
func Load(filePath string) (*Registry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read symbols: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from JSON metadata.
func Parse(data []byte) (*Registry, error) {
	var metas []symbolMeta
	if err := json.Unmarshal(data, &metas); err != nil {
		return nil, fmt.Errorf("parse symbols: %w", err)
	}
	symbols := make([]model.Symbol, 0, len(metas))
	for _, m := range metas {
		symbols = append(symbols, model.Symbol{
			Name:        m.Name,
			DisplayName: m.DisplayName,
			Type:        m.Type,
		})
	}
	return New(symbols)
}
