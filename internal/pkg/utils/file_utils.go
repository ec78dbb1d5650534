package utils

import (
	"fmt"
	"os"

	"network_registry/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LoadNetworksFromJSON reads a JSON array of network descriptors.
func LoadNetworksFromJSON(filePath string) ([]entity.NetworkDescriptor, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read networks file %s: %w", filePath, err)
	}

	var networks []entity.NetworkDescriptor
	if err := json.Unmarshal(data, &networks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal networks file %s: %w", filePath, err)
	}
	for i, n := range networks {
		if n.ChainID == "" {
			return nil, fmt.Errorf("networks file %s: entry %d: %w", filePath, i, entity.ErrInvalidChainID)
		}
	}
	return networks, nil
}
