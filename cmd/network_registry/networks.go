package main

import (
	"fmt"
	"os"

	networkdefinition "network_registry/internal/infrastructure/network/definition"
	"network_registry/internal/pkg/logger"

	"gopkg.in/yaml.v3"
)

type NetworksCmd struct {
	NetworksFile string   `help:"JSON file with network descriptors, built-in descriptors are used when empty."`
	Only         []string `help:"Identifiers or chain IDs to keep."`
}

func (c *NetworksCmd) Run(globals *Globals) error {
	logger.Init(globals.LogLevel)

	provider, err := networkdefinition.NewNetworkDefinitionProvider(logger.NewSlogAdapter(), c.NetworksFile, c.Only)
	if err != nil {
		return fmt.Errorf("failed to load network descriptors: %w", err)
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(provider.GetAllNetworkDefinitions())
}
