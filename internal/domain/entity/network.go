package entity

// NetworkDescriptor holds the metadata of a supported blockchain network.
// ChainID is the registry key and must be unique across descriptors.
type NetworkDescriptor struct {
	ChainID          string   `json:"chainId" yaml:"chainId"`
	Name             string   `json:"name" yaml:"name"`
	Identifier       string   `json:"identifier" yaml:"identifier"` // короткое имя сети, например "ethereum"
	NativeSymbol     string   `json:"nativeSymbol" yaml:"nativeSymbol"`
	Decimals         uint8    `json:"decimals" yaml:"decimals"`
	PrimaryRPCURL    string   `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	FallbackRPCURLs  []string `json:"fallbackRpcUrls,omitempty" yaml:"fallbackRpcUrls,omitempty"`
	BlockExplorerURL string   `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
}

// RPCURLs returns the primary endpoint followed by the fallbacks.
func (d NetworkDescriptor) RPCURLs() []string {
	urls := make([]string, 0, 1+len(d.FallbackRPCURLs))
	if d.PrimaryRPCURL != "" {
		urls = append(urls, d.PrimaryRPCURL)
	}
	return append(urls, d.FallbackRPCURLs...)
}

// Clone returns a copy that shares no slices with d.
func (d NetworkDescriptor) Clone() NetworkDescriptor {
	if d.FallbackRPCURLs != nil {
		d.FallbackRPCURLs = append([]string(nil), d.FallbackRPCURLs...)
	}
	return d
}
