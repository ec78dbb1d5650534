package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// errNoRPCURL is returned when a descriptor carries no endpoint at all.
var errNoRPCURL = errors.New("no rpc url configured")

// EVMClient implements the port.BlockchainClient interface for EVM-compatible chains.
type EVMClient struct {
	ethClient      *ethclient.Client
	netDef         entity.NetworkDescriptor
	rpcCallTimeout time.Duration
}

// DialOptions controls how NewEVMClient connects.
type DialOptions struct {
	ConnectionTimeout time.Duration
	RPCCallTimeout    time.Duration
	AttemptsPerURL    uint
	RetryDelay        time.Duration
}

// NewEVMClient connects to the first reachable RPC endpoint of the network.
// Each endpoint is retried AttemptsPerURL times before moving on to the next one.
func NewEVMClient(ctx context.Context, netDef entity.NetworkDescriptor, opts DialOptions) (port.BlockchainClient, error) {
	rpcURLs := netDef.RPCURLs()
	if len(rpcURLs) == 0 {
		return nil, fmt.Errorf("network %s: %w", netDef.ChainID, errNoRPCURL)
	}
	if opts.AttemptsPerURL == 0 {
		opts.AttemptsPerURL = 1
	}
	if opts.ConnectionTimeout <= 0 {
		opts.ConnectionTimeout = defaultProviderConnectionTimeout
	}

	var lastErr error
	for _, rpcURL := range rpcURLs {
		var client *ethclient.Client
		err := retry.Do(
			func() error {
				dialCtx, cancel := context.WithTimeout(ctx, opts.ConnectionTimeout)
				defer cancel()

				c, err := ethclient.DialContext(dialCtx, rpcURL)
				if err != nil {
					return err
				}
				// DialContext is lazy for http endpoints, ask for the chain ID to be sure the node answers
				if _, err := c.ChainID(dialCtx); err != nil {
					c.Close()
					return err
				}
				client = c
				return nil
			},
			retry.Context(ctx),
			retry.Attempts(opts.AttemptsPerURL),
			retry.Delay(opts.RetryDelay),
			retry.DelayType(retry.FixedDelay),
			retry.LastErrorOnly(true),
		)
		if err == nil {
			return &EVMClient{ethClient: client, netDef: netDef, rpcCallTimeout: opts.RPCCallTimeout}, nil
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
}

// HeadBlock fetches the latest header. BaseFeePerGas is nil for pre-London chains.
func (c *EVMClient) HeadBlock(ctx context.Context) (entity.ObservedBlock, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	header, err := c.ethClient.HeaderByNumber(callCtx, nil)
	if err != nil {
		return entity.ObservedBlock{}, fmt.Errorf("failed to fetch head for %s: %w", c.netDef.ChainID, err)
	}
	block := entity.ObservedBlock{
		ChainID: c.netDef.ChainID,
		Height:  header.Number.Uint64(),
	}
	if header.BaseFee != nil {
		block.BaseFeePerGas = new(big.Int).Set(header.BaseFee)
	}
	return block, nil
}

// NativeBalances fetches native balances of the wallets with one JSON-RPC batch request.
func (c *EVMClient) NativeBalances(ctx context.Context, walletAddresses []string) (map[string]*big.Int, error) {
	if len(walletAddresses) == 0 {
		return map[string]*big.Int{}, nil
	}

	batchElems := make([]rpc.BatchElem, len(walletAddresses))
	for i, addr := range walletAddresses {
		batchElems[i] = rpc.BatchElem{
			Method: "eth_getBalance",
			Args:   []interface{}{common.HexToAddress(addr), "latest"},
			Result: new(*hexutil.Big), // eth_getBalance returns hexutil.Big
		}
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if err := c.ethClient.Client().BatchCallContext(callCtx, batchElems); err != nil {
		return nil, fmt.Errorf("RPC batch call failed: %w", err)
	}

	balances := make(map[string]*big.Int, len(walletAddresses))
	for i, elem := range batchElems {
		if elem.Error != nil {
			return nil, fmt.Errorf("failed to fetch balance of %s: %w", walletAddresses[i], elem.Error)
		}
		result, ok := elem.Result.(**hexutil.Big)
		if !ok || result == nil || *result == nil {
			return nil, fmt.Errorf("failed to decode balance of %s: unexpected type or nil result", walletAddresses[i])
		}
		balances[walletAddresses[i]] = (*big.Int)(*result)
	}
	return balances, nil
}

// Definition returns the network descriptor for this client.
func (c *EVMClient) Definition() entity.NetworkDescriptor {
	return c.netDef
}

// Close closes the underlying RPC connection.
func (c *EVMClient) Close() {
	c.ethClient.Close()
}

func (c *EVMClient) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.rpcCallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.rpcCallTimeout)
}
