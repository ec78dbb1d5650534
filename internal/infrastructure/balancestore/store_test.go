package balancestore

import (
	"context"
	"math/big"
	"testing"
	"time"

	"network_registry/internal/domain/entity"
	"network_registry/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nativeBalance(chainID, wallet string, amount int64) entity.Balance {
	return entity.Balance{
		WalletAddress: wallet,
		ChainID:       chainID,
		TokenAddress:  entity.ZeroAddress,
		IsNative:      true,
		Amount:        big.NewInt(amount),
	}
}

func TestPutAndList(t *testing.T) {
	s := New(0, logger.NewSlogAdapter())
	ctx := context.Background()

	require.NoError(t, s.PutBalances(ctx, []entity.Balance{
		nativeBalance("1", "0xB", 2),
		nativeBalance("1", "0xA", 1),
		nativeBalance("137", "0xA", 3),
	}))

	got, err := s.BalancesByChain(ctx, "1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "0xA", got[0].WalletAddress)
	assert.Equal(t, "0xB", got[1].WalletAddress)

	// upsert replaces the previous value
	require.NoError(t, s.PutBalances(ctx, []entity.Balance{nativeBalance("1", "0xa", 10)}))
	got, err = s.BalancesByChain(ctx, "1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(10), got[0].Amount.Int64())
}

func TestPurgeOnlyTouchesOneChain(t *testing.T) {
	s := New(0, logger.NewSlogAdapter())
	ctx := context.Background()

	require.NoError(t, s.PutBalances(ctx, []entity.Balance{
		nativeBalance("1", "0xA", 1),
		nativeBalance("10", "0xA", 1),
		nativeBalance("137", "0xA", 1),
	}))

	require.NoError(t, s.PurgeBalances(ctx, "1"))

	got, err := s.BalancesByChain(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, got)

	// "10" shares the "1" prefix without the separator
	got, err = s.BalancesByChain(ctx, "10")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 2, s.Len())

	require.NoError(t, s.PurgeBalances(ctx, "unknown"))
}

func TestRejectsEmptyChainAndCancelledContext(t *testing.T) {
	s := New(0, logger.NewSlogAdapter())

	err := s.PutBalances(context.Background(), []entity.Balance{nativeBalance("", "0xA", 1)})
	require.ErrorIs(t, err, errEmptyChainID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.PurgeBalances(ctx, "1"), context.Canceled)
	_, err = s.BalancesByChain(ctx, "1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestTTLExpiry(t *testing.T) {
	s := New(20*time.Millisecond, logger.NewSlogAdapter())
	ctx := context.Background()
	require.NoError(t, s.PutBalances(ctx, []entity.Balance{nativeBalance("1", "0xA", 1)}))

	require.Eventually(t, func() bool {
		got, err := s.BalancesByChain(ctx, "1")
		return err == nil && len(got) == 0
	}, time.Second, 10*time.Millisecond)
}
