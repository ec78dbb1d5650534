package walletloader

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"network_registry/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// LoadWallets reads wallet addresses from a text file, one address per line.
// Empty lines and lines starting with '#' are ignored, invalid addresses are skipped.
// The returned skipped slice holds the line numbers of invalid entries.
func LoadWallets(filePath string) (wallets []entity.Wallet, skipped []int, err error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open wallet file %s: %w", filePath, err)
	}
	defer file.Close()

	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "0x") || !common.IsHexAddress(line) {
			skipped = append(skipped, lineNum)
			continue
		}
		// нормализуем в checksum-формат, чтобы дубликаты в разном регистре не считались дважды
		address := common.HexToAddress(line).Hex()
		if _, dup := seen[address]; dup {
			continue
		}
		seen[address] = struct{}{}
		wallets = append(wallets, entity.Wallet{Address: address})
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("error scanning wallet file %s: %w", filePath, err)
	}
	return wallets, skipped, nil
}
