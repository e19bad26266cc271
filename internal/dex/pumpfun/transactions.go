// =============================
// File: internal/dex/pumpfun/transactions.go
// =============================
package pumpfun

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/curvetrade/engine/internal/blockchain"
	"github.com/curvetrade/engine/internal/wallet"
)

// AssembleAndSign собирает из упорядоченных инструкций одну транзакцию и
// подписывает её локально. Blockhash запрашивается непосредственно перед
// сборкой: он быстро истекает, и чем позже он получен, тем дольше окно
// валидности транзакции.
func AssembleAndSign(
	ctx context.Context,
	client blockchain.Client,
	w *wallet.Wallet,
	instructions []solana.Instruction,
	logger *zap.Logger,
) (*solana.Transaction, error) {
	blockhash, err := client.GetRecentBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	logger.Debug("Assembling transaction",
		zap.Int("num_instructions", len(instructions)),
		zap.String("blockhash", blockhash.String()))

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(w.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := w.SignTransaction(tx); err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	return tx, nil
}
