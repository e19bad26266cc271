// =============================
// File: internal/dex/pumpfun/trade.go
// =============================
package pumpfun

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/curvetrade/engine/internal/blockchain"
	"github.com/curvetrade/engine/internal/blockchain/solbc"
)

// BuildTradeInstructions собирает упорядоченный список инструкций сделки.
// Порядок фиксирован: опциональное создание ATA владельца, затем ровно одна
// торговая инструкция. Проверка существования ATA обязательна: повторное
// создание сеть отклоняет, а продажа без аккаунта бессмысленна.
func BuildTradeInstructions(
	ctx context.Context,
	client blockchain.Client,
	accounts *TradeAccounts,
	quote *Quote,
	user solana.PublicKey,
	logger *zap.Logger,
) ([]solana.Instruction, error) {
	exists, err := accountExists(ctx, client, accounts.UserATA)
	if err != nil {
		// Не угадываем: при сбое чтения конвейер закрывается
		return nil, &AccountLookupError{Address: accounts.UserATA.String(), Err: err}
	}

	var instructions []solana.Instruction

	switch quote.Direction {
	case DirectionBuy:
		if !exists {
			logger.Debug("User ATA missing, prepending create instruction",
				zap.String("user_ata", accounts.UserATA.String()))
			instructions = append(instructions,
				BuildCreateATAInstruction(user, accounts.UserATA, user, accounts.Mint))
		}
		instructions = append(instructions,
			BuildBuyInstruction(accounts, user, quote.TokenAmount, quote.BoundedSolAmount))

	case DirectionSell:
		if !exists {
			return nil, fmt.Errorf("%w: no token account for mint %s", ErrNothingToSell, accounts.Mint.String())
		}
		balance, err := fetchTokenBalance(ctx, client, accounts.UserATA)
		if err != nil {
			return nil, &AccountLookupError{Address: accounts.UserATA.String(), Err: err}
		}
		if balance == 0 {
			return nil, fmt.Errorf("%w: token account %s is empty", ErrNothingToSell, accounts.UserATA.String())
		}
		instructions = append(instructions,
			BuildSellInstruction(accounts, user, quote.TokenAmount, quote.BoundedSolAmount))

	default:
		return nil, fmt.Errorf("unknown trade direction: %q", quote.Direction)
	}

	return instructions, nil
}

// accountExists проверяет существование аккаунта. Ответ "not found" — не ошибка.
func accountExists(ctx context.Context, client blockchain.Client, address solana.PublicKey) (bool, error) {
	accountInfo, err := client.GetAccountInfo(ctx, address)
	if err != nil {
		if solbc.IsAccountNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return accountInfo != nil && accountInfo.Value != nil, nil
}

// fetchTokenBalance возвращает баланс токен-аккаунта в raw-единицах.
func fetchTokenBalance(ctx context.Context, client blockchain.Client, ata solana.PublicKey) (uint64, error) {
	result, err := client.GetTokenAccountBalance(ctx, ata, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to get token account balance: %w", err)
	}
	if result == nil || result.Value == nil || result.Value.Amount == "" {
		return 0, nil
	}
	balance, err := strconv.ParseUint(result.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse token balance: %w", err)
	}
	return balance, nil
}
