// =============================
// File: internal/dex/pumpfun/submit.go
// =============================
package pumpfun

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/curvetrade/engine/internal/blockchain"
)

// SubmitTransaction отправляет подписанную транзакцию с ограниченным бюджетом
// повторов. Повторяются только транспортные сбои отправки; on-chain отказы
// (превышение проскальзывания, устаревший blockhash, нехватка средств)
// терминальны и возвращаются сразу: слепой повтор против сдвинувшейся кривой
// исполнился бы по худшей цене.
//
// Возврат подписи означает приём в пул ожидания, но не финальность.
func SubmitTransaction(
	ctx context.Context,
	client blockchain.Client,
	tx *solana.Transaction,
	cfg *Config,
	logger *zap.Logger,
) (solana.Signature, error) {
	if cfg.Simulate {
		if err := simulateBeforeSend(ctx, client, tx, logger); err != nil {
			return solana.Signature{}, err
		}
	}

	txOpts := blockchain.TransactionOptions{
		SkipPreflight:       cfg.SkipPreflight,
		PreflightCommitment: rpc.CommitmentProcessed,
	}

	attempts := 0
	op := func() (solana.Signature, error) {
		attempts++
		sig, err := client.SendTransactionWithOpts(ctx, tx, txOpts)
		if err != nil {
			if reason := classifyRejection(err); reason != "" {
				return solana.Signature{}, backoff.Permanent(&OnChainRejectionError{Reason: reason, Err: err})
			}
			logger.Warn("Transaction send failed, will retry",
				zap.Int("attempt", attempts),
				zap.Int("budget", cfg.SendAttempts),
				zap.Error(err))
			return solana.Signature{}, err
		}
		return sig, nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 100 * time.Millisecond

	sig, err := backoff.Retry(
		ctx,
		op,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(uint(cfg.SendAttempts)),
	)
	if err != nil {
		var rejection *OnChainRejectionError
		if errors.As(err, &rejection) {
			return solana.Signature{}, rejection
		}
		return solana.Signature{}, &SubmissionError{Attempts: attempts, Err: err}
	}

	logger.Debug("Transaction accepted",
		zap.String("signature", sig.String()),
		zap.Int("attempts", attempts))
	return sig, nil
}

// simulateBeforeSend прогоняет транзакцию через симуляцию. По умолчанию
// выключено ради латентности.
func simulateBeforeSend(ctx context.Context, client blockchain.Client, tx *solana.Transaction, logger *zap.Logger) error {
	result, err := client.SimulateTransaction(ctx, tx)
	if err != nil {
		// Сбой самой симуляции транзиентен — отправляем без неё
		logger.Warn("Simulation unavailable, sending without it", zap.Error(err))
		return nil
	}
	if result.Err != nil {
		logger.Warn("Simulation rejected transaction",
			zap.Any("err", result.Err),
			zap.Strings("logs", result.Logs))
		return &OnChainRejectionError{
			Reason: "simulation failed",
			Err:    fmt.Errorf("simulation error: %v", result.Err),
		}
	}
	return nil
}
