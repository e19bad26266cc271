// ==============================================
// File: internal/dex/pumpfun/pumpfun.go
// ==============================================

package pumpfun

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/curvetrade/engine/internal/blockchain"
	"github.com/curvetrade/engine/internal/wallet"
)

// Engine — торговый движок bonding curve площадки Pump.fun.
//
// Движок не хранит межзапросного изменяемого состояния: каждая сделка живёт
// только в своём стеке вызова, поэтому произвольное число сделок может идти
// параллельно по одному и тому же клиенту. Конфликтующие сделки против одной
// кривой сериализует сам леджер.
type Engine struct {
	client blockchain.Client
	wallet *wallet.Wallet
	logger *zap.Logger
	config *Config
}

// NewEngine creates a new instance of the trading engine. Dependencies are
// passed explicitly; each instance is independently configurable.
func NewEngine(client blockchain.Client, w *wallet.Wallet, logger *zap.Logger, config *Config) (*Engine, error) {
	if client == nil {
		return nil, fmt.Errorf("blockchain client is required")
	}
	if w == nil {
		return nil, fmt.Errorf("wallet is required")
	}
	if config == nil {
		config = GetDefaultConfig()
	}
	config.normalize()

	logger.Info("Creating PumpFun trading engine",
		zap.String("program", config.ContractAddress.String()),
		zap.String("wallet", w.PublicKey.String()),
		zap.Int("send_attempts", config.SendAttempts))

	return &Engine{
		client: client,
		wallet: w,
		logger: logger.Named("pumpfun"),
		config: config,
	}, nil
}

// ExecuteBuy покупает tokenAmount токенов (в человекочитаемых единицах)
// за SOL и возвращает подпись транзакции. Подпись означает приём сетью,
// но не финальное подтверждение.
func (e *Engine) ExecuteBuy(ctx context.Context, mint string, tokenAmount float64) (solana.Signature, error) {
	raw := RawTokenAmount(tokenAmount)
	if raw == 0 {
		return solana.Signature{}, fmt.Errorf("%w: %f", ErrInvalidAmount, tokenAmount)
	}
	return e.executeTrade(ctx, mint, raw, DirectionBuy)
}

// ExecuteSell продаёт tokenAmount токенов (в человекочитаемых единицах).
func (e *Engine) ExecuteSell(ctx context.Context, mint string, tokenAmount float64) (solana.Signature, error) {
	raw := RawTokenAmount(tokenAmount)
	if raw == 0 {
		return solana.Signature{}, fmt.Errorf("%w: %f", ErrInvalidAmount, tokenAmount)
	}
	return e.executeTrade(ctx, mint, raw, DirectionSell)
}

// ExecuteSellPercent продаёт указанный процент от текущего баланса токена.
func (e *Engine) ExecuteSellPercent(ctx context.Context, mint string, percent float64) (solana.Signature, error) {
	if percent <= 0 || percent > 100 {
		return solana.Signature{}, fmt.Errorf("percent to sell must be between 0 and 100")
	}

	accounts, err := DeriveTradeAccounts(mint, e.wallet.PublicKey, e.config)
	if err != nil {
		return solana.Signature{}, err
	}

	balance, err := fetchTokenBalance(ctx, e.client, accounts.UserATA)
	if err != nil {
		return solana.Signature{}, &AccountLookupError{Address: accounts.UserATA.String(), Err: err}
	}
	if balance == 0 {
		return solana.Signature{}, fmt.Errorf("%w: token account %s is empty", ErrNothingToSell, accounts.UserATA.String())
	}

	raw := uint64(float64(balance) * (percent / 100.0))
	if raw == 0 {
		return solana.Signature{}, fmt.Errorf("%w: %f%% of %d tokens rounds to zero", ErrInvalidAmount, percent, balance)
	}

	e.logger.Info("Selling percent of balance",
		zap.String("mint", mint),
		zap.Uint64("balance", balance),
		zap.Float64("percent", percent),
		zap.Uint64("tokens_to_sell", raw))

	return e.executeTrade(ctx, mint, raw, DirectionSell)
}

// GetTokenPrice возвращает текущую спотовую цену токена в SOL (для отображения).
func (e *Engine) GetTokenPrice(ctx context.Context, mint string) (float64, error) {
	accounts, err := DeriveTradeAccounts(mint, e.wallet.PublicKey, e.config)
	if err != nil {
		return 0, err
	}
	curve, err := FetchCurveState(ctx, e.client, accounts.BondingCurve)
	if err != nil {
		return 0, fmt.Errorf("failed to get bonding curve data: %w", err)
	}
	if curve.Complete {
		return 0, ErrCurveMigrated
	}
	return SpotPrice(curve)
}

// executeTrade прогоняет полный конвейер сделки:
// derive → fetch → price → build → assemble/sign → submit.
// Отказ любого шага немедленно останавливает оставшиеся шаги.
func (e *Engine) executeTrade(ctx context.Context, mint string, rawAmount uint64, direction Direction) (solana.Signature, error) {
	tradeLogger := e.logger.With(
		zap.String("trade_id", uuid.NewString()),
		zap.String("mint", mint),
		zap.String("direction", string(direction)),
		zap.Uint64("token_amount_raw", rawAmount))

	// 1. Детерминированные адреса сделки (чистый шаг, без I/O)
	accounts, err := DeriveTradeAccounts(mint, e.wallet.PublicKey, e.config)
	if err != nil {
		return solana.Signature{}, err
	}

	// 2. Свежее состояние кривой и глобального аккаунта. Оба чтения
	// независимы, поэтому идут параллельно. Получатель комиссии из
	// глобального аккаунта предпочтительнее захардкоженного fallback.
	var curve *CurveState
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var ferr error
		curve, ferr = FetchCurveState(gctx, e.client, accounts.BondingCurve)
		return ferr
	})
	g.Go(func() error {
		global, gerr := FetchGlobalAccount(gctx, e.client, accounts.Global, tradeLogger)
		if gerr != nil {
			tradeLogger.Debug("Global account unavailable, using configured fee recipient", zap.Error(gerr))
			return nil
		}
		if !global.FeeRecipient.IsZero() {
			accounts.FeeRecipient = global.FeeRecipient
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return solana.Signature{}, fmt.Errorf("failed to fetch bonding curve state: %w", err)
	}

	// 3. Котировка с границей исполнения
	quote, err := NewQuote(direction, curve, rawAmount, e.config.Slippage)
	if err != nil {
		return solana.Signature{}, err
	}

	tradeLogger.Info("Quote computed",
		zap.Uint64("sol_amount_lamports", quote.SolAmount),
		zap.Uint64("bounded_sol_lamports", quote.BoundedSolAmount),
		zap.Uint64("virtual_token_reserves", curve.VirtualTokenReserves),
		zap.Uint64("virtual_sol_reserves", curve.VirtualSolReserves))

	// 4. Упорядоченный список инструкций
	instructions, err := BuildTradeInstructions(ctx, e.client, accounts, quote, e.wallet.PublicKey, tradeLogger)
	if err != nil {
		return solana.Signature{}, err
	}

	// 5. Сборка и локальная подпись
	tx, err := AssembleAndSign(ctx, e.client, e.wallet, instructions, tradeLogger)
	if err != nil {
		return solana.Signature{}, err
	}

	// 6. Отправка с ограниченным бюджетом повторов
	sig, err := SubmitTransaction(ctx, e.client, tx, e.config, tradeLogger)
	if err != nil {
		return solana.Signature{}, err
	}

	tradeLogger.Info("Trade submitted", zap.String("signature", sig.String()))
	return sig, nil
}
