// =============================
// File: internal/dex/pumpfun/accounts.go
// =============================
package pumpfun

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/curvetrade/engine/internal/blockchain"
)

// DeriveTradeAccounts вычисляет детерминированные адреса для сделки по минту.
// Чистая функция: для одного и того же минта всегда возвращает те же адреса
// (seed "bonding-curve"+mint и "global" против программы Pump.fun).
// Ошибается только на синтаксически некорректном минте.
func DeriveTradeAccounts(mintAddress string, owner solana.PublicKey, cfg *Config) (*TradeAccounts, error) {
	mint, err := solana.PublicKeyFromBase58(mintAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: mint %q: %v", ErrInvalidAddress, mintAddress, err)
	}

	// PDA аккаунта bonding curve для токена
	bondingCurve, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("bonding-curve"), mint.Bytes()},
		cfg.ContractAddress,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to derive bonding curve: %w", err)
	}

	// ATA, на котором кривая держит токены
	associatedBondingCurve, _, err := solana.FindAssociatedTokenAddress(bondingCurve, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive associated bonding curve: %w", err)
	}

	// Глобальный конфигурационный аккаунт программы
	global, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("global")},
		cfg.ContractAddress,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to derive global account: %w", err)
	}

	// ATA владельца для пары (owner, mint)
	userATA, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive user token account: %w", err)
	}

	return &TradeAccounts{
		Mint:                   mint,
		BondingCurve:           bondingCurve,
		AssociatedBondingCurve: associatedBondingCurve,
		Global:                 global,
		FeeRecipient:           cfg.FeeRecipient,
		EventAuthority:         cfg.EventAuthority,
		UserATA:                userATA,
	}, nil
}

// Раскладка аккаунта bonding curve: 8 байт дискриминатора Anchor,
// затем пять little-endian uint64 и однобайтовый флаг завершения.
const curveStateMinLen = 8 + 5*8 + 1

// FetchCurveState получает и парсит данные аккаунта bonding curve.
// Состояние читается заново перед каждой котировкой: резервы меняются
// с каждой on-chain сделкой.
func FetchCurveState(ctx context.Context, client blockchain.Client, bondingCurve solana.PublicKey) (*CurveState, error) {
	accountInfo, err := client.GetAccountInfo(ctx, bondingCurve)
	if err != nil {
		return nil, fmt.Errorf("failed to get bonding curve account: %w", err)
	}

	if accountInfo == nil || accountInfo.Value == nil {
		return nil, fmt.Errorf("bonding curve account not found: %s", bondingCurve.String())
	}

	return parseCurveState(accountInfo.Value.Data.GetBinary())
}

// parseCurveState десериализует сырые байты аккаунта bonding curve.
func parseCurveState(data []byte) (*CurveState, error) {
	if len(data) < curveStateMinLen {
		return nil, fmt.Errorf("invalid bonding curve data: %d bytes", len(data))
	}

	// Пропускаем дискриминатор (8 байт)
	offset := 8
	state := &CurveState{}
	state.VirtualTokenReserves = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8
	state.VirtualSolReserves = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8
	state.RealTokenReserves = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8
	state.RealSolReserves = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8
	state.TokenTotalSupply = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8
	state.Complete = data[offset] != 0

	return state, nil
}

// FetchGlobalAccount fetches and deserializes the global account data.
func FetchGlobalAccount(ctx context.Context, client blockchain.Client, globalAddr solana.PublicKey, logger *zap.Logger) (*GlobalAccount, error) {
	accountInfo, err := client.GetAccountInfo(ctx, globalAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to get global account: %w", err)
	}

	if accountInfo == nil || accountInfo.Value == nil {
		return nil, fmt.Errorf("global account not found: %s", globalAddr.String())
	}

	if !accountInfo.Value.Owner.Equals(PumpFunProgramID) {
		return nil, fmt.Errorf("global account has incorrect owner: expected %s, got %s",
			PumpFunProgramID.String(), accountInfo.Value.Owner.String())
	}

	data := accountInfo.Value.Data.GetBinary()

	// Минимальная длина: 8 (дискриминатор) + 1 (флаг) + 64 (два публичных ключа)
	if len(data) < 8+1+64 {
		return nil, fmt.Errorf("global account data too short: %d bytes", len(data))
	}

	account := &GlobalAccount{}
	copy(account.Discriminator[:], data[0:8])
	account.Initialized = data[8] != 0
	account.Authority = solana.PublicKeyFromBytes(data[9:41])
	account.FeeRecipient = solana.PublicKeyFromBytes(data[41:73])
	if len(data) >= 81 {
		account.FeeBasisPoints = binary.LittleEndian.Uint64(data[73:81])
	}

	logger.Debug("Global account data parsed",
		zap.Bool("initialized", account.Initialized),
		zap.String("fee_recipient", account.FeeRecipient.String()),
		zap.Uint64("fee_basis_points", account.FeeBasisPoints))

	return account, nil
}
