// =============================
// File: internal/dex/pumpfun/config.go
// =============================
package pumpfun

import (
	"github.com/gagliardetto/solana-go"

	"github.com/curvetrade/engine/internal/types"
)

// Known PumpFun protocol addresses
var (
	// Program ID for Pump.fun protocol
	PumpFunProgramID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

	// Event authority for the Pump.fun protocol
	PumpFunEventAuth = solana.MustPublicKeyFromBase58("Ce6TQqeHC9p8KetsN6JsjHK7UTZk7nasjjnr7XxXp9F1")

	// Fee recipient published in the on-chain global account. The global
	// account is fetched at engine start; this is the fallback when the
	// fetch is unavailable.
	DefaultFeeRecipient = solana.MustPublicKeyFromBase58("CebN5WGQ4jvEPvsVU4EoHEpgzq1VV7AbicfhtW4xC9iM")

	AssociatedTokenProgramID = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	SysvarRentPubkey         = solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
)

const (
	// Стандартные десятичные знаки для SOL и токенов Pump.fun
	solDecimals   = 9
	tokenDecimals = 6
)

// Config holds the configuration for the Pump.fun trading engine.
type Config struct {
	// Protocol addresses
	ContractAddress solana.PublicKey
	EventAuthority  solana.PublicKey
	FeeRecipient    solana.PublicKey

	// Slippage policy applied to execution bounds
	Slippage types.SlippageConfig

	// Submission behaviour
	SendAttempts  int
	SkipPreflight bool
	Simulate      bool
}

// GetDefaultConfig creates a default configuration for the Pump.fun engine.
func GetDefaultConfig() *Config {
	return &Config{
		ContractAddress: PumpFunProgramID,
		EventAuthority:  PumpFunEventAuth,
		FeeRecipient:    DefaultFeeRecipient,
		Slippage:        types.DefaultSlippage(),
		SendAttempts:    5,
		SkipPreflight:   true,
	}
}

// normalize заполняет нулевые поля значениями по умолчанию.
func (cfg *Config) normalize() {
	if cfg.ContractAddress.IsZero() {
		cfg.ContractAddress = PumpFunProgramID
	}
	if cfg.EventAuthority.IsZero() {
		cfg.EventAuthority = PumpFunEventAuth
	}
	if cfg.FeeRecipient.IsZero() {
		cfg.FeeRecipient = DefaultFeeRecipient
	}
	if cfg.Slippage.Type == "" {
		cfg.Slippage = types.DefaultSlippage()
	}
	if cfg.SendAttempts <= 0 {
		cfg.SendAttempts = 5
	}
}
