// =============================
// File: internal/dex/pumpfun/types.go
// =============================
package pumpfun

import (
	"github.com/gagliardetto/solana-go"
)

// Direction различает покупку и продажу.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// CurveState представляет состояние аккаунта bonding curve для одного токена.
// Аккаунт принадлежит удалённому леджеру: движок держит только копию на время
// запроса и никогда не мутирует её локально.
type CurveState struct {
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool
}

// GlobalAccount represents the structure of the PumpFun global account data
type GlobalAccount struct {
	Discriminator  [8]byte
	Initialized    bool
	Authority      solana.PublicKey
	FeeRecipient   solana.PublicKey
	FeeBasisPoints uint64
}

// TradeAccounts содержит детерминированные адреса, необходимые для сделки.
// Вычисляются заново при каждом вызове для текущего минта.
type TradeAccounts struct {
	Mint                   solana.PublicKey
	BondingCurve           solana.PublicKey
	AssociatedBondingCurve solana.PublicKey
	Global                 solana.PublicKey
	FeeRecipient           solana.PublicKey
	EventAuthority         solana.PublicKey
	UserATA                solana.PublicKey
}

// Quote — результат модели ценообразования. Неизменяемый, одноразовый:
// используется при построении инструкции и отбрасывается.
type Quote struct {
	Direction Direction
	// TokenAmount — количество токенов в raw-единицах (×10^6)
	TokenAmount uint64
	// SolAmount — котировка quote-стороны в лампортах
	SolAmount uint64
	// BoundedSolAmount — граница исполнения с учётом проскальзывания,
	// принудительно проверяется on-chain самой инструкцией
	BoundedSolAmount uint64
}
