// internal/types/slippage.go
package types

import "math/big"

// SlippageType определяет тип политики проскальзывания
type SlippageType string

const (
	// SlippagePercent использует процентный буфер от котировки
	SlippagePercent SlippageType = "percent"
	// SlippageFixed использует фиксированную границу в лампортах
	SlippageFixed SlippageType = "fixed"
	// SlippageNone не ограничивает исполнение
	SlippageNone SlippageType = "none"
)

// SlippageConfig конфигурирует политику проскальзывания.
// Исходная реализация применяла фиксированный буфер +15% на продажу и
// жёсткий потолок расхода на покупку; здесь обе стороны настраиваются
// одной политикой.
type SlippageConfig struct {
	// Type определяет тип политики проскальзывания
	Type SlippageType `mapstructure:"type"`
	// BasisPoints содержит буфер в базисных пунктах для SlippagePercent
	// (например, 1500 = 15%)
	BasisPoints uint64 `mapstructure:"basis_points"`
	// FixedLamports содержит значение границы для SlippageFixed
	FixedLamports uint64 `mapstructure:"fixed_lamports"`
}

// DefaultSlippage возвращает политику по умолчанию: процентный буфер 15%.
func DefaultSlippage() SlippageConfig {
	return SlippageConfig{Type: SlippagePercent, BasisPoints: 1500}
}

// MaxCounterIn вычисляет максимальный расход quote-стороны при покупке.
// Граница считается целочисленно, без плавающей точки.
func (c SlippageConfig) MaxCounterIn(quoted uint64) uint64 {
	switch c.Type {
	case SlippageFixed:
		if c.FixedLamports < quoted {
			return quoted
		}
		return c.FixedLamports
	case SlippageNone:
		return ^uint64(0)
	default:
		return quoted + mulBps(quoted, c.BasisPoints)
	}
}

// MinCounterOut вычисляет минимально приемлемый выход quote-стороны при продаже.
func (c SlippageConfig) MinCounterOut(quoted uint64) uint64 {
	switch c.Type {
	case SlippageFixed:
		if c.FixedLamports > quoted {
			return quoted
		}
		return c.FixedLamports
	case SlippageNone:
		// Минимум 1 лампорт, чтобы инструкция прошла валидацию on-chain
		return 1
	default:
		buffer := mulBps(quoted, c.BasisPoints)
		if buffer >= quoted {
			return 1
		}
		return quoted - buffer
	}
}

// mulBps возвращает v*bps/10000 с промежуточным значением в big.Int,
// чтобы исключить переполнение uint64.
func mulBps(v, bps uint64) uint64 {
	r := new(big.Int).SetUint64(v)
	r.Mul(r, new(big.Int).SetUint64(bps))
	r.Quo(r, big.NewInt(10_000))
	if !r.IsUint64() {
		return ^uint64(0)
	}
	return r.Uint64()
}
