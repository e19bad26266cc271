// =============================
// File: internal/dex/pumpfun/pricing.go
// =============================
package pumpfun

import (
	"fmt"
	"math"
	"math/big"

	"github.com/curvetrade/engine/internal/types"
)

// Модель ценообразования по инварианту постоянного произведения.
// Весь путь расчёта целочисленный: big.Int для промежуточных произведений,
// плавающая точка остаётся только в SpotPrice для отображения.
//
// Округление — контракт, а не деталь реализации: покупка округляется вверх,
// продажа вниз, остаток округления всегда достаётся протоколу.

// QuoteBuy возвращает стоимость покупки tokenAmount raw-единиц в лампортах.
// Формула: ceil(virtualSol * amount / (virtualToken + amount)).
func QuoteBuy(curve *CurveState, tokenAmount uint64) (uint64, error) {
	if err := checkTradable(curve, tokenAmount); err != nil {
		return 0, err
	}

	cost := constantProductOut(curve.VirtualSolReserves, curve.VirtualTokenReserves, tokenAmount, true)
	if cost == 0 {
		return 0, fmt.Errorf("%w: buy of %d tokens quotes to zero lamports", ErrInsufficientLiquidity, tokenAmount)
	}
	return cost, nil
}

// QuoteSell возвращает выручку от продажи tokenAmount raw-единиц в лампортах.
// Формула: floor(virtualSol * amount / (virtualToken + amount)).
func QuoteSell(curve *CurveState, tokenAmount uint64) (uint64, error) {
	if err := checkTradable(curve, tokenAmount); err != nil {
		return 0, err
	}

	proceeds := constantProductOut(curve.VirtualSolReserves, curve.VirtualTokenReserves, tokenAmount, false)
	if proceeds == 0 {
		return 0, fmt.Errorf("%w: sell of %d tokens quotes to zero lamports", ErrInsufficientLiquidity, tokenAmount)
	}
	return proceeds, nil
}

// NewQuote строит котировку с границей исполнения для заданного направления.
// Граница проверяется on-chain самой инструкцией: между котировкой и
// подтверждением резервы могут сдвинуться сколь угодно далеко.
func NewQuote(direction Direction, curve *CurveState, tokenAmount uint64, slippage types.SlippageConfig) (*Quote, error) {
	var (
		solAmount uint64
		err       error
	)
	switch direction {
	case DirectionBuy:
		solAmount, err = QuoteBuy(curve, tokenAmount)
	case DirectionSell:
		solAmount, err = QuoteSell(curve, tokenAmount)
	default:
		return nil, fmt.Errorf("unknown trade direction: %q", direction)
	}
	if err != nil {
		return nil, err
	}

	bounded := solAmount
	if direction == DirectionBuy {
		bounded = slippage.MaxCounterIn(solAmount)
	} else {
		bounded = slippage.MinCounterOut(solAmount)
	}

	return &Quote{
		Direction:        direction,
		TokenAmount:      tokenAmount,
		SolAmount:        solAmount,
		BoundedSolAmount: bounded,
	}, nil
}

// SpotPrice возвращает текущую спотовую цену токена в SOL.
// Только для отображения: в расчётах сделок не участвует.
func SpotPrice(curve *CurveState) (float64, error) {
	if curve.VirtualTokenReserves == 0 || curve.VirtualSolReserves == 0 {
		return 0, fmt.Errorf("bonding curve has zero reserves")
	}
	virtualSol := float64(curve.VirtualSolReserves) / math.Pow10(solDecimals)
	virtualToken := float64(curve.VirtualTokenReserves) / math.Pow10(tokenDecimals)
	return virtualSol / virtualToken, nil
}

// RawTokenAmount переводит человекочитаемое количество токенов в raw-единицы.
func RawTokenAmount(tokens float64) uint64 {
	return uint64(tokens * math.Pow10(tokenDecimals))
}

func checkTradable(curve *CurveState, tokenAmount uint64) error {
	if curve.Complete {
		return ErrCurveMigrated
	}
	if tokenAmount == 0 {
		return ErrInvalidAmount
	}
	return nil
}

// constantProductOut вычисляет quote-сторону сделки: q*a/(b+a),
// с округлением вверх (roundUp) для покупки и вниз для продажи.
// Промежуточное произведение не умещается в uint64, поэтому big.Int.
func constantProductOut(solReserves, tokenReserves, amount uint64, roundUp bool) uint64 {
	num := new(big.Int).Mul(
		new(big.Int).SetUint64(solReserves),
		new(big.Int).SetUint64(amount),
	)
	den := new(big.Int).Add(
		new(big.Int).SetUint64(tokenReserves),
		new(big.Int).SetUint64(amount),
	)
	if den.Sign() == 0 {
		return 0
	}

	quo, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if roundUp && rem.Sign() != 0 {
		quo.Add(quo, big.NewInt(1))
	}
	if !quo.IsUint64() {
		// Переполнение возможно только при абсурдных резервах; возвращаем
		// максимум, граница исполнения отвергнет такую сделку on-chain
		return math.MaxUint64
	}
	return quo.Uint64()
}
