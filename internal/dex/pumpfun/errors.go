// =============================
// File: internal/dex/pumpfun/errors.go
// =============================
package pumpfun

import (
	"errors"
	"fmt"
	"strings"
)

// Терминальные ошибки конвейера. Возвращаются вызывающей стороне как есть
// и никогда не ретраятся внутри движка.
var (
	// ErrInvalidAddress — минт не является синтаксически корректным адресом
	ErrInvalidAddress = errors.New("invalid address")
	// ErrCurveMigrated — кривая завершена, токен мигрировал с площадки
	ErrCurveMigrated = errors.New("bonding curve migrated")
	// ErrInsufficientLiquidity — расчётная quote-сторона неположительна
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	// ErrNothingToSell — продажа при несуществующем или пустом токен-аккаунте
	ErrNothingToSell = errors.New("nothing to sell")
	// ErrInvalidAmount — неположительное количество токенов
	ErrInvalidAmount = errors.New("invalid token amount")
)

// AccountLookupError — транзиентная ошибка чтения при проверке существования
// аккаунта. Конвейер закрывается (fail closed); вызывающая сторона может
// повторить операцию целиком.
type AccountLookupError struct {
	Address string
	Err     error
}

func (e *AccountLookupError) Error() string {
	return fmt.Sprintf("account lookup failed for %s: %v", e.Address, e.Err)
}

func (e *AccountLookupError) Unwrap() error { return e.Err }

// SubmissionError — транспортный сбой отправки, переживший весь бюджет повторов.
type SubmissionError struct {
	Attempts int
	Err      error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// OnChainRejectionError — сеть приняла транзакцию, но отклонила исполнение
// (превышение проскальзывания, устаревший blockhash, нехватка средств).
// Терминальная: слепой повтор той же транзакции против сдвинувшейся кривой
// может исполниться по худшей цене.
type OnChainRejectionError struct {
	Reason string
	Err    error
}

func (e *OnChainRejectionError) Error() string {
	return fmt.Sprintf("transaction rejected on-chain (%s): %v", e.Reason, e.Err)
}

func (e *OnChainRejectionError) Unwrap() error { return e.Err }

// Коды ошибок программы Pump.fun
const (
	slippageExceededCode    = "0x1772" // TooMuchSolRequired
	slippageExceededCodeAlt = "0x1773" // TooLittleSolReceived
)

// IsSlippageExceededError определяет, является ли ошибка ошибкой превышения проскальзывания
func IsSlippageExceededError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "TooMuchSolRequired") ||
		strings.Contains(msg, "TooLittleSolReceived") ||
		strings.Contains(msg, slippageExceededCode) ||
		strings.Contains(msg, slippageExceededCodeAlt)
}

// classifyRejection возвращает причину on-chain отказа либо пустую строку,
// если ошибка выглядит как транспортная и её можно ретраить.
func classifyRejection(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case IsSlippageExceededError(err):
		return "slippage exceeded"
	case strings.Contains(msg, "BlockhashNotFound") || strings.Contains(msg, "Blockhash not found"):
		return "stale blockhash"
	case strings.Contains(msg, "insufficient funds") || strings.Contains(msg, "insufficient lamports"):
		return "insufficient funds"
	case strings.Contains(msg, "custom program error") || strings.Contains(msg, "InstructionError"):
		return "program error"
	case strings.Contains(msg, "AccountNotInitialized") || strings.Contains(msg, "0xbc4"):
		return "account not initialized"
	}
	return ""
}
