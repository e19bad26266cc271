// =============================
// File: internal/dex/pumpfun/mocks_test.go
// =============================
package pumpfun

import (
	"context"
	"time"

	solanaGo "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/mock"

	"github.com/curvetrade/engine/internal/blockchain"
	"github.com/curvetrade/engine/internal/wallet"
)

const defaultTestTimeout = 5 * time.Second

// MockClient реализует интерфейс blockchain.Client
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetRecentBlockhash(ctx context.Context) (solanaGo.Hash, error) {
	args := m.Called(ctx)
	return args.Get(0).(solanaGo.Hash), args.Error(1)
}

func (m *MockClient) GetAccountInfo(ctx context.Context, pubkey solanaGo.PublicKey) (*rpc.GetAccountInfoResult, error) {
	args := m.Called(ctx, pubkey)
	result, _ := args.Get(0).(*rpc.GetAccountInfoResult)
	return result, args.Error(1)
}

func (m *MockClient) GetTokenAccountBalance(ctx context.Context, account solanaGo.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error) {
	args := m.Called(ctx, account, commitment)
	result, _ := args.Get(0).(*rpc.GetTokenAccountBalanceResult)
	return result, args.Error(1)
}

func (m *MockClient) SendTransactionWithOpts(ctx context.Context, tx *solanaGo.Transaction, opts blockchain.TransactionOptions) (solanaGo.Signature, error) {
	args := m.Called(ctx, tx, opts)
	return args.Get(0).(solanaGo.Signature), args.Error(1)
}

func (m *MockClient) SimulateTransaction(ctx context.Context, tx *solanaGo.Transaction) (*blockchain.SimulationResult, error) {
	args := m.Called(ctx, tx)
	result, _ := args.Get(0).(*blockchain.SimulationResult)
	return result, args.Error(1)
}

func (m *MockClient) WaitForTransactionConfirmation(ctx context.Context, signature solanaGo.Signature, commitment rpc.CommitmentType) error {
	args := m.Called(ctx, signature, commitment)
	return args.Error(0)
}

var _ blockchain.Client = (*MockClient)(nil)

// MockedContext создает контекст с таймаутом для тестов
func MockedContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), defaultTestTimeout)
}

// MockedWallet создает тестовый кошелек
func MockedWallet() *wallet.Wallet {
	w := solanaGo.NewWallet()
	testWallet, err := wallet.NewWallet(w.PrivateKey.String())
	if err != nil {
		panic(err)
	}
	return testWallet
}

// testMint — произвольный валидный минт для деривации адресов в тестах
const testMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

// testCurve возвращает состояние кривой с заданными виртуальными резервами
func testCurve(virtualToken, virtualSol uint64) *CurveState {
	return &CurveState{
		VirtualTokenReserves: virtualToken,
		VirtualSolReserves:   virtualSol,
		RealTokenReserves:    virtualToken,
		RealSolReserves:      virtualSol,
		TokenTotalSupply:     virtualToken,
	}
}

// testTradeAccounts деривит полный набор адресов для testMint
func testTradeAccounts(owner solanaGo.PublicKey) *TradeAccounts {
	accounts, err := DeriveTradeAccounts(testMint, owner, GetDefaultConfig())
	if err != nil {
		panic(err)
	}
	return accounts
}

// testTransaction собирает минимальную подписанную транзакцию для тестов отправки
func testTransaction(w *wallet.Wallet) *solanaGo.Transaction {
	accounts := testTradeAccounts(w.PublicKey)
	ix := BuildBuyInstruction(accounts, w.PublicKey, 1_000_000, 1_000_000_000)
	tx, err := solanaGo.NewTransaction([]solanaGo.Instruction{ix}, solanaGo.Hash{}, solanaGo.TransactionPayer(w.PublicKey))
	if err != nil {
		panic(err)
	}
	if err := w.SignTransaction(tx); err != nil {
		panic(err)
	}
	return tx
}
