// ==============================================
// File: internal/dex/pumpfun/pumpfun_test.go
// ==============================================
package pumpfun

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	solanaGo "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// accountDataResult оборачивает сырые байты в ответ RPC в том же формате,
// в каком их отдаёт нода (base64-пара)
func accountDataResult(t *testing.T, raw []byte, owner solanaGo.PublicKey) *rpc.GetAccountInfoResult {
	t.Helper()
	var data rpc.DataBytesOrJSON
	payload := fmt.Sprintf(`[%q,"base64"]`, base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, json.Unmarshal([]byte(payload), &data))
	return &rpc.GetAccountInfoResult{Value: &rpc.Account{Owner: owner, Data: &data}}
}

// globalFixture кодирует глобальный аккаунт программы
func globalFixture(feeRecipient solanaGo.PublicKey) []byte {
	data := make([]byte, 8+1+32+32+8)
	data[8] = 1 // initialized
	copy(data[9:41], solanaGo.NewWallet().PublicKey().Bytes())
	copy(data[41:73], feeRecipient.Bytes())
	binary.LittleEndian.PutUint64(data[73:81], 100)
	return data
}

func newTestEngine(t *testing.T, mockClient *MockClient) *Engine {
	t.Helper()
	engine, err := NewEngine(mockClient, MockedWallet(), zap.NewNop(), GetDefaultConfig())
	require.NoError(t, err)
	return engine
}

func TestNewEngine_RequiresDependencies(t *testing.T) {
	_, err := NewEngine(nil, MockedWallet(), zap.NewNop(), nil)
	assert.Error(t, err)

	_, err = NewEngine(new(MockClient), nil, zap.NewNop(), nil)
	assert.Error(t, err)

	// Нулевой конфиг заменяется дефолтом
	engine, err := NewEngine(new(MockClient), MockedWallet(), zap.NewNop(), nil)
	require.NoError(t, err)
	assert.Equal(t, PumpFunProgramID, engine.config.ContractAddress)
	assert.Equal(t, 5, engine.config.SendAttempts)
}

func TestEngine_ExecuteBuy(t *testing.T) {
	ctx, cancel := MockedContext()
	defer cancel()

	mockClient := new(MockClient)
	engine := newTestEngine(t, mockClient)
	accounts := testTradeAccounts(engine.wallet.PublicKey)

	curve := testCurve(1_000_000_000, 30_000_000_000)
	wantSig := solanaGo.Signature{9}

	mockClient.On("GetAccountInfo", mock.Anything, accounts.BondingCurve).
		Return(accountDataResult(t, curveFixture(curve), PumpFunProgramID), nil)
	// Глобальный аккаунт недоступен: движок откатывается на fallback-получателя комиссии
	mockClient.On("GetAccountInfo", mock.Anything, accounts.Global).
		Return(nil, errors.New("rpc unavailable"))
	mockClient.On("GetAccountInfo", mock.Anything, accounts.UserATA).
		Return(existingAccount(), nil)
	mockClient.On("GetRecentBlockhash", mock.Anything).Return(solanaGo.Hash{1}, nil)
	mockClient.On("SendTransactionWithOpts", mock.Anything, mock.Anything, mock.Anything).
		Return(wantSig, nil).Once()

	sig, err := engine.ExecuteBuy(ctx, testMint, 20.0)
	require.NoError(t, err)
	assert.Equal(t, wantSig, sig)
	mockClient.AssertExpectations(t)
}

func TestEngine_ExecuteBuy_UsesOnChainFeeRecipient(t *testing.T) {
	ctx, cancel := MockedContext()
	defer cancel()

	mockClient := new(MockClient)
	engine := newTestEngine(t, mockClient)
	accounts := testTradeAccounts(engine.wallet.PublicKey)

	onChainFeeRecipient := solanaGo.NewWallet().PublicKey()
	curve := testCurve(1_000_000_000, 30_000_000_000)

	mockClient.On("GetAccountInfo", mock.Anything, accounts.BondingCurve).
		Return(accountDataResult(t, curveFixture(curve), PumpFunProgramID), nil)
	mockClient.On("GetAccountInfo", mock.Anything, accounts.Global).
		Return(accountDataResult(t, globalFixture(onChainFeeRecipient), PumpFunProgramID), nil)
	mockClient.On("GetAccountInfo", mock.Anything, accounts.UserATA).
		Return(existingAccount(), nil)
	mockClient.On("GetRecentBlockhash", mock.Anything).Return(solanaGo.Hash{1}, nil)

	var sentTx *solanaGo.Transaction
	mockClient.On("SendTransactionWithOpts", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sentTx = args.Get(1).(*solanaGo.Transaction)
		}).
		Return(solanaGo.Signature{2}, nil).Once()

	_, err := engine.ExecuteBuy(ctx, testMint, 20.0)
	require.NoError(t, err)

	// Получатель комиссии из глобального аккаунта попадает в транзакцию
	require.NotNil(t, sentTx)
	assert.Contains(t, sentTx.Message.AccountKeys, onChainFeeRecipient)
	assert.NotContains(t, sentTx.Message.AccountKeys, DefaultFeeRecipient)
}

func TestEngine_ExecuteBuy_InvalidInput(t *testing.T) {
	ctx, cancel := MockedContext()
	defer cancel()

	mockClient := new(MockClient)
	engine := newTestEngine(t, mockClient)

	_, err := engine.ExecuteBuy(ctx, testMint, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = engine.ExecuteBuy(ctx, "definitely-not-a-mint", 1.0)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	// Некорректный вход отсекался до любого сетевого вызова
	mockClient.AssertNotCalled(t, "GetAccountInfo", mock.Anything, mock.Anything)
}

func TestEngine_ExecuteBuy_MigratedCurve(t *testing.T) {
	ctx, cancel := MockedContext()
	defer cancel()

	mockClient := new(MockClient)
	engine := newTestEngine(t, mockClient)
	accounts := testTradeAccounts(engine.wallet.PublicKey)

	migrated := testCurve(1_000_000_000, 30_000_000_000)
	migrated.Complete = true

	mockClient.On("GetAccountInfo", mock.Anything, accounts.BondingCurve).
		Return(accountDataResult(t, curveFixture(migrated), PumpFunProgramID), nil)
	mockClient.On("GetAccountInfo", mock.Anything, accounts.Global).
		Return(nil, errors.New("rpc unavailable"))

	_, err := engine.ExecuteBuy(ctx, testMint, 20.0)
	assert.ErrorIs(t, err, ErrCurveMigrated)

	// Сделка остановлена до сборки транзакции
	mockClient.AssertNotCalled(t, "GetRecentBlockhash", mock.Anything)
	mockClient.AssertNotCalled(t, "SendTransactionWithOpts", mock.Anything, mock.Anything, mock.Anything)
}

func TestEngine_ExecuteSellPercent(t *testing.T) {
	ctx, cancel := MockedContext()
	defer cancel()

	mockClient := new(MockClient)
	engine := newTestEngine(t, mockClient)
	accounts := testTradeAccounts(engine.wallet.PublicKey)

	curve := testCurve(1_000_000_000, 30_000_000_000)
	wantSig := solanaGo.Signature{3}

	mockClient.On("GetTokenAccountBalance", mock.Anything, accounts.UserATA, mock.Anything).
		Return(tokenBalance("40000000"), nil)
	mockClient.On("GetAccountInfo", mock.Anything, accounts.BondingCurve).
		Return(accountDataResult(t, curveFixture(curve), PumpFunProgramID), nil)
	mockClient.On("GetAccountInfo", mock.Anything, accounts.Global).
		Return(nil, errors.New("rpc unavailable"))
	mockClient.On("GetAccountInfo", mock.Anything, accounts.UserATA).
		Return(existingAccount(), nil)
	mockClient.On("GetRecentBlockhash", mock.Anything).Return(solanaGo.Hash{1}, nil)

	var sentTx *solanaGo.Transaction
	mockClient.On("SendTransactionWithOpts", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sentTx = args.Get(1).(*solanaGo.Transaction)
		}).
		Return(wantSig, nil).Once()

	sig, err := engine.ExecuteSellPercent(ctx, testMint, 50)
	require.NoError(t, err)
	assert.Equal(t, wantSig, sig)

	// Половина баланса в 40 токенов — 20 токенов в raw-единицах
	require.NotNil(t, sentTx)
	compiled := sentTx.Message.Instructions
	require.Len(t, compiled, 1)
	assert.Equal(t, uint64(20_000_000), binary.LittleEndian.Uint64(compiled[0].Data[8:16]))
}

func TestEngine_ExecuteSellPercent_InvalidPercent(t *testing.T) {
	ctx, cancel := MockedContext()
	defer cancel()

	engine := newTestEngine(t, new(MockClient))

	for _, percent := range []float64{0, -5, 100.5} {
		_, err := engine.ExecuteSellPercent(ctx, testMint, percent)
		assert.Error(t, err, "percent=%f", percent)
	}
}

func TestEngine_GetTokenPrice(t *testing.T) {
	ctx, cancel := MockedContext()
	defer cancel()

	mockClient := new(MockClient)
	engine := newTestEngine(t, mockClient)
	accounts := testTradeAccounts(engine.wallet.PublicKey)

	curve := testCurve(1_000_000_000, 30_000_000_000)
	mockClient.On("GetAccountInfo", mock.Anything, accounts.BondingCurve).
		Return(accountDataResult(t, curveFixture(curve), PumpFunProgramID), nil)

	price, err := engine.GetTokenPrice(ctx, testMint)
	require.NoError(t, err)
	assert.InDelta(t, 0.03, price, 1e-12)
}
