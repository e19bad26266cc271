// ==============================================
// File: internal/dex/pumpfun/instructions.go
// ==============================================
package pumpfun

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// Дискриминаторы методов Anchor: первые 8 байт sha256("global:<method>").
var (
	buyDiscriminator  = anchorDiscriminator("buy")
	sellDiscriminator = anchorDiscriminator("sell")
)

func anchorDiscriminator(method string) []byte {
	sum := sha256.Sum256([]byte("global:" + method))
	return sum[:8]
}

// BuildBuyInstruction builds a buy instruction for the Pump.fun program.
// Arguments: token amount in raw units and the maximum SOL the trader is
// willing to spend; the program enforces the bound on-chain.
func BuildBuyInstruction(accounts *TradeAccounts, user solana.PublicKey, amount, maxSolCost uint64) solana.Instruction {
	data := instructionData(buyDiscriminator, amount, maxSolCost)

	// Account list must be in the exact order expected by the program
	insAccounts := []*solana.AccountMeta{
		{PublicKey: accounts.Global, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.FeeRecipient, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.Mint, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.BondingCurve, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.AssociatedBondingCurve, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.UserATA, IsSigner: false, IsWritable: true},
		{PublicKey: user, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: SysvarRentPubkey, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.EventAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: PumpFunProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(PumpFunProgramID, insAccounts, data)
}

// BuildSellInstruction builds a sell instruction for the Pump.fun program.
// Arguments: token amount in raw units and the minimum SOL the trader
// will accept.
func BuildSellInstruction(accounts *TradeAccounts, user solana.PublicKey, amount, minSolOutput uint64) solana.Instruction {
	data := instructionData(sellDiscriminator, amount, minSolOutput)

	// Account list must be in the exact order expected by the program
	insAccounts := []*solana.AccountMeta{
		{PublicKey: accounts.Global, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.FeeRecipient, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.Mint, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.BondingCurve, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.AssociatedBondingCurve, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.UserATA, IsSigner: false, IsWritable: true},
		{PublicKey: user, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: AssociatedTokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.EventAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: PumpFunProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(PumpFunProgramID, insAccounts, data)
}

// BuildCreateATAInstruction builds an instruction that creates the owner's
// associated token account. Not idempotent: creating an existing ATA is
// rejected by the network, so callers must check existence first.
func BuildCreateATAInstruction(payer, associatedAddress, owner, mint solana.PublicKey) solana.Instruction {
	keys := []*solana.AccountMeta{
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: associatedAddress, IsSigner: false, IsWritable: true},
		{PublicKey: owner, IsSigner: false, IsWritable: false},
		{PublicKey: mint, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: AssociatedTokenProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(AssociatedTokenProgramID, keys, []byte{})
}

// instructionData кодирует дискриминатор и два little-endian uint64 аргумента.
func instructionData(discriminator []byte, amount, bound uint64) []byte {
	data := make([]byte, len(discriminator), len(discriminator)+16)
	copy(data, discriminator)

	amountBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(amountBytes, amount)
	data = append(data, amountBytes...)

	boundBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(boundBytes, bound)
	data = append(data, boundBytes...)

	return data
}
