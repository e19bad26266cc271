// ====================================
// File: cmd/trader/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/curvetrade/engine/internal/blockchain/solbc"
	"github.com/curvetrade/engine/internal/config"
	"github.com/curvetrade/engine/internal/dex/pumpfun"
	"github.com/curvetrade/engine/internal/logger"
	"github.com/curvetrade/engine/internal/wallet"
)

func main() {
	var (
		configPath = flag.String("config", "configs/config.json", "path to configuration file")
		mint       = flag.String("mint", "", "token mint address")
		amount     = flag.Float64("amount", 0, "token amount in human units")
		side       = flag.String("side", "buy", "trade side: buy or sell")
		percent    = flag.Float64("percent", 0, "sell this percent of balance instead of a fixed amount")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.LogFile
	logCfg.Development = cfg.DebugLogging
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *mint == "" {
		log.Fatal("mint address is required")
	}

	w, err := wallet.NewWallet(cfg.PrivateKey)
	if err != nil {
		log.Fatal("Failed to load wallet", zap.Error(err))
	}

	client := solbc.NewClient(cfg.RPCURL, log)

	engineCfg := pumpfun.GetDefaultConfig()
	engineCfg.Slippage = cfg.Slippage
	engineCfg.SendAttempts = cfg.SendAttempts
	engineCfg.SkipPreflight = cfg.SkipPreflight
	engineCfg.Simulate = cfg.Simulate

	engine, err := pumpfun.NewEngine(client, w, log, engineCfg)
	if err != nil {
		log.Fatal("Failed to create engine", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sig, err := executeTrade(ctx, engine, *side, *mint, *amount, *percent)
	if err != nil {
		log.Fatal("Trade failed", zap.Error(err))
	}

	log.Info("Trade submitted", zap.String("signature", sig.String()))
	fmt.Println(sig.String())
}

func executeTrade(ctx context.Context, engine *pumpfun.Engine, side, mint string, amount, percent float64) (solana.Signature, error) {
	switch side {
	case "buy":
		return engine.ExecuteBuy(ctx, mint, amount)
	case "sell":
		if percent > 0 {
			return engine.ExecuteSellPercent(ctx, mint, percent)
		}
		return engine.ExecuteSell(ctx, mint, amount)
	default:
		return solana.Signature{}, fmt.Errorf("unknown side %q (expected buy or sell)", side)
	}
}
