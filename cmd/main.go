package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pterm/pterm"

	"github.com/VinceNguyen000/blockchain-assignment1/config"
	"github.com/VinceNguyen000/blockchain-assignment1/inspect"
	"github.com/VinceNguyen000/blockchain-assignment1/ledger"
)

// Transfer moves an amount from one party to another.
type Transfer struct {
	From   string `json:"from" msgpack:"from"`
	To     string `json:"to" msgpack:"to"`
	Amount int    `json:"amount" msgpack:"amount"`
}

// Entry is the payload of every demo block.
type Entry struct {
	Memo      string     `json:"memo,omitempty" msgpack:"memo,omitempty"`
	Transfers []Transfer `json:"transfers,omitempty" msgpack:"transfers,omitempty"`
}

const genesisMemo = "Genesis Block"

func demoEntries() []Entry {
	return []Entry{
		{Transfers: []Transfer{{From: "Alice", To: "Bob", Amount: 75}}},
		{Transfers: []Transfer{{From: "Charlie", To: "Dana", Amount: 75}}},
		{Transfers: []Transfer{
			{From: "Eve", To: "Frank", Amount: 20},
			{From: "Gina", To: "Hank", Amount: 10},
		}},
		{Transfers: []Transfer{
			{From: "Indy", To: "V", Amount: 30},
			{From: "V", To: "Gabi", Amount: 30},
		}},
		{Transfers: []Transfer{
			{From: "A", To: "B", Amount: 10},
			{From: "B", To: "C", Amount: 20},
			{From: "C", To: "D", Amount: 30},
		}},
	}
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("powledger", flag.ContinueOnError)
	configPath := fs.String("config", "config.yaml", "path to the YAML configuration file")
	difficulty := fs.Int("difficulty", -1, "leading zero hex characters required (overrides the config when >= 0)")
	serve := fs.Bool("serve", false, "serve the chain over HTTP after the demo")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *difficulty >= 0 {
		cfg.Ledger.Difficulty = *difficulty
	}
	if *serve {
		cfg.Inspect.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	renderBanner()

	chain, err := runDemo(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if !cfg.Inspect.Enabled {
		return nil
	}
	return serveInspect(ctx, cfg, chain, logger)
}

// newLogger routes slog through the pterm logger at the configured level.
func newLogger(level string) *slog.Logger {
	pl := pterm.DefaultLogger.WithLevel(ptermLevel(level))
	return slog.New(pterm.NewSlogHandler(pl))
}

func ptermLevel(level string) pterm.LogLevel {
	switch level {
	case "debug":
		return pterm.LogLevelDebug
	case "warn":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	default:
		return pterm.LogLevelInfo
	}
}

// runDemo mines the demo entries, shows the chain, then tampers with block 1
// and shows how validation reacts before and after restoring it.
func runDemo(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ledger.Chain[Entry], error) {
	opts, err := cfg.ChainOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, ledger.WithLogger(logger))

	chain, err := ledger.NewChainWithGenesis(cfg.Ledger.Difficulty, Entry{Memo: genesisMemo}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create chain: %w", err)
	}
	pterm.Info.Printfln("Chain created with difficulty %d (%s over %s)",
		chain.Difficulty(), chain.Scheme().Hasher.Name(), chain.Scheme().Codec.Name())

	for i, entry := range demoEntries() {
		if err := mineEntry(ctx, cfg, chain, i+1, entry); err != nil {
			return nil, err
		}
	}

	pterm.DefaultSection.Println("Full chain")
	renderChain(chain)
	if err := renderDump(chain); err != nil {
		return nil, err
	}

	pterm.DefaultSection.Println("Validation")
	renderValidity("Is the chain valid?", chain)

	block, err := chain.Block(1)
	if err != nil {
		return nil, err
	}
	original := block.Payload.Transfers[0].Amount

	pterm.Warning.Println("Tampering with block #1 data ...")
	block.Payload.Transfers[0].Amount = 9999
	renderValidity("Is the chain valid after tampering?", chain)

	block.Payload.Transfers[0].Amount = original
	renderValidity("Is the chain valid after restoring?", chain)

	return chain, nil
}

func mineEntry(ctx context.Context, cfg *config.Config, chain *ledger.Chain[Entry], index int, entry Entry) error {
	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Mining block #%d ...", index))

	block, err := ledger.NewBlock(index, time.Now().UnixMilli(), entry)
	if err != nil {
		spinner.Fail(err.Error())
		return err
	}

	mineCtx := ctx
	if cfg.Miner.Timeout > 0 {
		var cancel context.CancelFunc
		mineCtx, cancel = context.WithTimeout(ctx, cfg.Miner.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := chain.AppendContext(mineCtx, block); err != nil {
		spinner.Fail(fmt.Sprintf("Block #%d not mined", index))
		return err
	}
	spinner.Success(fmt.Sprintf("Block #%d mined in %s (nonce %d): %s",
		index, time.Since(start).Round(time.Millisecond), block.Nonce, block.Fingerprint))
	return nil
}

func serveInspect(ctx context.Context, cfg *config.Config, chain *ledger.Chain[Entry], logger *slog.Logger) error {
	gin.SetMode(gin.ReleaseMode)
	router := inspect.NewRouter(chain, logger)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("inspection server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("inspection server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down inspection server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
