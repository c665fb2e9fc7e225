package main

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jask/creditpane"
	"github.com/jask/creditpane/internal/config"
	"github.com/jask/creditpane/internal/ledger"
)

// ---------------------------------------------------------------------------
// Host messages
// ---------------------------------------------------------------------------

type historyRequestMsg struct{}

type historyLoadedMsg struct {
	lines []string
	err   error
}

// appModel hosts the creditpane component and answers its history requests
// from the ledger. History retrieval stays outside the component.
type appModel struct {
	pane  creditpane.Model
	store *ledger.Store
}

func (a appModel) Init() tea.Cmd {
	return a.pane.Init()
}

func (a appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyRequestMsg:
		return a, a.loadHistoryCmd()
	case historyLoadedMsg:
		a.pane = a.pane.WithStatus(historyStatus(msg), msg.err != nil)
		return a, nil
	}
	next, cmd := a.pane.Update(msg)
	a.pane = next.(creditpane.Model)
	return a, cmd
}

func (a appModel) View() string {
	return a.pane.View()
}

func (a appModel) loadHistoryCmd() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		receipts, err := store.RecentReceipts(context.Background(), 5)
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		lines := make([]string, 0, len(receipts))
		for _, r := range receipts {
			lines = append(lines, fmt.Sprintf("%d credits for %s", r.Credits, r.Price))
		}
		return historyLoadedMsg{lines: lines}
	}
}

func historyStatus(msg historyLoadedMsg) string {
	if msg.err != nil {
		return fmt.Sprintf("History unavailable: %v", msg.err)
	}
	if len(msg.lines) == 0 {
		return "No purchases yet."
	}
	return "Recent: " + strings.Join(msg.lines, " · ")
}

// ---------------------------------------------------------------------------
// Wiring
// ---------------------------------------------------------------------------

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closeLogger, err := newLogger(cfg.Log.Path)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer closeLogger()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}
	store, err := ledger.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open ledger: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.SeedBalance(ctx, cfg.Ledger.OpeningBalance); err != nil {
		log.Fatalf("seed balance: %v", err)
	}
	balance, err := store.Balance(ctx)
	if err != nil {
		log.Fatalf("read balance: %v", err)
	}

	packages, err := cfg.CreditPackages()
	if err != nil {
		log.Fatalf("packages: %v", err)
	}

	pane := creditpane.New(creditpane.Options{
		Credits:   balance,
		Packages:  packages,
		Purchase:  purchaseFunc(store, cfg.Ledger.FailureRate),
		OnHistory: func() tea.Msg { return historyRequestMsg{} },
		Logger:    logger,
	})

	program := tea.NewProgram(appModel{pane: pane, store: store}, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}

// purchaseFunc wraps the ledger purchase with the configured simulated
// decline rate so the component's failure path can be exercised.
func purchaseFunc(store *ledger.Store, failureRate float64) creditpane.PurchaseFunc {
	return func(ctx context.Context, pkg creditpane.Package) (creditpane.Receipt, error) {
		if failureRate > 0 && rand.Float64() < failureRate {
			return creditpane.Receipt{}, fmt.Errorf("card declined (simulated)")
		}
		return store.Purchase(ctx, pkg)
	}
}

func newLogger(path string) (*zap.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	// The TUI owns stdout; diagnostics go to a file.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(f),
		zapcore.InfoLevel,
	)
	logger := zap.New(core)
	return logger, func() {
		_ = logger.Sync()
		_ = f.Close()
	}, nil
}
