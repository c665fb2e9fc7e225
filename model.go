package creditpane

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// Component boundary
// ---------------------------------------------------------------------------

// PurchaseFunc is the externally supplied purchase collaborator. It is called
// off the UI loop via a tea.Cmd and must be safe to run in its own goroutine.
// The component passes a background context; it implements no timeout or
// cancellation of its own, so a collaborator that never returns leaves the
// modal in the purchasing state.
type PurchaseFunc func(ctx context.Context, pkg Package) (Receipt, error)

// Options configures a new component.
type Options struct {
	// Credits is the balance shown in the panel and the modal readout.
	// Negative values are clamped to zero.
	Credits int

	// Packages is rendered in the order supplied. When empty the built-in
	// DefaultPackages set is used.
	Packages []Package

	// Purchase performs the actual credit purchase. Without it the confirm
	// action reports that purchases are unavailable.
	Purchase PurchaseFunc

	// OnHistory produces the message emitted to the host program when the
	// user asks for purchase history. The component holds no history state.
	OnHistory func() tea.Msg

	// Logger receives purchase-attempt diagnostics. Defaults to a nop logger.
	Logger *zap.Logger
}

// ---------------------------------------------------------------------------
// Purchase-flow phases
//
// The selection/in-flight state is a tagged value: buying is non-nil exactly
// in phasePurchasing, so "a purchase is in flight without a package" cannot
// be represented.
// ---------------------------------------------------------------------------

type phase int

const (
	phaseClosed phase = iota
	phaseSelecting
	phasePurchasing
)

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

type purchaseDoneMsg struct {
	attemptID string
	pkg       Package
	receipt   Receipt
	err       error
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model is the credit-balance panel plus purchase modal. It implements
// tea.Model and can run standalone or be embedded in a host program.
type Model struct {
	opts     Options
	keys     keyMap
	logger   *zap.Logger
	packages []Package

	credits   int
	phase     phase
	cursor    int      // highlighted card while the modal is open
	selected  int      // index into packages, -1 = none
	buying    *Package // purchase target, non-nil only in phasePurchasing
	status    string
	statusErr bool

	width  int
	height int
}

// New builds a component from opts. Invalid package sets are the caller's
// responsibility to catch via ValidatePackages; New only applies defaults.
func New(opts Options) Model {
	pkgs := opts.Packages
	if len(pkgs) == 0 {
		pkgs = DefaultPackages()
	}
	credits := opts.Credits
	if credits < 0 {
		credits = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		opts:     opts,
		keys:     newKeyMap(),
		logger:   logger,
		packages: pkgs,
		credits:  credits,
		phase:    phaseClosed,
		selected: -1,
		status:   "Ready. Press b to buy credits, h for history.",
	}
}

// WithStatus returns a copy of the model with the status line replaced.
// Hosts use it to surface their own results (e.g. history lookups).
func (m Model) WithStatus(text string, isErr bool) Model {
	m.status = text
	m.statusErr = isErr
	return m
}

// Credits returns the currently displayed balance.
func (m Model) Credits() int { return m.credits }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case purchaseDoneMsg:
		return m.handlePurchaseDone(msg)
	case tea.KeyMsg:
		if m.phase == phaseClosed {
			return m.updatePanel(msg)
		}
		return m.updateModal(msg)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Purchase command
// ---------------------------------------------------------------------------

func (m Model) purchaseCmd(pkg Package) tea.Cmd {
	attemptID := uuid.NewString()
	m.logger.Info("purchase attempt",
		zap.String("attempt_id", attemptID),
		zap.String("package_id", pkg.ID),
		zap.Int("credits", pkg.Credits),
		zap.String("price", formatPrice(pkg)),
	)
	purchase := m.opts.Purchase
	return func() tea.Msg {
		receipt, err := purchase(context.Background(), pkg)
		return purchaseDoneMsg{attemptID: attemptID, pkg: pkg, receipt: receipt, err: err}
	}
}

func (m Model) handlePurchaseDone(msg purchaseDoneMsg) (tea.Model, tea.Cmd) {
	if m.phase != phasePurchasing {
		// Stale completion from an earlier cycle.
		return m, nil
	}
	m.buying = nil
	m.selected = -1
	if msg.err != nil {
		m.logger.Error("purchase failed",
			zap.String("attempt_id", msg.attemptID),
			zap.String("package_id", msg.pkg.ID),
			zap.Error(msg.err),
		)
		m.phase = phaseSelecting
		m.status = fmt.Sprintf("Purchase failed: %v. Select a package to retry.", msg.err)
		m.statusErr = true
		return m, nil
	}
	m.logger.Info("purchase complete",
		zap.String("attempt_id", msg.attemptID),
		zap.String("receipt_id", msg.receipt.ID),
		zap.Int("new_balance", msg.receipt.NewBalance),
	)
	m.phase = phaseClosed
	if msg.receipt.NewBalance >= 0 {
		m.credits = msg.receipt.NewBalance
	}
	m.status = fmt.Sprintf("Purchased %d credits.", msg.pkg.Credits)
	m.statusErr = false
	return m, nil
}
