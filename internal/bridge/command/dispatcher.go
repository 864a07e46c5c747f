// Package command implements the /economybridge chat commands.
package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/turiddu25/cobble-economy/internal/bridge/coordinator"
	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	"github.com/turiddu25/cobble-economy/internal/bridge/shop"
	"github.com/turiddu25/cobble-economy/internal/pkg/logging"
)

const (
	PermReload  = "economybridge.reload"
	PermBalance = "economybridge.balance"
	PermAdmin   = "economybridge.admin"

	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 50
)

const (
	msgNoPermission = "You do not have permission to use this command."
	msgUnavailable  = "Economy unavailable, try again later."
	msgNoJournal    = "Transaction history is not available."
	msgUsage        = "Usage: /economybridge <reload|balance|history|refund|help>"
)

// Invocation is one command as typed by Sender. Args excludes the root command name.
type Invocation struct {
	Sender      uuid.UUID
	Permissions []string
	Args        []string
}

func (i Invocation) can(node string) bool {
	return slices.Contains(i.Permissions, node)
}

type Reloader interface {
	Reload(ctx context.Context) (domain.ReloadReport, error)
}

type BalanceReader interface {
	GetBalance(ctx context.Context, player uuid.UUID) (decimal.Decimal, error)
}

type JournalReader interface {
	History(ctx context.Context, player uuid.UUID, limit int) ([]domain.TransactionRecord, error)
	Find(ctx context.Context, correlationID string) (domain.TransactionRecord, error)
}

type Submitter interface {
	Submit(ctx context.Context, request domain.TransactionRequest) (*coordinator.Ticket, error)
}

type Dispatcher struct {
	reloader  Reloader
	balances  BalanceReader
	journal   JournalReader
	submitter Submitter
	logger    logging.Logger

	mu        sync.RWMutex
	formatter *shop.PriceFormatter
}

// NewDispatcher builds a dispatcher. journal may be nil when no journal is configured, which
// disables history and refunds.
func NewDispatcher(reloader Reloader, balances BalanceReader, journal JournalReader, submitter Submitter, currency domain.Currency, logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		reloader:  reloader,
		balances:  balances,
		journal:   journal,
		submitter: submitter,
		logger:    logger,
		formatter: shop.NewPriceFormatter(currency, language.English),
	}
}

// SetCurrency changes how amounts are printed; reload calls it after a new catalog loads.
func (d *Dispatcher) SetCurrency(currency domain.Currency) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.formatter = shop.NewPriceFormatter(currency, language.English)
}

func (d *Dispatcher) format(amount decimal.Decimal) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.formatter.Format(amount)
}

// Execute runs the invocation and returns the chat reply. Failures are reported in the reply.
func (d *Dispatcher) Execute(ctx context.Context, inv Invocation) string {
	if len(inv.Args) == 0 {
		return d.help(inv)
	}

	name, args := strings.ToLower(inv.Args[0]), inv.Args[1:]
	switch name {
	case "reload":
		return d.reload(ctx, inv)
	case "balance":
		return d.balance(ctx, inv, args)
	case "history":
		return d.transactions(ctx, inv, args)
	case "refund":
		return d.refund(ctx, inv, args)
	case "help":
		return d.help(inv)
	default:
		return fmt.Sprintf("Unknown command %q. %s", name, msgUsage)
	}
}

func (d *Dispatcher) reload(ctx context.Context, inv Invocation) string {
	if !inv.can(PermReload) {
		return msgNoPermission
	}

	report, err := d.reloader.Reload(ctx)
	if err != nil {
		d.logger.Error("failed to reload configuration", "sender", inv.Sender.String(), "error", err)
		return fmt.Sprintf("Failed to reload configuration: %s", err)
	}

	d.logger.Info("configuration reloaded", "sender", inv.Sender.String(), "rules", report.Rules, "offers", report.Offers)
	return fmt.Sprintf("Configuration reloaded: %d rules, %d offers.", report.Rules, report.Offers)
}

func (d *Dispatcher) balance(ctx context.Context, inv Invocation, args []string) string {
	if !inv.can(PermBalance) {
		return msgNoPermission
	}

	target, reply := d.target(inv, args)
	if reply != "" {
		return reply
	}

	amount, err := d.balances.GetBalance(ctx, target)
	if err != nil {
		return d.failure(err, target)
	}

	if target == inv.Sender {
		return fmt.Sprintf("Your balance: %s", d.format(amount))
	}
	return fmt.Sprintf("Balance of %s: %s", target, d.format(amount))
}

func (d *Dispatcher) transactions(ctx context.Context, inv Invocation, args []string) string {
	if !inv.can(PermBalance) {
		return msgNoPermission
	}
	if d.journal == nil {
		return msgNoJournal
	}

	limit := DefaultHistoryLimit
	if n := len(args); n > 0 {
		if parsed, err := strconv.Atoi(args[n-1]); err == nil {
			if parsed <= 0 {
				return fmt.Sprintf("Invalid limit %q.", args[n-1])
			}
			limit = min(parsed, MaxHistoryLimit)
			args = args[:n-1]
		}
	}

	target, reply := d.target(inv, args)
	if reply != "" {
		return reply
	}

	records, err := d.journal.History(ctx, target, limit)
	if err != nil {
		return d.failure(err, target)
	}
	if len(records) == 0 {
		return fmt.Sprintf("No transactions for %s.", target)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Last %d transactions for %s:", len(records), target)
	for _, record := range records {
		sign := "+"
		if record.Direction == domain.DirectionDebit {
			sign = "-"
		}
		fmt.Fprintf(&b, "\n%s %s%s %s [%s]", record.UpdatedAt.UTC().Format("2006-01-02 15:04"), sign, d.format(record.Amount), record.Reason, record.State)
		if record.Error != "" {
			fmt.Fprintf(&b, " %s", record.Error)
		}
	}
	return b.String()
}

func (d *Dispatcher) help(inv Invocation) string {
	lines := []string{"Economy bridge commands:"}
	if inv.can(PermBalance) {
		lines = append(lines, "/economybridge balance [player]", "/economybridge history [player] [limit]")
	}
	if inv.can(PermReload) {
		lines = append(lines, "/economybridge reload")
	}
	if inv.can(PermAdmin) {
		lines = append(lines, "/economybridge refund <transaction>")
	}
	lines = append(lines, "/economybridge help")
	return strings.Join(lines, "\n")
}

// refund credits back a committed shop purchase. The refund uses a correlation id derived
// from the purchase, so it is applied at most once.
func (d *Dispatcher) refund(ctx context.Context, inv Invocation, args []string) string {
	if !inv.can(PermAdmin) {
		return msgNoPermission
	}
	if d.journal == nil {
		return msgNoJournal
	}
	if len(args) != 1 {
		return "Usage: /economybridge refund <transaction>"
	}

	id := args[0]
	purchase, err := d.journal.Find(ctx, id)
	if errors.Is(err, &domain.TransactionNotFoundError{}) {
		return fmt.Sprintf("No transaction %q.", id)
	}
	if err != nil {
		return d.failure(err, uuid.Nil)
	}
	if purchase.State != domain.TxCommitted || purchase.Direction != domain.DirectionDebit ||
		!strings.HasPrefix(purchase.Reason, domain.ShopReasonPrefix) {
		return fmt.Sprintf("Transaction %q is not a committed shop purchase.", id)
	}

	refundID := domain.RefundReasonPrefix + id
	previous, err := d.journal.Find(ctx, refundID)
	switch {
	case err == nil && previous.State != domain.TxFailed && previous.State != domain.TxCancelled:
		return fmt.Sprintf("Transaction %q was already refunded.", id)
	case err != nil && !errors.Is(err, &domain.TransactionNotFoundError{}):
		return d.failure(err, purchase.Player)
	}

	ticket, err := d.submitter.Submit(ctx, domain.TransactionRequest{
		CorrelationID: refundID,
		Player:        purchase.Player,
		Direction:     domain.DirectionCredit,
		Amount:        purchase.Amount,
		Reason:        domain.RefundReasonPrefix + purchase.Reason,
	})
	if err != nil {
		return d.failure(err, purchase.Player)
	}
	if ticket != nil && ticket.State() == domain.TxFailed {
		return fmt.Sprintf("Refund %s failed recently, try again later.", refundID)
	}

	d.logger.Info("refund submitted",
		"sender", inv.Sender.String(),
		"correlation_id", refundID,
		"player", purchase.Player.String(),
		"amount", purchase.Amount.String(),
	)
	return fmt.Sprintf("Refund of %s to %s submitted as %s.", d.format(purchase.Amount), purchase.Player, refundID)
}

// target resolves the optional player argument. Targeting someone else needs the admin node.
func (d *Dispatcher) target(inv Invocation, args []string) (uuid.UUID, string) {
	if len(args) == 0 {
		if inv.Sender == uuid.Nil {
			return uuid.Nil, "A player is required when running from the console."
		}
		return inv.Sender, ""
	}

	target, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Sprintf("Invalid player %q.", args[0])
	}
	if target != inv.Sender && !inv.can(PermAdmin) {
		return uuid.Nil, msgNoPermission
	}
	return target, ""
}

func (d *Dispatcher) failure(err error, player uuid.UUID) string {
	switch {
	case errors.Is(err, &domain.AccountNotFoundError{}):
		return fmt.Sprintf("No account for %s.", player)
	case errors.Is(err, &domain.ServiceUnavailableError{}):
		d.logger.Warn("economy unavailable for command", "player", player.String(), "error", err)
		return msgUnavailable
	default:
		d.logger.Error("command failed", "player", player.String(), "error", err)
		return "Command failed, see server log."
	}
}
