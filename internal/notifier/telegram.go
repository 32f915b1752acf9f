// Package notifier delivers advisories to users over Telegram and renders
// score results into human-readable messages.
package notifier

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"github.com/Krishnakumar40/ai-investment-system/internal/store"
)

// Notifier sends one message to one chat. The scheduler only needs this.
type Notifier interface {
	Notify(chatID int64, text string) error
}

// CycleTrigger lets bot commands kick off decision cycles on demand. It is
// injected after construction because the scheduler also needs the notifier.
type CycleTrigger interface {
	TriggerPreMarket()
	TriggerMonthlyFor(chatID int64)
}

const helpText = `🤖 *Investment Advisor Commands*

/start - register yourself
/status - system and wallet status
/balance <amt> - set available cash
/addcash <amt> - add cash to wallet
/budget <amt> - set max price per share (0 = no limit)
/buy SYM QTY PRICE - record a buy
/sell SYM QTY PRICE - record a sell
/add SYM QTY PRICE - track an existing position
/portfolio - show holdings
/scan - run the market scan now
/rebalance - monthly portfolio review
/reset - wipe holdings and wallet
/help - this message`

// Telegram is the production Notifier. It also hosts the command handlers
// through which users manage their wallet and holdings.
type Telegram struct {
	bot     *tele.Bot
	store   *store.Store
	trigger CycleTrigger
}

func NewTelegram(token string, st *store.Store) (*Telegram, error) {
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	bot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	t := &Telegram{bot: bot, store: st}
	t.registerHandlers()
	return t, nil
}

// SetTrigger wires the scheduler in once it exists.
func (t *Telegram) SetTrigger(tr CycleTrigger) { t.trigger = tr }

// Notify sends a Markdown message to one chat.
func (t *Telegram) Notify(chatID int64, text string) error {
	_, err := t.bot.Send(tele.ChatID(chatID), text, tele.ModeMarkdown)
	if err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("telegram send failed")
	}
	return err
}

// Start begins long polling. Blocks; run in a goroutine.
func (t *Telegram) Start() {
	log.Info().Str("bot", t.bot.Me.Username).Msg("telegram bot started")
	t.bot.Start()
}

// Stop halts the poller.
func (t *Telegram) Stop() { t.bot.Stop() }

func (t *Telegram) registerHandlers() {
	t.bot.Handle("/start", t.handleStart)
	t.bot.Handle("/help", func(c tele.Context) error {
		return c.Send(helpText, tele.ModeMarkdown)
	})
	t.bot.Handle("/status", t.handleStatus)
	t.bot.Handle("/balance", t.amountHandler("balance", t.store.SetBalance,
		"✅ Cash balance set to %s."))
	t.bot.Handle("/addcash", t.amountHandler("addcash", t.store.AddBalance,
		"✅ Added %s to your wallet."))
	t.bot.Handle("/budget", t.amountHandler("budget", t.store.SetBudget,
		"✅ Budget filter set to %s per share."))
	t.bot.Handle("/buy", t.tradeHandler("buy", t.store.RecordBuy))
	t.bot.Handle("/sell", t.tradeHandler("sell", t.store.RecordSell))
	t.bot.Handle("/add", t.handleAdd)
	t.bot.Handle("/portfolio", t.handlePortfolio)
	t.bot.Handle("/scan", t.handleScan)
	t.bot.Handle("/rebalance", t.handleRebalance)
	t.bot.Handle("/reset", t.handleReset)
}

func (t *Telegram) handleStart(c tele.Context) error {
	username := ""
	if c.Sender() != nil {
		username = c.Sender().Username
	}
	if _, err := t.store.RegisterUser(c.Chat().ID, username); err != nil {
		log.Error().Err(err).Int64("chat_id", c.Chat().ID).Msg("register user failed")
		return c.Send("Something went wrong while registering you. Try again.")
	}
	return c.Send("👋 Welcome! I'll scan the market every morning and send you a plan.\n"+
		"Set your cash with /balance and (optionally) a per-share /budget.\n"+
		"See /help for everything I can do.", tele.ModeMarkdown)
}

func (t *Telegram) handleStatus(c tele.Context) error {
	user, err := t.store.GetUser(c.Chat().ID)
	if err != nil && !errors.Is(err, store.ErrUserNotFound) {
		return c.Send("Could not load your profile.")
	}
	return c.Send(FormatStatus(user), tele.ModeMarkdown)
}

// amountHandler builds a handler for the single-amount wallet commands.
func (t *Telegram) amountHandler(name string, apply func(int64, float64) error, okFmt string) tele.HandlerFunc {
	return func(c tele.Context) error {
		args := c.Args()
		if len(args) != 1 {
			return c.Send(fmt.Sprintf("Usage: /%s <amount>", name))
		}
		amount, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return c.Send(fmt.Sprintf("%q is not a number.", args[0]))
		}
		if err := apply(c.Chat().ID, amount); err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return c.Send("You're not registered yet. Send /start first.")
			}
			log.Error().Err(err).Str("command", name).Msg("wallet update failed")
			return c.Send("Could not update your wallet. Try again.")
		}
		return c.Send(fmt.Sprintf(okFmt, money(amount)), tele.ModeMarkdown)
	}
}

// tradeHandler builds a handler for /buy and /sell.
func (t *Telegram) tradeHandler(name string, apply func(int64, string, int64, float64) error) tele.HandlerFunc {
	return func(c tele.Context) error {
		symbol, qty, price, err := parseTrade(c.Args())
		if err != nil {
			return c.Send(fmt.Sprintf("Usage: /%s SYMBOL QTY PRICE\nExample: /%s TATASTEEL.NS 10 145.50", name, name))
		}
		if err := apply(c.Chat().ID, symbol, qty, price); err != nil {
			switch {
			case errors.Is(err, store.ErrUserNotFound):
				return c.Send("You're not registered yet. Send /start first.")
			case errors.Is(err, store.ErrInsufficientQuantity):
				return c.Send(fmt.Sprintf("You don't hold %d of %s.", qty, symbol))
			}
			log.Error().Err(err).Str("command", name).Msg("trade record failed")
			return c.Send("Could not record the trade. Try again.")
		}
		verb := "Bought"
		if name == "sell" {
			verb = "Sold"
		}
		return c.Send(fmt.Sprintf("✅ %s *%d x %s* @ %s.", verb, qty, symbol, money(price)), tele.ModeMarkdown)
	}
}

func (t *Telegram) handleAdd(c tele.Context) error {
	symbol, qty, price, err := parseTrade(c.Args())
	if err != nil {
		return c.Send("Usage: /add SYMBOL QTY AVG_PRICE\nExample: /add INFY.NS 5 1500")
	}
	if err := t.store.SetHolding(c.Chat().ID, symbol, qty, price); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return c.Send("You're not registered yet. Send /start first.")
		}
		log.Error().Err(err).Msg("set holding failed")
		return c.Send("Could not track the position. Try again.")
	}
	return c.Send(fmt.Sprintf("✅ Tracking *%d x %s* @ avg %s.", qty, strings.ToUpper(symbol), money(price)), tele.ModeMarkdown)
}

func (t *Telegram) handlePortfolio(c tele.Context) error {
	user, err := t.store.GetUser(c.Chat().ID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return c.Send("You're not registered yet. Send /start first.")
		}
		return c.Send("Could not load your portfolio.")
	}
	return c.Send(FormatPortfolio(user), tele.ModeMarkdown)
}

func (t *Telegram) handleScan(c tele.Context) error {
	if t.trigger == nil {
		return c.Send("Scanner is still starting up. Try again in a moment.")
	}
	go t.trigger.TriggerPreMarket()
	return c.Send("🔍 Scanning the market now. Results arrive shortly.")
}

func (t *Telegram) handleRebalance(c tele.Context) error {
	if t.trigger == nil {
		return c.Send("Scanner is still starting up. Try again in a moment.")
	}
	chatID := c.Chat().ID
	go t.trigger.TriggerMonthlyFor(chatID)
	return c.Send("⚖️ Reviewing your portfolio. Results arrive shortly.")
}

func (t *Telegram) handleReset(c tele.Context) error {
	if err := t.store.ResetUser(c.Chat().ID); err != nil {
		log.Error().Err(err).Msg("reset failed")
		return c.Send("Could not reset your account. Try again.")
	}
	return c.Send("🧹 All holdings and cash cleared. Fresh start!")
}

func parseTrade(args []string) (symbol string, qty int64, price float64, err error) {
	if len(args) != 3 {
		return "", 0, 0, errors.New("expected SYMBOL QTY PRICE")
	}
	symbol = strings.ToUpper(args[0])
	qty, err = strconv.ParseInt(args[1], 10, 64)
	if err != nil || qty <= 0 {
		return "", 0, 0, errors.New("quantity must be a positive integer")
	}
	price, err = strconv.ParseFloat(args[2], 64)
	if err != nil || price <= 0 {
		return "", 0, 0, errors.New("price must be a positive number")
	}
	return symbol, qty, price, nil
}
