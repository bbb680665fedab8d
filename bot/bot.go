package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"restaurant-orders/config"
	"restaurant-orders/models"
	"restaurant-orders/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("bot")

const requestTimeout = 15 * time.Second

// Engine is the part of services.Engine the bot calls.
type Engine interface {
	PlaceOrder(ctx context.Context, userID string, cart []models.CartEntry) (*models.Order, []models.OrderLine, error)
	GetReceipt(ctx context.Context, orderID int64) (*models.Receipt, error)
	MonthlyReport(ctx context.Context, month, year int) (*models.MonthlyReport, error)
	Menu(ctx context.Context) (map[string][]models.FoodItem, error)
}

type Bot struct {
	api    *tgbotapi.BotAPI
	engine Engine
	admin  int64
}

func New(cfg *config.Config, engine Engine) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, engine: engine, admin: cfg.Telegram.AdminID}, nil
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.SetMyCommandsConfig{
		Commands: []tgbotapi.BotCommand{
			{Command: "menu", Description: "View menu"},
			{Command: "order", Description: "Place order: /order 1x2 3x1"},
			{Command: "receipt", Description: "Show a bill: /receipt 12"},
			{Command: "report", Description: "Monthly report: /report 03 2024"},
		},
	}
	_, err := b.api.Request(cfg)
	return err
}

func (b *Bot) Start() {
	if err := b.setBotCommands(); err != nil {
		log.Warningf("set bot commands: %v", err)
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || update.Message.From == nil {
			continue
		}
		// One goroutine per message so a slow /report does not hold up orders.
		go b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	reply := b.Reply(ctx, msg.From.ID, strings.TrimSpace(msg.Text))
	if reply != "" {
		b.send(msg.Chat.ID, reply)
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Errorf("send error: %v", err)
	}
}

// Reply computes the answer to one message. Unknown text gets the help message.
func (b *Bot) Reply(ctx context.Context, userID int64, text string) string {
	cmd, args, _ := strings.Cut(text, " ")
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i] // "/menu@SomeBot" in group chats
	}
	args = strings.TrimSpace(args)

	switch cmd {
	case "/menu":
		return b.handleMenu(ctx)
	case "/order":
		return b.handleOrder(ctx, userID, args)
	case "/receipt":
		return b.handleReceipt(ctx, args)
	case "/report":
		return b.handleReport(ctx, userID, args)
	default:
		return helpText
	}
}

const helpText = `Welcome!
/menu - view menu
/order <food id>x<qty> ... - place an order, e.g. /order 1x2 3x1
/receipt <order id> - show a bill
/report <MM> <YYYY> - monthly report (admin)`

func (b *Bot) handleMenu(ctx context.Context) string {
	menu, err := b.engine.Menu(ctx)
	if err != nil {
		return errorText(err)
	}
	return FormatMenu(menu)
}

func (b *Bot) handleOrder(ctx context.Context, userID int64, args string) string {
	cart, err := ParseCart(args)
	if err != nil {
		return err.Error() + "\nUsage: /order 1x2 3x1"
	}
	order, _, err := b.engine.PlaceOrder(ctx, strconv.FormatInt(userID, 10), cart)
	if err != nil {
		if services.IsRetryable(err) {
			log.Errorf("place order user=%d: %v", userID, err)
			return "Failed to place order! Please try again."
		}
		return errorText(err)
	}
	receipt, err := b.engine.GetReceipt(ctx, order.ID)
	if err != nil {
		log.Errorf("receipt order_id=%d: %v", order.ID, err)
		return fmt.Sprintf("Order #%d placed. Total: Rs %s", order.ID, order.Total.StringFixed(2))
	}
	return FormatReceipt(receipt)
}

func (b *Bot) handleReceipt(ctx context.Context, args string) string {
	id, err := strconv.ParseInt(args, 10, 64)
	if err != nil || id <= 0 {
		return "Usage: /receipt <order id>"
	}
	receipt, err := b.engine.GetReceipt(ctx, id)
	if err != nil {
		return errorText(err)
	}
	return FormatReceipt(receipt)
}

func (b *Bot) handleReport(ctx context.Context, userID int64, args string) string {
	if b.admin == 0 || userID != b.admin {
		return "Reports are available to the admin only."
	}
	month, year, err := ParsePeriod(args)
	if err != nil {
		return err.Error() + "\nUsage: /report 03 2024"
	}
	report, err := b.engine.MonthlyReport(ctx, month, year)
	if err != nil {
		return errorText(err)
	}
	return FormatReport(report)
}

// errorText maps engine errors to distinct user messages.
func errorText(err error) string {
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		return "No items selected!"
	case errors.Is(err, services.ErrInvalidQuantity):
		return fmt.Sprintf("Quantity must be between 1 and %d!", services.MaxQuantity)
	case errors.Is(err, services.ErrUnknownFoodItem):
		return "Invalid food ID! Nothing was ordered."
	case errors.Is(err, services.ErrNotFound):
		return "Not found."
	case errors.Is(err, services.ErrInvalidPeriod):
		return "Invalid month or year."
	case services.IsRetryable(err):
		log.Errorf("storage error: %v", err)
		return "Storage is unavailable. Please try again later."
	default:
		log.Errorf("unexpected error: %v", err)
		return "Error: " + err.Error()
	}
}
