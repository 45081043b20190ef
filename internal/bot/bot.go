package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tgshop/internal/logger"
	"tgshop/internal/ratelimit"
	"tgshop/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sender delivers a text reply to a chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Message is the transport independent part of an incoming update.
type Message struct {
	ChatID    int64
	UserID    int64
	Username  string
	FirstName string
	Text      string
}

// 表示名はusername優先、無ければfirst name
func (m Message) DisplayName() string {
	if m.Username != "" {
		return m.Username
	}
	return m.FirstName
}

type handlerFunc func(ctx context.Context, msg Message, args string) string

type Deps struct {
	Users        *usecase.UserUsecase
	Catalog      *usecase.CatalogUsecase
	Orders       *usecase.OrderUsecase
	Assistant    *usecase.AssistantUsecase
	Sender       Sender
	Limiter      ratelimit.Limiter
	Log          *zap.Logger
	HistoryLimit int
}

type Bot struct {
	users        *usecase.UserUsecase
	catalog      *usecase.CatalogUsecase
	orders       *usecase.OrderUsecase
	assistant    *usecase.AssistantUsecase
	sender       Sender
	limiter      ratelimit.Limiter
	log          *zap.Logger
	historyLimit int

	handlers map[Command]handlerFunc
}

// DI
func New(d Deps) *Bot {
	if d.Limiter == nil {
		d.Limiter = ratelimit.Noop{}
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	b := &Bot{
		users:        d.Users,
		catalog:      d.Catalog,
		orders:       d.Orders,
		assistant:    d.Assistant,
		sender:       d.Sender,
		limiter:      d.Limiter,
		log:          d.Log,
		historyLimit: d.HistoryLimit,
	}
	b.handlers = map[Command]handlerFunc{
		CommandStart:    b.start,
		CommandCatalog:  b.showCatalog,
		CommandBuy:      b.buy,
		CommandMyOrders: b.myOrders,
		CommandAI:       b.ask,
		CommandHelp:     b.help,
		CommandUnknown:  b.help,
	}
	return b
}

// Handle answers one message. Usecase errors become replies, only a failed
// send is returned.
func (b *Bot) Handle(ctx context.Context, msg Message) error {
	cmd, args := Parse(msg.Text)

	log := b.log.With(
		zap.String("update_id", uuid.NewString()),
		zap.Int64("chat_id", msg.ChatID),
		zap.Int64("user_id", msg.UserID),
		zap.String("command", cmd.String()),
	)
	ctx = logger.WithContext(ctx, log)

	reply := b.dispatch(ctx, msg, cmd, args)

	if err := b.sender.Send(ctx, msg.ChatID, reply); err != nil {
		log.Error("send reply failed", zap.Error(err))
		return fmt.Errorf("send reply: %w", err)
	}
	log.Debug("replied")
	return nil
}

func (b *Bot) dispatch(ctx context.Context, msg Message, cmd Command, args string) string {
	ok, err := b.limiter.Allow(ctx, "chat:"+strconv.FormatInt(msg.ChatID, 10))
	if err != nil {
		// Redisが落ちていても止めない
		logger.FromContext(ctx).Warn("rate limiter unavailable", zap.Error(err))
	} else if !ok {
		return tooManyMsg
	}

	return b.handlers[cmd](ctx, msg, args)
}

// エラーをログに残してユーザー向けの文を返す
func (b *Bot) fail(ctx context.Context, err error) string {
	l := logger.FromContext(ctx)
	if errors.Is(err, usecase.ErrStorage) {
		l.Error("command failed", zap.Error(err))
	} else {
		l.Info("command rejected", zap.Error(err))
	}
	return userMessage(err)
}

func (b *Bot) start(ctx context.Context, msg Message, _ string) string {
	u, err := b.users.EnsureUser(ctx, msg.UserID, msg.DisplayName())
	if err != nil {
		return b.fail(ctx, err)
	}
	name := u.DisplayName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hi, %s! Welcome to tgshop.\n\n%s", name, helpText)
}

func (b *Bot) showCatalog(ctx context.Context, _ Message, _ string) string {
	products, err := b.catalog.ListProducts(ctx)
	if err != nil {
		return b.fail(ctx, err)
	}
	return formatCatalog(products)
}

func (b *Bot) buy(ctx context.Context, msg Message, args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return buyUsage
	}

	qty := int64(1)
	if len(fields) == 2 {
		n, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return buyUsage
		}
		qty = n
	}

	order, err := b.orders.CreateOrder(ctx, msg.UserID, fields[0], qty)
	if err != nil {
		return b.fail(ctx, err)
	}
	logger.FromContext(ctx).Info("order created", zap.Int64("order_id", order.ID), zap.String("total", order.Total.StringFixed(2)))
	return formatOrderCreated(order)
}

func (b *Bot) myOrders(ctx context.Context, msg Message, _ string) string {
	orders, err := b.orders.ListOrdersForUser(ctx, msg.UserID, b.historyLimit)
	if err != nil {
		return b.fail(ctx, err)
	}
	return formatOrders(orders)
}

func (b *Bot) ask(ctx context.Context, msg Message, args string) string {
	out, err := b.assistant.HandleAIRequest(ctx, msg.UserID, args)
	if err != nil {
		return b.fail(ctx, err)
	}
	return out
}

func (b *Bot) help(context.Context, Message, string) string {
	return helpText
}
