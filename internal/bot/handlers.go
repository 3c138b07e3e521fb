package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/crspy2/alterabot/internal/config"
	"github.com/crspy2/alterabot/internal/domain"
	"github.com/crspy2/alterabot/internal/service"
	"github.com/crspy2/alterabot/pkg/logger"
)

type Handler struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	workflow *service.WorkflowService
	ledger   *service.LedgerService
}

func NewHandler(api *tgbotapi.BotAPI, cfg *config.Config, workflow *service.WorkflowService, ledger *service.LedgerService) *Handler {
	return &Handler{api: api, cfg: cfg, workflow: workflow, ledger: ledger}
}

func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}

	msg := upd.Message
	if !msg.Chat.IsPrivate() {
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" || !strings.HasPrefix(text, "/") {
		return
	}

	fields := strings.Fields(text)
	command := fields[0]
	args := fields[1:]
	externalID := strconv.FormatInt(msg.From.ID, 10)

	logger.Log.Info("processing command", logger.String("command", command), logger.String("user", externalID))

	switch command {
	case "/start":
		h.reply(msg.Chat.ID, startText, true)
	case "/getnumber":
		h.handleGetNumber(ctx, msg.Chat.ID, externalID, msg.From.UserName, args)
	case "/checksms":
		h.handleCheckSMS(ctx, msg.Chat.ID, externalID, msg.From.UserName)
	case "/balance":
		h.handleBalance(ctx, msg.Chat.ID, externalID)
	case "/services":
		h.handleServices(ctx, msg.Chat.ID, args)
	case "/prices":
		h.handlePrices(ctx, msg.Chat.ID, args)
	case "/userdata":
		h.handleUserData(ctx, msg.Chat.ID, msg.From.ID, args, externalID)
	case "/adminbal":
		h.handleAdminBalance(ctx, msg.Chat.ID, msg.From.ID)
	case "/setbalance":
		h.handleSetBalance(ctx, msg.Chat.ID, msg.From.ID, args)
	}
}

const startText = "Привет! Я выдаю номера для приёма SMS-кодов.\n\n" +
	"Команды:\n" +
	"/getnumber <сервис> [страна] — арендовать номер\n" +
	"/checksms — проверить входящий код\n" +
	"/balance — баланс аккаунта\n" +
	"/services <запрос> — поиск сервиса\n" +
	"/prices <сервис> [price|success_rate] [страна] — цены по странам"

func (h *Handler) handleGetNumber(ctx context.Context, chatID int64, externalID, username string, args []string) {
	if len(args) == 0 {
		h.reply(chatID, "Использование: /getnumber <сервис> [страна]", false)
		return
	}

	serviceName := args[0]
	country := h.cfg.DefaultCountry
	if len(args) > 1 {
		country = strings.Join(args[1:], " ")
	}

	result, err := h.workflow.Acquire(ctx, externalID, serviceName, country)
	if err != nil {
		h.replyWorkflowError(chatID, err, serviceName, country)
		return
	}

	h.logEvent("Номер выдан: @" + username + " | " + result.Order.Service + " / " + result.Order.Country)
	h.reply(chatID, formatAcquire(result), true)
}

func (h *Handler) handleCheckSMS(ctx context.Context, chatID int64, externalID, username string) {
	result, err := h.workflow.Check(ctx, externalID)
	if err != nil {
		h.replyWorkflowError(chatID, err, "", "")
		return
	}

	if result.Settled {
		h.logEvent("Код получен: @" + username + " | " + result.Order.Service + " / " + result.Order.Country)
	}
	h.reply(chatID, formatCheck(result), true)
}

func (h *Handler) handleBalance(ctx context.Context, chatID int64, externalID string) {
	account, err := h.ledger.Account(ctx, externalID)
	if err != nil {
		h.replyWorkflowError(chatID, err, "", "")
		return
	}

	h.reply(chatID, "Ваш баланс: `"+formatMoney(account.Balance)+"`", true)
}

func (h *Handler) handleServices(ctx context.Context, chatID int64, args []string) {
	if len(args) == 0 {
		h.reply(chatID, "Использование: /services <запрос>", false)
		return
	}
	query := strings.Join(args, " ")

	result, err := h.workflow.SearchServices(ctx, query)
	if err != nil {
		h.replyWorkflowError(chatID, err, query, "")
		return
	}

	h.reply(chatID, formatServiceMatches(query, result.Total, result.Matches), true)
}

func (h *Handler) handlePrices(ctx context.Context, chatID int64, args []string) {
	if len(args) == 0 {
		h.reply(chatID, "Использование: /prices <сервис> [price|success_rate] [страна]", false)
		return
	}

	serviceName := args[0]
	by := domain.SortByPrice
	country := ""
	for _, arg := range args[1:] {
		switch domain.SortOrder(arg) {
		case domain.SortByPrice, domain.SortBySuccessRate:
			by = domain.SortOrder(arg)
		default:
			country = arg
		}
	}

	prices, err := h.workflow.Prices(ctx, serviceName, by, country)
	if err != nil {
		h.replyWorkflowError(chatID, err, serviceName, country)
		return
	}

	h.reply(chatID, formatPrices(serviceName, prices, h.ledger), true)
}

func (h *Handler) handleUserData(ctx context.Context, chatID, fromID int64, args []string, externalID string) {
	if !h.isAdmin(fromID) {
		h.reply(chatID, "Команда доступна только администраторам", false)
		return
	}

	target := externalID
	if len(args) > 0 {
		target = args[0]
	}

	account, err := h.ledger.Account(ctx, target)
	if err != nil {
		h.replyWorkflowError(chatID, err, "", "")
		return
	}

	h.reply(chatID, formatAccount(account), true)
}

func (h *Handler) handleAdminBalance(ctx context.Context, chatID, fromID int64) {
	if !h.isAdmin(fromID) {
		h.reply(chatID, "Команда доступна только администраторам", false)
		return
	}

	balance, err := h.workflow.ProviderBalance(ctx)
	if err != nil {
		h.replyWorkflowError(chatID, err, "", "")
		return
	}

	h.reply(chatID, "Баланс у провайдера: `$"+strconv.FormatFloat(balance, 'f', 2, 64)+"`", true)
}

func (h *Handler) handleSetBalance(ctx context.Context, chatID, fromID int64, args []string) {
	if !h.isAdmin(fromID) {
		h.reply(chatID, "Команда доступна только администраторам", false)
		return
	}
	if len(args) != 2 {
		h.reply(chatID, "Использование: /setbalance <id> <баланс в центах>", false)
		return
	}

	newBalance, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		h.reply(chatID, "Баланс должен быть целым числом центов", false)
		return
	}

	account, err := h.ledger.Account(ctx, args[0])
	if err != nil {
		h.replyWorkflowError(chatID, err, "", "")
		return
	}

	if err := h.ledger.SetBalance(ctx, account.ID, newBalance); err != nil {
		h.replyWorkflowError(chatID, err, "", "")
		return
	}

	h.reply(chatID, "Баланс обновлён: `"+formatMoney(newBalance)+"`", true)
}

// replyWorkflowError turns workflow error kinds into user-facing text.
// Raw transport errors never reach here; everything is one of the named
// kinds or already logged upstream.
func (h *Handler) replyWorkflowError(chatID int64, err error, serviceQuery, countryQuery string) {
	var serviceErr *domain.ServiceNotFoundError
	var countryErr *domain.CountryNotFoundError

	switch {
	case errors.As(err, &serviceErr):
		h.reply(chatID, formatServiceSuggestions(serviceErr), true)
	case errors.As(err, &countryErr):
		h.reply(chatID, formatCountrySuggestions(countryErr), true)
	case errors.Is(err, domain.ErrAccountNotFound):
		h.reply(chatID, "Аккаунт не найден. Зарегистрируйтесь на сайте и попробуйте снова.", false)
	case errors.Is(err, domain.ErrNoActiveOrder):
		h.reply(chatID, "У вас нет активного номера. Получите его через /getnumber.", false)
	case errors.Is(err, domain.ErrInsufficientFunds):
		h.reply(chatID, "Недостаточно средств для этой операции.", false)
	case errors.Is(err, domain.ErrProviderOutOfStock):
		h.reply(chatID, "Номера для этой страны закончились. Попробуйте другую страну или зайдите позже.", false)
	case errors.Is(err, domain.ErrOrderRecordingFailed), errors.Is(err, domain.ErrLedgerWriteFailed):
		h.reply(chatID, "Произошла ошибка при обработке запроса. Попробуйте позже.", false)
	default:
		logger.Log.Error("command failed", logger.Error(err))
		h.reply(chatID, "Произошла ошибка при выполнении запроса.", false)
	}
}

func (h *Handler) isAdmin(userID int64) bool {
	for _, id := range h.cfg.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (h *Handler) reply(chatID int64, text string, markdown bool) {
	m := tgbotapi.NewMessage(chatID, text)
	if markdown {
		m.ParseMode = tgbotapi.ModeMarkdown
	}
	if _, err := h.api.Send(m); err != nil {
		logger.Log.Error("error sending reply", logger.Int64("chat_id", chatID), logger.Error(err))
	}
}

// logEvent mirrors notable events into the operator log chat.
func (h *Handler) logEvent(text string) {
	if h.cfg.LogChatID == 0 {
		return
	}
	if _, err := h.api.Send(tgbotapi.NewMessage(h.cfg.LogChatID, text)); err != nil {
		logger.Log.Error("error sending log event", logger.Error(err))
	}
}
