package bot

import (
	"fmt"
	"strings"

	"github.com/crspy2/alterabot/internal/domain"
	"github.com/crspy2/alterabot/internal/service"
)

func formatMoney(cents int64) string {
	return fmt.Sprintf("$%.2f USD", float64(cents)/100)
}

func formatAcquire(result *service.AcquireResult) string {
	order := result.Order

	var b strings.Builder
	b.WriteString("Списание произойдёт только после получения сообщения.\n")
	b.WriteString(fmt.Sprintf("```\n+%s %s\n```\n", order.AreaCode, order.PhoneNumber))
	b.WriteString(fmt.Sprintf("Сервис: %s\n", order.Service))
	b.WriteString(fmt.Sprintf("Страна: %s (%s)\n", order.Country, strings.ToUpper(result.Country.ISO)))
	b.WriteString(fmt.Sprintf("Цена за SMS: `%s`\n", formatMoney(order.Cost)))
	b.WriteString(fmt.Sprintf("Истекает: %s\n", order.ExpiresAt.Format("15:04:05 02.01.2006")))
	b.WriteString(fmt.Sprintf("Баланс: `%s`", formatMoney(result.Balance)))

	return b.String()
}

func formatCheck(result *service.CheckResult) string {
	switch result.Status.State {
	case domain.StateDelivered:
		return fmt.Sprintf(
			"Входящее сообщение для +%s:\n```\n%s\n```\nКод: `%s`\nБаланс: `%s`",
			result.Order.PhoneNumber,
			result.Status.FullMessage,
			result.Status.Code,
			formatMoney(result.Balance),
		)
	case domain.StateAwaitingDelivery:
		return fmt.Sprintf(
			"Сообщение для +%s пока не пришло.\n"+
				"Доставка кода может занять до 5 минут; списание произойдёт только после получения.\n"+
				"Номер истекает: %s",
			result.Order.PhoneNumber,
			result.Status.ExpiresAt.Format("15:04:05 02.01.2006"),
		)
	default:
		return "Срок действия номера истёк. Получите новый через /getnumber — ничего не списано."
	}
}

func formatServiceMatches(query string, total int, matches []domain.ServiceMatch) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Из `%d` сервисов вашему запросу **%s** соответствуют `%d`:\n\n", total, query, len(matches)))
	for i, m := range matches {
		b.WriteString(fmt.Sprintf("**%d:** %s | `%d%%`\n", i+1, m.Service.Name, m.Score))
	}

	return b.String()
}

func formatServiceSuggestions(err *domain.ServiceNotFoundError) string {
	if len(err.Suggestions) == 0 {
		return fmt.Sprintf("Сервисы, похожие на **%s**, не найдены.", err.Query)
	}

	var b strings.Builder
	b.WriteString("Такого сервиса нет. Возможно, вы имели в виду:\n")
	for i, m := range err.Suggestions {
		b.WriteString(fmt.Sprintf("**%d:** %s | `%d%%`\n", i+1, m.Service.Name, m.Score))
	}

	return b.String()
}

func formatCountrySuggestions(err *domain.CountryNotFoundError) string {
	if len(err.Suggestions) == 0 {
		return fmt.Sprintf("Страны, похожие на **%s**, не найдены.", err.Query)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Из `%d` стран с этим сервисом запросу **%s** соответствуют `%d`:\n\n", err.Total, err.Query, len(err.Suggestions)))
	for i, m := range err.Suggestions {
		b.WriteString(fmt.Sprintf("**%d:** %s | `%d%%`\n", i+1, m.Country.Name, m.Score))
	}

	return b.String()
}

const pricesLimit = 25

func formatPrices(serviceName string, prices []domain.CountryPrice, ledger *service.LedgerService) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Цены на **%s**:\n\n", serviceName))

	for i, p := range prices {
		if i >= pricesLimit {
			b.WriteString(fmt.Sprintf("… и ещё %d стран\n", len(prices)-pricesLimit))
			break
		}
		charge := ledger.ChargeAmount(service.MinorUnits(p.Price))
		b.WriteString(fmt.Sprintf(
			"%s (%s) — `%s` | успех `%d%%`\n",
			p.Name, strings.ToUpper(p.ISO), formatMoney(charge), p.SuccessRate,
		))
	}

	return b.String()
}

func formatAccount(account *domain.UserAccount) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Аккаунт `%d` (внешний ID `%s`)\n", account.ID, account.ExternalID))
	b.WriteString(fmt.Sprintf("Баланс: `%s`\n", formatMoney(account.Balance)))
	b.WriteString(fmt.Sprintf("Номеров арендовано: `%d`\n", len(account.Orders)))

	if len(account.Orders) > 0 {
		last := account.Orders[len(account.Orders)-1]
		b.WriteString(fmt.Sprintf("Последний номер: +%s %s (%s, %s)", last.AreaCode, last.PhoneNumber, last.Service, last.Country))
	}

	return b.String()
}
