package service

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/crspy2/alterabot/internal/domain"
)

const (
	similarityThreshold = 55
	isoQueryMaxLen      = 3
)

// Services the operator refuses to rent numbers for, matched by full name
// ignoring case.
var blockedServices = []string{
	"5ka.ru", "AdvCash", "Afterpay", "Airtm", "Alipay", "beCHARGE",
	"Blackcatcard", "BluePay", "CashApp", "CentroBill", "Clearpay",
	"CoinsBaron", "Coinbase", "CoinSwitch", "CoinSpot", "Coinstash",
	"CornerCard", "cPay", "Easy Pay", "Entropay", "ePayments", "GCash",
	"Holvi", "iCard", "iPayYou", "Joompay", "Leupay", "LocalBitcoins",
	"Mezu", "MuchBetter", "MyBoost", "Neteller", "OKCoin", "Papara",
	"PayGo", "Payoneer", "Paypal", "Paysafe", "PaySay", "PaySend",
	"Paysera", "Paytm", "QIWIWallet", "SimplexCC", "Skrill", "Steemit",
	"Stripe", "TransferWise", "Venmo", "Verse", "Vimpay",
	"Walmart money card", "Webmoney", "xcoins", "ZapZap", "zebpay",
	"ZipCo", "ZipPay", "Abra", "Akulaku", "ANZ", "Banq24", "banxa",
	"BeemIt", "Billcom", "Bunq", "CapitalOne", "Cardyard", "CashAA",
	"CashZine", "CodaPayments", "Cogni Bank", "CreditKarma", "Dukascopy",
	"ecoPayz", "eToro", "EuroPYM", "ExpertOption", "FBS", "FreshForex",
	"FTX", "Go2Bank", "GoFundMe", "GreenDot", "instaforex", "InstaGC",
	"Instarem", "IQOption", "Jerry", "JuanCash", "KBZpay", "KVBPrime",
	"LydiaApp", "Monese", "Moneylion", "MoneyPak", "MoneyRawr", "Monzo",
	"Naver", "NetBank", "Netease", "NiftyLoans", "PayMaya", "Paymium",
	"PayQin", "Phyre", "RazerPay", "Remitly", "Revolut", "Robinhood",
	"SafeCurrency", "sharemoney", "SwissBorg", "SwitchHere", "tala",
	"Tenx", "The Change", "Tikki", "ToTalk", "TradingView",
	"TransferHome", "Trustcom", "UBank", "Varo", "Vodi", "Voyager",
	"WestStein", "Wing", "Wirex", "wittix", "Womply", "X-Bank", "Xoom",
	"Yodlee", "YouTrip", "Zelle", "Zest", "Indacoin", "Coinomi",
	"Coinjar",
}

// Whole categories are ineligible too: anything that smells like money
// movement or crypto.
var blockedSubstrings = []string{"coin", "pay", "cash", "sell"}

// ServiceBlocked reports whether a catalog entry may never be offered,
// regardless of how well it matches a query.
func ServiceBlocked(name string) bool {
	for _, blocked := range blockedServices {
		if strings.EqualFold(name, blocked) {
			return true
		}
	}

	lower := strings.ToLower(name)
	for _, sub := range blockedSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}

	return false
}

// ResolveServices maps a free-text query to the closest eligible catalog
// entries. An exact fuzzy match (score 100) wins over all partial ones.
// Entries whose name contains the raw query are kept even below the
// similarity threshold. Result order is catalog order; callers show the
// score so the user can judge fitness themselves.
func ResolveServices(query string, catalog []domain.Service) []domain.ServiceMatch {
	if query == "" {
		return nil
	}

	lowerQuery := strings.ToLower(query)

	var matches []domain.ServiceMatch
	for _, svc := range catalog {
		if ServiceBlocked(svc.Name) {
			continue
		}

		score := fuzzy.Ratio(lowerQuery, strings.ToLower(svc.Name))
		switch {
		case score == 100:
			return []domain.ServiceMatch{{Service: svc, Score: score}}
		case score >= similarityThreshold:
			matches = append(matches, domain.ServiceMatch{Service: svc, Score: score})
		case strings.Contains(svc.Name, query):
			matches = append(matches, domain.ServiceMatch{Service: svc, Score: score})
		}
	}

	return matches
}

// ResolveCountries maps a free-text query to close rows of a price table.
// Short queries are treated as ISO code lookups, longer ones as country
// names. Unlike service resolution there is no exact-match short-circuit
// and no substring fallback.
func ResolveCountries(query string, prices []domain.CountryPrice) []domain.CountryMatch {
	if query == "" {
		return nil
	}

	lowerQuery := strings.ToLower(query)

	var matches []domain.CountryMatch
	for _, country := range prices {
		var score int
		if len(query) <= isoQueryMaxLen {
			score = fuzzy.Ratio(lowerQuery, strings.ToLower(country.ISO))
		} else {
			score = fuzzy.Ratio(lowerQuery, strings.ToLower(country.Name))
		}

		if score >= similarityThreshold {
			matches = append(matches, domain.CountryMatch{Country: country, Score: score})
		}
	}

	return matches
}
