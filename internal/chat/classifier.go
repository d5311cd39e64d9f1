package chat

import (
	"regexp"
	"strings"
)

// 意図タグ
const (
	IntentLoyalty         = "loyalty"
	IntentRecommendations = "recommendations"
	IntentAccount         = "account"
	IntentOrders          = "orders"
	IntentShipping        = "shipping"
	IntentReturns         = "returns"
	IntentComplaint       = "complaint"
	IntentPricing         = "pricing"
	IntentGreeting        = "greeting"
	IntentDefault         = "default"
)

type rule struct {
	intent  string
	matches func(text string) bool
}

func keywords(words ...string) func(string) bool {
	return func(text string) bool {
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}
}

func pattern(expr string) func(string) bool {
	re := regexp.MustCompile(expr)
	return re.MatchString
}

// 評価順がそのままタイブレークになる。
// 「order」と「return」を両方含む文は、先に評価されるordersになる。
var rules = []rule{
	{IntentLoyalty, keywords("loyalty", "point", "reward", "membership", "tier")},
	{IntentRecommendations, keywords("recommend", "suggest", "what should i buy", "best seller")},
	{IntentAccount, keywords("account", "profile", "password", "email address", "my details")},
	{IntentOrders, keywords("order", "purchase", "track", "bought")},
	{IntentShipping, keywords("shipping", "deliver", "arrive", "dispatch")},
	{IntentReturns, keywords("return", "refund", "exchange")},
	{IntentComplaint, keywords("complaint", "problem", "issue", "broken", "not working", "disappointed", "terrible")},
	{IntentPricing, keywords("price", "cost", "how much", "expensive", "discount", "cheap")},
	{IntentGreeting, pattern(`\b(hi|hello|hey|good morning|good afternoon|good evening)\b`)},
}

// Classify は入力文を小文字化して、最初にマッチしたルールの意図を返す。
// どれにも当たらなければdefault。
func Classify(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return IntentDefault
	}
	for _, r := range rules {
		if r.matches(t) {
			return r.intent
		}
	}
	return IntentDefault
}
