package chat

import (
	"fmt"
	"math/rand"
	"strings"

	"storefront/internal/domain/model"
)

// 応答テンプレート。{name}のようなプレースホルダをプロフィールで埋める。
var templates = map[string][]string{
	IntentLoyalty: {
		"Hi {name}! You currently have {points} loyalty points as a {tier} member. Every 100 spent earns you 1 more point.",
		"You're doing great, {name} — {points} points so far. {tier} members get early access to our seasonal sales!",
	},
	IntentRecommendations: {
		"Based on your interest in {categories}, here are a few picks I think you'll love, {name}:",
		"Happy to help you shop, {name}! These are trending right now:",
		"Here are some products picked for you:",
	},
	IntentAccount: {
		"Your account is registered under {name} (code {code}). You can update your details from the profile page.",
		"Hi {name}, I can help with account questions. Your customer code is {code} — keep it handy when contacting support.",
	},
	IntentOrders: {
		"You've placed {purchases} orders with us so far, {name}. You can track any of them from the Orders page.",
		"Let me check that for you, {name}. Your order history is available under My Orders — your latest purchase was on {last_purchase}.",
		"Order questions? Head to My Orders to see live status for each purchase.",
	},
	IntentShipping: {
		"Standard shipping takes 3-5 business days. Orders over our free-shipping threshold ship free!",
		"Your items ship from our warehouse within 24 hours of payment, {name}. You'll get a tracking link by email.",
	},
	IntentReturns: {
		"No problem, {name} — items can be returned within 30 days of delivery. Start a return from the order detail page.",
		"Returns are free within 30 days. Refunds go back to your original payment method in 5-7 days.",
	},
	IntentComplaint: {
		"I'm really sorry to hear that, {name}. I've flagged this for our support team — they'll reach out within one business day.",
		"That shouldn't have happened. Thanks for telling us, {name}; a specialist will follow up with you shortly.",
	},
	IntentPricing: {
		"All prices are shown before tax; tax and shipping are added at checkout. {tier} members see their discounts applied automatically.",
		"Looking for a deal, {name}? Watch the homepage banner — we rotate discounts weekly.",
	},
	IntentGreeting: {
		"Hello {name}! How can I help you today?",
		"Hi {name}, welcome back! Ask me about orders, shipping, returns or your loyalty points.",
		"Hey there, {name}! What can I do for you?",
	},
	IntentDefault: {
		"I'm not sure I caught that, {name}. I can help with orders, shipping, returns, pricing and your account. Meanwhile, here are some picks:",
		"Hmm, let me show you a few popular products while I think about that:",
	},
}

// Responder は意図タグから応答文を選ぶ。
// randは注入式なので、テストでは固定seedで決定的にできる。
type Responder struct {
	rng *rand.Rand
}

func NewResponder(rng *rand.Rand) *Responder {
	return &Responder{rng: rng}
}

// Respond は意図のテンプレート群から一様ランダムに1つ選び、プロフィールで埋める。
// テンプレートが無い意図はdefaultにフォールバックする。
func (r *Responder) Respond(intent string, profile model.User) string {
	set, ok := templates[intent]
	if !ok || len(set) == 0 {
		set = templates[IntentDefault]
	}
	tpl := set[r.rng.Intn(len(set))]
	return interpolate(tpl, profile)
}

func interpolate(tpl string, profile model.User) string {
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = "there"
	}

	categories := "our catalog"
	if cats := profile.PreferredCategoryList(); len(cats) > 0 {
		categories = strings.Join(cats, ", ")
	}

	lastPurchase := "your last visit"
	if profile.LastPurchaseAt != nil {
		lastPurchase = profile.LastPurchaseAt.Format("2006-01-02")
	}

	return strings.NewReplacer(
		"{name}", name,
		"{points}", fmt.Sprintf("%d", profile.LoyaltyPoints),
		"{tier}", string(profile.MembershipTier),
		"{code}", profile.CustomerCode,
		"{purchases}", fmt.Sprintf("%d", profile.TotalPurchases),
		"{last_purchase}", lastPurchase,
		"{categories}", categories,
	).Replace(tpl)
}

// おすすめカードを付ける意図かどうか
func WantsRecommendations(intent string) bool {
	return intent == IntentRecommendations || intent == IntentDefault
}
