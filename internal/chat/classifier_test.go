package chat_test

import (
	"testing"

	"storefront/internal/chat"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Loyalty(t *testing.T) {
	assert.Equal(t, chat.IntentLoyalty, chat.Classify("How many loyalty points do I have?"))
	assert.Equal(t, chat.IntentLoyalty, chat.Classify("what is my membership tier"))
}

func TestClassify_Recommendations(t *testing.T) {
	assert.Equal(t, chat.IntentRecommendations, chat.Classify("Can you recommend something?"))
	assert.Equal(t, chat.IntentRecommendations, chat.Classify("what should i buy for my wife"))
}

func TestClassify_Orders(t *testing.T) {
	assert.Equal(t, chat.IntentOrders, chat.Classify("Where is my order?"))
	assert.Equal(t, chat.IntentOrders, chat.Classify("I bought a hoodie last week"))
}

func TestClassify_OrderBeatsReturn(t *testing.T) {
	//両方のキーワードを含む文は、先に評価されるordersが勝つ
	assert.Equal(t, chat.IntentOrders, chat.Classify("I want to return my order"))
}

func TestClassify_LoyaltyBeatsEverything(t *testing.T) {
	assert.Equal(t, chat.IntentLoyalty, chat.Classify("do loyalty points apply to shipping costs"))
}

func TestClassify_Shipping(t *testing.T) {
	assert.Equal(t, chat.IntentShipping, chat.Classify("when will it arrive"))
}

func TestClassify_Returns(t *testing.T) {
	assert.Equal(t, chat.IntentReturns, chat.Classify("I'd like a refund please"))
}

func TestClassify_Complaint(t *testing.T) {
	assert.Equal(t, chat.IntentComplaint, chat.Classify("the item is broken"))
	assert.Equal(t, chat.IntentComplaint, chat.Classify("this is terrible"))
}

func TestClassify_Pricing(t *testing.T) {
	assert.Equal(t, chat.IntentPricing, chat.Classify("how much is the hoodie"))
	assert.Equal(t, chat.IntentPricing, chat.Classify("any discount codes?"))
}

func TestClassify_Greeting(t *testing.T) {
	assert.Equal(t, chat.IntentGreeting, chat.Classify("Hello!"))
	assert.Equal(t, chat.IntentGreeting, chat.Classify("good morning"))
	//部分一致では挨拶にしない（"hi"を含むだけの単語）
	assert.NotEqual(t, chat.IntentGreeting, chat.Classify("shirt"))
}

func TestClassify_Default(t *testing.T) {
	assert.Equal(t, chat.IntentDefault, chat.Classify("the weather is nice today"))
	assert.Equal(t, chat.IntentDefault, chat.Classify(""))
	assert.Equal(t, chat.IntentDefault, chat.Classify("   "))
}

func TestClassify_CaseInsensitive(t *testing.T) {
	assert.Equal(t, chat.IntentLoyalty, chat.Classify("LOYALTY POINTS?"))
}
