package chat

import "storefront/internal/domain/model"

// 固定の3枚。パーソナライズはreason文の差し替えだけ。
var recommendationCatalog = []model.RecommendationCard{
	{Name: "Wireless Earbuds Pro", Category: "electronics", Price: 7900},
	{Name: "Organic Cotton Hoodie", Category: "apparel", Price: 4500},
	{Name: "Ceramic Pour-Over Set", Category: "home", Price: 3200},
}

// Recommend は3枚のおすすめカードを返す。
// 商品カテゴリが好みのカテゴリに入っていればreasonを置き換える。
func Recommend(profile model.User) []model.RecommendationCard {
	preferred := map[string]bool{}
	for _, c := range profile.PreferredCategoryList() {
		preferred[c] = true
	}

	cards := make([]model.RecommendationCard, 0, len(recommendationCatalog))
	for _, c := range recommendationCatalog {
		card := c
		if preferred[card.Category] {
			card.Reason = "Because you like " + card.Category
		} else {
			card.Reason = "Popular with our customers"
		}
		cards = append(cards, card)
	}
	return cards
}
