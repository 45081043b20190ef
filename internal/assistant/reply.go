// Package assistant builds the canned replies of the /ai command.
// Replies depend only on the input text and the given products, never on
// time or randomness, so the same request always gets the same answer.
package assistant

import (
	"fmt"
	"strings"

	"tgshop/internal/domain/model"
)

const (
	UsageHint    = "Write what you are looking for, e.g. /ai recommend a gift"
	EmptyCatalog = "The catalog is empty for now, come back later."
	CatalogHint  = "Use /catalog to see all products, then /buy <SKU> to order."
)

var recommendKeywords = []string{
	"recommend", "advice", "advise", "suggest", "gift", "what to buy",
	"посовет", "подоб", "рекоменд", "подар", "что купить",
}

var catalogKeywords = []string{"catalog", "products", "каталог", "товары"}

// Reply returns the answer for text. products are the candidates offered
// when the text asks for a recommendation, in the order given.
func Reply(text string, products []model.Product) string {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return UsageHint
	}

	if containsAny(q, recommendKeywords) {
		if len(products) == 0 {
			return EmptyCatalog
		}
		var b strings.Builder
		b.WriteString("Here is what I can suggest:\n")
		for _, p := range products {
			fmt.Fprintf(&b, "- %s (%s) — %s\n", p.Title, p.SKU, p.Price.StringFixed(2))
		}
		fmt.Fprintf(&b, "To buy: /buy %s", products[0].SKU)
		return b.String()
	}

	if containsAny(q, catalogKeywords) {
		return CatalogHint
	}

	return fmt.Sprintf("I am a simple shop assistant and cannot answer %q yet. "+
		"Try /ai recommend a gift or /catalog.", strings.TrimSpace(text))
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
