package recommend

import "strings"

type QueryType string

const (
	QueryTypeGeneral     QueryType = "general"
	QueryTypeSearch      QueryType = "search"
	QueryTypePrice       QueryType = "price"
	QueryTypeComposition QueryType = "composition"
)

var (
	priceKeywords = []string{
		"price", "cost", "cheap", "expensive", "budget", "affordable",
		"savings", "compare price", "cheaper", "costlier",
	}

	compositionKeywords = []string{
		"composition", "salt", "ingredient", "contains",
		"active ingredient", "chemical", "formula",
	}

	searchKeywords = []string{
		"condition", "disease", "symptom", "treatment", "cure",
		"for", "help with", "treat",
	}
)

// DetectQueryType picks the answer style for a free-text query. Price and
// composition keywords win over the generic search ones.
func DetectQueryType(query string) QueryType {
	query = strings.ToLower(query)

	for _, keyword := range priceKeywords {
		if strings.Contains(query, keyword) {
			return QueryTypePrice
		}
	}

	for _, keyword := range compositionKeywords {
		if strings.Contains(query, keyword) {
			return QueryTypeComposition
		}
	}

	for _, keyword := range searchKeywords {
		if strings.Contains(query, keyword) {
			return QueryTypeSearch
		}
	}

	return QueryTypeGeneral
}
