package core

// Stats is the whole-list overview shown at the top of reports:
// counts and cost totals split by purchase state, plus the distinct
// category and store names in use.
type Stats struct {
	TotalItems       int      `json:"total_items"`
	PurchasedItems   int      `json:"purchased_items"`
	UnpurchasedItems int      `json:"unpurchased_items"`
	TotalCost        float64  `json:"total_cost"`
	PurchasedCost    float64  `json:"purchased_cost"`
	UnpurchasedCost  float64  `json:"unpurchased_cost"`
	Categories       []string `json:"categories"`
	Stores           []string `json:"stores"`
}
