package api

// HistoryResponse from GET /history/{world}/{ids}.
// Multi-item requests wrap results in Items; a single-item request returns
// the item fields at the top level instead.
type HistoryResponse struct {
	ItemIDs         []int64               `json:"itemIDs"`
	Items           map[int64]HistoryItem `json:"items"`
	UnresolvedItems []int64               `json:"unresolvedItems"`

	// Single-item shape
	ItemID  *int64         `json:"itemID"`
	Entries []HistoryEntry `json:"entries"`
}

// HistoryItem is the sale history of one item on one world.
type HistoryItem struct {
	ItemID  int64          `json:"itemID"`
	Entries []HistoryEntry `json:"entries"`
}

// HistoryEntry is one completed sale.
type HistoryEntry struct {
	HQ           bool   `json:"hq"`
	PricePerUnit *int64 `json:"pricePerUnit"`
	Quantity     *int64 `json:"quantity"`
	Timestamp    int64  `json:"timestamp"`
	BuyerName    string `json:"buyerName"`
}

// VelocityResponse from GET /{world}/{id}?fields=nqSaleVelocity,hqSaleVelocity
type VelocityResponse struct {
	NQSaleVelocity *float64 `json:"nqSaleVelocity"`
	HQSaleVelocity *float64 `json:"hqSaleVelocity"`
}

// APIDataCenter from GET /data-centers
type APIDataCenter struct {
	Name   string  `json:"name"`
	Region string  `json:"region"`
	Worlds []int64 `json:"worlds"`
}

// APIWorld from GET /worlds
type APIWorld struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SearchResponse from GET /search?indexes=Item&page=N
type SearchResponse struct {
	Pagination *Pagination `json:"Pagination"`
	Results    []APIItem   `json:"Results"`
}

// Pagination describes the current page of a catalog search.
type Pagination struct {
	Page           int  `json:"Page"`
	PageNext       *int `json:"PageNext"`
	PageTotal      int  `json:"PageTotal"`
	Results        int  `json:"Results"`
	ResultsTotal   int  `json:"ResultsTotal"`
	ResultsPerPage int  `json:"ResultsPerPage"`
}

// APIItem is a catalog search result.
type APIItem struct {
	ID   int64  `json:"ID"`
	Name string `json:"Name"`
}
