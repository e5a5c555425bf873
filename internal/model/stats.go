package model

// Statistics is the system-wide overview returned by the admin statistics
// endpoint.
type Statistics struct {
	TotalItems     int            `json:"total_items"`
	TotalStock     int            `json:"total_stock"`
	CurrentStock   int            `json:"current_stock"`
	BorrowedStock  int            `json:"borrowed_stock"`
	RequestCounts  map[string]int `json:"request_counts"`
	WeeklyTrend    []DayCount     `json:"weekly_trend"`
	CategoryCounts []CategoryStat `json:"category_stats"`
}

// DayCount is the number of requests submitted on one day.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CategoryStat aggregates item and stock counts for one category.
type CategoryStat struct {
	Category      string `json:"category"`
	ItemCount     int    `json:"item_count"`
	TotalStock    int    `json:"total_quantity"`
	CurrentStock  int    `json:"available_quantity"`
	BorrowedStock int    `json:"borrowed_quantity"`
}
