package entity

type SaleItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

type Sale struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	Timestamp int64      `json:"timestamp"` // unix milliseconds
	Total     float64    `json:"total"`
	Items     []SaleItem `gorm:"serializer:json" json:"items"`
}
