package entity

type Review struct {
	ID     string `gorm:"primaryKey" json:"id"`
	ItemID string `json:"itemId"`
	// ItemName is denormalized from the menu at creation time; "Unknown"
	// when the itemId dangles.
	ItemName     string `json:"itemName"`
	Rating       int    `json:"rating"`
	ReviewerName string `json:"reviewerName"`
	Text         string `json:"text"`
	Timestamp    int64  `json:"timestamp"` // unix milliseconds, sole ordering key
}
