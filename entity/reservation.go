package entity

const (
	ReservationPending  = "pending"
	ReservationApproved = "approved"
	ReservationRejected = "rejected"
)

// ValidReservationStatus reports whether s is one of the three states a
// reservation can be in.
func ValidReservationStatus(s string) bool {
	return s == ReservationPending || s == ReservationApproved || s == ReservationRejected
}

type Reservation struct {
	ID        string  `gorm:"primaryKey" json:"id"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Guests    int     `json:"guests"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Occasion  string  `json:"occasion"`
	Notes     string  `json:"notes"`
	UserEmail *string `json:"userEmail"`
	CreatedAt int64   `json:"createdAt"` // unix milliseconds
	Status    string  `json:"status"`
}
