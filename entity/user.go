package entity

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID    string `gorm:"primaryKey" json:"id"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	// Plaintext by design of the demo; never serialized outward.
	Password  string   `json:"-"`
	Name      string   `json:"name"`
	Role      string   `gorm:"not null;default:user" json:"role"`
	Favorites []string `gorm:"serializer:json" json:"favorites,omitempty"`
	AvatarURL string   `json:"avatarUrl,omitempty"`
}
