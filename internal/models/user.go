package models

// User is the local mirror of an identity-provider account. Rows are created
// lazily the first time a verified token for ExternalID is seen.
type User struct {
	Base
	ExternalID string    `gorm:"uniqueIndex;not null" json:"external_id"`
	Email      string    `gorm:"not null" json:"email"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"image_url,omitempty"`
	Accounts   []Account `gorm:"foreignKey:UserID" json:"accounts,omitempty"`
	Budget     *Budget   `gorm:"foreignKey:UserID" json:"budget,omitempty"`
}
