package domain

type Pet struct {
	ID          PetID  `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	Name        string `gorm:"type:text" db:"name" json:"name"`
	Age         int    `db:"age" json:"age"`
	Description string `gorm:"type:text" db:"description" json:"description"`
	Image       string `gorm:"type:text" db:"image" json:"image,omitempty"`
	Category    string `gorm:"type:text" db:"category" json:"category,omitempty"`
	Location    string `gorm:"type:text" db:"location" json:"location,omitempty"`
	Featured    bool   `gorm:"not null;default:false" db:"featured" json:"featured"`
	New         bool   `gorm:"not null;default:false" db:"new" json:"new"`
	// OwnerID is set once at creation and never updated.
	OwnerID UserID `gorm:"column:user_id;not null;index" db:"user_id" json:"user_id"`

	// OwnerUsername is only populated by listing queries that join users.
	OwnerUsername string `gorm:"->;-:migration" db:"owner_username" json:"owner_username,omitempty"`
}

func (Pet) TableName() string { return "pets" }
