package domain

type User struct {
	ID           UserID `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	Username     string `gorm:"type:text;not null;uniqueIndex:ux_users_username" db:"username" json:"username"`
	PasswordHash string `gorm:"column:password;type:text;not null" db:"password" json:"-"`
	Email        string `gorm:"type:text;not null;uniqueIndex:ux_users_email" db:"email" json:"email"`
	IsAdmin      bool   `gorm:"not null;default:false" db:"is_admin" json:"isAdmin"`
	Address      string `gorm:"type:text" db:"address" json:"address"`
	Cep          string `gorm:"type:text" db:"cep" json:"cep"`
	Phone        string `gorm:"type:text" db:"phone" json:"phone"`
	City         string `gorm:"type:text" db:"city" json:"city"`
	BirthDate    string `gorm:"type:text" db:"birth_date" json:"birthDate"`
}

func (User) TableName() string { return "users" }
