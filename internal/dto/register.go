package dto

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Address   string `json:"address"`
	Cep       string `json:"cep"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	BirthDate string `json:"birthDate"`
}

type RegisterResponse struct {
	UserID  int64  `json:"userId"`
	Message string `json:"message"`
}
