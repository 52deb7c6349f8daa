package user

// User is a customer account as the business API reports it.
type User struct {
	ID       string `json:"_id"`      // ID пользователя
	Username string `json:"username"` // Имя пользователя
	Email    string `json:"email"`    // Электронная почта
	Address  string `json:"address"`  // Адрес доставки
	Contact  string `json:"contact"`  // Контактный номер
}
