package models

// TokenPair пара подписанных токенов, выдаваемая при регистрации, логине и обновлении.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// WelcomeEvent событие о новой регистрации, публикуемое в очередь уведомлений.
type WelcomeEvent struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}
