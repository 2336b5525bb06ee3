package requestresponse

type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"passw0rd"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken" example:"eyJhbGciOiJIUzUxMiIs..."`
	ExpiresAt   string `json:"expiresAt" example:"2026-01-02T15:04:05Z"`
}
