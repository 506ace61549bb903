package requestresponse

// ErrorResponse : единый формат ошибки API
type ErrorResponse struct {
	Error     string `json:"error" example:"Conflict"`
	Message   string `json:"message" example:"номер версии 3 уже занят"`
	Code      int    `json:"code" example:"409"`
	Retryable bool   `json:"retryable,omitempty" example:"true"`
}
