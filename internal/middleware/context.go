package middleware

type contextKey string

const (
	requestIDKey contextKey = "requestID"
	userKey      contextKey = "user"
	tokenKey     contextKey = "token"
)
