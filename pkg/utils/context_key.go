package utils

type ContextKey string

const (
	UserIDKey ContextKey = "userId"
	EmailKey  ContextKey = "email"
)
