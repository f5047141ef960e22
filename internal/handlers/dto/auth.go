package dto

import "time"

// AnonymousLoginRequest тело может отсутствовать целиком
type AnonymousLoginRequest struct {
	Nickname *string `json:"nickname"`
}

type UserInfo struct {
	ID          string `json:"id"`
	Nickname    string `json:"nickname"`
	IsAnonymous bool   `json:"isAnonymous"`
}

type SessionInfo struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AnonymousLoginResponse struct {
	Success bool        `json:"success"`
	User    UserInfo    `json:"user"`
	Session SessionInfo `json:"session"`
}

type VerifyResponse struct {
	Success bool     `json:"success"`
	User    UserInfo `json:"user"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type UserProfile struct {
	UserInfo
	CreatedAt      time.Time `json:"createdAt,omitzero"`
	LastActiveAt   time.Time `json:"lastActiveAt"`
	ActiveSessions int       `json:"activeSessions,omitempty"`
}

type ProfileResponse struct {
	Success bool        `json:"success"`
	User    UserProfile `json:"user"`
}
