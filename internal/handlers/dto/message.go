package dto

import "time"

// SendMessageRequest userId необязателен: автор берётся из токена
type SendMessageRequest struct {
	UserID  string `json:"userId"`
	Content string `json:"content"`
	RoomID  string `json:"roomId"`
}

type SendMessageResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}

// ListMessagesQuery параметры GET /api/chat/list
type ListMessagesQuery struct {
	RoomID string `form:"roomId"`
	After  string `form:"after"`
	Limit  int    `form:"limit" binding:"omitempty,min=0"`
}

type MessageItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Nickname  string    `json:"nickname"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ListMessagesResponse struct {
	Success  bool          `json:"success"`
	Messages []MessageItem `json:"messages"`
}
