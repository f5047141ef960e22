package dto

import "time"

type CreateRoomRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     *string `json:"description"`
	IsPrivate       bool    `json:"isPrivate"`
	MaxParticipants int     `json:"maxParticipants"`
}

type RoomInfo struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	IsPrivate       bool      `json:"isPrivate"`
	MaxParticipants int       `json:"maxParticipants"`
	CreatedBy       *string   `json:"createdBy,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type RoomResponse struct {
	Success bool     `json:"success"`
	Room    RoomInfo `json:"room"`
}

type MemberInfo struct {
	UserID   string    `json:"userId"`
	Nickname string    `json:"nickname"`
	JoinedAt time.Time `json:"joinedAt"`
}

type MembersResponse struct {
	Success bool         `json:"success"`
	Members []MemberInfo `json:"members"`
}

type StatusResponse struct {
	Success bool `json:"success"`
}

type RoomsResponse struct {
	Success bool       `json:"success"`
	Rooms   []RoomInfo `json:"rooms"`
}
