package models

import "time"

type ActiveSession struct {
	SessionID   string    `json:"session_id"`
	Username    string    `json:"username"`
	ConnectedAt time.Time `json:"connected_at"`
}
