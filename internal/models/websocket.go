package models

type EventKind string

const (
	EventUserJoined     EventKind = "user_joined"
	EventUserLeft       EventKind = "user_left"
	EventWelcomeMessage EventKind = "welcome_message"
	EventNewMessage     EventKind = "new_message"
)

// ChatEvent is one outbound payload. It is built per emission and never stored.
type ChatEvent struct {
	Type           EventKind `json:"type"`
	Username       string    `json:"username,omitempty"`
	Message        string    `json:"message,omitempty"`
	Timestamp      string    `json:"timestamp"`
	OnlineUsers    []string  `json:"online_users,omitempty"`
	IsAI           bool      `json:"is_ai,omitempty"`
	IsSystem       bool      `json:"is_system,omitempty"`
	IsMovie        bool      `json:"is_movie,omitempty"`
	MovieURL       *string   `json:"movie_url,omitempty"`
	IsMention      bool      `json:"is_mention,omitempty"`
	MentionTarget  string    `json:"mention_target,omitempty"`
	MentionedUsers []string  `json:"mentioned_users,omitempty"`
}

// MovieLink returns the resolved link, or "" when the event carries none.
func (e ChatEvent) MovieLink() string {
	if e.MovieURL == nil {
		return ""
	}
	return *e.MovieURL
}

type FrameType string

const (
	FrameJoin        FrameType = "join"
	FrameSendMessage FrameType = "send_message"
	FrameLeave       FrameType = "leave"
)

// InboundFrame is what a browser sends over the socket.
type InboundFrame struct {
	Type     FrameType `json:"type"`
	Username string    `json:"username,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// Target selects who receives an event: the whole room, or one connection.
type Target struct {
	ConnID string
}

// Room addresses every joined connection.
var Room = Target{}

func To(connID string) Target {
	return Target{ConnID: connID}
}

func (t Target) IsRoom() bool {
	return t.ConnID == ""
}
