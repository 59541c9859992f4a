package handlers

import (
	"net/http"

	"jamp-chat/internal/config"
	"jamp-chat/internal/database"
	"jamp-chat/internal/models"
	"jamp-chat/internal/roster"
	"jamp-chat/pkg/logger"
)

type RoomHandlers struct {
	roster   *roster.Roster
	servers  []config.ServerEntry
	sessions database.SessionRepository
}

func NewRoomHandlers(r *roster.Roster, servers []config.ServerEntry, sessions database.SessionRepository) *RoomHandlers {
	if sessions == nil {
		sessions = database.NopSessions{}
	}
	return &RoomHandlers{roster: r, servers: servers, sessions: sessions}
}

// GetOnlineUsers lists everyone the room shows as online, synthetic participants included.
func (h *RoomHandlers) GetOnlineUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	online := h.roster.OnlineNames()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"online_users": online,
		"count":        len(online),
		"human_count":  h.roster.HumanCount(),
		"participants": h.roster.Participants(),
	})
}

func (h *RoomHandlers) ListServers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	servers := h.servers
	if servers == nil {
		servers = []config.ServerEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"servers": servers})
}

// GetActiveSessions lists the open rows of the presence log, oldest first.
func (h *RoomHandlers) GetActiveSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessions, err := h.sessions.GetActiveSessions(r.Context())
	if err != nil {
		logger.Error("Get active sessions error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if sessions == nil {
		sessions = []*models.ActiveSession{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}
