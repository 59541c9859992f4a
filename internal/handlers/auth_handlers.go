package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"jamp-chat/internal/roster"
	"jamp-chat/pkg/logger"
)

// AuthHandlers gate the login page. There are no accounts: a name is accepted when it
// is not reserved, not online and within the configured length.
type AuthHandlers struct {
	roster    *roster.Roster
	validate  *validator.Validate
	botName   string
	movieName string
	minLen    int
	maxLen    int
}

type UsernameRules struct {
	BotName   string
	MovieName string
	MinLength int
	MaxLength int
}

type ValidateUsernameRequest struct {
	Username string `json:"username"`
}

type ValidateUsernameResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

func NewAuthHandlers(r *roster.Roster, rules UsernameRules) *AuthHandlers {
	return &AuthHandlers{
		roster:    r,
		validate:  validator.New(),
		botName:   rules.BotName,
		movieName: rules.MovieName,
		minLen:    rules.MinLength,
		maxLen:    rules.MaxLength,
	}
}

func (h *AuthHandlers) ValidateUsername(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ValidateUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	resp := h.check(req.Username)
	if !resp.Valid {
		logger.Debug("Rejected username %q: %s", req.Username, resp.Message)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandlers) check(name string) ValidateUsernameResponse {
	switch {
	case name == h.botName:
		return ValidateUsernameResponse{Message: "该用户名是系统机器人，不可使用"}
	case name == h.movieName:
		return ValidateUsernameResponse{Message: "该用户名是系统电影助手，不可使用"}
	case h.roster.Contains(name):
		return ValidateUsernameResponse{Message: "用户名已被使用"}
	}

	// min/max on strings count runes
	rule := fmt.Sprintf("min=%d,max=%d", h.minLen, h.maxLen)
	if strings.TrimSpace(name) == "" || h.validate.Var(name, rule) != nil {
		return ValidateUsernameResponse{Message: fmt.Sprintf("用户名长度应在%d-%d个字符之间", h.minLen, h.maxLen)}
	}
	return ValidateUsernameResponse{Valid: true}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding response: %v", err)
	}
}
