// Package movie turns "@电影 <link>" into a share event pointing at the resolver page.
package movie

import (
	"fmt"
	"regexp"
	"strings"

	"jamp-chat/internal/models"
)

const DefaultResolver = "https://jx.m3u8.tv/jiexi/?url="

var linkPattern = regexp.MustCompile(`^(https?://|www\.)\S+$`)

type Handler struct {
	resolver   string
	systemName string
	agentName  string
}

func NewHandler(resolver, systemName, agentName string) *Handler {
	if strings.TrimSpace(resolver) == "" {
		resolver = DefaultResolver
	}
	return &Handler{resolver: resolver, systemName: systemName, agentName: agentName}
}

// Share never rejects a link: a malformed one only changes the caption.
// The returned event has no timestamp; the caller stamps it.
func (h *Handler) Share(sender, link string) models.ChatEvent {
	resolved := ""
	var caption string
	switch {
	case link == "":
		caption = fmt.Sprintf("请提供电影链接，格式: @%s url", h.agentName)
	case IsLink(link):
		resolved = h.Resolve(link)
		caption = fmt.Sprintf("[%s 分享了一个电影链接]", sender)
	default:
		resolved = h.Resolve(link)
		caption = fmt.Sprintf("[%s 分享了一个电影链接(请检查链接格式)]", sender)
	}

	return models.ChatEvent{
		Type:     models.EventNewMessage,
		Username: h.systemName,
		Message:  caption,
		IsSystem: true,
		IsMovie:  true,
		MovieURL: &resolved,
	}
}

func (h *Handler) Resolve(link string) string {
	return h.resolver + PercentEncode(link)
}

func IsLink(s string) bool {
	return linkPattern.MatchString(s)
}

// PercentEncode escapes every byte except ALPHA / DIGIT / "-" / "." / "_" / "~".
// Unlike url.QueryEscape it never emits '+', and unlike url.PathEscape it escapes
// reserved characters such as ':', '&' and '='.
func PercentEncode(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
		c == '-' || c == '.' || c == '_' || c == '~'
}
