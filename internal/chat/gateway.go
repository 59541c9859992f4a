// Package chat is the room core: presence, message routing and the synthetic participants.
// A Gateway is not safe for concurrent use; the transport calls it from one loop.
package chat

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"

	"jamp-chat/internal/command"
	"jamp-chat/internal/database"
	"jamp-chat/internal/models"
	"jamp-chat/internal/movie"
	"jamp-chat/internal/msgcat"
	"jamp-chat/internal/responder"
	"jamp-chat/internal/roster"
	"jamp-chat/pkg/logger"
)

const timestampLayout = "15:04:05"

// Emitter delivers an event to the room or to one connection.
// Delivering to a connection that is gone is a no-op.
type Emitter interface {
	Emit(evt models.ChatEvent, to models.Target)
	// JoinRoom adds connID to the connections room events reach; LeaveRoom removes it.
	JoinRoom(connID string)
	LeaveRoom(connID string)
}

// Scheduler runs fn once after d without blocking the caller. There is no cancel.
type Scheduler interface {
	Schedule(d time.Duration, fn func())
}

type Options struct {
	Roster    *roster.Roster
	Emitter   Emitter
	Scheduler Scheduler
	Responder responder.Responder
	Movie     *movie.Handler
	Catalog   *msgcat.Catalog
	Sessions  database.SessionRepository

	BotName          string
	MovieName        string
	MaxMessageLength int
	ReplyDelay       time.Duration

	Clock func() time.Time
}

type Gateway struct {
	roster     *roster.Roster
	emitter    Emitter
	scheduler  Scheduler
	responder  responder.Responder
	movie      *movie.Handler
	catalog    *msgcat.Catalog
	sessions   *sessionLog
	dispatcher *command.Dispatcher

	botName    string
	maxLen     int
	replyDelay time.Duration
	clock      func() time.Time
}

func NewGateway(opts Options) *Gateway {
	g := &Gateway{
		roster:     opts.Roster,
		emitter:    opts.Emitter,
		scheduler:  opts.Scheduler,
		responder:  opts.Responder,
		movie:      opts.Movie,
		catalog:    opts.Catalog,
		sessions:   newSessionLog(opts.Sessions),
		dispatcher: command.NewDispatcher(opts.BotName, opts.MovieName),
		botName:    opts.BotName,
		maxLen:     opts.MaxMessageLength,
		replyDelay: opts.ReplyDelay,
		clock:      opts.Clock,
	}
	if g.clock == nil {
		g.clock = time.Now
	}
	return g
}

// Close waits for pending session writes. Call it once the transport has stopped.
func (g *Gateway) Close() {
	g.sessions.close()
}

func (g *Gateway) OnConnect(connID string) {
	logger.Info("Client connected: %s", connID)
}

func (g *Gateway) OnJoin(connID, name string) {
	if strings.TrimSpace(name) == "" || g.roster.IsReserved(connID) {
		logger.Debug("Ignoring join from %s with empty name", connID)
		return
	}

	g.roster.Join(connID, name)
	g.emitter.JoinRoom(connID)
	online := g.roster.OnlineNames()

	g.emitter.Emit(models.ChatEvent{
		Type:        models.EventUserJoined,
		Username:    name,
		Timestamp:   g.now(),
		OnlineUsers: online,
	}, models.Room)

	g.emitter.Emit(models.ChatEvent{
		Type:        models.EventWelcomeMessage,
		Message:     g.welcome(name),
		Timestamp:   g.now(),
		OnlineUsers: online,
	}, models.To(connID))

	greeting := g.responder.Greeting(name)
	g.scheduler.Schedule(g.replyDelay, func() {
		g.emitter.Emit(g.botEvent(greeting), models.To(connID))
	})

	g.sessions.open(connID, name)
	logger.Info("User joined: %s, online users: %v", name, online)
}

func (g *Gateway) OnMessage(connID, raw string) {
	name, ok := g.roster.NameOf(connID)
	if !ok {
		logger.Debug("Dropping message from %s: not joined", connID)
		return
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return
	}
	if n := utf8.RuneCountInString(text); n > g.maxLen {
		logger.Debug("Dropping message from %s: %d characters exceeds %d", name, n, g.maxLen)
		return
	}

	online := g.roster.OnlineNames()
	mentions := command.Mentions(text)
	cmd, isCommand := command.Parse(text)

	if isCommand {
		g.dispatch(name, text, cmd, online)
	} else {
		g.emitter.Emit(models.ChatEvent{
			Type:           models.EventNewMessage,
			Username:       name,
			Message:        text,
			Timestamp:      g.now(),
			MentionedUsers: lo.Filter(mentions, func(m string, _ int) bool { return lo.Contains(online, m) }),
		}, models.Room)
	}

	// "@bot question" is already answered by the directed path
	directed := isCommand && cmd.Verb == g.botName
	if lo.Contains(mentions, g.botName) && !directed {
		reply := g.responder.Mentioned(name, text)
		g.scheduler.Schedule(g.replyDelay, func() {
			g.emitter.Emit(g.botEvent(reply), models.Room)
		})
	}
}

func (g *Gateway) dispatch(sender, text string, cmd command.Command, online []string) {
	route := g.dispatcher.Route(cmd, online)
	logger.Debug("Command from %s: verb=%q route=%s", sender, cmd.Verb, route)

	switch route {
	case command.RouteMovie:
		evt := g.movie.Share(sender, cmd.Argument)
		evt.Timestamp = g.now()
		g.emitter.Emit(evt, models.Room)

	case command.RouteResponder:
		reply, deferred := g.responder.Directed(sender, cmd.Argument)
		if !deferred {
			g.emitter.Emit(g.botEvent(reply), models.Room)
			return
		}
		g.scheduler.Schedule(g.replyDelay, func() {
			g.emitter.Emit(g.botEvent(reply), models.Room)
		})

	case command.RouteMention:
		g.emitter.Emit(models.ChatEvent{
			Type:          models.EventNewMessage,
			Username:      sender,
			Message:       text,
			Timestamp:     g.now(),
			IsMention:     true,
			MentionTarget: cmd.Verb,
		}, models.Room)

	default:
		g.emitter.Emit(models.ChatEvent{
			Type:      models.EventNewMessage,
			Username:  sender,
			Message:   text,
			Timestamp: g.now(),
		}, models.Room)
	}
}

// OnLeave handles an explicit leave request.
func (g *Gateway) OnLeave(connID string) {
	if name, ok := g.remove(connID); ok {
		logger.Info("User left: %s", name)
	}
}

// OnDisconnect handles a closed connection. It may arrive after OnLeave.
func (g *Gateway) OnDisconnect(connID string) {
	if name, ok := g.remove(connID); ok {
		logger.Info("User disconnected: %s", name)
	}
}

func (g *Gateway) remove(connID string) (string, bool) {
	if g.roster.IsReserved(connID) {
		return "", false
	}
	name, ok := g.roster.Leave(connID)
	if !ok {
		return "", false
	}
	g.emitter.LeaveRoom(connID)
	if f, ok := g.responder.(responder.Forgetter); ok {
		f.Forget(name)
	}
	g.emitter.Emit(models.ChatEvent{
		Type:        models.EventUserLeft,
		Username:    name,
		Timestamp:   g.now(),
		OnlineUsers: g.roster.OnlineNames(),
	}, models.Room)

	g.sessions.end(connID)
	return name, true
}

// botEvent is stamped when built, so deferred replies carry their delivery time.
func (g *Gateway) botEvent(message string) models.ChatEvent {
	return models.ChatEvent{
		Type:      models.EventNewMessage,
		Username:  g.botName,
		Message:   message,
		Timestamp: g.now(),
		IsAI:      true,
	}
}

func (g *Gateway) welcome(name string) string {
	msg, err := g.catalog.Render("chat.welcome", map[string]string{"Name": name})
	if err != nil {
		logger.Error("Error rendering welcome message: %v", err)
		return "欢迎 " + name + " 加入聊天室！"
	}
	return msg
}

func (g *Gateway) now() string {
	return g.clock().Format(timestampLayout)
}
