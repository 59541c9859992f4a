package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"jamp-chat/internal/mocks"
	"jamp-chat/internal/models"
	"jamp-chat/internal/movie"
	"jamp-chat/internal/msgcat"
	"jamp-chat/internal/responder"
	"jamp-chat/internal/roster"
)

const (
	botName   = "川小农"
	movieName = "电影"
)

type emitted struct {
	evt models.ChatEvent
	to  models.Target
}

type recordingEmitter struct {
	events  []emitted
	members map[string]bool
}

func (r *recordingEmitter) Emit(evt models.ChatEvent, to models.Target) {
	r.events = append(r.events, emitted{evt: evt, to: to})
}

func (r *recordingEmitter) JoinRoom(connID string) {
	if r.members == nil {
		r.members = make(map[string]bool)
	}
	r.members[connID] = true
}

func (r *recordingEmitter) LeaveRoom(connID string) {
	delete(r.members, connID)
}

func (r *recordingEmitter) reset() { r.events = nil }

type pending struct {
	d  time.Duration
	fn func()
}

// manualScheduler holds deferred work until the test fires it.
type manualScheduler struct {
	queue []pending
}

func (m *manualScheduler) Schedule(d time.Duration, fn func()) {
	m.queue = append(m.queue, pending{d: d, fn: fn})
}

func (m *manualScheduler) fireAll() {
	q := m.queue
	m.queue = nil
	for _, p := range q {
		p.fn()
	}
}

type fixture struct {
	gw      *Gateway
	roster  *roster.Roster
	emitter *recordingEmitter
	sched   *manualScheduler
}

func newFixture(t *testing.T, opts ...func(*Options)) *fixture {
	t.Helper()
	cat := msgcat.MustDefault()
	names := responder.Names{Bot: botName, Movie: movieName}
	f := &fixture{
		roster:  roster.New(botName, movieName),
		emitter: &recordingEmitter{},
		sched:   &manualScheduler{},
	}
	o := Options{
		Roster:           f.roster,
		Emitter:          f.emitter,
		Scheduler:        f.sched,
		Responder:        responder.NewTemplate(cat, names, responder.PickerFunc(func(int) int { return 0 })),
		Movie:            movie.NewHandler("", "系统", movieName),
		Catalog:          cat,
		BotName:          botName,
		MovieName:        movieName,
		MaxMessageLength: 500,
		ReplyDelay:       time.Second,
		Clock:            func() time.Time { return time.Date(2026, 10, 18, 20, 15, 30, 0, time.Local) },
	}
	for _, apply := range opts {
		apply(&o)
	}
	f.gw = NewGateway(o)
	t.Cleanup(f.gw.Close)
	return f
}

func (f *fixture) join(connID, name string) {
	f.gw.OnJoin(connID, name)
	f.sched.fireAll()
	f.emitter.reset()
}

func TestGateway_JoinBroadcastsAndGreetsPrivately(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	f.gw.OnConnect("c1")
	req.Empty(f.emitter.events)

	f.gw.OnJoin("c1", "Alice")
	req.Len(f.emitter.events, 2)

	joined := f.emitter.events[0]
	req.True(joined.to.IsRoom())
	req.Equal(models.EventUserJoined, joined.evt.Type)
	req.Equal("Alice", joined.evt.Username)
	req.Equal("20:15:30", joined.evt.Timestamp)
	req.Equal([]string{botName, movieName, "Alice"}, joined.evt.OnlineUsers)

	welcome := f.emitter.events[1]
	req.Equal(models.To("c1"), welcome.to)
	req.Equal(models.EventWelcomeMessage, welcome.evt.Type)
	req.Equal("欢迎 Alice 加入聊天室！", welcome.evt.Message)

	req.Len(f.sched.queue, 1)
	req.Equal(time.Second, f.sched.queue[0].d)
	f.sched.fireAll()

	req.Len(f.emitter.events, 3)
	greeting := f.emitter.events[2]
	req.Equal(models.To("c1"), greeting.to)
	req.True(greeting.evt.IsAI)
	req.Equal(botName, greeting.evt.Username)
	req.Equal("你好 Alice！我是AI助手川小农，有什么可以帮助你的吗？", greeting.evt.Message)
}

func TestGateway_JoinWithEmptyNameIsIgnored(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	f.gw.OnJoin("c1", "")
	f.gw.OnJoin("c2", "   ")
	f.gw.OnJoin(roster.BotConnID, "Mallory")

	req.Empty(f.emitter.events)
	req.Empty(f.sched.queue)
	req.Equal([]string{botName, movieName}, f.roster.OnlineNames())
}

func TestGateway_MessageDrops(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, func(o *Options) { o.MaxMessageLength = 10 })
	f.join("c1", "Alice")
	before := f.roster.OnlineNames()

	f.gw.OnMessage("ghost", "hello")
	f.gw.OnMessage("c1", "   \n ")
	f.gw.OnMessage("c1", strings.Repeat("x", 11))
	f.gw.OnMessage("c1", strings.Repeat("影", 11))

	req.Empty(f.emitter.events)
	req.Empty(f.sched.queue)
	req.Equal(before, f.roster.OnlineNames())

	// the limit counts characters, not bytes
	f.gw.OnMessage("c1", strings.Repeat("影", 10))
	req.Len(f.emitter.events, 1)
}

func TestGateway_PlainMessageAnnotatesOnlineMentions(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.join("a", "Alice")
	f.join("b", "Bob")

	f.gw.OnMessage("a", "  hi @Bob and @Carol  ")

	req.Len(f.emitter.events, 1)
	e := f.emitter.events[0]
	req.True(e.to.IsRoom())
	req.Equal("Alice", e.evt.Username)
	req.Equal("hi @Bob and @Carol", e.evt.Message)
	req.Equal([]string{"Bob"}, e.evt.MentionedUsers)
	req.False(e.evt.IsMention)
	req.Empty(f.sched.queue)
}

func TestGateway_MentionCommandTargetsOnlineUser(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.join("a", "A")
	f.join("b", "B")

	f.gw.OnMessage("a", "@B hi")

	req.Len(f.emitter.events, 1)
	e := f.emitter.events[0]
	req.True(e.to.IsRoom())
	req.True(e.evt.IsMention)
	req.Equal("B", e.evt.MentionTarget)
	req.Equal("@B hi", e.evt.Message)
	req.Equal("A", e.evt.Username)
}

func TestGateway_UnknownCommandFallsBackToPlain(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.join("a", "Alice")

	f.gw.OnMessage("a", "@nobody hi")
	f.gw.OnMessage("a", "@")

	req.Len(f.emitter.events, 2)
	for i, text := range []string{"@nobody hi", "@"} {
		e := f.emitter.events[i].evt
		req.Equal(text, e.Message)
		req.False(e.IsMention)
		req.False(e.IsAI)
		req.Equal("Alice", e.Username)
	}
}

func TestGateway_DirectedBotQuestionIsDeferred(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.join("a", "Alice")

	f.gw.OnMessage("a", "@川小农 今天吃什么")

	req.Empty(f.emitter.events, "the question is consumed, not broadcast")
	req.Len(f.sched.queue, 1, "exactly one deferred reply")
	req.Equal(time.Second, f.sched.queue[0].d)

	f.sched.fireAll()
	req.Len(f.emitter.events, 1)
	e := f.emitter.events[0]
	req.True(e.to.IsRoom())
	req.True(e.evt.IsAI)
	req.Equal(botName, e.evt.Username)
	req.Equal("[Alice 的AI助手回复] 您好！我是川小农，很高兴为您服务。", e.evt.Message)
}

func TestGateway_DirectedBotWithoutQuestionAnswersImmediately(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.join("a", "Alice")

	f.gw.OnMessage("a", "@川小农")

	req.Empty(f.sched.queue)
	req.Len(f.emitter.events, 1)
	e := f.emitter.events[0]
	req.True(e.evt.IsAI)
	req.Equal("请输入您想咨询的问题，格式: @川小农 问题", e.evt.Message)
}

func TestGateway_BotMentionedMidMessage(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.join("a", "Alice")

	f.gw.OnMessage("a", "hello @川小农 are you there")

	req.Len(f.emitter.events, 1)
	req.Equal([]string{botName}, f.emitter.events[0].evt.MentionedUsers)
	req.Len(f.sched.queue, 1)

	f.sched.fireAll()
	req.Len(f.emitter.events, 2)
	reply := f.emitter.events[1]
	req.True(reply.to.IsRoom())
	req.True(reply.evt.IsAI)
	req.Equal("Alice，有什么我可以帮到你的吗？", reply.evt.Message)
}

func TestGateway_BotMentionedInsideOtherCommand(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.join("a", "Alice")
	f.join("b", "Bob")

	f.gw.OnMessage("a", "@Bob ask @川小农")

	req.Len(f.emitter.events, 1)
	req.True(f.emitter.events[0].evt.IsMention)
	req.Len(f.sched.queue, 1)
}

func TestGateway_MovieCommand(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.join("a", "Alice")

	f.gw.OnMessage("a", "@电影 `https://v.example.com/x?id=1`")
	f.gw.OnMessage("a", "@电影")

	req.Len(f.emitter.events, 2)
	shared := f.emitter.events[0].evt
	req.True(shared.IsMovie)
	req.True(shared.IsSystem)
	req.Equal("系统", shared.Username)
	req.Equal("[Alice 分享了一个电影链接]", shared.Message)
	req.Equal(movie.DefaultResolver+"https%3A%2F%2Fv.example.com%2Fx%3Fid%3D1", shared.MovieLink())
	req.Equal("20:15:30", shared.Timestamp)

	usage := f.emitter.events[1].evt
	req.True(usage.IsMovie)
	req.Equal("", usage.MovieLink())
	req.Empty(f.sched.queue)
}

func TestGateway_LeaveAndDisconnect(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.join("a", "Alice")
	f.join("b", "Bob")

	f.gw.OnLeave("a")
	req.Len(f.emitter.events, 1)
	left := f.emitter.events[0]
	req.True(left.to.IsRoom())
	req.Equal(models.EventUserLeft, left.evt.Type)
	req.Equal("Alice", left.evt.Username)
	req.Equal([]string{botName, movieName, "Bob"}, left.evt.OnlineUsers)

	// the socket closing afterwards must not announce twice
	f.gw.OnDisconnect("a")
	f.gw.OnDisconnect("never-joined")
	f.gw.OnDisconnect(roster.BotConnID)
	f.gw.OnDisconnect(roster.MovieConnID)
	req.Len(f.emitter.events, 1)
	req.Equal([]string{botName, movieName, "Bob"}, f.roster.OnlineNames())
}

func TestGateway_DeferredReplySurvivesSenderDisconnect(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.join("a", "Alice")
	f.join("b", "Bob")

	f.gw.OnMessage("a", "@川小农 在吗")
	f.gw.OnDisconnect("a")
	f.emitter.reset()

	f.sched.fireAll()
	req.Len(f.emitter.events, 1)
	req.True(f.emitter.events[0].to.IsRoom())
	req.True(f.emitter.events[0].evt.IsAI)
}

func TestGateway_TrafficFlowsWhileReplyPending(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.join("a", "Alice")
	f.join("b", "Bob")

	f.gw.OnMessage("a", "@川小农 问题")
	f.gw.OnMessage("b", "first")
	f.gw.OnMessage("b", "second")

	req.Len(f.emitter.events, 2)
	req.Len(f.sched.queue, 1)
	f.sched.fireAll()
	req.Len(f.emitter.events, 3)
	req.True(f.emitter.events[2].evt.IsAI)
}

func TestGateway_RecordsSessions(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionRepository(ctrl)

	gomock.InOrder(
		sessions.EXPECT().CreateActiveSession(gomock.Any(), "c1", "Alice").Return(nil),
		sessions.EXPECT().RemoveActiveSession(gomock.Any(), "c1").Return(nil),
	)

	f := newFixture(t, func(o *Options) { o.Sessions = sessions })
	f.gw.OnJoin("c1", "Alice")
	f.gw.OnMessage("c1", "hi")
	f.gw.OnDisconnect("c1")
	f.gw.OnDisconnect("c1")
}

func TestGateway_SessionErrorsAreNotFatal(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionRepository(ctrl)
	sessions.EXPECT().CreateActiveSession(gomock.Any(), gomock.Any(), gomock.Any()).Return(errTest)

	f := newFixture(t, func(o *Options) { o.Sessions = sessions })
	f.gw.OnJoin("c1", "Alice")
	req.Len(f.emitter.events, 2)
	req.True(f.roster.Contains("Alice"))
}

func TestGateway_RoomMembershipFollowsJoinAndLeave(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	f.gw.OnConnect("lurker")
	f.join("a", "Alice")
	f.join("b", "Bob")
	f.gw.OnJoin("c", "")
	req.Equal(map[string]bool{"a": true, "b": true}, f.emitter.members)

	f.gw.OnLeave("a")
	req.Equal(map[string]bool{"b": true}, f.emitter.members)
	f.gw.OnDisconnect("b")
	req.Empty(f.emitter.members)
}

func TestGateway_LeavingForgetsKeywordHistory(t *testing.T) {
	req := require.New(t)
	cat := msgcat.MustDefault()
	kw := responder.NewKeyword(cat, responder.Names{Bot: botName, Movie: movieName},
		responder.PickerFunc(func(int) int { return 0 }), nil)
	f := newFixture(t, func(o *Options) { o.Responder = kw })
	f.join("a", "Alice")

	f.gw.OnMessage("a", "@川小农 你好")
	req.Len(kw.Context().History("Alice"), 1)

	f.gw.OnLeave("a")
	req.Empty(kw.Context().History("Alice"))
}

func TestGateway_SessionCloseWaitsForOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionRepository(ctrl)
	release := make(chan struct{})

	gomock.InOrder(
		sessions.EXPECT().CreateActiveSession(gomock.Any(), "c1", "Alice").DoAndReturn(
			func(context.Context, string, string) error {
				<-release
				return nil
			}),
		sessions.EXPECT().RemoveActiveSession(gomock.Any(), "c1").Return(nil),
	)

	f := newFixture(t, func(o *Options) { o.Sessions = sessions })
	f.gw.OnJoin("c1", "Alice")
	f.gw.OnDisconnect("c1")
	// the close is queued while the open is still being written
	close(release)
	f.gw.Close()
}

type testErr string

func (e testErr) Error() string { return string(e) }

const errTest = testErr("database unavailable")
