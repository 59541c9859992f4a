package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"

	"jamp-chat/internal/chat"
	"jamp-chat/internal/config"
	"jamp-chat/internal/database"
	"jamp-chat/internal/handlers"
	"jamp-chat/internal/movie"
	"jamp-chat/internal/msgcat"
	"jamp-chat/internal/responder"
	"jamp-chat/internal/roster"
	"jamp-chat/internal/websocket"
	"jamp-chat/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: %v", err)
	}
	// rebuilt so LOG_LEVEL / LOG_FORMAT from .env apply
	logger.SetGlobal(logger.New())
	defer logger.GlobalLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := openSessions(ctx, cfg.Database.URL)
	defer sessions.Close()

	catalog, err := msgcat.New(cfg.Chat.RepliesDir)
	if err != nil {
		logger.Fatal("Failed to load reply catalog: %v", err)
	}

	names := responder.Names{Bot: cfg.Chat.BotName, Movie: cfg.Chat.MovieName}
	bot, err := responder.New(cfg.Chat.ResponderMode, catalog, names, responder.RandomPicker, time.Now)
	if err != nil {
		logger.Fatal("Failed to build responder: %v", err)
	}

	room := roster.New(cfg.Chat.BotName, cfg.Chat.MovieName)
	hub := websocket.NewHub()
	gateway := chat.NewGateway(chat.Options{
		Roster:           room,
		Emitter:          hub,
		Scheduler:        hub,
		Responder:        bot,
		Movie:            movie.NewHandler(cfg.Chat.MovieResolverURL, cfg.Chat.SystemName, cfg.Chat.MovieName),
		Catalog:          catalog,
		Sessions:         sessions,
		BotName:          cfg.Chat.BotName,
		MovieName:        cfg.Chat.MovieName,
		MaxMessageLength: cfg.Chat.MaxMessageLength,
		ReplyDelay:       cfg.Chat.ReplyDelay,
	})
	hub.Attach(gateway)
	go hub.Run(ctx)

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(room, handlers.UsernameRules{
		BotName:   cfg.Chat.BotName,
		MovieName: cfg.Chat.MovieName,
		MinLength: cfg.Chat.UsernameMinLength,
		MaxLength: cfg.Chat.UsernameMaxLength,
	})
	roomHandlers := handlers.NewRoomHandlers(room, cfg.Servers, sessions)
	wsHandlers := handlers.NewWebSocketHandlers(hub, websocket.ClientOptions{
		SendBuffer:   cfg.Transport.SendBuffer,
		MessageRate:  cfg.Transport.MessageRate,
		MessageBurst: cfg.Transport.MessageBurst,
	})

	// Setup routes
	mux := http.NewServeMux()
	setupRoutes(mux, authHandlers, roomHandlers, wsHandlers)

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      corsMiddleware(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	logger.Info("🚀 Server started on http://localhost%s", cfg.Server.Port)
	logger.Info("📡 WebSocket endpoint: ws://localhost%s/ws", cfg.Server.Port)
	logger.Info("🤖 Responder mode: %s", cfg.Chat.ResponderMode)
	printAPIEndpoints()

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	<-ctx.Done()
	logger.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error: %v", err)
	}
	<-hub.Done()
	gateway.Close()
}

// openSessions connects the presence log when DATABASE_URL is set. Rows left open by an
// unclean exit are closed, since nobody can be connected to a fresh process.
func openSessions(ctx context.Context, url string) database.SessionRepository {
	if url == "" {
		logger.Info("DATABASE_URL not set, presence sessions are not recorded")
		return database.NopSessions{}
	}

	db, err := database.NewPostgresDB(ctx, url)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	closed, err := db.CloseAllActiveSessions(ctx)
	if err != nil {
		logger.Fatal("Failed to reset presence sessions: %v", err)
	}
	if closed > 0 {
		logger.Warn("Closed %d stale presence sessions", closed)
	}
	return db
}

func setupRoutes(mux *http.ServeMux, authHandlers *handlers.AuthHandlers, roomHandlers *handlers.RoomHandlers, wsHandlers *handlers.WebSocketHandlers) {
	mux.HandleFunc("/api/validate_username", authHandlers.ValidateUsername)
	mux.HandleFunc("/api/online_users", roomHandlers.GetOnlineUsers)
	mux.HandleFunc("/api/servers", roomHandlers.ListServers)
	mux.HandleFunc("/api/sessions", roomHandlers.GetActiveSessions)

	// WebSocket route
	mux.HandleFunc("/ws", wsHandlers.HandleWebSocket)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func printAPIEndpoints() {
	logger.Info("🔗 API endpoints:")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Method", "Path", "Purpose"})
	table.Append([]string{"POST", "/api/validate_username", "check a name before joining"})
	table.Append([]string{"GET", "/api/online_users", "current online list"})
	table.Append([]string{"GET", "/api/servers", "servers offered on the login page"})
	table.Append([]string{"GET", "/api/sessions", "open presence-log sessions"})
	table.Append([]string{"GET", "/ws", "chat websocket"})
	table.Render()
}
