package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"jamp-chat/pkg/logger"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Server    ServerConfig
	Chat      ChatConfig
	Database  DatabaseConfig
	Transport TransportConfig
	Servers   []ServerEntry
}

type ServerConfig struct {
	Port         string        `envconfig:"PORT" default:":5000"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	ServerList   string        `envconfig:"SERVERS" default:"本地服务器=http://localhost:5000,测试服务器=http://127.0.0.1:5000"`
}

// ChatConfig is the surface the chat core consumes.
type ChatConfig struct {
	MaxMessageLength  int           `envconfig:"MAX_MESSAGE_LENGTH" default:"500"`
	UsernameMinLength int           `envconfig:"USERNAME_MIN_LENGTH" default:"1"`
	UsernameMaxLength int           `envconfig:"USERNAME_MAX_LENGTH" default:"20"`
	BotName           string        `envconfig:"BOT_USERNAME" default:"川小农"`
	MovieName         string        `envconfig:"MOVIE_USERNAME" default:"电影"`
	SystemName        string        `envconfig:"SYSTEM_USERNAME" default:"系统"`
	ReplyDelay        time.Duration `envconfig:"REPLY_DELAY" default:"1s"`
	ResponderMode     string        `envconfig:"RESPONDER_MODE" default:"template"`
	MovieResolverURL  string        `envconfig:"MOVIE_RESOLVER_URL" default:"https://jx.m3u8.tv/jiexi/?url="`
	RepliesDir        string        `envconfig:"REPLIES_DIR"`
}

type DatabaseConfig struct {
	URL string `envconfig:"DATABASE_URL"`
}

type TransportConfig struct {
	MessageRate  float64 `envconfig:"MESSAGE_RATE" default:"5"`
	MessageBurst int     `envconfig:"MESSAGE_BURST" default:"10"`
	SendBuffer   int     `envconfig:"SEND_BUFFER" default:"256"`
}

// ServerEntry is one selectable server on the login page.
type ServerEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found or error loading .env file: %v", err)
	}

	cfg := &Config{}
	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Chat); err != nil {
		return nil, fmt.Errorf("chat config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, fmt.Errorf("database config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Transport); err != nil {
		return nil, fmt.Errorf("transport config: %w", err)
	}
	cfg.Servers = ParseServers(cfg.Server.ServerList)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	ch := c.Chat
	switch {
	case ch.MaxMessageLength <= 0:
		return fmt.Errorf("%w: MAX_MESSAGE_LENGTH must be positive", ErrInvalidConfig)
	case ch.UsernameMinLength < 1 || ch.UsernameMaxLength < ch.UsernameMinLength:
		return fmt.Errorf("%w: username length bounds [%d,%d]", ErrInvalidConfig, ch.UsernameMinLength, ch.UsernameMaxLength)
	case strings.TrimSpace(ch.BotName) == "" || strings.TrimSpace(ch.MovieName) == "":
		return fmt.Errorf("%w: reserved names must not be empty", ErrInvalidConfig)
	case ch.BotName == ch.MovieName:
		return fmt.Errorf("%w: bot and movie names must differ", ErrInvalidConfig)
	case ch.ReplyDelay < 0:
		return fmt.Errorf("%w: REPLY_DELAY must not be negative", ErrInvalidConfig)
	case ch.ResponderMode != "template" && ch.ResponderMode != "keyword":
		return fmt.Errorf("%w: RESPONDER_MODE %q (want template or keyword)", ErrInvalidConfig, ch.ResponderMode)
	}
	if c.Transport.MessageBurst < 1 || c.Transport.SendBuffer < 1 {
		return fmt.Errorf("%w: MESSAGE_BURST and SEND_BUFFER must be positive", ErrInvalidConfig)
	}
	return nil
}

// ParseServers reads "name=url,name=url". Entries without '=' use the url as name.
func ParseServers(raw string) []ServerEntry {
	var out []ServerEntry
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, url, ok := strings.Cut(part, "=")
		if !ok {
			url = name
		}
		out = append(out, ServerEntry{Name: strings.TrimSpace(name), URL: strings.TrimSpace(url)})
	}
	return out
}
