package command

import "github.com/samber/lo"

type Route int

const (
	// RoutePlain broadcasts the text unchanged; unknown verbs degrade to this.
	RoutePlain Route = iota
	RouteMovie
	RouteResponder
	RouteMention
)

func (r Route) String() string {
	switch r {
	case RouteMovie:
		return "movie"
	case RouteResponder:
		return "responder"
	case RouteMention:
		return "mention"
	default:
		return "plain"
	}
}

// Dispatcher picks exactly one route per command. Reserved names win over online
// display names, so a human sharing a reserved name cannot be addressed with "@".
type Dispatcher struct {
	BotName   string
	MovieName string
}

func NewDispatcher(botName, movieName string) *Dispatcher {
	return &Dispatcher{BotName: botName, MovieName: movieName}
}

func (d *Dispatcher) Route(cmd Command, online []string) Route {
	switch {
	case cmd.Verb == "":
		return RoutePlain
	case cmd.Verb == d.MovieName:
		return RouteMovie
	case cmd.Verb == d.BotName:
		return RouteResponder
	case lo.Contains(online, cmd.Verb):
		return RouteMention
	default:
		return RoutePlain
	}
}
