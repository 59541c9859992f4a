// Package roster tracks which connection is bound to which display name in the room.
package roster

import (
	"sync"

	"github.com/samber/lo"

	"jamp-chat/internal/models"
)

// Reserved connection ids of the synthetic participants. They never map to a socket.
const (
	BotConnID   = "bot_assistant"
	MovieConnID = "bot_movie"
)

type Roster struct {
	mu        sync.RWMutex
	synthetic []models.Participant
	humans    map[string]models.Participant
	order     []string // human conn ids in join order
}

func New(botName, movieName string) *Roster {
	return &Roster{
		synthetic: []models.Participant{
			{ConnID: BotConnID, Name: botName, Kind: models.KindSyntheticBot},
			{ConnID: MovieConnID, Name: movieName, Kind: models.KindSyntheticMovieAgent},
		},
		humans: make(map[string]models.Participant),
	}
}

// IsReserved reports whether connID belongs to a synthetic participant.
func (r *Roster) IsReserved(connID string) bool {
	return lo.ContainsBy(r.synthetic, func(p models.Participant) bool { return p.ConnID == connID })
}

// Join binds connID to name, overwriting any earlier binding for the same connection.
// Names are stored as given; uniqueness is checked before a client ever joins.
func (r *Roster) Join(connID, name string) {
	if connID == "" || r.IsReserved(connID) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.humans[connID]; !ok {
		r.order = append(r.order, connID)
	}
	r.humans[connID] = models.Participant{ConnID: connID, Name: name, Kind: models.KindHuman}
}

// Leave drops connID and returns the name it carried. Unknown and reserved ids report false.
func (r *Roster) Leave(connID string) (string, bool) {
	if r.IsReserved(connID) {
		return "", false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.humans[connID]
	if !ok {
		return "", false
	}
	delete(r.humans, connID)
	r.order = lo.Without(r.order, connID)
	return p.Name, true
}

func (r *Roster) NameOf(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.humans[connID]
	return p.Name, ok
}

// Participants returns synthetic participants followed by humans in join order.
func (r *Roster) Participants() []models.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(append([]models.Participant{}, r.synthetic...), r.liveHumans()...)
}

// OnlineNames renders the display list: synthetic names first, exactly once each, then live humans.
func (r *Roster) OnlineNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return renderOnline(r.synthetic, r.liveHumans())
}

// Contains reports whether name is currently rendered in the online list.
func (r *Roster) Contains(name string) bool {
	return lo.Contains(r.OnlineNames(), name)
}

func (r *Roster) HumanCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.humans)
}

func (r *Roster) liveHumans() []models.Participant {
	return lo.Map(r.order, func(id string, _ int) models.Participant { return r.humans[id] })
}

func renderOnline(synthetic, humans []models.Participant) []string {
	reserved := lo.Map(synthetic, func(p models.Participant, _ int) string { return p.Name })
	live := lo.FilterMap(humans, func(p models.Participant, _ int) (string, bool) {
		return p.Name, !lo.Contains(reserved, p.Name)
	})
	return append(reserved, live...)
}
