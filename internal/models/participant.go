package models

type ParticipantKind int

const (
	KindHuman ParticipantKind = iota
	KindSyntheticBot
	KindSyntheticMovieAgent
)

func (k ParticipantKind) String() string {
	switch k {
	case KindSyntheticBot:
		return "bot"
	case KindSyntheticMovieAgent:
		return "movie"
	default:
		return "human"
	}
}

func (k ParticipantKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type Participant struct {
	ConnID string          `json:"-"`
	Name   string          `json:"username"`
	Kind   ParticipantKind `json:"kind"`
}
