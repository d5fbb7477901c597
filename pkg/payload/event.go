package payload

import (
	"strconv"
	"time"

	"github.com/oneconcern/deduplab/internal/rand"
	"github.com/oneconcern/deduplab/pkg/model"
)

var eventTypes = []string{
	"PushEvent", "PullRequestEvent", "IssuesEvent",
	"CreateEvent", "DeleteEvent", "WatchEvent",
}

// events are backdated by up to 30 days
const eventMaxAgeHours = 720

type event struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	Actor     eventActor   `json:"actor"`
	Repo      eventRepo    `json:"repo"`
	CreatedAt string       `json:"created_at"`
	Payload   eventPayload `json:"payload"`
}

type eventActor struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
}

type eventRepo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type eventPayload struct {
	Size         int `json:"size"`
	DistinctSize int `json:"distinct_size"`
}

type eventGenerator struct {
	now func() time.Time
}

func (g *eventGenerator) Type() model.PayloadType {
	return model.PayloadEvent
}

func (g *eventGenerator) Generate(src *rand.Source) ([]byte, error) {
	ev := event{
		ID:   strconv.FormatInt(src.Int63Range(1_000_000_000, 10_000_000_000), 10),
		Type: src.Choice(eventTypes),
		Actor: eventActor{
			ID:    src.IntRange(1, 100000),
			Login: "user" + strconv.Itoa(src.IntRange(1, 1000)),
		},
		Repo: eventRepo{
			ID:   src.IntRange(1, 500000),
			Name: "org/repo-" + strconv.Itoa(src.IntRange(1, 100)),
		},
		CreatedAt: formatTimestamp(g.now().Add(-time.Duration(src.IntRange(0, eventMaxAgeHours)) * time.Hour)),
		Payload: eventPayload{
			Size:         src.IntRange(1, 50),
			DistinctSize: src.IntRange(1, 50),
		},
	}
	return model.JSON().Marshal(ev)
}
