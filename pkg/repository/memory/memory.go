package memory

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = goerr.New("record not found")

// Memory is the in-memory repository backend, used for development and
// tests. All sub-repositories return deep copies so callers can never
// mutate stored state.
type Memory struct {
	counters     *counterRepository
	interactions *interactionRepository
	replies      *replyRepository
}

var _ interfaces.Repository = &Memory{}

// New creates an empty in-memory repository
func New() *Memory {
	return &Memory{
		counters:     newCounterRepository(),
		interactions: newInteractionRepository(),
		replies:      newReplyRepository(),
	}
}

func (m *Memory) Counters() interfaces.CounterRepository {
	return m.counters
}

func (m *Memory) Interactions() interfaces.InteractionRepository {
	return m.interactions
}

func (m *Memory) Replies() interfaces.ReplyRepository {
	return m.replies
}

func (m *Memory) Close() error {
	return nil
}
