package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Counters() CounterRepository
	Interactions() InteractionRepository
	Replies() ReplyRepository

	Close() error
}
