package usecase

import (
	"time"

	"github.com/secmon-lab/phantom/pkg/domain/interfaces"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/service/composer"
	"github.com/secmon-lab/phantom/pkg/service/media"
	"github.com/secmon-lab/phantom/pkg/service/memoryindex"
	"github.com/secmon-lab/phantom/pkg/service/notify"
	"github.com/secmon-lab/phantom/pkg/service/trend"
	"github.com/secmon-lab/phantom/pkg/service/twitter"
)

// Behavior are the per-run flags read once at tick start
type Behavior struct {
	ForcePost  bool
	ForceVideo bool
	RunCleanup bool
}

// UseCases wires the services into the tick, reply, and sweep workflows
type UseCases struct {
	repo      interfaces.Repository
	trends    trend.Service
	composer  composer.Service
	publisher twitter.Service
	media     media.Service
	memory    *memoryindex.Index
	notifier  notify.Service

	limits    model.Limits
	retention model.RetentionPolicy
	behavior  Behavior
	location  *time.Location
	backoff   time.Duration

	// now is replaceable in tests
	now func() time.Time
}

// Option is a functional option for UseCases configuration
type Option func(*UseCases)

// WithTrends sets the trend aggregator
func WithTrends(svc trend.Service) Option {
	return func(uc *UseCases) {
		uc.trends = svc
	}
}

// WithComposer sets the LLM composer
func WithComposer(svc composer.Service) Option {
	return func(uc *UseCases) {
		uc.composer = svc
	}
}

// WithPublisher sets the X API client
func WithPublisher(svc twitter.Service) Option {
	return func(uc *UseCases) {
		uc.publisher = svc
	}
}

// WithMedia sets the media source
func WithMedia(svc media.Service) Option {
	return func(uc *UseCases) {
		uc.media = svc
	}
}

// WithNotifier sets the tick-outcome notifier
func WithNotifier(svc notify.Service) Option {
	return func(uc *UseCases) {
		uc.notifier = svc
	}
}

// WithLimits overrides the default quota limits
func WithLimits(limits model.Limits) Option {
	return func(uc *UseCases) {
		uc.limits = limits
	}
}

// WithRetention overrides the default retention policy
func WithRetention(policy model.RetentionPolicy) Option {
	return func(uc *UseCases) {
		uc.retention = policy
	}
}

// WithBehavior sets the per-run flags
func WithBehavior(behavior Behavior) Option {
	return func(uc *UseCases) {
		uc.behavior = behavior
	}
}

// WithLocation sets the timezone used for date keys and hour-of-day checks
func WithLocation(loc *time.Location) Option {
	return func(uc *UseCases) {
		uc.location = loc
	}
}

// WithClock overrides the time source, used in tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

// WithPublishBackoff overrides the initial retry backoff for publishing
func WithPublishBackoff(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.backoff = d
	}
}

// New creates the use case layer. The repository is required; services left
// unset degrade the workflows that need them (no trends, no media, no
// notification) rather than failing construction.
func New(repo interfaces.Repository, embedder memoryindex.Embedder, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:      repo,
		memory:    memoryindex.New(repo.Interactions(), repo.Replies(), embedder),
		notifier:  notify.Nop{},
		limits:    model.DefaultLimits(),
		retention: model.DefaultRetentionPolicy(),
		behavior:  Behavior{RunCleanup: true},
		location:  time.UTC,
		backoff:   publishBackoff,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Memory exposes the memory index, used by the CLI for diagnostics
func (uc *UseCases) Memory() *memoryindex.Index {
	return uc.memory
}
