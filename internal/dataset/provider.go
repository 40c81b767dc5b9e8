package dataset

import (
	"gorm.io/gorm"

	"github.com/tphakala/rps-results/internal/datastore/repository"
	"github.com/tphakala/rps-results/internal/errors"
	"github.com/tphakala/rps-results/internal/logger"
	"github.com/tphakala/rps-results/internal/observability/metrics"
	"github.com/tphakala/rps-results/internal/resulttypes"
)

// Provider names, used as memo and metrics labels.
const (
	ProviderStandard = "standard"
	ProviderElement  = "element"
	ProviderJoint    = "joint"
)

// Repositories are the storage reads the providers need.
type Repositories struct {
	Cache        repository.CacheRepository
	ElementCache repository.ElementCacheRepository // nil disables element datasets
	JointCache   repository.JointCacheRepository   // nil disables joint datasets
	Stories      repository.StoryRepository
	Elements     repository.ElementRepository
	ResultSets   repository.ResultSetRepository
}

// NewRepositories creates every repository on db.
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Cache:        repository.NewCacheRepository(db),
		ElementCache: repository.NewElementCacheRepository(db),
		JointCache:   repository.NewJointCacheRepository(db),
		Stories:      repository.NewStoryRepository(db),
		Elements:     repository.NewElementRepository(db),
		ResultSets:   repository.NewResultSetRepository(db),
	}
}

// Option configures a provider.
type Option func(*options)

type options struct {
	log      logger.Logger
	metrics  *metrics.ResultCacheMetrics
	memoSize int
}

// WithLogger sets the provider logger.
func WithLogger(log logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithMetrics enables provider metrics.
func WithMetrics(m *metrics.ResultCacheMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithMemoSize bounds the number of memoized datasets.
func WithMemoSize(n int) Option {
	return func(o *options) { o.memoSize = n }
}

func buildOptions(defaultSize int, opts []Option) options {
	o := options{memoSize: defaultSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.NewSlogLogger(nil, logger.LogLevelInfo, nil)
	}
	o.log = o.log.Module("dataset")
	return o
}

// storageError wraps a repository failure with the dataset key.
func storageError(err error, op string, resultSetID uint, resultType string) error {
	return errors.New(err).
		Component("dataset").
		Category(errors.CategoryDatabase).
		ResultContext(resultSetID, resultType).
		Context("operation", op).
		Build()
}

// normalizeDirection resolves a direction token ("x", "v2") for a registered
// base. ok is false when the base does not have that direction. Unregistered
// result types pass through unchanged.
func normalizeDirection(resultType, direction string) (string, bool) {
	base, known := resulttypes.ParseBase(resultType)
	if !known {
		return direction, true
	}
	dir, ok := resulttypes.ParseDirection(base, direction)
	return string(dir), ok
}
