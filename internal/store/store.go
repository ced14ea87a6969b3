package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"health-content-web/internal/config"
	"health-content-web/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

const slowQueryThreshold = 500 * time.Millisecond

// Store is the record-oriented persistence used by the HTTP layer, the pipeline and the stage agents.
type Store interface {
	CreateRequest(ctx context.Context, req *domain.GenerationRequest) error
	GetRequest(ctx context.Context, id string) (*domain.GenerationRequest, error)
	UpdateRequestStatus(ctx context.Context, id string, status domain.RequestStatus) error
	AttachDraft(ctx context.Context, requestID, draftID string) error
	FinishRequest(ctx context.Context, id string, status domain.RequestStatus, errMsg string) error

	CreateDraft(ctx context.Context, draft *domain.Draft, sections []domain.DraftSection) error
	GetDraft(ctx context.Context, id string) (*domain.Draft, error)
	ListDrafts(ctx context.Context, limit int) ([]domain.Draft, error)
	ListDraftTitles(ctx context.Context, limit int) ([]string, error)
	ListSections(ctx context.Context, draftID string) ([]domain.DraftSection, error)
	UpdateDraft(ctx context.Context, id string, update DraftUpdate) error

	UpsertGate(ctx context.Context, gate *domain.QualityGate) error
	ListGates(ctx context.Context, requestID string) ([]domain.QualityGate, error)

	ListCategories(ctx context.Context) ([]domain.Category, error)

	Ping(ctx context.Context) error
	Close() error
}

// DraftUpdate lists the draft fields a stage may change. Nil fields are left untouched.
type DraftUpdate struct {
	MetaDescription *string
	SEOScore        *int
	LLMScore        *int
	WorkflowStatus  *domain.WorkflowStatus
	HeroImageURL    *string
}

func (u DraftUpdate) columns() map[string]any {
	cols := make(map[string]any)
	if u.MetaDescription != nil {
		cols["meta_description"] = *u.MetaDescription
	}
	if u.SEOScore != nil {
		cols["seo_score"] = *u.SEOScore
	}
	if u.LLMScore != nil {
		cols["llm_score"] = *u.LLMScore
	}
	if u.WorkflowStatus != nil {
		cols["workflow_status"] = *u.WorkflowStatus
	}
	if u.HeroImageURL != nil {
		cols["hero_image_url"] = *u.HeroImageURL
	}
	return cols
}

// Options selects the database backing the store.
type Options struct {
	Driver      string
	DSN         string
	AutoMigrate bool
}

// OptionsFromConfig extracts the store options from the service configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Driver:      cfg.DatabaseDriver,
		DSN:         cfg.DatabaseURL,
		AutoMigrate: cfg.DatabaseAutoMigrate,
	}
}

// GormStore implements Store on top of gorm.
type GormStore struct {
	db *gorm.DB
}

// Open connects to the configured database. Tables are created only when AutoMigrate is set;
// production schemas are provisioned outside the service.
func Open(ctx context.Context, opts Options) (*GormStore, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(opts.DSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewSlogLogger(slog.Default(), logger.Config{
			SlowThreshold:             slowQueryThreshold,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			LogLevel:                  logger.Warn,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &GormStore{db: db}
	if err := s.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if opts.AutoMigrate {
		if err := s.migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return s, nil
}

func (s *GormStore) migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&domain.Category{},
		&domain.GenerationRequest{},
		&domain.Draft{},
		&domain.DraftSection{},
		&domain.QualityGate{},
	)
}

// Ping checks that the database answers.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// notFound maps gorm's missing-row error to ErrNotFound.
func notFound(err error, what, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return err
}
