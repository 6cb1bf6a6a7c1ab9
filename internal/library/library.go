package library

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"go.uber.org/multierr"

	"github.com/desertthunder/mytunes/internal/fallback"
	"github.com/desertthunder/mytunes/internal/health"
	"github.com/desertthunder/mytunes/internal/models"
	"github.com/desertthunder/mytunes/internal/repositories"
	"github.com/desertthunder/mytunes/internal/shared"
)

// Backend is the operation set both the primary and the fallback store implement.
type Backend interface {
	Name() string

	ListSongs(ctx context.Context) ([]models.Song, error)
	SearchSongs(ctx context.Context, text string) ([]models.Song, error)
	CreateSong(ctx context.Context, song *models.Song) error
	UpdateSong(ctx context.Context, song *models.Song) error
	DeleteSong(ctx context.Context, id int64) (bool, error)

	ListPlaylists(ctx context.Context) ([]models.Playlist, error)
	CreatePlaylist(ctx context.Context, playlist *models.Playlist) error
	RenamePlaylist(ctx context.Context, playlist *models.Playlist) error
	DeletePlaylist(ctx context.Context, id int64) (bool, error)

	ListPlaylistSongs(ctx context.Context, playlistID int64) ([]models.Song, error)
	AppendEntry(ctx context.Context, playlistID, songID int64) error
	RemoveAtPosition(ctx context.Context, playlistID int64, position int) error
	Move(ctx context.Context, playlistID int64, from, to int) error
}

// initializer is implemented by backends that need schema setup before use.
type initializer interface {
	Init(ctx context.Context) error
}

// rollbacker is implemented by backends whose schema can be reverted.
type rollbacker interface {
	Rollback(ctx context.Context) error
}

var (
	_ initializer = (*repositories.Primary)(nil)
	_ rollbacker  = (*repositories.Primary)(nil)
	_ Backend     = (*repositories.Primary)(nil)
	_ Backend     = (*fallback.Store)(nil)
)

// Library dispatches operations to the primary backend or the fallback store.
type Library struct {
	primary  Backend
	fallback Backend
	health   *health.Controller
	logger   *log.Logger
}

// Options configures a [Library]. Primary may be nil, in which case every call goes to Fallback.
type Options struct {
	Primary  Backend
	Fallback Backend
	Health   *health.Controller
	Logger   *log.Logger
}

// New creates a Library from already constructed backends.
func New(opts Options) (*Library, error) {
	if opts.Fallback == nil {
		return nil, fmt.Errorf("%w: fallback backend", shared.ErrMissingArgument)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Health == nil {
		var hopts []health.Option
		if opts.Primary == nil {
			hopts = append(hopts, health.StartUnavailable(shared.ErrPrimaryDisabled))
		} else if p, ok := opts.Primary.(health.Pinger); ok {
			hopts = append(hopts, health.WithPinger(p))
		}
		opts.Health = health.NewController(hopts...)
	}

	return &Library{
		primary:  opts.Primary,
		fallback: opts.Fallback,
		health:   opts.Health,
		logger:   shared.WithLogger(opts.Logger, "component", "library"),
	}, nil
}

// Open builds a Library from configuration: the fallback store at cfg.Fallback.Path and, when a
// DSN is set, the primary. A primary that cannot be reached at startup only demotes the health
// controller; Open still succeeds.
func Open(ctx context.Context, cfg *shared.Config, logger *log.Logger) (*Library, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	store, err := fallback.Open(ctx, cfg.Fallback.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open fallback store: %w", err)
	}

	if !cfg.Primary.Enabled() {
		logger.Info("no primary configured, using fallback store", "path", cfg.Fallback.Path)
		return New(Options{Fallback: store, Logger: logger})
	}

	dialect, err := cfg.Primary.Dialect()
	if err != nil {
		store.Close()
		return nil, err
	}

	db, err := shared.OpenPrimary(dialect, cfg.Primary.DSN)
	if err != nil {
		store.Close()
		return nil, err
	}
	shared.ConfigureDatabase(db, dialect, cfg.Primary.MaxOpenConns, cfg.Primary.MaxIdleConns)

	primary := repositories.NewPrimary(db, dialect)
	controller := health.NewController(
		health.WithPinger(primary),
		health.WithOnChange(logTransition(logger)),
	)

	if err := primary.Init(ctx); err != nil {
		controller.MarkUnavailable(err)
	}

	return New(Options{Primary: primary, Fallback: store, Health: controller, Logger: logger})
}

func logTransition(logger *log.Logger) func(health.Status) {
	return func(s health.Status) {
		if s.State == health.Unavailable {
			logger.Warn("primary backend unavailable", "cause", s.Cause, "since", s.Since)
			return
		}
		logger.Info("primary backend available", "since", s.Since)
	}
}

// Health reports the primary backend's state.
func (l *Library) Health() health.Status {
	return l.health.Status()
}

// Backend names the backend the next call will use.
func (l *Library) Backend() string {
	if l.primary != nil && l.health.Available() {
		return l.primary.Name()
	}
	return l.fallback.Name()
}

// RecheckPrimary probes the primary and, if it answers, makes it available again.
func (l *Library) RecheckPrimary(ctx context.Context) error {
	if l.primary == nil {
		return shared.ErrPrimaryDisabled
	}
	if in, ok := l.primary.(initializer); ok {
		if err := in.Init(ctx); err != nil {
			l.health.MarkUnavailable(err)
			return err
		}
	}
	return l.health.Recheck(ctx)
}

// RollbackPrimary reverts the primary's latest schema migration. The primary stays unavailable
// until [Library.RecheckPrimary] migrates it again.
func (l *Library) RollbackPrimary(ctx context.Context) error {
	rb, ok := l.primary.(rollbacker)
	if !ok {
		return shared.ErrPrimaryDisabled
	}
	if err := rb.Rollback(ctx); err != nil {
		return err
	}
	l.health.MarkUnavailable(fmt.Errorf("%w: schema rolled back", shared.ErrPrimaryDisabled))
	return nil
}

// ResetPrimary marks the primary available without checking it.
func (l *Library) ResetPrimary() {
	if l.primary != nil {
		l.health.Reset()
	}
}

// Close releases both backends.
func (l *Library) Close() error {
	var err error
	for _, b := range []Backend{l.primary, l.fallback} {
		if c, ok := b.(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
	}
	return err
}

// call runs fn against the primary when it is available, failing over to the fallback on
// [shared.ErrBackendUnreachable].
func call[T any](l *Library, op string, fn func(b Backend) (T, error)) (T, error) {
	if l.primary == nil || !l.health.Available() {
		return fn(l.fallback)
	}

	v, err := fn(l.primary)
	if !errors.Is(err, shared.ErrBackendUnreachable) {
		return v, err
	}

	id := shared.GenerateID()
	l.health.MarkUnavailable(err)
	l.logger.Warn("primary unreachable, retrying on fallback", "op", op, "correlation_id", id, "error", err)

	v, ferr := fn(l.fallback)
	if ferr != nil {
		l.logger.Error("fallback failed", "op", op, "correlation_id", id, "error", ferr)
		var zero T
		return zero, multierr.Combine(err, ferr)
	}
	return v, nil
}

// exec is [call] for operations without a result.
func exec(l *Library, op string, fn func(b Backend) error) error {
	_, err := call(l, op, func(b Backend) (struct{}, error) {
		return struct{}{}, fn(b)
	})
	return err
}
