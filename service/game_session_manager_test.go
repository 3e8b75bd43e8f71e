package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/vinom-rollmaze/domain"
	"github.com/beka-birhanu/vinom-rollmaze/game"
	"github.com/beka-birhanu/vinom-rollmaze/layout"
	"github.com/beka-birhanu/vinom-rollmaze/maze"
	"github.com/beka-birhanu/vinom-rollmaze/service/i"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type managerFixture struct {
	manager     *GameSessionManager
	logger      *fakeLogger
	leaderboard *fakeLeaderboard
	publisher   *fakePublisher
	users       *fakeUserRepo
	player      uuid.UUID
}

func steppingClock(step time.Duration) func() time.Time {
	var mu sync.Mutex
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := now
		now = now.Add(step)
		return t
	}
}

func newFixture(t *testing.T, modify func(*Config)) *managerFixture {
	t.Helper()
	f := &managerFixture{
		logger:      &fakeLogger{},
		leaderboard: &fakeLeaderboard{},
		publisher:   &fakePublisher{},
		users:       newFakeUserRepo(),
		player:      uuid.New(),
	}
	require.NoError(t, f.users.Save(&dmn.User{ID: f.player, Username: "runner"}))

	c := &Config{
		Maze:        MazeSettings{Rows: 3, Columns: 3, Width: 600, Height: 600},
		Policy:      game.DefaultPolicy(),
		MazeFactory: SeededMazeFactory(21),
		UserRepo:    f.users,
		Leaderboard: f.leaderboard,
		Publisher:   f.publisher,
		Logger:      f.logger,
		Clock:       steppingClock(20 * time.Second),
	}
	if modify != nil {
		modify(c)
	}

	m, err := NewGameSessionManager(c)
	require.NoError(t, err)
	t.Cleanup(m.StopAll)
	f.manager = m
	return f
}

func TestNewGameSessionManager(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		err    error
	}{
		{"missing logger", Config{Maze: MazeSettings{Rows: 3, Columns: 3, Width: 1, Height: 1}}, ErrNilLogger},
		{"zero rows", Config{Maze: MazeSettings{Columns: 3, Width: 1, Height: 1}, Logger: &fakeLogger{}}, maze.ErrInvalidDimensions},
		{"too many columns", Config{Maze: MazeSettings{Rows: 3, Columns: maze.MaxDimension + 1, Width: 1, Height: 1}, Logger: &fakeLogger{}}, maze.ErrInvalidDimensions},
		{"empty region", Config{Maze: MazeSettings{Rows: 3, Columns: 3}, Logger: &fakeLogger{}}, layout.ErrInvalidRegion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGameSessionManager(&tt.config)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNewSession(t *testing.T) {
	f := newFixture(t, nil)

	snap, commands, err := f.manager.NewSession(context.Background(), f.player)
	require.NoError(t, err)

	assert.Equal(t, f.player, snap.PlayerID)
	assert.Equal(t, game.Playing, snap.State)
	assert.Equal(t, 3, snap.Layout.Rows)
	assert.Equal(t, 600.0, snap.Layout.Width)
	require.Len(t, commands, 2)
	assert.Equal(t, game.CommandSpawn, commands[0].Kind)
	assert.Equal(t, game.CommandGravity, commands[1].Kind)

	assert.Equal(t, 1, f.manager.Len())
	assert.Equal(t, []string{i.EventSessionStarted}, f.publisher.types())

	got, err := f.manager.Session(f.player, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.Layout, got.Layout)
}

func TestNewSessionMazeFailure(t *testing.T) {
	failure := errors.New("generator down")
	f := newFixture(t, func(c *Config) {
		c.MazeFactory = func(int, int) (maze.Openings, error) { return maze.Openings{}, failure }
	})

	_, _, err := f.manager.NewSession(context.Background(), f.player)
	assert.ErrorIs(t, err, failure)
	assert.Zero(t, f.manager.Len())
	assert.Equal(t, 1, f.logger.errorCount())
	assert.Empty(t, f.publisher.types())
}

func TestSessionOwnership(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	snap, _, err := f.manager.NewSession(ctx, f.player)
	require.NoError(t, err)

	stranger := uuid.New()
	_, err = f.manager.Session(stranger, snap.ID)
	assert.ErrorIs(t, err, ErrNotSessionOwner)
	_, _, err = f.manager.Input(ctx, stranger, snap.ID, game.Up)
	assert.ErrorIs(t, err, ErrNotSessionOwner)
	_, _, err = f.manager.Collide(ctx, stranger, snap.ID, layout.Actor, layout.Goal)
	assert.ErrorIs(t, err, ErrNotSessionOwner)
	assert.ErrorIs(t, f.manager.End(ctx, stranger, snap.ID), ErrNotSessionOwner)

	_, err = f.manager.Session(f.player, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerInput(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	snap, _, err := f.manager.NewSession(ctx, f.player)
	require.NoError(t, err)

	got, commands, err := f.manager.Input(ctx, f.player, snap.ID, game.Down)
	require.NoError(t, err)
	assert.Equal(t, game.Vector{Y: game.DefaultVelocityStep}, got.Velocity)
	assert.Equal(t, []game.Command{{Kind: game.CommandVelocity, Vector: got.Velocity}}, commands)

	_, commands, err = f.manager.Input(ctx, f.player, snap.ID, game.Direction(9))
	assert.ErrorIs(t, err, game.ErrUnknownDirection)
	assert.Empty(t, commands)
}

func TestManagerCollide(t *testing.T) {
	t.Run("win records the solve once", func(t *testing.T) {
		f := newFixture(t, nil)
		ctx := context.Background()
		snap, _, err := f.manager.NewSession(ctx, f.player)
		require.NoError(t, err)

		_, commands, err := f.manager.Collide(ctx, f.player, snap.ID, layout.Actor, layout.Wall)
		require.NoError(t, err)
		assert.Empty(t, commands)

		won, commands, err := f.manager.Collide(ctx, f.player, snap.ID, layout.Goal, layout.Actor)
		require.NoError(t, err)
		assert.Equal(t, game.Won, won.State)
		assert.Len(t, commands, 1+won.Layout.WallCount())
		assert.Equal(t, 20*time.Second, won.SolveTime())

		_, commands, err = f.manager.Collide(ctx, f.player, snap.ID, layout.Actor, layout.Goal)
		require.NoError(t, err)
		assert.Empty(t, commands)

		assert.Equal(t, 20*time.Second, f.leaderboard.best[f.player])
		user, err := f.users.ByID(f.player)
		require.NoError(t, err)
		assert.Equal(t, 1, user.Wins)
		assert.Equal(t, []string{i.EventSessionStarted, i.EventSessionWon}, f.publisher.types())
		assert.Equal(t, int64(20000), f.publisher.events[1].SolveMillis)

		_, _, err = f.manager.Input(ctx, f.player, snap.ID, game.Up)
		assert.ErrorIs(t, err, game.ErrSessionWon)
	})

	t.Run("bookkeeping failures keep the win", func(t *testing.T) {
		f := newFixture(t, func(c *Config) {
			c.Leaderboard = &fakeLeaderboard{err: errors.New("redis down")}
			c.UserRepo = newFakeUserRepo()
		})
		ctx := context.Background()
		snap, _, err := f.manager.NewSession(ctx, f.player)
		require.NoError(t, err)

		won, _, err := f.manager.Collide(ctx, f.player, snap.ID, layout.Actor, layout.Goal)
		require.NoError(t, err)
		assert.Equal(t, game.Won, won.State)
		assert.Equal(t, 2, f.logger.errorCount())
		assert.Contains(t, f.publisher.types(), i.EventSessionWon)
	})

	t.Run("cancelled request still records the win", func(t *testing.T) {
		f := newFixture(t, nil)
		snap, _, err := f.manager.NewSession(context.Background(), f.player)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err = f.manager.Collide(ctx, f.player, snap.ID, layout.Actor, layout.Goal)
		require.NoError(t, err)
		assert.Contains(t, f.publisher.types(), i.EventSessionWon)
	})
}

func TestManagerEnd(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	snap, _, err := f.manager.NewSession(ctx, f.player)
	require.NoError(t, err)

	require.NoError(t, f.manager.End(ctx, f.player, snap.ID))
	assert.Zero(t, f.manager.Len())
	assert.ErrorIs(t, f.manager.End(ctx, f.player, snap.ID), ErrSessionNotFound)
	assert.Equal(t, []string{i.EventSessionStarted, i.EventSessionEnded}, f.publisher.types())
}

func TestSessionExpiry(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.SessionTTL = 20 * time.Millisecond })
	snap, _, err := f.manager.NewSession(context.Background(), f.player)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return f.manager.Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		types := f.publisher.types()
		return len(types) == 2 && types[1] == i.EventSessionEnded
	}, time.Second, 5*time.Millisecond)

	_, err = f.manager.Session(f.player, snap.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerLeaderboard(t *testing.T) {
	f := newFixture(t, nil)
	for range 3 {
		_, err := f.leaderboard.Record(context.Background(), uuid.New(), time.Second)
		require.NoError(t, err)
	}

	entries, err := f.manager.Leaderboard(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = f.manager.Leaderboard(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	bare := newFixture(t, func(c *Config) { c.Leaderboard = nil })
	entries, err = bare.manager.Leaderboard(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
