package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-rollmaze/game"
	"github.com/beka-birhanu/vinom-rollmaze/layout"
	"github.com/beka-birhanu/vinom-rollmaze/maze"
	"github.com/beka-birhanu/vinom-rollmaze/service/i"
	"github.com/google/uuid"
)

const (
	defaultSessionTTL       = 10 * time.Minute
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
	bookkeepingTimeout      = 5 * time.Second
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotSessionOwner = errors.New("session belongs to another player")
	ErrNilLogger       = errors.New("logger is required")
)

// MazeFactory generates the openings of a rows x columns maze.
type MazeFactory func(rows, columns int) (maze.Openings, error)

// SeededMazeFactory returns a MazeFactory backed by maze.Generate. A zero seed
// gives every maze its own time-based seed.
func SeededMazeFactory(seed int64) MazeFactory {
	return func(rows, columns int) (maze.Openings, error) {
		return maze.Generate(rows, columns, maze.NewRand(seed))
	}
}

// MazeSettings describes the mazes handed out to new sessions.
type MazeSettings struct {
	Rows    int
	Columns int
	Width   float64
	Height  float64
}

type Config struct {
	Maze        MazeSettings
	Policy      game.Policy
	SessionTTL  time.Duration
	MazeFactory MazeFactory
	Emitter     layout.Emitter
	UserRepo    i.UserRepo
	Leaderboard i.Leaderboard
	Publisher   i.EventPublisher
	Logger      i.Logger
	Clock       func() time.Time
}

type sessionEntry struct {
	session *game.Session
	engine  *game.CommandBuffer
	expiry  *time.Timer

	// Serializes a session call with the drain of its commands.
	sync.Mutex
}

// GameSessionManager keeps the running sessions of every player.
type GameSessionManager struct {
	maze        MazeSettings
	policy      game.Policy
	sessionTTL  time.Duration
	mazeFactory MazeFactory
	emitter     layout.Emitter
	userRepo    i.UserRepo
	leaderboard i.Leaderboard
	publisher   i.EventPublisher
	logger      i.Logger
	clock       func() time.Time
	sessions    map[uuid.UUID]*sessionEntry
	sync.RWMutex
}

var _ i.GameSessionManager = &GameSessionManager{}

// NewGameSessionManager validates c and fills in defaults for everything
// optional. UserRepo, Leaderboard and Publisher may be nil.
func NewGameSessionManager(c *Config) (*GameSessionManager, error) {
	if c.Logger == nil {
		return nil, ErrNilLogger
	}

	emitter := c.Emitter
	if emitter == (layout.Emitter{}) {
		emitter = layout.Emitter{
			WallThickness:     layout.DefaultWallThickness,
			BoundaryThickness: layout.DefaultBoundaryThickness,
		}
	}
	if c.Maze.Rows < 1 || c.Maze.Columns < 1 || c.Maze.Rows > maze.MaxDimension || c.Maze.Columns > maze.MaxDimension {
		return nil, maze.ErrInvalidDimensions
	}
	if c.Maze.Width <= 0 || c.Maze.Height <= 0 {
		return nil, layout.ErrInvalidRegion
	}

	mazeFactory := c.MazeFactory
	if mazeFactory == nil {
		mazeFactory = SeededMazeFactory(0)
	}
	ttl := c.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	clock := c.Clock
	if clock == nil {
		clock = time.Now
	}

	return &GameSessionManager{
		maze:        c.Maze,
		policy:      c.Policy,
		sessionTTL:  ttl,
		mazeFactory: mazeFactory,
		emitter:     emitter,
		userRepo:    c.UserRepo,
		leaderboard: c.Leaderboard,
		publisher:   c.Publisher,
		logger:      c.Logger,
		clock:       clock,
		sessions:    make(map[uuid.UUID]*sessionEntry),
	}, nil
}

// NewSession implements i.GameSessionManager.
func (g *GameSessionManager) NewSession(ctx context.Context, playerID uuid.UUID) (game.Snapshot, []game.Command, error) {
	openings, err := g.mazeFactory(g.maze.Rows, g.maze.Columns)
	if err != nil {
		g.logger.Error(fmt.Sprintf("generating maze for player %s: %s", playerID, err))
		return game.Snapshot{}, nil, fmt.Errorf("generating maze: %w", err)
	}

	l, err := g.emitter.Emit(openings, g.maze.Width, g.maze.Height)
	if err != nil {
		g.logger.Error(fmt.Sprintf("emitting layout for player %s: %s", playerID, err))
		return game.Snapshot{}, nil, fmt.Errorf("emitting layout: %w", err)
	}

	entry := &sessionEntry{engine: game.NewCommandBuffer()}
	g.Lock()
	sessionID := g.newSessionID()
	entry.session, err = game.New(game.Config{
		ID:       sessionID,
		PlayerID: playerID,
		Layout:   l,
		Policy:   g.policy,
		Engine:   entry.engine,
		Clock:    g.clock,
	})
	if err != nil {
		g.Unlock()
		g.logger.Error(fmt.Sprintf("creating session for player %s: %s", playerID, err))
		return game.Snapshot{}, nil, err
	}
	entry.expiry = time.AfterFunc(g.sessionTTL, func() { g.expire(sessionID) })
	g.sessions[sessionID] = entry
	g.Unlock()

	entry.Lock()
	snap := entry.session.Snapshot()
	commands := entry.engine.Drain()
	entry.Unlock()

	g.logger.Info(fmt.Sprintf("started session %s for player %s", sessionID, playerID))
	g.publish(ctx, i.Event{Type: i.EventSessionStarted, SessionID: sessionID, PlayerID: playerID, At: snap.StartedAt})
	return snap, commands, nil
}

// Session implements i.GameSessionManager.
func (g *GameSessionManager) Session(playerID, sessionID uuid.UUID) (game.Snapshot, error) {
	entry, err := g.lookup(playerID, sessionID)
	if err != nil {
		return game.Snapshot{}, err
	}
	return entry.session.Snapshot(), nil
}

// Input implements i.GameSessionManager. The snapshot is returned even when
// the input is rejected.
func (g *GameSessionManager) Input(ctx context.Context, playerID, sessionID uuid.UUID, d game.Direction) (game.Snapshot, []game.Command, error) {
	entry, err := g.lookup(playerID, sessionID)
	if err != nil {
		return game.Snapshot{}, nil, err
	}

	entry.Lock()
	_, err = entry.session.Input(d)
	commands := entry.engine.Drain()
	entry.Unlock()

	return entry.session.Snapshot(), commands, err
}

// Collide implements i.GameSessionManager. Winning records the solve; failures
// of that bookkeeping are logged and never undo the win.
func (g *GameSessionManager) Collide(ctx context.Context, playerID, sessionID uuid.UUID, a, b layout.Kind) (game.Snapshot, []game.Command, error) {
	entry, err := g.lookup(playerID, sessionID)
	if err != nil {
		return game.Snapshot{}, nil, err
	}

	entry.Lock()
	won := entry.session.Collide(a, b)
	commands := entry.engine.Drain()
	entry.Unlock()

	snap := entry.session.Snapshot()
	if won {
		g.logger.Info(fmt.Sprintf("player %s solved session %s in %s", playerID, sessionID, snap.SolveTime()))
		g.recordWin(ctx, snap)
	}
	return snap, commands, nil
}

// End implements i.GameSessionManager.
func (g *GameSessionManager) End(ctx context.Context, playerID, sessionID uuid.UUID) error {
	if _, err := g.lookup(playerID, sessionID); err != nil {
		return err
	}
	if !g.clean(sessionID) {
		return ErrSessionNotFound
	}

	g.logger.Info(fmt.Sprintf("ended session %s", sessionID))
	g.publish(ctx, i.Event{Type: i.EventSessionEnded, SessionID: sessionID, PlayerID: playerID, At: g.clock()})
	return nil
}

// Leaderboard implements i.GameSessionManager. Limits outside [1, 100] fall
// back to 10 and 100 respectively.
func (g *GameSessionManager) Leaderboard(ctx context.Context, limit int64) ([]i.LeaderboardEntry, error) {
	if g.leaderboard == nil {
		return []i.LeaderboardEntry{}, nil
	}
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	return g.leaderboard.Top(ctx, limit)
}

// StopAll drops every session and cancels their expiry.
func (g *GameSessionManager) StopAll() {
	g.Lock()
	defer g.Unlock()

	for id, entry := range g.sessions {
		entry.expiry.Stop()
		delete(g.sessions, id)
	}
}

// Len returns the number of running sessions.
func (g *GameSessionManager) Len() int {
	g.RLock()
	defer g.RUnlock()
	return len(g.sessions)
}

func (g *GameSessionManager) lookup(playerID, sessionID uuid.UUID) (*sessionEntry, error) {
	g.RLock()
	entry, ok := g.sessions[sessionID]
	g.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if entry.session.PlayerID() != playerID {
		return nil, ErrNotSessionOwner
	}
	return entry, nil
}

// newSessionID must be called with the write lock held.
func (g *GameSessionManager) newSessionID() uuid.UUID {
	sessionID := uuid.New()
	for {
		if _, ok := g.sessions[sessionID]; !ok {
			return sessionID
		}
		sessionID = uuid.New()
	}
}

func (g *GameSessionManager) expire(sessionID uuid.UUID) {
	g.RLock()
	entry, ok := g.sessions[sessionID]
	g.RUnlock()
	if !ok || !g.clean(sessionID) {
		return
	}

	g.logger.Warning(fmt.Sprintf("session %s expired", sessionID))
	g.publish(context.Background(), i.Event{
		Type:      i.EventSessionEnded,
		SessionID: sessionID,
		PlayerID:  entry.session.PlayerID(),
		At:        g.clock(),
	})
}

// clean reports whether the session was still registered.
func (g *GameSessionManager) clean(sessionID uuid.UUID) bool {
	g.Lock()
	defer g.Unlock()

	entry, ok := g.sessions[sessionID]
	if !ok {
		return false
	}
	entry.expiry.Stop()
	delete(g.sessions, sessionID)
	return true
}

func (g *GameSessionManager) recordWin(ctx context.Context, snap game.Snapshot) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bookkeepingTimeout)
	defer cancel()

	solve := snap.SolveTime()
	if g.leaderboard != nil {
		improved, err := g.leaderboard.Record(ctx, snap.PlayerID, solve)
		switch {
		case err != nil:
			g.logger.Error(fmt.Sprintf("recording solve of player %s: %s", snap.PlayerID, err))
		case improved:
			g.logger.Info(fmt.Sprintf("new best time for player %s: %s", snap.PlayerID, solve))
		}
	}

	if g.userRepo != nil {
		if err := g.userRepo.RecordWin(snap.PlayerID); err != nil {
			g.logger.Error(fmt.Sprintf("counting win of player %s: %s", snap.PlayerID, err))
		}
	}

	g.publish(ctx, i.Event{
		Type:        i.EventSessionWon,
		SessionID:   snap.ID,
		PlayerID:    snap.PlayerID,
		At:          snap.WonAt,
		SolveMillis: solve.Milliseconds(),
	})
}

func (g *GameSessionManager) publish(ctx context.Context, e i.Event) {
	if g.publisher == nil {
		return
	}
	if err := g.publisher.Publish(ctx, e); err != nil {
		g.logger.Error(fmt.Sprintf("publishing %s for session %s: %s", e.Type, e.SessionID, err))
	}
}
