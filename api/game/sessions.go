package gameapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/beka-birhanu/vinom-rollmaze/api/identity"
	"github.com/beka-birhanu/vinom-rollmaze/game"
	"github.com/beka-birhanu/vinom-rollmaze/layout"
	"github.com/beka-birhanu/vinom-rollmaze/service"
	"github.com/beka-birhanu/vinom-rollmaze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionController serves maze sessions and the leaderboard.
type SessionController struct {
	sessions i.GameSessionManager
	encoder  i.Encoder
}

// NewSessionController initializes a SessionController. The encoder is
// optional; without it every response is JSON.
func NewSessionController(gsm i.GameSessionManager, enc i.Encoder) (*SessionController, error) {
	if gsm == nil {
		return nil, errors.New("game session manager is required")
	}
	return &SessionController{
		sessions: gsm,
		encoder:  enc,
	}, nil
}

// RegisterPublic registers public routes.
func (sc *SessionController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/leaderboard", sc.leaderboard)
}

// RegisterProtected registers protected routes.
func (sc *SessionController) RegisterProtected(route *gin.RouterGroup) {
	sessions := route.Group("/sessions")
	{
		sessions.POST("", sc.create)
		sessions.GET("/:ID", sc.session)
		sessions.GET("/:ID/layout", sc.layout)
		sessions.POST("/:ID/input", sc.input)
		sessions.POST("/:ID/collision", sc.collision)
		sessions.DELETE("/:ID", sc.end)
	}
}

func (sc *SessionController) create(ctx *gin.Context) {
	playerID, ok := identity.PlayerID(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	snap, commands, err := sc.sessions.NewSession(ctx.Request.Context(), playerID)
	if err != nil {
		sc.fail(ctx, err)
		return
	}
	sc.update(ctx, http.StatusCreated, snap, commands)
}

func (sc *SessionController) session(ctx *gin.Context) {
	playerID, sessionID, ok := sc.ids(ctx)
	if !ok {
		return
	}

	snap, err := sc.sessions.Session(playerID, sessionID)
	if err != nil {
		sc.fail(ctx, err)
		return
	}
	sc.update(ctx, http.StatusOK, snap, nil)
}

func (sc *SessionController) layout(ctx *gin.Context) {
	playerID, sessionID, ok := sc.ids(ctx)
	if !ok {
		return
	}

	snap, err := sc.sessions.Session(playerID, sessionID)
	if err != nil {
		sc.fail(ctx, err)
		return
	}

	if sc.wantsEncoded(ctx) {
		b, err := sc.encoder.MarshalLayout(snap.Layout)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while encoding layout"})
			return
		}
		ctx.Data(http.StatusOK, sc.encoder.ContentType(), b)
		return
	}
	ctx.JSON(http.StatusOK, snap.Layout)
}

func (sc *SessionController) input(ctx *gin.Context) {
	playerID, sessionID, ok := sc.ids(ctx)
	if !ok {
		return
	}

	var request InputRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	direction, err := game.ParseDirection(request.Direction)
	if err != nil {
		sc.fail(ctx, err)
		return
	}

	snap, commands, err := sc.sessions.Input(ctx.Request.Context(), playerID, sessionID, direction)
	if err != nil {
		sc.fail(ctx, err)
		return
	}
	sc.update(ctx, http.StatusOK, snap, commands)
}

func (sc *SessionController) collision(ctx *gin.Context) {
	playerID, sessionID, ok := sc.ids(ctx)
	if !ok {
		return
	}

	var request CollisionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := layout.ParseKind(request.A)
	if err != nil {
		sc.fail(ctx, err)
		return
	}
	b, err := layout.ParseKind(request.B)
	if err != nil {
		sc.fail(ctx, err)
		return
	}

	snap, commands, err := sc.sessions.Collide(ctx.Request.Context(), playerID, sessionID, a, b)
	if err != nil {
		sc.fail(ctx, err)
		return
	}
	sc.update(ctx, http.StatusOK, snap, commands)
}

func (sc *SessionController) end(ctx *gin.Context) {
	playerID, sessionID, ok := sc.ids(ctx)
	if !ok {
		return
	}

	if err := sc.sessions.End(ctx.Request.Context(), playerID, sessionID); err != nil {
		sc.fail(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (sc *SessionController) leaderboard(ctx *gin.Context) {
	var limit int64
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	entries, err := sc.sessions.Leaderboard(ctx.Request.Context(), limit)
	if err != nil {
		sc.fail(ctx, err)
		return
	}

	response := LeaderboardResponse{Entries: make([]LeaderboardEntry, 0, len(entries))}
	for n, e := range entries {
		response.Entries = append(response.Entries, LeaderboardEntry{
			Rank:        n + 1,
			PlayerID:    e.PlayerID.String(),
			SolveMillis: e.SolveMillis,
		})
	}
	ctx.JSON(http.StatusOK, response)
}

// ids reads the authenticated player and the session path parameter. It
// writes the error response itself when either is missing.
func (sc *SessionController) ids(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	playerID, ok := identity.PlayerID(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	sessionID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return uuid.Nil, uuid.Nil, false
	}
	return playerID, sessionID, true
}

func (sc *SessionController) wantsEncoded(ctx *gin.Context) bool {
	return sc.encoder != nil && ctx.GetHeader("Accept") == sc.encoder.ContentType()
}

func (sc *SessionController) update(ctx *gin.Context, status int, snap game.Snapshot, commands []game.Command) {
	if commands == nil {
		commands = []game.Command{}
	}

	if sc.wantsEncoded(ctx) {
		b, err := sc.encoder.MarshalUpdate(snap, commands)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while encoding session"})
			return
		}
		ctx.Data(status, sc.encoder.ContentType(), b)
		return
	}
	ctx.JSON(status, SessionResponse{Session: snap, Commands: commands})
}

func (sc *SessionController) fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotSessionOwner):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrSessionWon):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrUnknownDirection), errors.Is(err, layout.ErrUnknownKind):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
