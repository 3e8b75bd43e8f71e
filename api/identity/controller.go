package identity

import (
	"errors"
	"net/http"

	dmn "github.com/beka-birhanu/vinom-rollmaze/domain"
	"github.com/beka-birhanu/vinom-rollmaze/service"
	"github.com/beka-birhanu/vinom-rollmaze/service/i"
	"github.com/gin-gonic/gin"
)

// IdentityServer serves player accounts: registration, login and the
// signed-in player's profile.
type IdentityServer struct {
	authService i.Authenticator
}

func NewIdentityServer(a i.Authenticator) *IdentityServer {
	return &IdentityServer{authService: a}
}

// RegisterPublic registers public routes.
func (c *IdentityServer) RegisterPublic(route *gin.RouterGroup) {
	auth := route.Group("/auth")
	{
		auth.POST("/register", c.register)
		auth.POST("/login", c.login)
	}
}

// RegisterProtected registers privileged routes.
func (c *IdentityServer) RegisterProtected(route *gin.RouterGroup) {
	route.GET("/players/me", c.me)
}

func (c *IdentityServer) register(ctx *gin.Context) {
	var request AuthRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := c.authService.Register(request.Username, request.Password)
	switch {
	case err == nil:
		ctx.JSON(http.StatusCreated, playerResponse(player))
	case errors.Is(err, service.ErrUsernameTaken):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case isAccountRuleError(err):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while registering player"})
	}
}

func (c *IdentityServer) login(ctx *gin.Context) {
	var request AuthRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, token, err := c.authService.SignIn(request.Username, request.Password)
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, AuthResponse{Player: playerResponse(player), Token: token})
	case errors.Is(err, service.ErrInvalidCredentials):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while signing in"})
	}
}

func (c *IdentityServer) me(ctx *gin.Context) {
	playerID, ok := PlayerID(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	player, err := c.authService.Player(playerID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, playerResponse(player))
}

// isAccountRuleError reports whether err rejects the username or password.
func isAccountRuleError(err error) bool {
	for _, target := range []error{
		dmn.ErrUsernameTooShort,
		dmn.ErrUsernameTooLong,
		dmn.ErrInvalidUsernameFormat,
		dmn.ErrWeakPassword,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
