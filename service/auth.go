package service

import (
	"errors"
	"time"

	dmn "github.com/beka-birhanu/vinom-rollmaze/domain"
	"github.com/beka-birhanu/vinom-rollmaze/service/i"
	"github.com/google/uuid"
)

const tokenTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrNilDependency      = errors.New("user repository and tokenizer are required")
)

var _ i.Authenticator = &Auth{}

type Auth struct {
	userRepo  i.UserRepo
	tokenizer i.Tokenizer
}

func NewAuthService(userRepo i.UserRepo, tokenizer i.Tokenizer) (*Auth, error) {
	if userRepo == nil || tokenizer == nil {
		return nil, ErrNilDependency
	}
	return &Auth{userRepo: userRepo, tokenizer: tokenizer}, nil
}

// Register validates the account and stores it. A username already in use is
// reported as ErrUsernameTaken; the unique index in the repository still
// guards concurrent registrations.
func (a *Auth) Register(username, password string) (*dmn.User, error) {
	user, err := dmn.NewUser(dmn.UserConfig{
		ID:            uuid.New(),
		Username:      username,
		PlainPassword: password,
	})
	if err != nil {
		return nil, err
	}

	if existing, err := a.userRepo.ByUsername(username); err == nil && existing != nil {
		return nil, ErrUsernameTaken
	}

	if err := a.userRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (a *Auth) SignIn(username, password string) (*dmn.User, string, error) {
	user, err := a.userRepo.ByUsername(username)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !user.VerifyPassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.tokenizer.Generate(map[string]interface{}{
		i.ClaimPlayerID: user.ID.String(),
		i.ClaimUsername: user.Username,
	}, tokenTTL)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (a *Auth) Player(id uuid.UUID) (*dmn.User, error) {
	user, err := a.userRepo.ByID(id)
	if err != nil {
		return nil, ErrPlayerNotFound
	}
	return user, nil
}
