package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-rollmaze/api"
	gameapi "github.com/beka-birhanu/vinom-rollmaze/api/game"
	api_i "github.com/beka-birhanu/vinom-rollmaze/api/i"
	"github.com/beka-birhanu/vinom-rollmaze/api/identity"
	"github.com/beka-birhanu/vinom-rollmaze/config"
	"github.com/beka-birhanu/vinom-rollmaze/game"
	"github.com/beka-birhanu/vinom-rollmaze/infrastruture/events"
	"github.com/beka-birhanu/vinom-rollmaze/infrastruture/leaderboard"
	logger "github.com/beka-birhanu/vinom-rollmaze/infrastruture/log"
	pb "github.com/beka-birhanu/vinom-rollmaze/infrastruture/pb_encoder"
	"github.com/beka-birhanu/vinom-rollmaze/infrastruture/repo"
	"github.com/beka-birhanu/vinom-rollmaze/infrastruture/token"
	"github.com/beka-birhanu/vinom-rollmaze/service"
	"github.com/beka-birhanu/vinom-rollmaze/service/i"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	envs               config.Config
	mongoClient        *mongo.Client
	redisClient        *redis.Client
	natsConn           *nats.Conn
	userRepo           *repo.UserRepo
	rankings           i.Leaderboard
	publisher          i.EventPublisher
	gameSessionManager *service.GameSessionManager
	sessionController  api_i.Controller
	jwtTokenizer       i.Tokenizer
	authService        i.Authenticator
	authController     api_i.Controller
	router             *api.Router
	appLogger          *logger.Logger
)

func fatal(format string, args ...any) {
	appLogger.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", envs.DBUser, envs.DBPassword, envs.DBHost, envs.DBPort)

	var err error
	mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		fatal("Failed to connect to MongoDB: %v", err)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		fatal("MongoDB ping failed: %v", err)
	}
	appLogger.Info("Connected to MongoDB")
}

func initUserRepo(ctx context.Context) {
	userRepo = repo.NewUserRepo(mongoClient, envs.DBName, "users")
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		fatal("Creating user indexes: %v", err)
	}
	appLogger.Info("User repository initialized")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     envs.RedisAddr,
		Password: envs.RedisPass,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		fatal("Redis ping failed: %v", err)
	}
	leaderboardLogger, err := logger.New("LEADERBOARD", config.ColorPurple, os.Stdout)
	if err != nil {
		fatal("Creating leaderboard logger: %v", err)
	}
	rankings = leaderboard.NewRedisLeaderboard(redisClient, "", leaderboardLogger)
	appLogger.Info("Connected to Redis")
}

func initPublisher() {
	if envs.NatsURL == "" {
		appLogger.Warning("NATS_URL not set, session events are not published")
		return
	}

	var err error
	natsConn, err = nats.Connect(envs.NatsURL, nats.Name("rollmaze-api"))
	if err != nil {
		fatal("Connecting to NATS: %v", err)
	}
	publisher = events.NewNatsPublisher(natsConn, "")
	appLogger.Info("Event publisher initialized")
}

func initSessionManager() {
	sessionLogger, err := logger.New("SESSION-MANAGER", config.ColorCyan, os.Stdout)
	if err != nil {
		fatal("Creating session manager logger: %v", err)
	}

	gameSessionManager, err = service.NewGameSessionManager(&service.Config{
		Maze: service.MazeSettings{
			Rows:    envs.Maze.Rows,
			Columns: envs.Maze.Columns,
			Width:   envs.Maze.Width,
			Height:  envs.Maze.Height,
		},
		Policy: game.Policy{
			VelocityStep:  envs.Maze.VelocityStep,
			MaxSpeed:      envs.Maze.MaxSpeed,
			WinGravity:    envs.Maze.WinGravity,
			InputAfterWin: envs.Maze.InputAfterWin,
		},
		SessionTTL:  envs.SessionTTL,
		MazeFactory: service.SeededMazeFactory(envs.Maze.Seed),
		UserRepo:    userRepo,
		Leaderboard: rankings,
		Publisher:   publisher,
		Logger:      sessionLogger,
	})
	if err != nil {
		fatal("Creating session manager: %v", err)
	}
	appLogger.Info("Session manager initialized")
}

func initSessionController() {
	var err error
	sessionController, err = gameapi.NewSessionController(gameSessionManager, &pb.Protobuf{})
	if err != nil {
		fatal("Creating session controller: %v", err)
	}
	appLogger.Info("Session controller initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(envs.JWTSecret, envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	var err error
	authService, err = service.NewAuthService(userRepo, jwtTokenizer)
	if err != nil {
		fatal("Creating auth service: %v", err)
	}
	appLogger.Info("Auth service initialized")
}

func initAuthController() {
	authController = identity.NewIdentityServer(authService)
	appLogger.Info("Auth controller initialized")
}

func initRouter() {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", envs.HostIP, envs.RESTPort),
		BaseURL:                 "/api",
		Mode:                    envs.GinMode,
		Controllers:             []api_i.Controller{authController, sessionController},
		AuthorizationMiddleware: identity.Authoriz(jwtTokenizer),
	})
	appLogger.Info("Router initialized")
}

func main() {
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)

	var err error
	envs, err = config.Load()
	if err != nil {
		fatal("Loading configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	initMongo(ctx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	initUserRepo(ctx)

	initRedis(ctx)
	defer redisClient.Close()

	initPublisher()
	if natsConn != nil {
		defer natsConn.Close()
	}

	initSessionManager()
	defer gameSessionManager.StopAll()

	initSessionController()
	initJWTTokenizer()
	initAuthService()
	initAuthController()
	initRouter()

	errs := make(chan error, 1)
	go func() {
		errs <- router.Run()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
	case sig := <-stop:
		appLogger.Info(fmt.Sprintf("Received %s, shutting down", sig))
	}
}
