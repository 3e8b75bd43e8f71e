package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP     string        // Host IP for the server
	RESTPort   int           // Port for the REST API
	DBHost     string        // Hostname or IP address for the database
	DBPort     int           // Port number for the database
	DBUser     string        // Username for the database
	DBPassword string        // Password for the database
	DBName     string        // Name of the database
	RedisAddr  string        // Address of the redis server (host:port)
	RedisPass  string        // Password for the redis server
	NatsURL    string        // URL of the NATS server; empty disables event publishing
	GinMode    string        // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret  string        // Secret key for JWT signing
	JWTIssuer  string        // Issuer claim for JWTs
	SessionTTL time.Duration // Lifetime of an unfinished game session

	Maze MazeConfig // Maze and session rules
}

// MazeConfig holds the parameters of generated games.
type MazeConfig struct {
	Rows          int     // Number of cell rows
	Columns       int     // Number of cell columns
	Width         float64 // Width of the play area in engine units
	Height        float64 // Height of the play area in engine units
	Seed          int64   // Maze seed; 0 picks a new seed per game
	VelocityStep  float64 // Speed added per directional input
	MaxSpeed      float64 // Per-axis speed limit; 0 disables it
	WinGravity    float64 // Gravity switched on by a win
	InputAfterWin bool    // Keep accepting input once a game is won
}

// Load reads the configuration from the environment, loading a .env file first
// if one is available.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("%s[APP] [INFO]%s .env file not found or could not be loaded: %v", LogInfoColor, LogColorReset, err)
	}

	maze, err := LoadMaze()
	if err != nil {
		return Config{}, err
	}

	e := &envReader{}
	c := Config{
		HostIP:     e.get("HOST_IP"),
		RESTPort:   e.getInt("REST_PORT"),
		DBHost:     e.get("DB_HOST"),
		DBPort:     e.getInt("DB_PORT"),
		DBUser:     e.get("DB_USER"),
		DBPassword: e.get("DB_PASS"),
		DBName:     e.get("DB_NAME"),
		RedisAddr:  e.get("REDIS_ADDR"),
		RedisPass:  getEnvWithDefault("REDIS_PASS", ""),
		NatsURL:    getEnvWithDefault("NATS_URL", ""),
		GinMode:    getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret:  e.get("JWT_SECRET"),
		JWTIssuer:  e.get("JWT_ISSUER"),
		SessionTTL: time.Duration(e.intWithDefault("SESSION_TTL_SECONDS", 600)) * time.Second,
		Maze:       maze,
	}
	if e.err != nil {
		return Config{}, e.err
	}
	return c, nil
}

// LoadMaze reads only the maze parameters. Every value has a default.
func LoadMaze() (MazeConfig, error) {
	e := &envReader{}
	c := MazeConfig{
		Rows:          e.intWithDefault("MAZE_ROWS", 3),
		Columns:       e.intWithDefault("MAZE_COLUMNS", 3),
		Width:         e.floatWithDefault("REGION_WIDTH", 600),
		Height:        e.floatWithDefault("REGION_HEIGHT", 600),
		Seed:          int64(e.intWithDefault("MAZE_SEED", 0)),
		VelocityStep:  e.floatWithDefault("VELOCITY_STEP", 3),
		MaxSpeed:      e.floatWithDefault("MAX_SPEED", 15),
		WinGravity:    e.floatWithDefault("WIN_GRAVITY", 1),
		InputAfterWin: e.boolWithDefault("INPUT_AFTER_WIN", false),
	}
	if e.err != nil {
		return MazeConfig{}, e.err
	}

	if c.Rows <= 0 || c.Columns <= 0 {
		return MazeConfig{}, fmt.Errorf("maze dimensions must be positive, got %dx%d", c.Rows, c.Columns)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return MazeConfig{}, fmt.Errorf("region size must be positive, got %gx%g", c.Width, c.Height)
	}
	return c, nil
}

// envReader collects the first error met while reading variables.
type envReader struct {
	err error
}

// get retrieves the value of a required environment variable.
func (e *envReader) get(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists && e.err == nil {
		e.err = fmt.Errorf("environment variable %s is not set", key)
	}
	return value
}

// getInt retrieves a required environment variable as an integer.
func (e *envReader) getInt(key string) int {
	valueStr := e.get(key)
	if e.err != nil {
		return 0
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		e.err = fmt.Errorf("environment variable %s must be an integer: %w", key, err)
	}
	return value
}

func (e *envReader) intWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil && e.err == nil {
		e.err = fmt.Errorf("environment variable %s must be an integer: %w", key, err)
	}
	return value
}

func (e *envReader) floatWithDefault(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil && e.err == nil {
		e.err = fmt.Errorf("environment variable %s must be a number: %w", key, err)
	}
	return value
}

func (e *envReader) boolWithDefault(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil && e.err == nil {
		e.err = fmt.Errorf("environment variable %s must be a boolean: %w", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
