package util

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type roomServerEnvironment struct {
	ListenAddr   string
	ConfigFile   string
	RoomStore    string
	RedisHost    string
	RedisPort    string
	RedisPW      string
	RedisDB      string
	NatsURL      string
	CredentialPK string
}

// RoomServerEnvironment is a helper object for accessing environment variables.
var RoomServerEnvironment = &roomServerEnvironment{
	ListenAddr:   "LISTEN_ADDR",
	ConfigFile:   "SERVER_CONFIG_FILE",
	RoomStore:    "ROOM_STORE",
	RedisHost:    "REDIS_HOST",
	RedisPort:    "REDIS_PORT",
	RedisPW:      "REDIS_PW",
	RedisDB:      "REDIS_DB",
	NatsURL:      "NATS_URL",
	CredentialPK: "CREDENTIAL_KEY",
}

func (r *roomServerEnvironment) GetListenAddr() string {
	addr := os.Getenv(r.ListenAddr)
	if addr == "" {
		return ":8080"
	}
	return addr
}

func (r *roomServerEnvironment) GetConfigFile() string {
	return os.Getenv(r.ConfigFile)
}

// GetRoomStore returns which room store implementation to use
// ("memory" or "redis"). Memory is the default.
func (r *roomServerEnvironment) GetRoomStore() string {
	store := os.Getenv(r.RoomStore)
	if store == "" {
		return "memory"
	}
	return store
}

func (r *roomServerEnvironment) GetRedisHost() string {
	host := os.Getenv(r.RedisHost)
	if host == "" {
		return "localhost"
	}
	return host
}

func (r *roomServerEnvironment) GetRedisPort() int {
	portStr := os.Getenv(r.RedisPort)
	if portStr == "" {
		return 6379
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		environmentLogger.Error().Msgf("Invalid Redis port %s", portStr)
		return 6379
	}
	return portNum
}

func (r *roomServerEnvironment) GetRedisPW() string {
	return os.Getenv(r.RedisPW)
}

func (r *roomServerEnvironment) GetRedisDB() int {
	dbStr := os.Getenv(r.RedisDB)
	if dbStr == "" {
		return 0
	}
	dbNum, err := strconv.Atoi(dbStr)
	if err != nil {
		environmentLogger.Error().Msgf("Invalid Redis db %s", dbStr)
		return 0
	}
	return dbNum
}

func (r *roomServerEnvironment) GetNatsURL() string {
	url := os.Getenv(r.NatsURL)
	if url == "" {
		return "nats://localhost:4222"
	}
	return url
}

// GetCredentialKey returns the uuid key used to seal credentials.
// An empty value makes the auth manager generate an ephemeral key,
// which invalidates outstanding credentials on restart.
func (r *roomServerEnvironment) GetCredentialKey() string {
	return os.Getenv(r.CredentialPK)
}
