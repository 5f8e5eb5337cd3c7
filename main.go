package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"cardroom.io/server/auth"
	"cardroom.io/server/bot"
	"cardroom.io/server/game"
	natsbus "cardroom.io/server/nats"
	"cardroom.io/server/rest"

	"cardroom.io/server/logging"
	"cardroom.io/server/util"
)

var mainLogger = logging.GetZeroLogger("main::main", nil)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	env := util.RoomServerEnvironment

	config := util.DefaultServerConfig()
	if configFile := env.GetConfigFile(); configFile != "" {
		parsed, err := util.ParseServerConfig(configFile)
		if err != nil {
			mainLogger.Fatal().Msgf("Failed to parse server config %s: %v", configFile, err)
		}
		config = parsed
	}

	var store game.RoomStore
	switch env.GetRoomStore() {
	case "redis":
		redisAddr := fmt.Sprintf("%s:%d", env.GetRedisHost(), env.GetRedisPort())
		store = game.NewRedisRoomStore(redisAddr, env.GetRedisPW(), env.GetRedisDB())
		mainLogger.Info().Msgf("Using redis room store at %s", redisAddr)
	case "memory":
		store = game.NewMemoryRoomStore()
	default:
		mainLogger.Fatal().Msgf("Unknown room store %s", env.GetRoomStore())
	}

	eventBus, err := natsbus.NewEventBus(env.GetNatsURL())
	if err != nil {
		mainLogger.Fatal().Msgf("Failed to connect to NATS at %s: %v", env.GetNatsURL(), err)
	}
	defer eventBus.Close()

	issuer, err := auth.NewIssuer(env.GetCredentialKey())
	if err != nil {
		mainLogger.Fatal().Msgf("Failed to initialize credential issuer: %v", err)
	}

	manager := game.NewRoomManager(&config, store, eventBus, issuer)
	scheduler := bot.NewScheduler(manager, eventBus, config.BotDelay(), config.StartingStack)
	defer scheduler.Stop()

	server := rest.NewServer(manager, issuer, scheduler)
	mainLogger.Info().Msgf("Room server listening on %s", env.GetListenAddr())
	if err := server.Run(env.GetListenAddr()); err != nil {
		mainLogger.Error().Msgf("REST server exited: %v", err)
		os.Exit(1)
	}
}
