package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/DIMO-Network/server-garage/pkg/env"
	"github.com/DIMO-Network/server-garage/pkg/logging"
	"github.com/DIMO-Network/server-garage/pkg/monserver"
	"github.com/DIMO-Network/server-garage/pkg/runner"
	"github.com/DIMO-Network/waba-relay/internal/app"
	"github.com/DIMO-Network/waba-relay/internal/config"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// @title           WhatsApp Relay
// @version         1.0
// @description     Relays WhatsApp Business messages to a conversational responder and sends the replies back.
//
// @BasePath  /
func main() {
	logger := logging.GetAndSetDefaultLogger("waba-relay")
	mainCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-mainCtx.Done()
		logger.Info().Msg("Received signal, shutting down...")
	}()

	runnerGroup, runnerCtx := errgroup.WithContext(mainCtx)

	envFile := flag.String("env-file", ".env", "path to env file")
	flag.Parse()

	settings, err := env.LoadSettings[config.Settings](*envFile)
	if err != nil {
		log.Fatalf("could not load settings: %s", err)
	}
	settings.SetDefaults()

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		log.Fatalf("could not parse log level: %s", err)
	}
	zerolog.SetGlobalLevel(level)
	logger = logging.GetAndSetDefaultLogger(settings.ServiceName)

	if err := settings.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid settings")
	}
	if settings.UsesDefaultVerifyToken() {
		logger.Warn().Msg("VERIFY_TOKEN is not set; using the built-in default verification secret")
	}

	monApp := monserver.NewMonitoringServer(&logger, settings.EnablePprof)
	logger.Info().Str("port", strconv.Itoa(settings.MonPort)).Msgf("Starting monitoring server")
	runner.RunHandler(runnerCtx, runnerGroup, monApp, ":"+strconv.Itoa(settings.MonPort))

	webApp, relays, err := app.CreateServers(runnerCtx, &settings, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create servers")
	}
	logger.Info().
		Str("port", strconv.Itoa(settings.Port)).
		Str("webhook", "/webhook/waba").
		Str("responder", settings.HuggingFaceURL).
		Msgf("Starting web server")
	runner.RunFiber(runnerCtx, runnerGroup, webApp, ":"+strconv.Itoa(settings.Port))

	groupErr := runnerGroup.Wait()

	drainCtx, drainCancel := context.WithTimeout(context.Background(), settings.ShutdownTimeout)
	defer drainCancel()
	if err := relays.Wait(drainCtx); err != nil {
		logger.Warn().Err(err).Msg("Shutting down with relays still in flight")
	}

	if groupErr != nil {
		logger.Fatal().Err(groupErr).Msg("Server failed.")
	}
	logger.Info().Msg("Server stopped.")
}
