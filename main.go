package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rpupo63/foodgram-backend/api"
	"github.com/rpupo63/foodgram-backend/config"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "foodgram",
	Short:         "Foodgram recipe sharing backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load environment variables from .env file
		if err := godotenv.Load(); err != nil {
			log.Debug().Err(err).Msg("No .env file loaded")
		}
		level, err := zerolog.ParseLevel(config.GetString(config.New(), "LOG_LEVEL", "info"))
		if err != nil {
			level = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(level)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := config.New()

		db, err := database.Open(c)
		if err != nil {
			return err
		}
		currentDB := database.New(db)

		if config.GetString(c, "AUTO_MIGRATE", "false") == "true" {
			if err := currentDB.Migrate(cmd.Context()); err != nil {
				return err
			}
		}

		store, err := storage.New(cmd.Context(), c)
		if err != nil {
			return fmt.Errorf("init image storage: %w", err)
		}

		server, err := api.NewServer(c, currentDB, store)
		if err != nil {
			return fmt.Errorf("init server: %w", err)
		}

		// one slot each for the server and the signal listener, so neither
		// blocks after the first reason to stop has been received
		errChannel := make(chan error, 2)

		go server.Start(errChannel)

		// Listen for interrupt signals to gracefully shutdown the server
		go listenToInterrupt(errChannel)

		fatalErr := <-errChannel
		server.ShutdownGracefully(30 * time.Second)
		return exitError(fatalErr)
	},
}

var errInterrupted = errors.New("interrupted")

// exitError turns the reason the server stopped into the result of serve.
// Signals and a closed server are a clean exit.
func exitError(reason error) error {
	if errors.Is(reason, errInterrupted) || errors.Is(reason, http.ErrServerClosed) {
		log.Info().Msgf("Closing server: %v", reason)
		return nil
	}
	return fmt.Errorf("server stopped: %w", reason)
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, loadIngredientsCmd, generateModelsCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%w: %s", errInterrupted, <-c)
}
