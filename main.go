// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"petcare-booking/cmd"
	"petcare-booking/internal/data/entity"
	"petcare-booking/internal/data/repository"
	"petcare-booking/internal/data/store"
	"petcare-booking/internal/payment"
	"petcare-booking/internal/sheets"
	"petcare-booking/internal/usecase"
	"petcare-booking/internal/wire"
	"petcare-booking/pkg/imagestore"
	"petcare-booking/pkg/utils"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("store", config.Store.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the record store
	backend, err := store.OpenBackend(ctx, config, logger)
	if err != nil {
		logger.Fatal("Failed to open record store", zap.Error(err))
	}
	records := store.New(backend, logger)
	defer records.Close()

	logger.Info("Record store ready", zap.String("driver", config.Store.Driver))

	repos := repository.NewRepository(records, logger)

	publisher := newPublisher(ctx, config.Sheets, logger)
	defer publisher.Close()

	images, err := imagestore.New(afero.NewOsFs(), config.Upload.Dir, "/uploads", config.Upload.MaxPixels)
	if err != nil {
		logger.Fatal("Failed to prepare upload dir", zap.Error(err))
	}

	engine := usecase.NewDraftEngine(entity.DefaultCatalog(), usecase.DefaultAddresses, config.App.Location(), nil)

	// Wire all dependencies
	app := wire.Wiring(repos, config, usecase.Deps{
		Engine:    engine,
		Identity:  usecase.ContextIdentity{},
		Publisher: publisher,
		Gateway:   payment.NewStripeGateway(config.Payment, logger),
		Images:    images,
	}, logger)

	go cleanSessions(ctx, repos.Session, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}

// newPublisher picks how booking rows reach the spreadsheet: through a
// broker when AMQP_URL is set, straight to the webhook otherwise, or not at all.
func newPublisher(ctx context.Context, config utils.SheetsConfig, logger *zap.Logger) sheets.Publisher {
	if config.WebhookURL == "" {
		logger.Info("SHEETS_WEBHOOK_URL not set, spreadsheet export disabled")
		return sheets.NopPublisher{}
	}

	client := sheets.NewClient(config.WebhookURL, &http.Client{Timeout: 15 * time.Second}, logger)
	if config.AMQPURL == "" {
		return sheets.NewDirectPublisher(client)
	}

	consumer := sheets.NewConsumer(config.AMQPURL, config.Queue, client, logger)
	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Sheets consumer stopped", zap.Error(err))
		}
	}()
	return sheets.NewAMQPPublisher(config.AMQPURL, config.Queue, logger)
}

func cleanSessions(ctx context.Context, sessions repository.SessionRepository, logger *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.CleanExpiredSessions(ctx); err != nil {
				logger.Warn("Session cleanup failed", zap.Error(err))
			}
		}
	}
}
