package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/evolucion-dental/api-catalogo/internal/config"
	httpserver "github.com/evolucion-dental/api-catalogo/internal/http"
	"github.com/evolucion-dental/api-catalogo/internal/logger"
	"github.com/evolucion-dental/api-catalogo/internal/repository"
	"github.com/evolucion-dental/api-catalogo/internal/service/catalog"
	"github.com/evolucion-dental/api-catalogo/internal/service/chat"
	"github.com/evolucion-dental/api-catalogo/internal/service/eventservice"
	"github.com/evolucion-dental/api-catalogo/internal/service/extract"
	"github.com/evolucion-dental/api-catalogo/internal/service/formatter"
	"github.com/evolucion-dental/api-catalogo/internal/service/llm"
	"github.com/evolucion-dental/api-catalogo/internal/service/orders"
	"github.com/evolucion-dental/api-catalogo/internal/service/prompt"
	"github.com/evolucion-dental/api-catalogo/internal/service/settings"
	"github.com/evolucion-dental/api-catalogo/internal/service/storage"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Levanta la API HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "aplica las migraciones antes de levantar la API")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return err
	}
	defer log.Sync()

	dbCfg := cfg.ToDBConfig()
	if serveMigrate {
		if err := config.RunMigrations(dbCfg, log); err != nil {
			return err
		}
	}
	db, err := config.NewPostgresDB(dbCfg, log)
	if err != nil {
		return err
	}
	log.Info("DB Connection Established", "host", dbCfg.Host, "db", dbCfg.DBName)

	s3Cfg := cfg.ToS3Config()
	store, maxUploadMB, err := objectStore(ctx, s3Cfg, log)
	if err != nil {
		return err
	}

	events, closeEvents := eventPublisher(cfg.ToMQConfig(), log)
	defer closeEvents()

	extractor := pdfExtractor(ctx, cfg.ToExtractConfig(), log)

	products := catalog.NewProductService(db, store, events, log)
	attachments := catalog.NewAttachmentService(db, store, extractor, events, maxUploadMB<<20, log)
	rules := orders.NewOrderService(db, events, log)
	settingsSvc := settings.NewSettingsService(db)
	status := settings.NewStatus(settingsSvc, log)

	llmCfg := cfg.ToLLMConfig()
	completer, err := llm.NewCompleter(ctx, llmCfg, log)
	if err != nil {
		return err
	}
	log.Info("proveedor LLM listo", "provider", llmCfg.Provider, "model", llmCfg.Model)

	fmtCfg := cfg.ToFormatterConfig()
	policy, ok := formatter.ParseLinkPolicy(fmtCfg.LinkPolicy)
	if !ok {
		log.Warn("FORMATTER_LINK_POLICY inválida, se usa strict", "value", fmtCfg.LinkPolicy)
		policy = formatter.Strict
	}

	chatSvc := chat.NewChatService(
		prompt.NewAssembler(products, rules, status, log),
		llm.NewInvoker(completer, llmCfg, log),
		formatter.New(attachments, formatter.Options{Policy: policy, PublicBase: fmtCfg.PublicBase}, log),
		log,
	)

	r := httpserver.NewRouter(httpserver.Deps{
		DB:             db,
		Products:       products,
		Attachments:    attachments,
		Orders:         rules,
		Settings:       settingsSvc,
		Status:         status,
		Chat:           chatSvc,
		MaxUploadBytes: maxUploadMB << 20,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("API listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("apagando API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// objectStore usa S3 cuando hay endpoint o credenciales; si no, un store en memoria para desarrollo local.
func objectStore(ctx context.Context, cfg config.S3Config, log *logger.Logger) (storage.ObjectStore, int64, error) {
	maxMB := cfg.MaxUploadMB
	if maxMB <= 0 {
		maxMB = config.DefaultMaxUploadMB
	}
	if cfg.Endpoint == "" && cfg.AccessKey == "" {
		log.Warn("S3 no configurado, los archivos se guardan en memoria", "public_base", cfg.PublicBase)
		return repository.NewMemoryObjectStore(cfg.PublicBase, cfg.Bucket), maxMB, nil
	}

	up, err := config.S3ConfigService(ctx, cfg)
	if err != nil {
		return nil, 0, err
	}
	log.Info("S3 listo", "bucket", up.Bucket, "public_base", up.PublicBase)
	return storage.NewS3Store(up, log), up.MaxUploadMB, nil
}

func eventPublisher(mq config.MQConfig, log *logger.Logger) (eventservice.EventPublisher, func()) {
	if mq.Host == "" {
		log.Info("MQ_HOST vacío, eventos deshabilitados")
		return eventservice.NoopPublisher{}, func() {}
	}
	conn, pub, err := config.RabbitPublisher(mq)
	if err != nil {
		log.Warn("no se pudo conectar a RabbitMQ, eventos deshabilitados", "host", mq.Host, "error", err)
		return eventservice.NoopPublisher{}, func() {}
	}
	return eventservice.NewMQPublisher(pub, mq.Exchange, log), func() {
		pub.Close()
		_ = conn.Close()
	}
}

func pdfExtractor(ctx context.Context, cfg config.ExtractConfig, log *logger.Logger) *extract.PDFExtractor {
	if !cfg.TextractEnabled {
		return extract.NewPDFExtractor(cfg.MaxPages, nil, log)
	}
	ocr, err := extract.NewTextractOCR(ctx, cfg, log)
	if err != nil {
		log.Warn("Textract no disponible, sólo se extrae la capa de texto", "error", err)
		return extract.NewPDFExtractor(cfg.MaxPages, nil, log)
	}
	return extract.NewPDFExtractor(cfg.MaxPages, ocr, log)
}
