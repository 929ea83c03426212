package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"booklib/internal/book"
	"booklib/internal/bulk"
	"booklib/internal/config"
	"booklib/internal/editor"
	"booklib/internal/field"
	"booklib/internal/httpx"
	"booklib/internal/logger"
	"booklib/internal/metadata"
	"booklib/internal/option"
	"booklib/internal/quote"

	"github.com/jackc/pgx/v5/pgxpool"
)

const maxRequestBytes = 1 << 20

func main() {
	cfg, err := config.ReadConfig()
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.Get()

	pool := mustOpenDB(cfg.DBDSN)
	defer pool.Close()

	optionSource := option.NewPostgresSource(pool, cfg.DBTimeout)
	cache := option.NewCache(optionSource)

	bookRepo := book.NewPostgresRepo(pool, cfg.DBTimeout)
	quoteRepo := quote.NewPostgresRepo(pool, cfg.DBTimeout)

	snapshot := book.NewSnapshot()
	if err := snapshot.Load(context.Background(), bookRepo); err != nil {
		log.Fatal().Err(err).Msg("cannot load book collection")
	}
	log.Info().Int("books", len(snapshot.All())).Msg("collection loaded")

	codec := field.NewCodec(cache, field.NewPostgresLookup(pool, cfg.DBTimeout))
	manager := editor.NewManager(codec, cache, bookRepo, snapshot)

	bookHandler := book.NewHTTPHandler(bookRepo, snapshot, cache, quoteRepo)
	editorHandler := editor.NewHTTPHandler(manager)
	optionHandler := option.NewHTTPHandler(cache)
	bulkHandler := bulk.NewHTTPHandler(bulk.NewResolver(cache))
	quoteHandler := quote.NewHTTPHandler(quoteRepo)
	metadataHandler := metadata.NewHTTPHandler(metadata.NewClient(cfg.MetadataURL))

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("GET /books", bookHandler.List)
	router.HandleFunc("POST /books", bookHandler.Create)
	router.HandleFunc("GET /books/{id}", bookHandler.Get)
	router.HandleFunc("PATCH /books/{id}/fields/{field}", editorHandler.SaveField)
	router.HandleFunc("PUT /books/{id}/genres", bookHandler.ReplaceGenres)
	router.HandleFunc("GET /books/{id}/quotes", quoteHandler.ListByBook)

	router.HandleFunc("POST /bulk/parse", bulkHandler.ParseBlock)

	router.HandleFunc("GET /options/{entity}", optionHandler.List)
	router.HandleFunc("POST /options/{entity}", optionHandler.Create)

	router.HandleFunc("GET /metadata/search", metadataHandler.Search)

	rateLimit := httpx.NewRateLimitMiddleware(20, 40)
	var handler http.Handler = router
	handler = httpx.RequestSizeLimitMiddleware(maxRequestBytes)(handler)
	handler = rateLimit.Middleware(handler)
	handler = httpx.SecurityHeadersMiddleware(handler)
	handler = httpx.CORSMiddleware(strings.Split(cfg.AllowedOrigins, ","))(handler)
	// Recovery sits inside the access log wrapper: a panicking request still
	// gets its access log line, and recovery sees the wrapped writer when it
	// checks whether the header went out.
	handler = httpx.RecoveryMiddleware(handler)
	handler = httpx.AccessLogMiddleware(handler)
	handler = httpx.RequestIDMiddleware(handler)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("addr", cfg.Addr).Msg("starting server")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}

func mustOpenDB(dsn string) *pgxpool.Pool {
	ctx := context.Background()

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("cannot parse db dsn")
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("cannot create db pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logger.Get().Fatal().Str("dsn", redactDSN(dsn)).Err(err).Msg("cannot ping database")
	}
	logger.Get().Info().Msg("database connection OK")
	return pool
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
