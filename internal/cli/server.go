package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/infra/memory"
	redisinfra "trivia-quiz-service/internal/infra/redis"
	"trivia-quiz-service/internal/logger"
	"trivia-quiz-service/internal/notify"
	"trivia-quiz-service/internal/timer"
	transport "trivia-quiz-service/internal/transport/http"
	"trivia-quiz-service/internal/trivia"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// sessionStore is a session repository that can drop idle sessions.
type sessionStore interface {
	app.SessionRepository
	Sweep(now time.Time, ttl time.Duration) int
}

// runtime holds the wired components shared by the commands.
type runtime struct {
	cfg       config.Config
	log       *zap.Logger
	redis     *redis.Client
	source    *trivia.Source
	store     sessionStore
	service   *app.QuizService
	scheduler timer.Scheduler
}

func newRuntime(cfg config.Config, log *zap.Logger) *runtime {
	rt := &runtime{cfg: cfg, log: log, scheduler: timer.NewTickerScheduler()}

	if cfg.Redis.Addr != "" {
		rt.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	categoriesTTL := config.TTLDuration(cfg.Categories.TTL, trivia.DefaultCategoryTTL)
	var cache trivia.CategoryCache = memory.NewCategoryCache()
	if rt.redis != nil {
		cache = redisinfra.NewCategoryCache(rt.redis, categoriesTTL, log)
	}
	client := trivia.NewClient(cfg.Trivia.BaseURL, cfg.Trivia.UserAgent, config.TTLDuration(cfg.Trivia.Timeout, 10*time.Second))
	rt.source = trivia.NewSource(client, cache,
		trivia.WithCategoryTTL(categoriesTTL),
		trivia.WithLogger(log),
	)

	if rt.redis != nil {
		rt.store = redisinfra.NewSessionStore(rt.redis, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	} else {
		rt.store = memory.NewSessionStore()
	}

	rt.service = app.NewQuizService(rt.store, rt.source, app.ServiceConfig{
		DurationSeconds: cfg.Quiz.DurationSeconds,
		Amount:          cfg.Quiz.Amount,
		Scheduler:       rt.scheduler,
	}, log)
	return rt
}

// startSweeper drops sessions idle for longer than quiz.idle_ttl, checking
// once a minute.
func (rt *runtime) startSweeper() (stop func()) {
	idle := config.TTLDuration(rt.cfg.Quiz.IdleTTL, 30*time.Minute)
	return rt.scheduler.Every(time.Minute, func() {
		if n := rt.store.Sweep(time.Now(), idle); n > 0 {
			rt.log.Info("swept idle quiz sessions", zap.Int("count", n))
		}
	})
}

func (rt *runtime) close() {
	if rt.redis != nil {
		if err := rt.redis.Close(); err != nil {
			rt.log.Warn("closing redis client", zap.Error(err))
		}
	}
}

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runServer(cmd.Context(), cfg, logger.Get())
		},
	}
}

func runServer(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt := newRuntime(cfg, log)
	defer rt.close()
	stopSweeper := rt.startSweeper()
	defer stopSweeper()

	mailer := notify.NewScoreNotifier(notify.NewSMTPSender(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}), log)

	handler := transport.NewHandler(rt.service, rt.source, mailer, log)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      transport.NewRouter(handler, transport.NewWSHandler(rt.service, log)),
		ReadTimeout:  config.TTLDuration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: config.TTLDuration(cfg.Server.WriteTimeout, 15*time.Second),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting trivia quiz service", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("server failed", zap.Error(err))
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := server.Shutdown(shutdownCtx)
	mailer.Wait()
	return err
}
