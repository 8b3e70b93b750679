package main

import (
	"context"
	"expvar"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"eventreview/internal/auth"
	"eventreview/internal/db"
	"eventreview/internal/domain/admins"
	"eventreview/internal/domain/storage"
	"eventreview/internal/mailer"
	"eventreview/internal/metrics"
	"eventreview/internal/ratelimiter"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func envString(key, def string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return def
}

func envInt(key string, def int) int {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		log.Printf("invalid %s=%q, defaulting to %d", key, val, def)
		return def
	}
	return parsed
}

func envBool(key string, def bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return def
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		log.Printf("invalid %s=%q, defaulting to %t", key, val, def)
		return def
	}
	return parsed
}

func envDuration(key string, def time.Duration) time.Duration {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return def
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		log.Printf("invalid %s=%q, defaulting to %s", key, val, def)
		return def
	}
	return parsed
}

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	return ratelimiter.Config{
		RequestsPerTimeFrame: envInt("RATELIMITER_REQUESTS_COUNT", 200),
		TimeFrame:            envDuration("RATELIMITER_TIME_FRAME", 5*time.Second),
		Enabled:              envBool("RATE_LIMITER_ENABLED", false),
	}
}

func loadConfig() config {
	return config{
		addr:   envString("ADDR", ":8080"),
		env:    envString("ENV", "development"),
		apiURL: envString("EXTERNAL_URL", "localhost:8080"),
		db: dbConfig{
			addr:         os.Getenv("DB_ADDR"),
			maxOpenConns: envInt("DB_MAX_OPEN_CONNS", 30),
			maxIdleTime:  envString("DB_MAX_IDLE_TIME", "15m"),
			autoMigrate:  envBool("DB_AUTO_MIGRATE", false),
		},
		mail: mailConfig{
			smtp: mailer.SMTPConfig{
				Host:      os.Getenv("MAIL_SMTP_HOST"),
				Port:      envInt("MAIL_SMTP_PORT", 587),
				Username:  os.Getenv("MAIL_SMTP_USER"),
				Password:  os.Getenv("MAIL_SMTP_PASS"),
				FromEmail: os.Getenv("MAIL_FROM"),
			},
			moderationEmail: os.Getenv("MODERATION_EMAIL"),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret: os.Getenv("AUTH_TOKEN_SECRET"),
				exp:    envDuration("AUTH_TOKEN_EXP", time.Hour),
				iss:    "eventreview",
			},
		},
		rateLimiter: LoadRateLimiterConfig(),
		bootstrap: adminBootstrapConfig{
			email:    os.Getenv("ADMIN_BOOTSTRAP_EMAIL"),
			password: os.Getenv("ADMIN_BOOTSTRAP_PASSWORD"),
		},
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() *zap.SugaredLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel)

	return zap.New(core).Sugar()
}

var version = "1.0.0"

//	@title			Event Reviews API
//	@description	Reviews of events, with likes, reports and organizer responses.

//	@BasePath					/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token from /userlogin, /organizerlogin or /adminlogin

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := loadConfig()

	logger := NewLogger()
	defer logger.Sync()

	if cfg.auth.token.secret == "" {
		logger.Fatal("AUTH_TOKEN_SECRET must be set")
	}
	if cfg.db.addr == "" {
		logger.Fatal("DB_ADDR must be set")
	}

	if cfg.db.autoMigrate {
		if err := db.MigrateUp(cfg.db.addr); err != nil {
			logger.Fatal(err)
		}
		logger.Info("database migrations applied")
	}

	pool, err := db.New(cfg.db.addr, int32(cfg.db.maxOpenConns), cfg.db.maxIdleTime)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	store := storage.NewContainer(pool)

	var mail mailer.Client
	if cfg.mail.smtp.Host != "" {
		smtp, err := mailer.NewSMTPClient(cfg.mail.smtp)
		if err != nil {
			logger.Fatal(err)
		}
		mail = smtp
	} else {
		logger.Warn("MAIL_SMTP_HOST not set; emails will only be logged")
		mail = mailer.NewLogClient(logger)
	}

	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.exp,
		cfg.auth.token.iss,
	)

	app := &application{
		config:        cfg,
		logger:        logger,
		store:         store,
		mailer:        mail,
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := app.bootstrapAdmin(ctx); err != nil {
		logger.Errorw("admin bootstrap failed", "error", err)
	}
	cancel()

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		return pool.Stat().TotalConns()
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	metrics.AppInfo.WithLabelValues(version, cfg.env).Set(1)

	mux := app.mount()

	logger.Fatal(app.run(mux))
}

// bootstrapAdmin creates (or resets) the admin account named in the
// environment. There is no HTTP route to create admins.
func (app *application) bootstrapAdmin(ctx context.Context) error {
	b := app.config.bootstrap
	if b.email == "" || b.password == "" {
		app.logger.Warn("admin bootstrap env vars not set; skipping")
		return nil
	}

	admin := &admins.Admin{Email: b.email}
	if err := admin.Password.Set(b.password); err != nil {
		return err
	}
	if err := app.store.Admins.Upsert(ctx, admin); err != nil {
		return err
	}

	app.logger.Infow("admin account ready", "email", admin.Email, "id", admin.ID)
	return nil
}
