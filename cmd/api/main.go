package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io/fs"
	"log"
	"os"
	"runtime"

	"feepay/internal/auth"
	"feepay/internal/config"
	"feepay/internal/db"
	"feepay/internal/keylock"
	"feepay/internal/ledger"
	"feepay/internal/lifecycle"
	"feepay/internal/mailer"
	"feepay/internal/metric"
	"feepay/internal/notifications"
	"feepay/internal/orchestrator"
	"feepay/internal/payer"
	"feepay/internal/payments"
	"feepay/internal/ratelimiter"
	"feepay/internal/receipt"
	"feepay/internal/sms"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger creates a colored console logger. When cfg.File is set, JSON
// logs are also written to that file and rotated by size.
func NewLogger(cfg config.Log) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder // This adds color to log levels (INFO, WARN, ERROR)

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(os.Stdout), level),
	}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize, // megabytes
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(rotator), level))
	}

	return zap.New(zapcore.NewTee(cores...)).Sugar(), nil
}

var version = "1.0.0"

//	@title			Fee Payment API
//	@description	Records student fee payments, routes them to a gateway, UPI or manual settlement, confirms them and issues receipts.

//	@contact.name	Accounts Office
//	@contact.email	payments@collegedashboard.edu

//	@BasePath					/v1
//	@securityDefinitions.basic	BasicAuth

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := NewLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	deps := dependencies{metrics: metric.NewFactory()}

	// Database
	var pool *pgxpool.Pool
	if cfg.DB.Addr != "" {
		pool, err = db.Open(context.Background(), cfg.DB)
		if err != nil {
			logger.Fatal(err)
		}
		defer pool.Close()
		logger.Info("database connection pool established")

		deps.store = ledger.NewRepository(pool)
		deps.events = ledger.NewEventRepository(pool)
		deps.payers = payer.NewRepository(pool)
		deps.storage = "postgres"
	} else {
		deps.store = ledger.NewMemoryStore()
		deps.events = ledger.NewMemoryEventLog()
		deps.storage = "memory"

		if cfg.PayerSeedFile != "" {
			dir, err := payer.LoadSeedFile(cfg.PayerSeedFile)
			if err != nil {
				logger.Fatal(err)
			}
			deps.payers = dir
		} else {
			deps.payers = payer.NewMemoryDirectory()
		}
		logger.Warnw("DB_ADDR is not set, payments are kept in memory", "payer_seed_file", cfg.PayerSeedFile)
	}

	// Email
	if cfg.SMTP.Configured() {
		m, err := mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.FromEmail, cfg.SMTP.FromName, cfg.SMTP.Timeout)
		if err != nil {
			logger.Fatal(err)
		}
		deps.mailer = m
	} else {
		logger.Warn("SMTP credentials are not set, receipt emails are disabled")
	}

	// SMS
	if cfg.Twilio.Configured() {
		s, err := sms.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber, cfg.Twilio.BaseURL, cfg.Twilio.Timeout)
		if err != nil {
			logger.Fatal(err)
		}
		deps.sms = s
	} else {
		logger.Warn("Twilio credentials are not set, SMS notifications are disabled")
	}

	//cloudinary
	if cfg.Cloudinary.URL != "" {
		cld, err := cloudinary.NewFromURL(cfg.Cloudinary.URL)
		if err != nil {
			logger.Fatal(err)
		}
		deps.archiver = receipt.NewCloudinaryArchiver(cld, cfg.Cloudinary.Folder)
	}

	app, err := newApplication(cfg, logger, deps)
	if err != nil {
		logger.Fatal(err)
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.NewString("storage").Set(deps.storage)
	if pool != nil {
		expvar.Publish("database", expvar.Func(func() any {
			s := pool.Stat()
			return map[string]int64{
				"total_conns":    int64(s.TotalConns()),
				"idle_conns":     int64(s.IdleConns()),
				"acquired_conns": int64(s.AcquiredConns()),
				"max_conns":      int64(s.MaxConns()),
				"acquire_count":  s.AcquireCount(),
			}
		}))
	}
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}

// dependencies are the stores and transports that differ between
// deployments. Nil transports disable their notification channel.
type dependencies struct {
	store    ledger.Store
	events   ledger.EventLog
	payers   payer.Directory
	mailer   mailer.Client
	sms      sms.Sender
	archiver receipt.Archiver
	metrics  metric.Factory
	storage  string
}

func newApplication(cfg config.Config, logger *zap.SugaredLogger, deps dependencies) (*application, error) {
	ids, err := ledger.NewIDGenerator(cfg.IDSecret)
	if err != nil {
		return nil, err
	}

	gateways := payments.NewManager()
	gateways.RegisterGateway(payments.BrandRazorpay, payments.NewRazorpayAdapter(
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		cfg.Razorpay.BaseURL,
		cfg.Razorpay.Timeout,
	))
	if !cfg.Razorpay.Configured() {
		logger.Warn("Razorpay keys are not set, gateway payments fall back to manual instructions")
	}

	receipts, err := receipt.NewGenerator(cfg.Institution)
	if err != nil {
		return nil, err
	}

	// Authenticator
	var authenticator auth.Authenticator
	if cfg.Auth.TokenSecret != "" {
		authenticator = auth.NewJWTAuthenticator(cfg.Auth.TokenSecret, cfg.Auth.TokenIssuer, cfg.Auth.ReceiptLinkExp)
	}

	fanout, err := notifications.New(notifications.Options{
		Mailer:      deps.mailer,
		SMS:         deps.sms,
		Institution: cfg.Institution,
		ReceiptLink: receiptLink(cfg.APIURL, authenticator, logger),
		Timeout:     cfg.Notify.Timeout,
		Metrics:     deps.metrics.Notifications(),
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	service := orchestrator.New(orchestrator.Deps{
		Store:       deps.store,
		Payers:      deps.payers,
		IDs:         ids,
		Router:      payments.NewRouter(gateways, cfg.Institution, cfg.Razorpay.Timeout, logger),
		Gateways:    gateways,
		Machine:     lifecycle.New(deps.store, logger),
		Receipts:    receipts,
		Archiver:    deps.archiver,
		Events:      deps.events,
		Notifier:    fanout,
		Locks:       keylock.New(),
		Institution: cfg.Institution,
		Metrics:     deps.metrics.Payments(),
		Logger:      logger,
	})

	passHash, err := adminPassHash(cfg.Auth)
	if err != nil {
		return nil, err
	}
	if passHash == nil {
		logger.Warn("AUTH_BASIC_PASS_HASH is not set, admin routes are locked")
	}

	return &application{
		config:        cfg,
		logger:        logger,
		payments:      service,
		authenticator: authenticator,
		rateLimiter:   ratelimiter.NewFixedWindowLimiter(cfg.RateLimiter.RequestsPerTimeFrame, cfg.RateLimiter.TimeFrame),
		metrics:       deps.metrics,
		adminPassHash: passHash,
		storage:       deps.storage,
	}, nil
}

// adminPassHash prefers a stored bcrypt hash and hashes a plain password
// only as a fallback for local setups.
func adminPassHash(cfg config.Auth) ([]byte, error) {
	if cfg.BasicPassHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.BasicPassHash)); err != nil {
			return nil, fmt.Errorf("AUTH_BASIC_PASS_HASH: %w", err)
		}
		return []byte(cfg.BasicPassHash), nil
	}
	if cfg.BasicPass == "" {
		return nil, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.BasicPass), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return hash, nil
}
