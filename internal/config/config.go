package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// AdminPhonePlaceholder is shipped in sample env files and means no admin
// phone has been set up.
const AdminPhonePlaceholder = "+91XXXXXXXXXX"

type (
	Config struct {
		Addr          string `env:"ADDR"            env-default:":8080"                 validate:"required"`
		Env           string `env:"ENV"             env-default:"development"           validate:"oneof=development test staging production"`
		APIURL        string `env:"EXTERNAL_URL"    env-default:"localhost:8080"`
		FrontendURL   string `env:"FRONTEND_URL"    env-default:"http://localhost:3000" validate:"required,url"`
		IDSecret      string `env:"ID_SECRET"       env-default:"feepay-ids"            validate:"required"`
		PayerSeedFile string `env:"PAYER_SEED_FILE"`

		DB          DB          `env-prefix:"DB_"`
		Log         Log         `env-prefix:"LOG_"`
		Auth        Auth        `env-prefix:"AUTH_"`
		RateLimiter RateLimiter `env-prefix:"RATE_LIMITER_"`
		Institution Institution `env-prefix:"INSTITUTION_"`
		Razorpay    Razorpay    `env-prefix:"RAZORPAY_"`
		SMTP        SMTP        `env-prefix:"SMTP_"`
		Twilio      Twilio      `env-prefix:"TWILIO_"`
		Cloudinary  Cloudinary  `env-prefix:"CLOUDINARY_"`
		Notify      Notify      `env-prefix:"NOTIFY_"`
	}

	// DB is optional: with an empty Addr the service keeps payments in memory.
	DB struct {
		Addr              string        `env:"ADDR"`
		MaxOpenConns      int32         `env:"MAX_OPEN_CONNS"      env-default:"30"  validate:"min=1,max=200"`
		MinConns          int32         `env:"MIN_CONNS"           env-default:"2"   validate:"min=0,ltefield=MaxOpenConns"`
		MaxIdleTime       time.Duration `env:"MAX_IDLE_TIME"       env-default:"15m" validate:"gte=1s"`
		MaxConnLifetime   time.Duration `env:"MAX_CONN_LIFETIME"   env-default:"1h"  validate:"gte=1m"`
		HealthCheckPeriod time.Duration `env:"HEALTH_CHECK_PERIOD" env-default:"1m"  validate:"gte=1s"`
		ConnectTimeout    time.Duration `env:"CONNECT_TIMEOUT"     env-default:"30s" validate:"gte=1s"`
	}

	Log struct {
		Level      string `env:"LEVEL"       env-default:"info" validate:"oneof=debug info warn error"`
		File       string `env:"FILE"`
		MaxSize    int    `env:"MAX_SIZE"    env-default:"100"  validate:"min=1,max=1000"`
		MaxBackups int    `env:"MAX_BACKUPS" env-default:"3"    validate:"min=0,max=20"`
		MaxAge     int    `env:"MAX_AGE"     env-default:"28"   validate:"min=1,max=365"`
	}

	Auth struct {
		BasicUser      string        `env:"BASIC_USER"       env-default:"admin" validate:"required"`
		BasicPass      string        `env:"BASIC_PASS"`
		BasicPassHash  string        `env:"BASIC_PASS_HASH"`
		TokenSecret    string        `env:"TOKEN_SECRET"`
		TokenIssuer    string        `env:"TOKEN_ISS"        env-default:"feepay"`
		ReceiptLinkExp time.Duration `env:"RECEIPT_LINK_EXP" env-default:"72h"   validate:"gte=1m"`
	}

	RateLimiter struct {
		Enabled              bool          `env:"ENABLED"        env-default:"false"`
		RequestsPerTimeFrame int           `env:"REQUESTS_COUNT" env-default:"200" validate:"min=1"`
		TimeFrame            time.Duration `env:"TIME_FRAME"     env-default:"5s"  validate:"gte=1s"`
	}

	// Institution is the receiving account shown to payers and printed on
	// receipts.
	Institution struct {
		Name          string `env:"NAME"           env-default:"College Dashboard"             validate:"required"`
		AccountNumber string `env:"ACCOUNT_NUMBER" env-default:"413410110002498"               validate:"required"`
		IFSC          string `env:"IFSC"           env-default:"BKID0004134"                   validate:"required"`
		BankName      string `env:"BANK_NAME"      env-default:"Bank of India"                 validate:"required"`
		AccountHolder string `env:"ACCOUNT_HOLDER" env-default:"Brainware University"          validate:"required"`
		Branch        string `env:"BRANCH"         env-default:"Kolkata"`
		UPIID         string `env:"UPI_ID"         env-default:"brainwareuniversity@paytm"`
		AdminPhone    string `env:"ADMIN_PHONE"    env-default:"+91XXXXXXXXXX"`
		ContactEmail  string `env:"CONTACT_EMAIL"  env-default:"payments@collegedashboard.edu" validate:"omitempty,email"`
		Timezone      string `env:"TIMEZONE"       env-default:"Asia/Kolkata"                  validate:"required,timezone"`

		BankTransferInstructions string `env:"BANK_TRANSFER_INSTRUCTIONS" env-default:"Transfer the amount to the university account details shown above. Include your Student ID in the transaction remarks."`
		UPIInstructions          string `env:"UPI_INSTRUCTIONS"           env-default:"Use the UPI ID shown above or scan the QR code. Include your Student ID in the payment note."`
		CashInstructions         string `env:"CASH_INSTRUCTIONS"          env-default:"Pay at the university office during working hours. Bring your Student ID card."`
		OnlineInstructions       string `env:"ONLINE_INSTRUCTIONS"        env-default:"Complete payment through the selected payment gateway. You will be redirected to secure payment page."`
	}

	Razorpay struct {
		KeyID     string        `env:"KEY_ID"`
		KeySecret string        `env:"KEY_SECRET"`
		BaseURL   string        `env:"BASE_URL"   env-default:"https://api.razorpay.com" validate:"required,url"`
		Timeout   time.Duration `env:"TIMEOUT"    env-default:"10s"                      validate:"gte=100ms,lte=1m"`
	}

	SMTP struct {
		Host      string        `env:"HOST"       env-default:"smtp.gmail.com"`
		Port      int           `env:"PORT"       env-default:"587"               validate:"min=1,max=65535"`
		User      string        `env:"USER"`
		Pass      string        `env:"PASS"`
		FromEmail string        `env:"FROM_EMAIL"                                 validate:"omitempty,email"`
		FromName  string        `env:"FROM_NAME"  env-default:"College Dashboard"`
		Timeout   time.Duration `env:"TIMEOUT"    env-default:"10s"               validate:"gte=100ms,lte=1m"`
	}

	Twilio struct {
		AccountSID string        `env:"ACCOUNT_SID"`
		AuthToken  string        `env:"AUTH_TOKEN"`
		FromNumber string        `env:"PHONE_NUMBER"`
		BaseURL    string        `env:"BASE_URL"     env-default:"https://api.twilio.com" validate:"required,url"`
		Timeout    time.Duration `env:"TIMEOUT"      env-default:"10s"                    validate:"gte=100ms,lte=1m"`
	}

	Cloudinary struct {
		URL    string `env:"URL"`
		Folder string `env:"RECEIPTS_FOLDER" env-default:"receipts"`
	}

	Notify struct {
		Timeout time.Duration `env:"TIMEOUT" env-default:"15s" validate:"gte=100ms,lte=2m"`
	}
)

func (i Institution) AdminPhoneConfigured() bool {
	phone := strings.TrimSpace(i.AdminPhone)
	return phone != "" && phone != AdminPhonePlaceholder
}

func (r Razorpay) Configured() bool {
	return r.KeyID != "" && r.KeySecret != ""
}

func (s SMTP) Configured() bool {
	return s.User != "" && s.Pass != ""
}

func (t Twilio) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != ""
}

// Load reads the process environment once. Callers load a .env file first
// if they want one.
func Load() (Config, error) {
	const op = "config.Load"

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("%s: read env: %w", op, err)
	}

	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	return cfg, nil
}

func validate(cfg Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("config validation: %w", err)
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, ve := range validationErrs {
		msgs = append(msgs, fmt.Sprintf("%s=%v must satisfy '%s'", ve.Namespace(), ve.Value(), ve.Tag()))
	}
	return fmt.Errorf("config validation: %s", strings.Join(msgs, "; "))
}
