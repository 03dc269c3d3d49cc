package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hcm-console/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

// LoadEnv loads the env files that exist in the working directory. When none
// exist there, the nearest parent directory holding a go.mod is tried instead.
func LoadEnv(envFiles []string) (int, error) {
	existing := existingFiles("", envFiles)
	if len(existing) == 0 {
		if root, ok := findModuleRoot(); ok {
			existing = existingFiles(root, envFiles)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func existingFiles(dir string, files []string) []string {
	out := make([]string, 0, len(files))
	for _, file := range files {
		path := file
		if dir != "" {
			path = filepath.Join(dir, file)
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			out = append(out, path)
		}
	}
	return out
}

func findModuleRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

type BackendOptions struct {
	URL     string        `env:"BACKEND_URL" envDefault:"http://localhost:8000"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"0s"`
}

type RecordStoreOptions struct {
	Driver string `env:"RECORD_STORE" envDefault:"memory"` // memory, file or redis
	Dir    string `env:"RECORD_STORE_DIR" envDefault:"./var/records"`
}

func (r *RecordStoreOptions) Validate(redisURL string) error {
	switch r.Driver {
	case "memory", "file":
	case "redis":
		if redisURL == "" {
			return fmt.Errorf("REDIS_URL is required when RECORD_STORE is 'redis'")
		}
	default:
		return fmt.Errorf("record store must be 'memory', 'file' or 'redis', got '%s'", r.Driver)
	}
	if r.Driver == "file" && strings.TrimSpace(r.Dir) == "" {
		return fmt.Errorf("RECORD_STORE_DIR is required when RECORD_STORE is 'file'")
	}
	return nil
}

// CLIOptions configure hcmctl. An empty StoreDir means the hcmctl
// directory under the user config dir.
type CLIOptions struct {
	StoreDir string `env:"HCMCTL_STORE_DIR"`
	// Password is used by connect when --password is not given.
	Password string `env:"HCM_PASSWORD"`
}

type SessionOptions struct {
	// IdleTTL evicts workspaces of browsers that stopped sending requests.
	IdleTTL  time.Duration `env:"SESSION_IDLE_TTL" envDefault:"24h"`
	BulkMode string        `env:"BULK_MODE" envDefault:"lenient"` // lenient or strict
}

type DatabaseOptions struct {
	Opts     string `env:"-"`
	Name     string `env:"DB_NAME" envDefault:"hcm_console"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

type ActivityLogOptions struct {
	Store string `env:"ACTIVITY_LOG_STORE" envDefault:"memory"` // memory or postgres
	Limit int    `env:"ACTIVITY_LOG_LIMIT" envDefault:"200"`
}

type LogOptions struct {
	Level string `env:"LOG_LEVEL" envDefault:"error"`
	Path  string `env:"LOG_PATH" envDefault:"./logs/app.log"`
}

type OpenTelemetryOptions struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	TempoURL    string `env:"OTEL_TEMPO_URL" envDefault:"localhost:4318"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"hcm-console"`
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type RateLimitOptions struct {
	Enabled   bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	GlobalRPS int    `env:"RATE_LIMIT_GLOBAL_RPS" envDefault:"100"`
	Storage   string `env:"RATE_LIMIT_STORAGE" envDefault:"memory"` // memory or redis
	RedisURL  string `env:"RATE_LIMIT_REDIS_URL"`
}

// Validate checks the rate limit configuration for errors
func (r *RateLimitOptions) Validate() error {
	if r.GlobalRPS < 0 {
		return fmt.Errorf("rate limit GlobalRPS must be non-negative, got %d", r.GlobalRPS)
	}
	if r.GlobalRPS > 1000000 {
		return fmt.Errorf("rate limit GlobalRPS too high, maximum is 1,000,000, got %d", r.GlobalRPS)
	}
	if r.Storage != "memory" && r.Storage != "redis" {
		return fmt.Errorf("rate limit Storage must be 'memory' or 'redis', got '%s'", r.Storage)
	}
	if r.Storage == "redis" && r.RedisURL == "" {
		return fmt.Errorf("rate limit RedisURL is required when Storage is 'redis'")
	}
	return nil
}

// OpsGuardOptions restrict /health and /debug routes in production to the
// listed CIDRs or a bearer token.
type OpsGuardOptions struct {
	Enabled bool   `env:"OPS_GUARD_ENABLED" envDefault:"false"`
	CIDRs   string `env:"OPS_GUARD_CIDRS"`
	Token   string `env:"OPS_GUARD_TOKEN"`
}

type Configuration struct {
	Backend       BackendOptions
	RecordStore   RecordStoreOptions
	Session       SessionOptions
	CLI           CLIOptions
	Database      DatabaseOptions
	ActivityLog   ActivityLogOptions
	Log           LogOptions
	OpenTelemetry OpenTelemetryOptions
	Prometheus    PrometheusOptions
	RateLimit     RateLimitOptions
	OpsGuard      OpsGuardOptions

	RedisURL           string `env:"REDIS_URL"`
	ServerPort         int    `env:"PORT" envDefault:"3200"`
	GoAppEnvironment   string `env:"GO_APP_ENV" envDefault:"development"`
	SocketAddress      string `env:"-"`
	Domain             string `env:"DOMAIN" envDefault:"localhost"`
	Origin             string `env:"ORIGIN" envDefault:"http://localhost:3200"`
	CorsAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
	MaxUploadSize      int64  `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"`
	MaxUploadMemory    int64  `env:"MAX_UPLOAD_MEMORY" envDefault:"33554432"`
	// The console will look for this header in the request, if it's not present, it will generate a random uuidv4
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
	// The console will look for this header in the request, if it's not present, it will use request.RemoteAddr
	RealIPHeader string `env:"REAL_IP_HEADER" envDefault:"X-Real-IP"`
	// Cookie holding the browser id that scopes connection and settings records
	BrowserCookieKey string        `env:"BROWSER_COOKIE_KEY" envDefault:"hcm_bid"`
	BrowserCookieTTL time.Duration `env:"BROWSER_COOKIE_TTL" envDefault:"8760h"`

	logOnce sync.Once
	logFile *os.File
	logger  *logrus.Logger
}

// Logger opens the log file on first use. If it cannot be opened the logger
// writes to stderr only.
func (c *Configuration) Logger() *logrus.Logger {
	c.logOnce.Do(func() {
		f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.Log.Path)
		if err != nil {
			logger = logging.ConsoleLogger(c.LogrusLogLevel())
			logger.WithError(err).WithField("path", c.Log.Path).Error("failed to open log file")
		}
		c.logFile = f
		c.logger = logger
	})
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.Log.Level {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func (c *Configuration) Scheme() string {
	if c.GoAppEnvironment == Production { // assume 'https' on production mode
		return "https"
	}
	return "http"
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas and whitespace.
func (c *Configuration) AllowedOrigins() []string {
	return strings.FieldsFunc(c.CorsAllowedOrigins, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
}

func Use() *Configuration {
	return singleton()
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	if err := c.validate(); err != nil {
		return err
	}

	c.Database.Opts = c.Database.ConnectionString()
	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}

	if os.Getenv("ORIGIN") == "" {
		if c.GoAppEnvironment == "development" {
			c.Origin = fmt.Sprintf("%s://%s:%d", c.Scheme(), c.Domain, c.ServerPort)
		} else {
			c.Origin = fmt.Sprintf("%s://%s", c.Scheme(), c.Domain)
		}
	}
	return nil
}

func (c *Configuration) validate() error {
	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("rate limit configuration error: %w", err)
	}
	if err := c.RecordStore.Validate(c.RedisURL); err != nil {
		return fmt.Errorf("record store configuration error: %w", err)
	}
	switch c.ActivityLog.Store {
	case "memory", "postgres":
	default:
		return fmt.Errorf("invalid ACTIVITY_LOG_STORE=%q (expected memory|postgres)", c.ActivityLog.Store)
	}
	if c.ActivityLog.Limit <= 0 {
		return fmt.Errorf("ACTIVITY_LOG_LIMIT must be positive, got %d", c.ActivityLog.Limit)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be non-negative, got %s", c.Backend.Timeout)
	}
	switch strings.ToLower(c.Session.BulkMode) {
	case "lenient", "strict":
	default:
		return fmt.Errorf("invalid BULK_MODE=%q (expected lenient|strict)", c.Session.BulkMode)
	}
	if c.Session.IdleTTL < 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be non-negative, got %s", c.Session.IdleTTL)
	}
	if strings.TrimSpace(c.Backend.URL) == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	return nil
}

// Unload handles a graceful shutdown.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
