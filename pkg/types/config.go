package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`

	// Database
	DatabaseDriver   string `envconfig:"DATABASE_DRIVER" default:"mysql"`
	DatabaseURL      string `envconfig:"DATABASE_URL"`
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     uint   `envconfig:"DATABASE_PORT" default:"3306"`
	DatabaseUser     string `envconfig:"DATABASE_USER"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD"`
	DatabaseName     string `envconfig:"DATABASE_NAME"`

	// UseMySQLDirect builds the DSN from the DATABASE_HOST/PORT/USER/PASSWORD/NAME
	// variables instead of DATABASE_URL.
	UseMySQLDirect bool `envconfig:"USE_MYSQL_DIRECT" default:"false"`

	MaxOpenConns      int  `envconfig:"DATABASE_MAX_OPEN_CONNS" default:"10"`
	MaxIdleTimeSec    uint `envconfig:"DATABASE_MAX_IDLE_TIME_SEC" default:"60"`
	KeepAliveSec      uint `envconfig:"DATABASE_KEEPALIVE_SEC" default:"300"`
	ConnectTimeoutSec uint `envconfig:"DATABASE_CONNECT_TIMEOUT_SEC" default:"5"`

	// Auth
	JWTAccessSecret  string `envconfig:"JWT_ACCESS_SECRET"`
	JWTRefreshSecret string `envconfig:"JWT_REFRESH_SECRET"`
	CookieName       string `envconfig:"SESSION_COOKIE_NAME" default:"session_id"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	// Resource file storage
	StorageBucket        string `envconfig:"STORAGE_BUCKET"`
	StoragePresignTTLSec uint   `envconfig:"STORAGE_PRESIGN_TTL_SEC" default:"300"`
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
