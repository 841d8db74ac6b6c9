package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Shipping  ShippingConfig
	Carrier   CarrierConfig
	Stream    StreamConfig
	RateLimit RateLimitConfig
	Kafka     KafkaConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Kolkata"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Last-Event-ID"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Retry-After"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Kolkata"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"19800"` // 5.5*60*60
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL time.Duration `envconfig:"JWT_TOKEN_TTL" default:"24h"`
}

// Monetary values are in minor units (paise).
type ShippingConfig struct {
	FreeShippingThreshold  int64  `envconfig:"FREE_SHIPPING_THRESHOLD" default:"99900"`
	FlatShippingFee        int64  `envconfig:"FLAT_SHIPPING_FEE" default:"9900"`
	PickupPostalCode       string `envconfig:"PICKUP_POSTAL_CODE" required:"true"`
	DefaultItemWeightGrams int    `envconfig:"DEFAULT_ITEM_WEIGHT_GRAMS" default:"500"`
}

type CarrierConfig struct {
	Primary          string        `envconfig:"CARRIER_PRIMARY" default:"shiprocket"`
	Timeout          time.Duration `envconfig:"CARRIER_TIMEOUT" default:"8s"`
	ShiprocketURL    string        `envconfig:"SHIPROCKET_BASE_URL" default:"https://apiv2.shiprocket.in/v1/external"`
	ShiprocketEmail  string        `envconfig:"SHIPROCKET_EMAIL"`
	ShiprocketPass   string        `envconfig:"SHIPROCKET_PASSWORD"`
	PickupLocation   string        `envconfig:"SHIPROCKET_PICKUP_LOCATION" default:"Primary"`
	DelhiveryURL     string        `envconfig:"DELHIVERY_BASE_URL" default:"https://track.delhivery.com"`
	DelhiveryToken   string        `envconfig:"DELHIVERY_TOKEN"`
	TrackingCacheTTL time.Duration `envconfig:"TRACKING_CACHE_TTL" default:"5m"`
	TrackingCacheLen int           `envconfig:"TRACKING_CACHE_SIZE" default:"1024"`
}

type StreamConfig struct {
	KeepAlive     time.Duration `envconfig:"STREAM_KEEPALIVE" default:"20s"`
	TrackingPoll  time.Duration `envconfig:"STREAM_TRACKING_POLL" default:"2m"`
	SessionBuffer int           `envconfig:"STREAM_BUFFER" default:"32"`
}

type RateLimitConfig struct {
	RPS     float64 `envconfig:"RATE_LIMIT_RPS" default:"2"`
	Burst   int     `envconfig:"RATE_LIMIT_BURST" default:"10"`
	Clients int     `envconfig:"RATE_LIMIT_CLIENTS" default:"10000"`

	// Idle overrides how long an untouched bucket is kept; zero derives it
	// from the refill time.
	Idle time.Duration `envconfig:"RATE_LIMIT_IDLE"`
}

// An empty broker list disables the outbound relay.
type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"order-events"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Kolkata",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Kolkata",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 19800,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			TokenTTL: time.Hour,
		},
		Shipping: ShippingConfig{
			FreeShippingThreshold:  99900,
			FlatShippingFee:        9900,
			PickupPostalCode:       "110001",
			DefaultItemWeightGrams: 500,
		},
		Carrier: CarrierConfig{
			Primary:          "shiprocket",
			Timeout:          2 * time.Second,
			PickupLocation:   "Primary",
			TrackingCacheTTL: time.Minute,
			TrackingCacheLen: 64,
		},
		Stream: StreamConfig{
			KeepAlive:     20 * time.Second,
			TrackingPoll:  2 * time.Minute,
			SessionBuffer: 8,
		},
		RateLimit: RateLimitConfig{
			RPS:     100,
			Burst:   100,
			Clients: 128,
		},
		Kafka: KafkaConfig{
			Topic: "order-events",
		},
	}
}
