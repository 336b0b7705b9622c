package config

import (
	"os"
	"strconv"
	"time"

	"pickup/internal/domain"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Pricing  PricingConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// PricingConfig holds the fare rate schedule. Every rate is split into a
// driver share and a company share; operators changing one side must
// adjust the other so the shares still sum to the customer rate.
type PricingConfig struct {
	BasePrice        float64
	DriverBasePay    float64
	CompanyBaseShare float64

	DistanceRate        float64
	DriverDistanceRate  float64
	CompanyDistanceRate float64

	TimeRate        float64
	DriverTimeRate  float64
	CompanyTimeRate float64

	SizeUpchargeLarge float64
	SizeUpchargeXL    float64

	ServiceFeeRate      float64
	MultiItemFee        float64
	RushFee             float64
	SmallOrderFee       float64
	SmallOrderThreshold float64

	// DriverCapPolicy is "preserve" or "scale"; see domain.DriverCapPolicy.
	DriverCapPolicy string

	// StrictConservation refuses to settle payouts whose breakdown fails
	// the conservation check.
	StrictConservation bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "return_pickup"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "return-pickup-service"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Pricing: PricingConfig{
			BasePrice:        getFloatEnv("PRICING_BASE_PRICE", 3.99),
			DriverBasePay:    getFloatEnv("PRICING_DRIVER_BASE_PAY", 3.00),
			CompanyBaseShare: getFloatEnv("PRICING_COMPANY_BASE_SHARE", 0.99),

			DistanceRate:        getFloatEnv("PRICING_DISTANCE_RATE", 0.50),
			DriverDistanceRate:  getFloatEnv("PRICING_DRIVER_DISTANCE_RATE", 0.35),
			CompanyDistanceRate: getFloatEnv("PRICING_COMPANY_DISTANCE_RATE", 0.15),

			TimeRate:        getFloatEnv("PRICING_TIME_RATE", 12.00),
			DriverTimeRate:  getFloatEnv("PRICING_DRIVER_TIME_RATE", 8.00),
			CompanyTimeRate: getFloatEnv("PRICING_COMPANY_TIME_RATE", 4.00),

			SizeUpchargeLarge: getFloatEnv("PRICING_SIZE_UPCHARGE_L", 2.00),
			SizeUpchargeXL:    getFloatEnv("PRICING_SIZE_UPCHARGE_XL", 5.00),

			ServiceFeeRate:      getFloatEnv("PRICING_SERVICE_FEE_RATE", 0.15),
			MultiItemFee:        getFloatEnv("PRICING_MULTI_ITEM_FEE", 1.00),
			RushFee:             getFloatEnv("PRICING_RUSH_FEE", 3.00),
			SmallOrderFee:       getFloatEnv("PRICING_SMALL_ORDER_FEE", 2.00),
			SmallOrderThreshold: getFloatEnv("PRICING_SMALL_ORDER_THRESHOLD", 8.00),

			DriverCapPolicy:    getEnv("PRICING_DRIVER_CAP_POLICY", "preserve"),
			StrictConservation: getBoolEnv("PAYOUT_STRICT_CONSERVATION", false),
		},
	}
}

// PaymentConfig converts the pricing section into the rate schedule the
// fare calculator consumes. Size upcharges are passed through to driver
// bonuses unchanged, so upcharges carry no company share.
func (p PricingConfig) PaymentConfig() *domain.PaymentConfig {
	policy := domain.DriverCapPreserve
	if p.DriverCapPolicy == string(domain.DriverCapScale) {
		policy = domain.DriverCapScale
	}

	sizeUpcharges := map[domain.SizeCategory]float64{
		domain.SizeSmall:      0,
		domain.SizeMedium:     0,
		domain.SizeLarge:      p.SizeUpchargeLarge,
		domain.SizeExtraLarge: p.SizeUpchargeXL,
	}

	driverSizeBonuses := map[domain.SizeCategory]float64{
		domain.SizeSmall:      0,
		domain.SizeMedium:     0,
		domain.SizeLarge:      p.SizeUpchargeLarge,
		domain.SizeExtraLarge: p.SizeUpchargeXL,
	}

	return &domain.PaymentConfig{
		BasePrice:        p.BasePrice,
		DriverBasePay:    p.DriverBasePay,
		CompanyBaseShare: p.CompanyBaseShare,

		DistanceRate:        p.DistanceRate,
		DriverDistanceRate:  p.DriverDistanceRate,
		CompanyDistanceRate: p.CompanyDistanceRate,

		TimeRate:        p.TimeRate,
		DriverTimeRate:  p.DriverTimeRate,
		CompanyTimeRate: p.CompanyTimeRate,

		SizeUpcharges:     sizeUpcharges,
		DriverSizeBonuses: driverSizeBonuses,

		ServiceFeeRate:      p.ServiceFeeRate,
		MultiItemFee:        p.MultiItemFee,
		RushFee:             p.RushFee,
		SmallOrderFee:       p.SmallOrderFee,
		SmallOrderThreshold: p.SmallOrderThreshold,

		DriverCapPolicy: policy,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
