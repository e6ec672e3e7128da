package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"shipment-tracker/internal/core/proxy"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Redis holds the shipment store connection details.
	Redis RedisConfig `mapstructure:",squash"`

	// Carriers holds the external carrier endpoints and credentials.
	Carriers CarriersConfig `mapstructure:",squash"`

	// Tracking holds the orchestration tunables.
	Tracking TrackingConfig `mapstructure:",squash"`

	// Notifications holds the buyer notification collaborators.
	Notifications NotificationsConfig `mapstructure:",squash"`
}

// RedisConfig holds the document store connection details.
type RedisConfig struct {
	// URL has the form redis://[:password@]host[:port][/database].
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0" required:"true"`
	// PoolSize caps open connections; 0 keeps the driver default.
	PoolSize int `mapstructure:"REDIS_POOL_SIZE" default:"20"`
	// KeyNamespace prefixes poll cooldown and notification claim keys.
	KeyNamespace string `mapstructure:"REDIS_KEY_NAMESPACE"`
}

// CarrierEndpoint is the resolved configuration of a single carrier.
type CarrierEndpoint struct {
	BaseURL string
	APIKey  string
}

// Configured reports whether both the endpoint and the credential are present.
func (e CarrierEndpoint) Configured() bool {
	return e.BaseURL != "" && e.APIKey != ""
}

// CarriersConfig holds the carrier tracking API settings, keyed by provider.
type CarriersConfig struct {
	DHLURL      string `mapstructure:"CARRIER_DHL_URL"`
	DHLAPIKey   string `mapstructure:"CARRIER_DHL_API_KEY"`
	FedExURL    string `mapstructure:"CARRIER_FEDEX_URL"`
	FedExAPIKey string `mapstructure:"CARRIER_FEDEX_API_KEY"`
	UPSURL      string `mapstructure:"CARRIER_UPS_URL"`
	UPSAPIKey   string `mapstructure:"CARRIER_UPS_API_KEY"`

	// Timeout bounds every outbound carrier call.
	Timeout time.Duration `mapstructure:"CARRIER_TIMEOUT" default:"10s"`
	// RateLimit is the maximum number of requests per second per carrier.
	RateLimit float64 `mapstructure:"CARRIER_RATE_LIMIT" default:"5"`

	// Proxy routes carrier traffic through an egress proxy when enabled.
	Proxy proxy.Settings `mapstructure:",squash"`
}

// Endpoint returns the endpoint configured for the given provider name.
func (c CarriersConfig) Endpoint(provider string) CarrierEndpoint {
	switch strings.ToLower(provider) {
	case "dhl":
		return CarrierEndpoint{BaseURL: c.DHLURL, APIKey: c.DHLAPIKey}
	case "fedex":
		return CarrierEndpoint{BaseURL: c.FedExURL, APIKey: c.FedExAPIKey}
	case "ups":
		return CarrierEndpoint{BaseURL: c.UPSURL, APIKey: c.UPSAPIKey}
	default:
		return CarrierEndpoint{}
	}
}

// TrackingConfig holds the orchestrator and sweeper settings.
type TrackingConfig struct {
	// NumberPrefix is prepended to every generated tracking number.
	NumberPrefix string `mapstructure:"TRACKING_NUMBER_PREFIX" default:"BLOC" required:"true"`
	// PollCooldown is the minimum time between two live carrier polls of the same shipment.
	PollCooldown time.Duration `mapstructure:"TRACKING_POLL_COOLDOWN" default:"30s"`
	// SweepInterval is the period of the background refresh. Zero disables it.
	SweepInterval time.Duration `mapstructure:"TRACKING_SWEEP_INTERVAL" default:"5m"`
	// SweepConcurrency bounds the number of shipments refreshed in parallel.
	SweepConcurrency int `mapstructure:"TRACKING_SWEEP_CONCURRENCY" default:"4"`
}

// NotificationsConfig holds the user directory and notification webhook settings.
type NotificationsConfig struct {
	// UsersURL is the base URL of the marketplace user directory.
	UsersURL string `mapstructure:"USERS_URL"`
	// UsersToken is the bearer credential for the user directory.
	UsersToken string `mapstructure:"USERS_TOKEN"`
	// NotifyURL is the webhook receiving notification payloads.
	NotifyURL string `mapstructure:"NOTIFY_URL"`
	// NotifyToken is the bearer credential for the webhook.
	NotifyToken string `mapstructure:"NOTIFY_TOKEN"`
	// Timeout bounds directory lookups and webhook calls.
	Timeout time.Duration `mapstructure:"NOTIFY_TIMEOUT" default:"5s"`
	// DedupeTTL is how long a sent notification is remembered for redelivery checks.
	DedupeTTL time.Duration `mapstructure:"NOTIFY_DEDUPE_TTL" default:"24h"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
