package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "2MB"
	defaultMaxMessageLength   = 500
	defaultLogLimit           = 100
	defaultPollInterval       = 2 * time.Second
	defaultInAppExpiry        = 7 * 24 * time.Hour
	defaultIngestPort         = 8081
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Store selects and configures the record store backend
	Store *StoreConfig `json:"store" yaml:"store"`

	// SMS configuration; the service is "configured" only when enabled and all credentials are present
	SMS *SMSConfig `json:"sms" yaml:"sms"`

	// Firebase configuration for in-app push fan-out
	Firebase *FirebaseConfig `json:"firebase" yaml:"firebase"`

	// PubSub configuration for alert event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// Export configuration for snapshot archives
	Export *ExportConfig `json:"export" yaml:"export"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	// QRCode configuration for node label codes
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`

	Alert *AlertConfig `json:"alert" yaml:"alert"`

	Logs *LogsConfig `json:"logs" yaml:"logs"`

	// Ingest configures the Pub/Sub push endpoint for gateway readings
	Ingest *IngestConfig `json:"ingest" yaml:"ingest"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// StoreConfig defines the record store backend
type StoreConfig struct {
	// Provider is one of "memory", "firebase" or "postgres"
	Provider string `json:"provider" yaml:"provider"`

	// PollInterval is how often remote stores are polled to serve subscriptions
	PollInterval time.Duration `json:"pollInterval" yaml:"pollInterval"`

	Firebase *FirebaseDatabaseConfig `json:"firebase" yaml:"firebase"`
	Postgres *PostgresConfig         `json:"postgres" yaml:"postgres"`
}

// FirebaseDatabaseConfig defines the Realtime Database connection
type FirebaseDatabaseConfig struct {
	DatabaseURL     string `json:"databaseUrl" yaml:"databaseUrl"`
	ProjectID       string `json:"projectId" yaml:"projectId"`
	CredentialsPath string `json:"credentialsPath" yaml:"credentialsPath"`
}

// PostgresConfig defines the PostgreSQL document store connection
type PostgresConfig struct {
	DSN             string        `json:"dsn" yaml:"dsn"`
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
	AutoMigrate     bool          `json:"autoMigrate" yaml:"autoMigrate"`
}

// SMSConfig defines the SMS gateway configuration
type SMSConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	AccountSID  string `json:"accountSid" yaml:"accountSid"`
	AuthToken   string `json:"authToken" yaml:"authToken"`
	PhoneNumber string `json:"phoneNumber" yaml:"phoneNumber"`

	// Gateway is "simulated" (default) or "twilio"
	Gateway string `json:"gateway" yaml:"gateway"`
}

// Configured reports whether the SMS flag is on and every credential is present.
// Credentials are not validated.
func (c *SMSConfig) Configured() bool {
	if c == nil {
		return false
	}

	return c.Enabled &&
		strings.TrimSpace(c.AccountSID) != "" &&
		strings.TrimSpace(c.AuthToken) != "" &&
		strings.TrimSpace(c.PhoneNumber) != ""
}

// FirebaseConfig defines Firebase configuration for push notifications
type FirebaseConfig struct {
	ProjectID       string `json:"projectId" yaml:"projectId"`
	CredentialsPath string `json:"credentialsPath" yaml:"credentialsPath"`
	InAppTopic      string `json:"inAppTopic" yaml:"inAppTopic"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// ExportConfig defines where exported snapshots are archived
type ExportConfig struct {
	// BucketURL is a gocloud blob URL, e.g. file:///var/lib/cloudburst or gs://bucket
	BucketURL string `json:"bucketUrl" yaml:"bucketUrl"`
	Prefix    string `json:"prefix" yaml:"prefix"`
}

// AuthConfig defines admin authentication
type AuthConfig struct {
	Enabled           bool          `json:"enabled" yaml:"enabled"`
	AdminUser         string        `json:"adminUser" yaml:"adminUser"`
	AdminPasswordHash string        `json:"adminPasswordHash" yaml:"adminPasswordHash"`
	SecretKey         string        `json:"secretKey" yaml:"secretKey"`
	TokenTTL          time.Duration `json:"tokenTTL" yaml:"tokenTTL"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
	BaseURL              string `json:"baseUrl" yaml:"baseUrl"`
}

// AlertConfig defines alert dispatch limits
type AlertConfig struct {
	MaxMessageLength int           `json:"maxMessageLength" yaml:"maxMessageLength"`
	InAppExpiry      time.Duration `json:"inAppExpiry" yaml:"inAppExpiry"`
}

// LogsConfig defines the audit log view
type LogsConfig struct {
	SubscriptionLimit int `json:"subscriptionLimit" yaml:"subscriptionLimit"`
}

// IngestConfig defines the gateway reading worker
type IngestConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	Port           int    `json:"port" yaml:"port"`
	VerifyPushAuth bool   `json:"verifyPushAuth" yaml:"verifyPushAuth"`
	Audience       string `json:"audience" yaml:"audience"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate

			break
		}
	}

	if configFile == "" {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Environment variables override yaml values.
	// Example: SMS_ACCOUNTSID -> sms.accountSid
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.Store == nil {
		cfg.Store = &StoreConfig{}
	}
	if cfg.Store.Provider == "" {
		cfg.Store.Provider = "memory"
	}
	if cfg.Store.PollInterval <= 0 {
		cfg.Store.PollInterval = defaultPollInterval
	}
	if cfg.SMS == nil {
		cfg.SMS = &SMSConfig{}
	}
	if cfg.SMS.Gateway == "" {
		cfg.SMS.Gateway = "simulated"
	}
	if cfg.Alert == nil {
		cfg.Alert = &AlertConfig{}
	}
	if cfg.Alert.MaxMessageLength <= 0 {
		cfg.Alert.MaxMessageLength = defaultMaxMessageLength
	}
	if cfg.Alert.InAppExpiry <= 0 {
		cfg.Alert.InAppExpiry = defaultInAppExpiry
	}
	if cfg.Logs == nil {
		cfg.Logs = &LogsConfig{}
	}
	if cfg.Logs.SubscriptionLimit <= 0 {
		cfg.Logs.SubscriptionLimit = defaultLogLimit
	}
	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 12 * time.Hour
	}
	if cfg.Ingest == nil {
		cfg.Ingest = &IngestConfig{}
	}
	if cfg.Ingest.Port == 0 {
		cfg.Ingest.Port = defaultIngestPort
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
