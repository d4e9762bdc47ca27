package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/kelseyhightower/envconfig"

	logger "github.com/TykTechnologies/kvrouter/log"
)

var log = logger.Get().WithField("prefix", "config")

const (
	envPrefix = "KVROUTER"

	// StorageRedis talks to an external Redis compatible server.
	StorageRedis = "redis"
	// StorageMemory keeps the keyspace in process. It needs no server and
	// is meant for development and tests.
	StorageMemory = "memory"
)

// StorageOptionsConf describes the read-write backend connection.
type StorageOptionsConf struct {
	// Type is either "redis" (default) or "memory".
	Type string `json:"type"`
	// Host of the Redis server. Ignored when Addrs is set.
	Host string `json:"host"`
	// Port of the Redis server. Ignored when Addrs is set.
	Port int `json:"port"`
	// Addrs is a list of host:port seeds, used for cluster and sentinel setups.
	Addrs []string `json:"addrs"`
	// Username and Password are the credentials used for every connection,
	// including the read replica.
	Username string `json:"username"`
	Password string `json:"password"`
	// Database selects the logical Redis database.
	Database int `json:"database"`
	// MasterName enables a sentinel backed failover client.
	MasterName       string `json:"master_name"`
	SentinelPassword string `json:"sentinel_password"`
	// EnableCluster creates a Redis cluster client.
	EnableCluster bool `json:"enable_cluster"`
	// MaxActive is the connection pool size per node.
	MaxActive int `json:"optimisation_max_active"`
	// Timeout is the dial, read and write timeout in seconds.
	Timeout int `json:"timeout"`

	UseSSL                bool   `json:"use_ssl"`
	SSLInsecureSkipVerify bool   `json:"ssl_insecure_skip_verify"`
	CAFile                string `json:"ca_file"`
	CertFile              string `json:"cert_file"`
	KeyFile               string `json:"key_file"`
	TLSMinVersion         string `json:"tls_min_version"`
	TLSMaxVersion         string `json:"tls_max_version"`

	// ConnectRetries is the number of extra startup ping attempts, spaced
	// with exponential backoff. Zero means a single attempt.
	ConnectRetries int `json:"connect_retries"`
}

// ReadReplicaConf points reads at a replica. Unset fields fall back to
// the read-write storage settings.
type ReadReplicaConf struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type HttpServerOptionsConfig struct {
	// ReadTimeout and WriteTimeout are expressed in seconds.
	ReadTimeout  int `json:"read_timeout"`
	WriteTimeout int `json:"write_timeout"`
}

// PrometheusConfig controls the metrics endpoint.
type PrometheusConfig struct {
	Enabled      bool   `json:"enabled"`
	Path         string `json:"path"`
	MetricPrefix string `json:"metric_prefix"`
}

// CORSConfig enables cross origin requests on the API.
type CORSConfig struct {
	Enable         bool     `json:"enable"`
	AllowedOrigins []string `json:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods"`
	MaxAge         int      `json:"max_age"`
}

// Config is the full router configuration.
type Config struct {
	// OriginalPath is the path of the file the config was loaded from.
	OriginalPath string `json:"-" ignored:"true"`

	ListenAddress string `json:"listen_address"`
	ListenPort    int    `json:"listen_port"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	Storage     StorageOptionsConf `json:"storage"`
	ReadReplica ReadReplicaConf    `json:"read_replica"`

	// BackendCallTimeoutMs bounds every single get, set, ping and size call.
	BackendCallTimeoutMs int `json:"backend_call_timeout_ms"`
	// SearchTimeoutMs bounds a whole keyspace scan.
	SearchTimeoutMs int `json:"search_timeout_ms"`

	HttpServerOptions  HttpServerOptionsConfig `json:"http_server_options"`
	MaxRequestBodySize int64                   `json:"max_request_body_size"`

	Prometheus PrometheusConfig `json:"prometheus"`
	CORS       CORSConfig       `json:"cors"`
}

var Default = Config{
	ListenPort: 5000,
	LogLevel:   "info",
	LogFormat:  "default",
	Storage: StorageOptionsConf{
		Type:    StorageRedis,
		Host:    "localhost",
		Port:    6379,
		Timeout: 5,
	},
	BackendCallTimeoutMs: 5000,
	SearchTimeoutMs:      30000,
	HttpServerOptions: HttpServerOptionsConfig{
		ReadTimeout:  120,
		WriteTimeout: 120,
	},
	MaxRequestBodySize: 64 << 10,
	Prometheus: PrometheusConfig{
		Enabled:      true,
		Path:         "/metrics",
		MetricPrefix: "kvrouter",
	},
}

// legacyEnv holds the unprefixed variables the router has always honoured,
// e.g. the ones injected by Kubernetes for a "redis" service.
type legacyEnv struct {
	Host     string `envconfig:"REDIS_SERVICE_HOST"`
	Port     int    `envconfig:"REDIS_SERVICE_PORT"`
	Password string `envconfig:"REDIS_PASSWORD"`
	ReadHost string `envconfig:"REDIS_READ_SERVICE_HOST"`
	ReadPort int    `envconfig:"REDIS_READ_SERVICE_PORT"`
}

// FillEnv overlays the environment on conf. Legacy variables are applied
// first so the KVROUTER_ prefixed ones win.
func FillEnv(conf *Config) error {
	var legacy legacyEnv
	if err := envconfig.Process("", &legacy); err != nil {
		return fmt.Errorf("failed to process legacy env vars: %w", err)
	}
	legacy.apply(conf)

	if err := envconfig.Process(envPrefix, conf); err != nil {
		return fmt.Errorf("failed to process config env vars: %w", err)
	}
	return nil
}

func (l legacyEnv) apply(conf *Config) {
	if l.Host != "" {
		conf.Storage.Host = l.Host
	}
	if l.Port != 0 {
		conf.Storage.Port = l.Port
	}
	if l.Password != "" {
		conf.Storage.Password = l.Password
	}
	if l.ReadHost != "" {
		conf.ReadReplica.Host = l.ReadHost
	}
	if l.ReadPort != 0 {
		conf.ReadReplica.Port = l.ReadPort
	}
}

// LoadDefault sets conf to a copy of the default config and applies the
// environment on top of it.
func LoadDefault(conf *Config) error {
	if err := setDefault(conf); err != nil {
		return err
	}
	return FillEnv(conf)
}

// setDefault deep copies Default into conf.
func setDefault(conf *Config) error {
	b, err := json.Marshal(Default)
	if err != nil {
		return err
	}
	*conf = Config{}
	return json.Unmarshal(b, conf)
}

// Load will load a configuration file, trying each of the paths given
// and using the first one that is a regular file and can be opened.
// Values missing from the file keep their defaults.
//
// If none exists, the defaults and the environment are used.
//
// An error will be returned only if any of the paths existed but was
// not a valid config file.
func Load(paths []string, conf *Config) error {
	if err := setDefault(conf); err != nil {
		return err
	}

	var r io.Reader
	for _, path := range paths {
		if path == "" {
			continue
		}
		f, err := os.Open(path)
		if err == nil {
			defer f.Close()
			r = f
			conf.OriginalPath = path
			break
		}
		if os.IsNotExist(err) {
			continue
		}
		return err
	}
	if r == nil {
		log.Warn("No config file found, using defaults and environment")
		return FillEnv(conf)
	}
	if err := json.NewDecoder(r).Decode(conf); err != nil {
		return fmt.Errorf("couldn't unmarshal config: %w", err)
	}
	return FillEnv(conf)
}

// BackendCallTimeout returns the per call deadline, zero when disabled.
func (c *Config) BackendCallTimeout() time.Duration {
	return time.Duration(c.BackendCallTimeoutMs) * time.Millisecond
}

// SearchTimeout returns the deadline of a full scan, zero when disabled.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutMs) * time.Millisecond
}

// ListenAddr returns the address the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ListenAddress, c.ListenPort)
}
