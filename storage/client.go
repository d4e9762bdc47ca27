package storage

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TykTechnologies/kvrouter/config"
)

// NewRedisClient creates a go-redis client for the given storage options
// and address list. A master name selects the sentinel-backed failover
// client, enable_cluster selects the cluster client.
func NewRedisClient(cfg config.StorageOptionsConf, addrs []string) redis.UniversalClient {
	// poolSize applies per cluster node and not for the whole cluster.
	poolSize := 500
	if cfg.MaxActive > 0 {
		poolSize = cfg.MaxActive
	}

	timeout := 5 * time.Second

	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}

	var tlsConfig *tls.Config

	if cfg.UseSSL {
		tlsConfig = createTLSConfig(cfg)
	}

	opts := &redis.UniversalOptions{
		Addrs:            addrs,
		MasterName:       cfg.MasterName,
		SentinelPassword: cfg.SentinelPassword,
		Username:         cfg.Username,
		Password:         cfg.Password,
		DB:               cfg.Database,
		DialTimeout:      timeout,
		ReadTimeout:      timeout,
		WriteTimeout:     timeout,
		PoolSize:         poolSize,
		TLSConfig:        tlsConfig,
	}

	if opts.MasterName != "" {
		log.Info("--> [REDIS] Creating sentinel-backed failover client")
		return redis.NewFailoverClient(opts.Failover())
	}

	if cfg.EnableCluster {
		log.Info("--> [REDIS] Creating cluster client")
		return redis.NewClusterClient(opts.Cluster())
	}

	log.Info("--> [REDIS] Creating single-node client")
	return redis.NewClient(opts.Simple())
}

func createTLSConfig(cfg config.StorageOptionsConf) *tls.Config {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.SSLInsecureSkipVerify,
	}

	if cfg.CAFile != "" {
		caCert, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			log.WithError(err).Error("Failed to load CA certificate for Redis")
		} else {
			caCertPool := x509.NewCertPool()
			if !caCertPool.AppendCertsFromPEM(caCert) {
				log.Error("Failed to parse CA certificate for Redis")
			} else {
				tlsConfig.RootCAs = caCertPool
			}
		}
	}

	// mutual TLS
	if cfg.CertFile != "" && cfg.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			log.WithError(err).Error("Failed to load client certificate and key for Redis")
		} else {
			tlsConfig.Certificates = []tls.Certificate{cert}
		}
	}

	if version, ok := config.TLSVersion(cfg.TLSMinVersion); ok {
		tlsConfig.MinVersion = version
	}
	if version, ok := config.TLSVersion(cfg.TLSMaxVersion); ok {
		tlsConfig.MaxVersion = version
	}

	return tlsConfig
}
