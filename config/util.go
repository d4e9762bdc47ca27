package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

var (
	ErrUnknownStorageType = errors.New("unknown storage type")
	ErrInvalidPort        = errors.New("invalid port")
	ErrInvalidTLSVersion  = errors.New("invalid TLS version")
)

// New produces a new config object from the defaults, the first config
// file found in paths and the environment.
func New(paths ...string) (*Config, error) {
	cfg := new(Config)
	if err := Load(paths, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewDefaultWithEnv gives a deep clone of the Default configuration and
// fills it from environment provided.
func NewDefaultWithEnv() (*Config, error) {
	cfg := new(Config)
	if err := LoadDefault(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise only fail once the
// router starts talking to the backend.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "", StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageType, c.Storage.Type)
	}

	if c.ListenPort <= 0 || c.ListenPort > 65535 {
		return fmt.Errorf("%w: listen_port %d", ErrInvalidPort, c.ListenPort)
	}

	if c.Storage.Type != StorageMemory && len(c.Storage.Addrs) == 0 {
		if c.Storage.Port <= 0 || c.Storage.Port > 65535 {
			return fmt.Errorf("%w: storage.port %d", ErrInvalidPort, c.Storage.Port)
		}
	}

	if c.ReadReplica.Port < 0 || c.ReadReplica.Port > 65535 {
		return fmt.Errorf("%w: read_replica.port %d", ErrInvalidPort, c.ReadReplica.Port)
	}

	for _, v := range []string{c.Storage.TLSMinVersion, c.Storage.TLSMaxVersion} {
		if v == "" {
			continue
		}
		if _, ok := TLSVersion(v); !ok {
			return fmt.Errorf("%w: %q", ErrInvalidTLSVersion, v)
		}
	}

	return nil
}

// HostAddrs returns a sanitized list of hosts to connect to.
func (config *StorageOptionsConf) HostAddrs() (addrs []string) {
	if len(config.Addrs) != 0 {
		return config.Addrs
	}

	if config.Port != 0 {
		addrs = append(addrs, config.Host+":"+strconv.Itoa(config.Port))
	}

	return addrs
}

// ReadAddrs returns the addresses reads are served from. A read replica
// inherits whatever part of the address it leaves unset from the address
// writes go to.
func (c *Config) ReadAddrs() []string {
	writeAddrs := c.Storage.HostAddrs()
	if c.ReadReplica.Host == "" && c.ReadReplica.Port == 0 {
		return writeAddrs
	}

	host, port := c.Storage.Host, strconv.Itoa(c.Storage.Port)
	if len(writeAddrs) > 0 {
		if h, p, err := net.SplitHostPort(writeAddrs[0]); err == nil {
			host, port = h, p
		}
	}

	if c.ReadReplica.Host != "" {
		host = c.ReadReplica.Host
	}
	if c.ReadReplica.Port != 0 {
		port = strconv.Itoa(c.ReadReplica.Port)
	}
	return []string{host + ":" + port}
}
