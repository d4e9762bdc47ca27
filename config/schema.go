package config

// Schema is the JSON schema of the config file. Unknown properties are
// rejected so that typos are reported by the linter.
const Schema = `{
"$schema": "http://json-schema.org/draft-04/schema#",
"type": ["object", "null"],
"additionalProperties": false,
"definitions": {
	"StorageOptions": {
		"type": ["object", "null"],
		"additionalProperties": false,
		"properties": {
			"type": {
				"type": "string",
				"enum": ["", "redis", "memory"]
			},
			"host": {
				"type": "string",
				"format": "host-no-port"
			},
			"port": {
				"type": "integer",
				"minimum": 0,
				"maximum": 65535
			},
			"addrs": {
				"type": ["array", "null"],
				"items": {
					"type": "string"
				}
			},
			"username": {
				"type": "string"
			},
			"password": {
				"type": "string"
			},
			"database": {
				"type": "integer",
				"minimum": 0
			},
			"master_name": {
				"type": "string"
			},
			"sentinel_password": {
				"type": "string"
			},
			"enable_cluster": {
				"type": "boolean"
			},
			"optimisation_max_active": {
				"type": "integer",
				"minimum": 0
			},
			"timeout": {
				"type": "integer",
				"minimum": 0
			},
			"use_ssl": {
				"type": "boolean"
			},
			"ssl_insecure_skip_verify": {
				"type": "boolean"
			},
			"ca_file": {
				"type": "string"
			},
			"cert_file": {
				"type": "string"
			},
			"key_file": {
				"type": "string"
			},
			"tls_min_version": {
				"type": "string",
				"enum": ["", "1.0", "1.1", "1.2", "1.3"]
			},
			"tls_max_version": {
				"type": "string",
				"enum": ["", "1.0", "1.1", "1.2", "1.3"]
			},
			"connect_retries": {
				"type": "integer",
				"minimum": 0
			}
		}
	}
},
"properties": {
	"listen_address": {
		"type": "string",
		"format": "host-no-port"
	},
	"listen_port": {
		"type": "integer",
		"minimum": 1,
		"maximum": 65535
	},
	"log_level": {
		"type": "string",
		"enum": ["", "debug", "info", "warn", "warning", "error"]
	},
	"log_format": {
		"type": "string",
		"enum": ["", "default", "json"]
	},
	"storage": {
		"$ref": "#/definitions/StorageOptions"
	},
	"read_replica": {
		"type": ["object", "null"],
		"additionalProperties": false,
		"properties": {
			"host": {
				"type": "string",
				"format": "host-no-port"
			},
			"port": {
				"type": "integer",
				"minimum": 0,
				"maximum": 65535
			}
		}
	},
	"backend_call_timeout_ms": {
		"type": "integer",
		"minimum": 0
	},
	"search_timeout_ms": {
		"type": "integer",
		"minimum": 0
	},
	"http_server_options": {
		"type": ["object", "null"],
		"additionalProperties": false,
		"properties": {
			"read_timeout": {
				"type": "integer",
				"minimum": 0
			},
			"write_timeout": {
				"type": "integer",
				"minimum": 0
			}
		}
	},
	"max_request_body_size": {
		"type": "integer",
		"minimum": 0
	},
	"prometheus": {
		"type": ["object", "null"],
		"additionalProperties": false,
		"properties": {
			"enabled": {
				"type": "boolean"
			},
			"path": {
				"type": "string"
			},
			"metric_prefix": {
				"type": "string"
			}
		}
	},
	"cors": {
		"type": ["object", "null"],
		"additionalProperties": false,
		"properties": {
			"enable": {
				"type": "boolean"
			},
			"allowed_origins": {
				"type": ["array", "null"],
				"items": {
					"type": "string"
				}
			},
			"allowed_methods": {
				"type": ["array", "null"],
				"items": {
					"type": "string"
				}
			},
			"max_age": {
				"type": "integer",
				"minimum": 0
			}
		}
	}
}
}`
