package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileSize = 1024 * 1024 // 1MB

// envPrefix scopes environment overrides to this service.
const envPrefix = "SENSEI_"

// Load loads configuration from a YAML file, then overrides with
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (SENSEI_SERVER_PORT, SENSEI_EMBEDDINGS_PROVIDER, ...)
//  2. YAML config file
//  3. Hardcoded defaults
//
// The configPath parameter names the YAML file. If empty, the default
// path ~/.config/sensei/config.yaml is used; a missing file is not an
// error, the defaults apply.
//
// Environment variables strip the SENSEI_ prefix and split on the
// first underscore into section and field. The vector store backend
// sections nest one level deeper and are mapped explicitly:
//
//	SENSEI_SERVER_PORT                  -> server.port
//	SENSEI_EMBEDDINGS_BASE_URL          -> embeddings.base_url
//	SENSEI_INGEST_CHUNK_SIZE            -> ingest.chunk_size
//	SENSEI_VECTORSTORE_QDRANT_HOST      -> vectorstore.qdrant.host
//	SENSEI_VECTORSTORE_CHROMEM_PATH     -> vectorstore.chromem.path
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "sensei", "config.yaml")
	}

	if _, err := os.Stat(configPath); err == nil {
		// Open once and stat through the descriptor to avoid a TOCTOU race.
		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
		}

		content, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// SENSEI_SERVER_SHUTDOWN_TIMEOUT -> server.shutdown_timeout:
		// split on the first underscore only, keep the rest as the
		// field name. The vectorstore backend sub-sections need a
		// second split to reach their nested keys.
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		if rest, ok := strings.CutPrefix(lower, "vectorstore_chromem_"); ok {
			return "vectorstore.chromem." + rest
		}
		if rest, ok := strings.CutPrefix(lower, "vectorstore_qdrant_"); ok {
			return "vectorstore.qdrant." + rest
		}
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
