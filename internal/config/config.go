package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/annel0/voxel-terrain/internal/world"
)

// Config корневая структура конфигурации сервиса террейна.

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	World    WorldConfig    `yaml:"world"`
	Storage  StorageConfig  `yaml:"storage"`
	EventBus EventBusConfig `yaml:"eventbus"`
}

type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

type WorldConfig struct {
	ChunkWidth    int    `yaml:"chunk_width"`
	ChunkHeight   int    `yaml:"chunk_height"`
	SubchunkDepth int    `yaml:"subchunk_depth"`
	NumSubchunks  int    `yaml:"num_subchunks"`
	BlocksFile    string `yaml:"blocks_file"`
}

type StorageConfig struct {
	Backend     string `yaml:"backend"` // file | badger
	Path        string `yaml:"path"`
	Compression bool   `yaml:"compression"`
}

type EventBusConfig struct {
	URL       string `yaml:"url"` // пусто — in-memory шина
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "TERRAIN_REST_PORT", 8088)
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "TERRAIN_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Params переводит конфигурацию мира в параметры геометрии.
// Нулевые значения заменяются дефолтами, итог проверяется Validate.
func (w *WorldConfig) Params() (world.Params, error) {
	p := world.DefaultParams()
	if w.ChunkWidth > 0 {
		p.ChunkWidth = w.ChunkWidth
	}
	if w.ChunkHeight > 0 {
		p.ChunkHeight = w.ChunkHeight
	}
	if w.SubchunkDepth > 0 {
		p.SubchunkDepth = w.SubchunkDepth
	}
	if w.NumSubchunks > 0 {
		p.NumSubchunks = w.NumSubchunks
	}
	if err := p.Validate(); err != nil {
		return world.Params{}, fmt.Errorf("секция world: %w", err)
	}
	return p, nil
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV TERRAIN_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("TERRAIN_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
