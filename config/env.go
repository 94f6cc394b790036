package config

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	defaultAPIPrefix   = "/api/webStore"
	defaultAuthPrefix  = "/api/webStore/auth"
	defaultTokenFile   = ".storeadmin-token"
	defaultHTTPTimeout = "30s"
	defaultCacheDriver = "memory"
	defaultCacheTTL    = "5m"
	defaultRedisAddr   = "localhost:6379"
	defaultAppEnv      = "local"
	defaultPageSize    = "10"

	defaultMockPort   = "8082"
	defaultMockSecret = "change-me-in-production"
)

// ErrMissingBaseURL is returned by BaseURL when API_BASE_URL is not set
// anywhere. The dashboard cannot do anything without a backend, so callers
// treat this as a startup misconfiguration and abort.
var ErrMissingBaseURL = errors.New("config: API_BASE_URL is not set")

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

func defaultValues() map[string]string {
	return map[string]string{
		"API_BASE_URL":   "",
		"API_PREFIX":     defaultAPIPrefix,
		"AUTH_PREFIX":    defaultAuthPrefix,
		"TOKEN_PATH":     "",
		"HTTP_TIMEOUT":   defaultHTTPTimeout,
		"CACHE_DRIVER":   defaultCacheDriver,
		"CACHE_TTL":      defaultCacheTTL,
		"REDIS_ADDR":     defaultRedisAddr,
		"REDIS_PASSWORD": "",
		"APP_ENV":        defaultAppEnv,
		"PAGE_SIZE":      defaultPageSize,
		"MOCK_PORT":      defaultMockPort,
		"MOCK_SECRET":    defaultMockSecret,
	}
}

func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

// BaseURL returns the backend origin (e.g. http://localhost:8082).
// Missing configuration is an error, not a silent default.
func BaseURL() (string, error) {
	_ = Load()

	url := get("API_BASE_URL", "")
	if url == "" {
		return "", ErrMissingBaseURL
	}
	return strings.TrimRight(url, "/"), nil
}

// APIPrefix is the path prefix for resource endpoints.
func APIPrefix() string {
	_ = Load()
	return get("API_PREFIX", defaultAPIPrefix)
}

// AuthPrefix is the path prefix for the authentication endpoints.
func AuthPrefix() string {
	_ = Load()
	return get("AUTH_PREFIX", defaultAuthPrefix)
}

// TokenPath is the file holding the persisted bearer token. Defaults to
// ~/.storeadmin-token so a login survives process restarts.
func TokenPath() string {
	_ = Load()

	if p := get("TOKEN_PATH", ""); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultTokenFile
	}
	return filepath.Join(home, defaultTokenFile)
}

// HTTPTimeout is the per-attempt timeout for outgoing requests.
func HTTPTimeout() time.Duration {
	_ = Load()

	d, err := time.ParseDuration(get("HTTP_TIMEOUT", defaultHTTPTimeout))
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(defaultHTTPTimeout)
	}
	return d
}

// CacheDriver selects the list-query cache backend: "memory" or "redis".
func CacheDriver() string {
	_ = Load()

	driver := strings.ToLower(get("CACHE_DRIVER", defaultCacheDriver))
	switch driver {
	case "memory", "redis":
		return driver
	default:
		return defaultCacheDriver
	}
}

// CacheTTL bounds how long an unused list result may be served from cache.
// Mutations invalidate explicitly; the TTL only guards forgotten entries.
func CacheTTL() time.Duration {
	_ = Load()

	d, err := time.ParseDuration(get("CACHE_TTL", defaultCacheTTL))
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(defaultCacheTTL)
	}
	return d
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// PageSize is the default page size for server-side paginated lists.
func PageSize() int {
	_ = Load()

	n := 0
	fmt.Sscanf(get("PAGE_SIZE", defaultPageSize), "%d", &n)
	if n <= 0 {
		n = 10
	}
	return n
}

// ── Mock backend ─────────────────────────────────────────────────────────────

func MockPort() string {
	_ = Load()
	return get("MOCK_PORT", defaultMockPort)
}

func MockSecret() string {
	_ = Load()
	return get("MOCK_SECRET", defaultMockSecret)
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	// Real environment variables win over both files.
	for key := range loaded {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			loaded[key] = v
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
// Keys from .env and config/app.json are available after config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Set overrides a single config value in-process. Tests use this to point
// the client at an httptest server without touching the environment.
func Set(key, value string) {
	_ = Load()

	mu.Lock()
	values[strings.ToUpper(strings.TrimSpace(key))] = value
	mu.Unlock()
}
