package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

const EnvPrefix = "BLOGFRONT"

var ErrInvalid = errors.New("invalid configuration")

type Google struct {
	ClientID     string
	ClientSecret string
	// RedirectURL must point at the web front's /auth/google/callback.
	RedirectURL string
}

type Configuration struct {
	// APIURL is the base of the backend's REST API, e.g. http://localhost:8080/api.
	APIURL *url.URL
	// Listen is the address the web front listens on.
	Listen string
	// Debug, if true, will make the application log all HTTP requests and other events.
	Debug bool
	// SessionKey encrypts the cookie that holds each browser's session. It must be 32 bytes long.
	SessionKey      string
	SessionLifetime time.Duration
	SecureCookies   bool
	// Storage selects where the terminal front keeps its session: StorageSQLite or StorageFile.
	Storage     string
	StoragePath string
	// StaticDir is the directory on which the stylesheet and other static files can be found.
	StaticDir string
	// Categories offered by the post form and the category filter. The first one disables filtering.
	Categories     []string
	RequestTimeout time.Duration
	// CacheSize bounds the number of signed-in sessions whose caches the web front keeps.
	CacheSize int
	CacheTTL  time.Duration
	Google    Google
}

// Defaults registers the default value of every key on v.
func Defaults(v *viper.Viper) {
	v.SetDefault("api_url", "http://localhost:8080/api")
	v.SetDefault("listen", ":4200")
	v.SetDefault("debug", false)
	v.SetDefault("session_key", "")
	v.SetDefault("session_lifetime", 24*time.Hour)
	v.SetDefault("secure_cookies", false)
	v.SetDefault("storage", StorageSQLite)
	v.SetDefault("storage_path", "blogfront.db")
	v.SetDefault("static_dir", "static")
	v.SetDefault("categories", []string{"Tous", "Technologie", "Voyage", "Cuisine", "Sport", "Culture"})
	v.SetDefault("request_timeout", 15*time.Second)
	v.SetDefault("cache_size", 256)
	v.SetDefault("cache_ttl", 30*time.Minute)
	v.SetDefault("google.client_id", "")
	v.SetDefault("google.client_secret", "")
	v.SetDefault("google.redirect_url", "http://localhost:4200/auth/google/callback")
}

// New returns a viper instance reading blogfront.yaml and BLOGFRONT_ variables. An empty path
// searches the working directory and $HOME/.config/blogfront.
func New(path string) *viper.Viper {
	v := viper.New()
	Defaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("blogfront")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/blogfront")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadConfig reads the configuration file, if there is one, and decodes it.
func ReadConfig(v *viper.Viper) (Configuration, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Configuration{}, fmt.Errorf("reading config: %w", err)
		}
	}
	return Load(v)
}

// Load decodes the values already known to v.
func Load(v *viper.Viper) (Configuration, error) {
	apiURL, err := url.Parse(v.GetString("api_url"))
	if err != nil || apiURL.Scheme == "" || apiURL.Host == "" {
		return Configuration{}, fmt.Errorf("%w: api_url %q", ErrInvalid, v.GetString("api_url"))
	}

	c := Configuration{
		APIURL:          apiURL,
		Listen:          v.GetString("listen"),
		Debug:           v.GetBool("debug"),
		SessionKey:      v.GetString("session_key"),
		SessionLifetime: v.GetDuration("session_lifetime"),
		SecureCookies:   v.GetBool("secure_cookies"),
		Storage:         strings.ToLower(v.GetString("storage")),
		StoragePath:     v.GetString("storage_path"),
		StaticDir:       v.GetString("static_dir"),
		Categories:      v.GetStringSlice("categories"),
		RequestTimeout:  v.GetDuration("request_timeout"),
		CacheSize:       v.GetInt("cache_size"),
		CacheTTL:        v.GetDuration("cache_ttl"),
		Google: Google{
			ClientID:     v.GetString("google.client_id"),
			ClientSecret: v.GetString("google.client_secret"),
			RedirectURL:  v.GetString("google.redirect_url"),
		},
	}

	switch c.Storage {
	case StorageSQLite, StorageFile:
	default:
		return c, fmt.Errorf("%w: unknown storage %q", ErrInvalid, c.Storage)
	}
	if c.CacheSize <= 0 {
		return c, fmt.Errorf("%w: cache_size must be positive", ErrInvalid)
	}
	return c, nil
}

// CheckSessionKey reports whether the key can encrypt session cookies.
func (c Configuration) CheckSessionKey() error {
	if len(c.SessionKey) != 32 {
		return fmt.Errorf("%w: session_key must be 32 bytes long, got %d", ErrInvalid, len(c.SessionKey))
	}
	return nil
}
