package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	Defaults(v)

	c, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if c.APIURL.String() != "http://localhost:8080/api" {
		t.Errorf("unexpected api url %s", c.APIURL)
	}
	if c.Storage != StorageSQLite || c.RequestTimeout != 15*time.Second {
		t.Errorf("unexpected defaults %+v", c)
	}
	if c.Categories[0] != "Tous" {
		t.Errorf("expected the catch-all category first, got %v", c.Categories)
	}
}

func TestReadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blogfront.yaml")
	content := `
api_url: https://blog.example.com/api
storage: FILE
session_lifetime: 2h
categories: [Tous, Go]
google:
  client_id: abc
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := ReadConfig(New(path))
	if err != nil {
		t.Fatal(err)
	}
	if c.APIURL.Host != "blog.example.com" || c.Storage != StorageFile || c.SessionLifetime != 2*time.Hour {
		t.Errorf("unexpected configuration %+v", c)
	}
	if diff := cmp.Diff([]string{"Tous", "Go"}, c.Categories); diff != "" {
		t.Error(diff)
	}
	if c.Google.ClientID != "abc" {
		t.Errorf("unexpected google client id %q", c.Google.ClientID)
	}
}

func TestEnvironment(t *testing.T) {
	t.Setenv("BLOGFRONT_LISTEN", ":9999")
	t.Setenv("BLOGFRONT_GOOGLE_CLIENT_SECRET", "s3cret")

	c, err := Load(New(""))
	if err != nil {
		t.Fatal(err)
	}
	if c.Listen != ":9999" || c.Google.ClientSecret != "s3cret" {
		t.Errorf("expected environment overrides, got %+v", c)
	}
}

func TestInvalid(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value any
	}{
		{"relative api url", "api_url", "/api"},
		{"unknown storage", "storage", "redis"},
		{"empty cache", "cache_size", 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := viper.New()
			Defaults(v)
			v.Set(c.key, c.value)
			if _, err := Load(v); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSessionKey(t *testing.T) {
	if err := (Configuration{SessionKey: "short"}).CheckSessionKey(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if err := (Configuration{SessionKey: "u46IpCV9y5Vlur8YvODJEhgOY8m9JVE4"}).CheckSessionKey(); err != nil {
		t.Error(err)
	}
}
