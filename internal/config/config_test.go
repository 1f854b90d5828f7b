package config

import (
	"strings"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Mode != ModeOffline || cfg.HTTPAddr != ":8080" || cfg.StoreDriver != "sqlite" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Fatalf("fetch timeout = %s, want 10s", cfg.FetchTimeout)
	}
	if cfg.CoursesURL != DefaultCoursesURL {
		t.Fatalf("courses url = %q", cfg.CoursesURL)
	}
	if got := cfg.CORSOrigins(); len(got) != 2 || got[0] != "http://localhost:3000" {
		t.Fatalf("offline origins = %v", got)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("FETCH_TIMEOUT", "2s")
	t.Setenv("CORS_ORIGINS_ONLINE", "https://a.example,https://b.example")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.FetchTimeout != 2*time.Second || cfg.StoreDriver != "redis" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if got := cfg.CORSOrigins(); len(got) != 2 || got[1] != "https://b.example" {
		t.Fatalf("online origins = %v", got)
	}
}

func TestCoursesURLOverride(t *testing.T) {
	t.Setenv("COURSES_URL", "https://feed.example/courses.json")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.CoursesURL != "https://feed.example/courses.json" {
		t.Fatalf("courses url = %q", cfg.CoursesURL)
	}

	t.Setenv("COURSES_URL", "")
	if cfg, _ = FromEnv(); cfg.CoursesURL != DefaultCoursesURL {
		t.Fatalf("empty COURSES_URL gave %q", cfg.CoursesURL)
	}
}

func TestFromEnvErrors(t *testing.T) {
	cases := map[string][2]string{
		"bad duration": {"FETCH_TIMEOUT", "soon"},
		"bad driver":   {"STORE_DRIVER", "mongo"},
		"bad mode":     {"MODE", "sideways"},
		"zero timeout": {"FETCH_TIMEOUT", "0s"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := FromEnv(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseErrorPrefix(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	_, err := FromEnv()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("err = %v", err)
	}
}
