package main

import (
	"context"
	"testing"

	"github.com/mind-engage/eduquiz/internal/config"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cases := []struct {
		driver     string
		wantEvents bool
	}{
		{"memory", false},
		{"file", false},
		{"sqlite", true},
	}
	for _, tc := range cases {
		t.Run(tc.driver, func(t *testing.T) {
			cfg := config.Config{StoreDriver: tc.driver, StoreBasePath: dir, DBDSN: "file:" + dir + "/main.db"}
			st, err := openStore(ctx, cfg)
			if err != nil {
				t.Fatalf("open %s: %v", tc.driver, err)
			}
			defer st.kv.Close()
			if (st.events != nil) != tc.wantEvents {
				t.Fatalf("events wired = %v, want %v", st.events != nil, tc.wantEvents)
			}
			if err := st.kv.PutMany(ctx, map[string][]byte{"k": []byte("v")}); err != nil {
				t.Fatalf("put: %v", err)
			}
		})
	}

	if _, err := openStore(ctx, config.Config{StoreDriver: "mongo"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
