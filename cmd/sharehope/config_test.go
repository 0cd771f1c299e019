package main

import (
	"testing"

	"sharehope/pkg/types"
)

func TestRedactURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"mysql://app:s3cret@db:3306/sharehope", "mysql://app:[redacted]@db:3306/sharehope"},
		{"app:s3cret@tcp(db:3306)/sharehope?parseTime=true", "app:[redacted]@tcp(db:3306)/sharehope?parseTime=true"},
		{"postgres://app@db/sharehope", "postgres://app@db/sharehope"},
		{"mysql://db:3306/sharehope", "mysql://db:3306/sharehope"},
	}

	for _, tt := range tests {
		if got := redactURL(tt.in); got != tt.want {
			t.Errorf("redactURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedactConfigLeavesOriginal(t *testing.T) {
	cfg := types.Config{
		DatabasePassword: "pw",
		JWTAccessSecret:  "access",
		CookieHashKey:    "hash",
		StorageBucket:    "files",
	}

	out := redactConfig(cfg)

	if out.DatabasePassword != redacted || out.JWTAccessSecret != redacted || out.CookieHashKey != redacted {
		t.Fatalf("secrets not redacted: %+v", out)
	}
	if out.JWTRefreshSecret != "" || out.StorageBucket != "files" {
		t.Fatalf("non-secret or empty fields changed: %+v", out)
	}
	if cfg.JWTAccessSecret != "access" {
		t.Fatalf("original config mutated")
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(&types.Config{}); err == nil {
		t.Fatal("expected error without a connection source")
	}

	cfg := &types.Config{DatabaseName: "sharehope"}
	if err := validateConfig(cfg); err != nil {
		t.Fatalf("validateConfig: %v", err)
	}
	if cfg.ServerPort != 8080 || cfg.ReadTimeoutSec != 10 || cfg.WriteTimeoutSec != 15 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}

	if err := validateServeConfig(cfg); err == nil {
		t.Fatal("expected serve to require JWT_ACCESS_SECRET")
	}
}
