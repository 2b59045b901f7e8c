package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/shopspring/decimal"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func baseEnv() map[string]string {
	return map[string]string{
		"JWT_SECRET": testSecret,
		"MONGO_URI":  "mongodb://localhost:27017",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(baseEnv()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want 3000", cfg.Port)
	}
	if cfg.Mongo.Database != "grocery-store" {
		t.Errorf("Mongo.Database = %q", cfg.Mongo.Database)
	}
	if !cfg.Mongo.Transactions {
		t.Error("Mongo.Transactions should default to true")
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Errorf("TokenTTL = %v, want 168h", cfg.TokenTTL)
	}
	if !cfg.Order.DeliveryFee.Equal(decimal.NewFromInt(50)) {
		t.Errorf("DeliveryFee = %s, want 50", cfg.Order.DeliveryFee)
	}
	if cfg.Order.StrictStatus {
		t.Error("StrictStatus should default to false")
	}
	if cfg.Admin.SeedEnabled() {
		t.Error("admin seeding should be off without credentials")
	}
	if cfg.Admin.Name != "Admin User" {
		t.Errorf("Admin.Name = %q", cfg.Admin.Name)
	}
	if !cfg.IsDevelopment() {
		t.Error("ENV should default to development")
	}
}

func TestLoad_Overrides(t *testing.T) {
	env := baseEnv()
	env["DELIVERY_FEE"] = "12.50"
	env["ORDER_STRICT_STATUS"] = "true"
	env["CORS_ORIGINS"] = "http://localhost:5173,https://shop.example.com"
	env["ADMIN_EMAIL"] = "admin@example.com"
	env["ADMIN_PASSWORD"] = "s3cret"
	env["MONGO_TRANSACTIONS"] = "false"
	env["ENV"] = "production"

	cfg, err := load(context.Background(), envconfig.MapLookuper(env))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !cfg.Order.DeliveryFee.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("DeliveryFee = %s", cfg.Order.DeliveryFee)
	}
	if !cfg.Order.StrictStatus {
		t.Error("StrictStatus should be true")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://shop.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if !cfg.Admin.SeedEnabled() {
		t.Error("admin seeding should be on")
	}
	if cfg.Mongo.Transactions {
		t.Error("Mongo.Transactions should be false")
	}
	if cfg.IsDevelopment() {
		t.Error("production env reported as development")
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr string
	}{
		{"missing secret", func(e map[string]string) { delete(e, "JWT_SECRET") }, "JWT_SECRET"},
		{"short secret", func(e map[string]string) { e["JWT_SECRET"] = "too-short" }, "at least 32 bytes"},
		{"missing mongo uri", func(e map[string]string) { delete(e, "MONGO_URI") }, "MONGO_URI"},
		{"negative fee", func(e map[string]string) { e["DELIVERY_FEE"] = "-1" }, "DELIVERY_FEE"},
		{"zero ttl", func(e map[string]string) { e["TOKEN_TTL"] = "0s" }, "TOKEN_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			tt.mutate(env)

			_, err := load(context.Background(), envconfig.MapLookuper(env))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
