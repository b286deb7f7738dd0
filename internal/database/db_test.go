package database

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
)

func TestDSNPinsUTC(t *testing.T) {
	cfg, err := mysql.ParseDSN(DSN("app", "secret", "db", "3306", "trains"))
	if err != nil {
		t.Fatalf("ParseDSN: %v", err)
	}
	if cfg.Loc != time.UTC || !cfg.ParseTime {
		t.Fatalf("loc=%v parseTime=%v, want UTC/true", cfg.Loc, cfg.ParseTime)
	}
	if got := cfg.Params["time_zone"]; got != "'+00:00'" {
		t.Fatalf("time_zone = %q, want '+00:00'", got)
	}
	if cfg.Addr != "db:3306" || cfg.DBName != "trains" {
		t.Fatalf("addr=%q db=%q", cfg.Addr, cfg.DBName)
	}
}
