package park

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/sparkparks/parkmanager/park/economy"
	"github.com/sparkparks/parkmanager/park/ridecount"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.Node.Name != "park1" || !slices.Equal(c.Node.Parks, []string{"park"}) || c.Node.DataFolder != "data" {
		t.Fatalf("node defaults: %+v", c.Node)
	}
	if c.Status.Address != "" {
		t.Fatalf("status enabled by default: %q", c.Status.Address)
	}
	if c.Economy.Driver != "sqlite" || c.Economy.File != "economy.db" {
		t.Fatalf("economy defaults: %+v", c.Economy)
	}
	if c.RideCount.Driver != "sqlite" || c.RideCount.File != "ridecount.db" {
		t.Fatalf("ride count defaults: %+v", c.RideCount)
	}
	if !c.Storage.SaveRecords || c.Storage.Folder != "records" {
		t.Fatalf("storage defaults: %+v", c.Storage)
	}
	if c.Staff.File != "staff.toml" {
		t.Fatalf("staff defaults: %+v", c.Staff)
	}
}

func TestUserConfigMemory(t *testing.T) {
	dir := t.TempDir()
	uc := UserConfig{}
	uc.Node.Name = "castle1"
	uc.Node.Parks = []string{"castle"}
	uc.Node.DataFolder = dir
	uc.Economy.Driver = "memory"
	uc.RideCount.Driver = "memory"
	uc.Staff.File = filepath.Join(dir, "staff.toml")

	conf, err := uc.Config(slog.New(slog.DiscardHandler), Env{})
	if err != nil {
		t.Fatalf("convert config: %v", err)
	}
	if conf.Name != "castle1" || !slices.Equal(conf.Parks, []string{"castle"}) {
		t.Fatalf("converted config: name %v, parks %v", conf.Name, conf.Parks)
	}
	if _, ok := conf.Ledger.(*economy.Memory); !ok {
		t.Fatalf("ledger: got %T, want *economy.Memory", conf.Ledger)
	}
	if _, ok := conf.Rides.(*ridecount.Memory); !ok {
		t.Fatalf("ride counter: got %T, want *ridecount.Memory", conf.Rides)
	}
	if conf.Records != nil {
		t.Fatalf("record store opened with SaveRecords disabled")
	}
	if conf.Bus != nil {
		t.Fatalf("cluster bus opened without a Redis address")
	}
	if conf.Staff == nil {
		t.Fatalf("staff roster not loaded")
	}
}

func TestUserConfigSQLite(t *testing.T) {
	dir := t.TempDir()
	uc := DefaultConfig()
	uc.Node.DataFolder = dir
	uc.Storage.Folder = filepath.Join(dir, "records")
	uc.Staff.File = filepath.Join(dir, "staff.toml")

	conf, err := uc.Config(slog.New(slog.DiscardHandler), Env{})
	if err != nil {
		t.Fatalf("convert config: %v", err)
	}
	if _, ok := conf.Ledger.(*economy.SQLite); !ok {
		t.Fatalf("ledger: got %T, want *economy.SQLite", conf.Ledger)
	}
	if _, ok := conf.Rides.(*ridecount.SQL); !ok {
		t.Fatalf("ride counter: got %T, want *ridecount.SQL", conf.Rides)
	}
	if conf.Records == nil {
		t.Fatalf("record store missing with SaveRecords enabled")
	}

	if err := conf.Records.Close(); err != nil {
		t.Fatalf("close record store: %v", err)
	}
	if err := conf.Rides.Close(); err != nil {
		t.Fatalf("close ride counter: %v", err)
	}
	if err := conf.Ledger.Close(); err != nil {
		t.Fatalf("close ledger: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "economy.db")); err != nil {
		t.Fatalf("economy database not created: %v", err)
	}
}

func TestUserConfigUnknownDriver(t *testing.T) {
	uc := UserConfig{}
	uc.Economy.Driver = "postgres"
	if _, err := uc.Config(nil, Env{}); err == nil || !strings.Contains(err.Error(), "unknown economy driver") {
		t.Fatalf("unknown economy driver: got %v", err)
	}

	uc = UserConfig{}
	uc.Node.DataFolder = t.TempDir()
	uc.Economy.Driver = "memory"
	uc.RideCount.Driver = "postgres"
	if _, err := uc.Config(nil, Env{}); err == nil || !strings.Contains(err.Error(), "unknown ride count driver") {
		t.Fatalf("unknown ride count driver: got %v", err)
	}
}

func TestUserConfigMySQLWithoutDSN(t *testing.T) {
	uc := UserConfig{}
	uc.Economy.Driver = "mysql"
	if _, err := uc.Config(nil, Env{}); err == nil {
		t.Fatalf("mysql economy without a DSN succeeded")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("PARK_REDIS_ADDRESS", "redis.cluster:6379")
	t.Setenv("PARK_REDIS_DB", "2")
	t.Setenv("PARK_ECONOMY_DSN", "")
	env, err := LoadEnv()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if env.RedisAddress != "redis.cluster:6379" || env.RedisDB != 2 {
		t.Fatalf("env: %+v", env)
	}
	if env.EconomyDSN != "" {
		t.Fatalf("economy dsn: got %q, want empty", env.EconomyDSN)
	}
}
