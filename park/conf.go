package park

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sparkparks/parkmanager/park/economy"
	"github.com/sparkparks/parkmanager/park/msg"
	"github.com/sparkparks/parkmanager/park/ridecount"
	"github.com/sparkparks/parkmanager/park/storage"
)

// Config contains options for starting a park node.
type Config struct {
	// Log is the Logger to use for logging information. If nil, Log is set
	// to slog.Default().
	Log *slog.Logger
	// Name is the name of this node within the cluster, such as "castle1".
	// It decides which virtual queues the node hosts: a queue is only
	// mutable on the node whose name matches its hosting server.
	Name string
	// Parks is the list of parks hosted by the node. Every park has its own
	// data files for shops, food locations, queues, shows, signs and warps.
	// If left empty, a single park named "park" is hosted.
	Parks []string
	// DataDir is the directory the per-park JSON data files live in. It
	// defaults to "data".
	DataDir string
	// StatusAddress is the address the read-only HTTP status endpoint
	// listens on. If left empty, no status endpoint is served.
	StatusAddress string
	// Ledger is the two-currency economy ledger purchases charge against.
	// If left as nil, an in-memory ledger is used and balances are lost
	// when the node stops.
	Ledger economy.Ledger
	// Rides is the ride counter store. If left as nil, counts are kept in
	// memory only.
	Rides ridecount.Counter
	// Bus is the cross-node message bus queue updates and announcements are
	// published on. If left as nil, an in-process bus is used and the node
	// runs standalone.
	Bus msg.Bus
	// Records is the player record store. If left as nil, player records
	// will be newly created every time a player joins the node and no
	// records will be stored.
	Records *storage.Store
	// Staff is the staff roster gating staff commands. If left as nil, an
	// unpersisted empty roster is used.
	Staff *Staff
}

// UserConfig is the user configuration of a park node. It holds the settings
// written to the node's TOML configuration file. UserConfig may be serialised
// and can be converted to a Config by calling UserConfig.Config().
//
// Infrastructure endpoints and secrets (the Redis address of the cluster bus,
// database DSNs) do not live in the file; they are read from the environment
// through Env.
type UserConfig struct {
	Node struct {
		// Name is the name of this node within the cluster. Virtual queues
		// hosted by the node carry this name as their hosting server.
		Name string
		// Parks is the list of parks hosted by this node.
		Parks []string
		// DataFolder is the folder the per-park JSON data files reside in.
		DataFolder string
	}
	Status struct {
		// Address is the bind address of the read-only HTTP status endpoint.
		// Leave empty to disable the endpoint.
		Address string
	}
	Economy struct {
		// Driver selects the ledger backend: "memory", "sqlite" or "mysql".
		// The mysql driver reads its DSN from the environment.
		Driver string
		// File is the SQLite database file used when Driver is "sqlite",
		// relative to the data folder unless absolute.
		File string
	}
	RideCount struct {
		// Driver selects the ride counter backend: "memory", "sqlite" or
		// "mysql". The mysql driver reads its DSN from the environment.
		Driver string
		// File is the SQLite database file used when Driver is "sqlite",
		// relative to the data folder unless absolute.
		File string
	}
	Storage struct {
		// SaveRecords controls whether player records (storage buckets,
		// owned outfits) are persisted. If false, records are newly created
		// every time a player joins.
		SaveRecords bool
		// Folder is the folder the player record database resides in.
		Folder string
	}
	Staff struct {
		// File is the path to the staff roster TOML file.
		File string
	}
}

// Env holds the infrastructure endpoints of a node, read from the
// environment rather than the configuration file so that secrets stay out of
// it. A .env file in the working directory is loaded first if present.
type Env struct {
	// RedisAddress is the address of the Redis server carrying the cluster
	// bus. If empty, the node runs on an in-process bus and does not see
	// other nodes.
	RedisAddress  string `envconfig:"REDIS_ADDRESS" default:""`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	// EconomyDSN is the MySQL DSN of the shared economy ledger, used when
	// the economy driver is "mysql".
	EconomyDSN string `envconfig:"ECONOMY_DSN" default:""`
	// RideCountDSN is the MySQL DSN of the shared ride counter store, used
	// when the ride count driver is "mysql".
	RideCountDSN string `envconfig:"RIDECOUNT_DSN" default:""`
}

// LoadEnv reads the node's environment configuration, loading a .env file
// from the working directory first if one exists.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()
	var env Env
	if err := envconfig.Process("park", &env); err != nil {
		return Env{}, fmt.Errorf("process environment: %w", err)
	}
	return env, nil
}

// Config converts a UserConfig to a Config, opening the ledger, ride counter,
// record store, staff roster and cluster bus it names. An error is returned
// if any of them cannot be opened.
func (uc UserConfig) Config(log *slog.Logger, env Env) (Config, error) {
	if log == nil {
		log = slog.Default()
	}
	conf := Config{
		Log:           log,
		Name:          uc.Node.Name,
		Parks:         slices.Clone(uc.Node.Parks),
		DataDir:       uc.Node.DataFolder,
		StatusAddress: uc.Status.Address,
	}
	dataDir := conf.DataDir
	if dataDir == "" {
		dataDir = "data"
	}

	var err error
	if conf.Ledger, err = openLedger(uc.Economy.Driver, dataDir, uc.Economy.File, env.EconomyDSN); err != nil {
		return conf, fmt.Errorf("create economy ledger: %w", err)
	}
	if conf.Rides, err = openRides(uc.RideCount.Driver, dataDir, uc.RideCount.File, env.RideCountDSN); err != nil {
		return conf, fmt.Errorf("create ride counter: %w", err)
	}
	if uc.Storage.SaveRecords {
		kv, err := storage.OpenKV(uc.Storage.Folder)
		if err != nil {
			return conf, fmt.Errorf("create record store: %w", err)
		}
		conf.Records = storage.NewStore(kv, log)
	}
	staffPath := strings.TrimSpace(uc.Staff.File)
	if staffPath == "" {
		staffPath = "staff.toml"
	}
	if conf.Staff, err = LoadStaff(staffPath); err != nil {
		return conf, fmt.Errorf("load staff roster: %w", err)
	}
	if env.RedisAddress != "" {
		conf.Bus, err = msg.NewRedis(context.Background(), env.RedisAddress, env.RedisPassword, env.RedisDB, log)
		if err != nil {
			return conf, fmt.Errorf("connect cluster bus: %w", err)
		}
	}
	return conf, nil
}

func openLedger(driver, dataDir, file, dsn string) (economy.Ledger, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "memory":
		return economy.NewMemory(), nil
	case "sqlite":
		if file == "" {
			file = "economy.db"
		}
		return economy.OpenSQLite(resolveFile(dataDir, file))
	case "mysql":
		if dsn == "" {
			return nil, fmt.Errorf("economy driver mysql requires PARK_ECONOMY_DSN")
		}
		return economy.OpenMySQL(dsn)
	}
	return nil, fmt.Errorf("unknown economy driver %q", driver)
}

func openRides(driver, dataDir, file, dsn string) (ridecount.Counter, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "memory":
		return ridecount.NewMemory(), nil
	case "sqlite":
		if file == "" {
			file = "ridecount.db"
		}
		return ridecount.OpenSQLite(resolveFile(dataDir, file))
	case "mysql":
		if dsn == "" {
			return nil, fmt.Errorf("ride count driver mysql requires PARK_RIDECOUNT_DSN")
		}
		return ridecount.OpenMySQL(dsn)
	}
	return nil, fmt.Errorf("unknown ride count driver %q", driver)
}

func resolveFile(dataDir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dataDir, file)
}

// DefaultConfig returns a configuration with the default values filled out:
// a standalone single-park node persisting everything under "data".
func DefaultConfig() UserConfig {
	c := UserConfig{}
	c.Node.Name = "park1"
	c.Node.Parks = []string{"park"}
	c.Node.DataFolder = "data"
	c.Status.Address = ""
	c.Economy.Driver = "sqlite"
	c.Economy.File = "economy.db"
	c.RideCount.Driver = "sqlite"
	c.RideCount.File = "ridecount.db"
	c.Storage.SaveRecords = true
	c.Storage.Folder = "records"
	c.Staff.File = "staff.toml"
	return c
}
