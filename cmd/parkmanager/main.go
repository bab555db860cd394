package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml"
	"github.com/sparkparks/parkmanager/park"
	"github.com/sparkparks/parkmanager/park/chat"
	"github.com/sparkparks/parkmanager/park/cmd/builtin"
	"github.com/sparkparks/parkmanager/park/console"
)

func main() {
	log := slog.Default()
	chat.Global.Subscribe(chat.NewStdout(log))

	conf, err := readConfig(log)
	if err != nil {
		log.Error("load config", "err", err)
		os.Exit(1)
	}

	p := conf.New()
	builtin.Register(p)
	p.CloseOnProgramEnd()

	go console.New(p, log).Run(context.Background())

	<-p.Done()
}

// readConfig reads the configuration from the config.toml file, or creates
// the file with default values if it does not yet exist. Infrastructure
// endpoints are read from the environment on top of it.
func readConfig(log *slog.Logger) (park.Config, error) {
	c := park.DefaultConfig()
	env, err := park.LoadEnv()
	if err != nil {
		return park.Config{}, err
	}
	if _, err := os.Stat("config.toml"); os.IsNotExist(err) {
		data, err := toml.Marshal(c)
		if err != nil {
			return park.Config{}, fmt.Errorf("encode default config: %w", err)
		}
		if err := os.WriteFile("config.toml", data, 0644); err != nil {
			return park.Config{}, fmt.Errorf("create default config: %w", err)
		}
		return c.Config(log, env)
	}
	data, err := os.ReadFile("config.toml")
	if err != nil {
		return park.Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return park.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return c.Config(log, env)
}
