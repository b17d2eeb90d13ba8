package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Storage    string `yaml:"storage" env:"STORAGE" env-default:"memory"`
	Redis      Redis  `yaml:"redis"`
	Game       Game   `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Game holds the tunables of a battleship session.
type Game struct {
	ComputerDelay        time.Duration `yaml:"computer-delay" env:"GAME_COMPUTER_DELAY" env-default:"800ms"`
	SessionTTL           time.Duration `yaml:"session-ttl" env:"GAME_SESSION_TTL" env-default:"1h"`
	PlacementAttempts    int           `yaml:"placement-attempts" env:"GAME_PLACEMENT_ATTEMPTS" env-default:"100"`
	FleetAttempts        int           `yaml:"fleet-attempts" env:"GAME_FLEET_ATTEMPTS" env-default:"10"`
	ComputerMoveAttempts int           `yaml:"computer-move-attempts" env:"GAME_COMPUTER_MOVE_ATTEMPTS" env-default:"1000"`
}

// MustLoad - load all configurations in config.yml file, falling back to the environment when the file is absent.
func MustLoad(path string) *Config {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			panic(fmt.Errorf("unable to load config from environment: %w", err))
		}

		return config
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
