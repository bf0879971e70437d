package configs

import "fmt"

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Storage selects where platform state lives. "memory" keeps everything in
// process and loses it on exit; it is meant for local runs.
type Storage struct {
	Driver string `env:"DRIVER" envDefault:"postgres"`
}

func (c Storage) Validate() error {
	switch c.Driver {
	case StoragePostgres, StorageMemory:
		return nil
	default:
		return fmt.Errorf("unknown storage driver %q", c.Driver)
	}
}
