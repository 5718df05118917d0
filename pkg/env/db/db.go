package db

import (
	"fmt"
	"net/url"

	"github.com/app-sre/gabi-console/pkg/env"
)

// Env describes the database behind the query endpoint.
type Env struct {
	Driver     DriverType `koanf:"driver"`
	Host       string     `koanf:"host"`
	Port       int        `koanf:"port"`
	Username   string     `koanf:"user"`
	Password   string     `koanf:"password"`
	Name       string     `koanf:"name"`
	AllowWrite bool       `koanf:"allow_write"`
}

func NewDBEnv() *Env {
	return &Env{}
}

// Validate checks the settings required by the configured driver and
// fills in the driver's default port.
func (d *Env) Validate() error {
	if d.Driver == "" {
		return &env.Error{Name: "db.driver"}
	}
	if !d.Driver.IsValid() {
		return &env.TypeError{Name: "db.driver", Value: string(d.Driver)}
	}

	if d.Name == "" {
		return &env.Error{Name: "db.name"}
	}
	if !d.Driver.IsNetwork() {
		return nil
	}

	if d.Host == "" {
		return &env.Error{Name: "db.host"}
	}
	if d.Username == "" {
		return &env.Error{Name: "db.user"}
	}
	if d.Port < 0 || d.Port > 65535 {
		return &env.TypeError{Name: "db.port", Value: fmt.Sprint(d.Port)}
	}
	if d.Port == 0 {
		d.Port = d.Driver.Port()
	}

	return nil
}

func (d *Env) ConnectionDSN() string {
	if !d.Driver.IsNetwork() {
		return fmt.Sprintf(d.Driver.Format(), d.Name)
	}

	user, password := d.Username, d.Password
	if d.Driver.Name() == driverPostgreSQL {
		user, password = url.PathEscape(user), url.PathEscape(password)
	}

	return fmt.Sprintf(d.Driver.Format(),
		user,
		password,
		d.Host,
		d.Port,
		d.Name,
	)
}
