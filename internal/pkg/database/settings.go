package database

import (
	"fmt"
	"net/url"
)

type PostgresSettings struct {
	User       string `env:"USER" envDefault:"bridge"`
	Password   string `env:"PASSWORD"`
	Host       string `env:"HOST" envDefault:"localhost"`
	Port       string `env:"PORT" envDefault:"5432"`
	DBName     string `env:"NAME" envDefault:"economy_bridge"`
	SSlEnabled bool   `env:"SSL_ENABLED" envDefault:"false"`
	MaxConns   int32  `env:"MAX_CONNS" envDefault:"8"`
}

func (s PostgresSettings) GetURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(s.User, s.Password),
		Host:   fmt.Sprintf("%s:%s", s.Host, s.Port),
		Path:   s.DBName,
	}

	if !s.SSlEnabled {
		u.RawQuery = "sslmode=disable"
	}

	return u.String()
}
