package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	APP_PORT                 = "APP_PORT"
	APP_HOST                 = "APP_HOST"
	DB_HOST                  = "DB_HOST"
	DB_NAME                  = "DB_NAME"
	DB_USERNAME              = "DB_USERNAME"
	DB_PASS                  = "DB_PASS"
	DB_PORT                  = "DB_PORT"
	DB_CONN_MAX_LIFE_MINUTES = "DB_CONN_MAX_LIFE_MINUTES"
	DB_MAX_OPEN_CONNS        = "DB_MAX_OPEN_CONNS"
	DB_MIN_CONNS             = "DB_MIN_CONNS"
	JAG_DSN                  = "JAG_DSN"
	MAIL_HOST                = "MAIL_HOST"
	MAIL_PORT                = "MAIL_PORT"
	MAIL_USERNAME            = "MAIL_USERNAME"
	MAIL_PASSWORD            = "MAIL_PASSWORD"
	MAIL_COUNT_OF_MAILS      = "MAIL_COUNT_OF_MAILS"
	WEB_DIR                  = "WEB_DIR"
)

type Entity struct {
	App  Application
	DB   Database
	Jag  Jaeger
	Mail Mail
	Web  Web
}

type Application struct {
	Port string
	Host string
}

type Database struct {
	Hostname     string
	Name         string
	User         string
	Pass         string
	Port         uint16
	ConnLifeTime int
	MaxOpenConns int32
	MinConns     int32
}

type Jaeger struct {
	Dsn string
}

// Mail holds credentials for every inbox the intake service polls.
// Hostname, Username and Password are parallel comma-separated lists
// in the environment, one entry per mailbox.
type Mail struct {
	Hostname     []string
	Port         string
	Username     []string
	Password     []string
	CountOfMails uint32
}

type Web struct {
	Dir string
}

func NewConfig() (*Entity, error) {
	viper.SetConfigFile("./configs/.env")
	viper.AllowEmptyEnv(false)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// File is optional, env variables alone are enough.
			if !strings.Contains(err.Error(), "no such file") {
				return nil, fmt.Errorf("NewConfig failed: %w", err)
			}
		}
	}

	config := &Entity{
		App: Application{
			Port: viper.GetString(APP_PORT),
			Host: viper.GetString(APP_HOST),
		},
		DB: Database{
			Hostname:     viper.GetString(DB_HOST),
			Name:         viper.GetString(DB_NAME),
			User:         viper.GetString(DB_USERNAME),
			Pass:         viper.GetString(DB_PASS),
			Port:         uint16(viper.GetUint32(DB_PORT)),
			ConnLifeTime: viper.GetInt(DB_CONN_MAX_LIFE_MINUTES),
			MaxOpenConns: viper.GetInt32(DB_MAX_OPEN_CONNS),
			MinConns:     viper.GetInt32(DB_MIN_CONNS),
		},
		Jag: Jaeger{viper.GetString(JAG_DSN)},
		Web: Web{Dir: viper.GetString(WEB_DIR)},
	}

	if hosts := viper.GetString(MAIL_HOST); hosts != "" {
		config.Mail = Mail{
			Hostname:     strings.Split(hosts, ","),
			Port:         viper.GetString(MAIL_PORT),
			Username:     strings.Split(viper.GetString(MAIL_USERNAME), ","),
			Password:     strings.Split(viper.GetString(MAIL_PASSWORD), ","),
			CountOfMails: viper.GetUint32(MAIL_COUNT_OF_MAILS),
		}

		if len(config.Mail.Username) != len(config.Mail.Hostname) ||
			len(config.Mail.Password) != len(config.Mail.Hostname) {
			return nil, fmt.Errorf("NewConfig failed: %w",
				fmt.Errorf("mail credential lists have different lengths"))
		}
	}

	if config.Web.Dir == "" {
		config.Web.Dir = "./web"
	}

	return config, nil
}
