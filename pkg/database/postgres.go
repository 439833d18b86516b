package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/log/zapadapter"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/projetoatleta/athlete_registration/pkg/config"
	"go.uber.org/zap"
)

type Postgres struct {
	Pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{Pool: pool}
}

func PoolCreation(ctx context.Context, logger *zap.Logger, conf *config.Entity) *pgxpool.Pool {
	dbConf, err := pgxpool.ParseConfig(fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		conf.DB.User, conf.DB.Pass, conf.DB.Hostname, conf.DB.Port, conf.DB.Name))
	if err != nil {
		logger.Panic("Err db config parsing", zap.Error(fmt.Errorf("poolCreation failed: %w", err)))
	}
	dbConf.ConnConfig.Logger = zapadapter.NewLogger(logger)
	dbConf.ConnConfig.LogLevel = pgx.LogLevelError
	dbConf.MaxConnIdleTime = time.Second * 10
	if conf.DB.ConnLifeTime > 0 {
		dbConf.MaxConnLifetime = time.Minute * time.Duration(conf.DB.ConnLifeTime)
	}
	if conf.DB.MaxOpenConns > 0 {
		dbConf.MaxConns = conf.DB.MaxOpenConns
	}
	if conf.DB.MinConns > 0 {
		dbConf.MinConns = conf.DB.MinConns
	}

	pool, err := pgxpool.ConnectConfig(ctx, dbConf)
	if err != nil {
		logger.Panic("Err connection to DB", zap.Error(fmt.Errorf("poolCreation failed: %w", err)))
	}

	return pool
}

const athletesSchema = `create table if not exists athletes (
	id bigserial primary key,
	cpf text not null unique,
	full_name text not null,
	birth_date text,
	sex text,
	phone text,
	weight text,
	height text,
	uniform_size text,
	shoe_size text,
	photo text,
	dominant_side text,
	belt_rank text,
	social_program_id text,
	street text,
	number text,
	neighborhood text,
	city text,
	state text,
	school text,
	grade text,
	study_shift text,
	medical_restriction text,
	allergy text,
	blood_type text,
	emergency_contact_name text,
	emergency_contact_phone text,
	guardian_name text,
	guardian_cpf text,
	consent_accepted smallint not null default 0,
	created_at timestamptz not null default now()
);`

// EnsureSchema bootstraps the athletes table on startup. Real migration
// tooling is out of scope, a single table does not need it.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.Pool.Exec(ctx, athletesSchema); err != nil {
		return fmt.Errorf("EnsureSchema failed: %w", err)
	}
	return nil
}
