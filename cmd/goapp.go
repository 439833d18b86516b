package main

import (
	"context"
	"net"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/projetoatleta/athlete_registration/pkg/config"
	"github.com/projetoatleta/athlete_registration/pkg/database"
	"github.com/projetoatleta/athlete_registration/pkg/server"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	service     = "athlete-registration"
	environment = "production"
	id          = 1
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		panic("Error with reading config")
	}

	if err := execute(net.JoinHostPort(conf.App.Host, conf.App.Port), conf); err != nil {
		os.Exit(1)
	}
}

func execute(addr string, conf *config.Entity) (err error) {
	ctx, cancel := context.WithCancel(context.Background())

	logger, atom := loggerInit()

	if conf.Jag.Dsn != "" {
		tp, err := tracerProvider(conf.Jag.Dsn)
		if err != nil {
			logger.Panic("Error when setting up tracer", zap.Error(err))
		}

		otel.SetTracerProvider(tp)

		defer func(ctx context.Context) {
			ctx, cancel := context.WithTimeout(ctx, time.Second*5)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("Tracer shutdown err", zap.Error(err))
			}
		}(ctx)
	}

	pool := database.PoolCreation(ctx, logger, conf) // Panics if something gone wrong

	db := database.NewPostgres(pool)
	if err := db.EnsureSchema(ctx); err != nil {
		logger.Panic("Err schema bootstrap", zap.Error(err))
	}

	defer func() {
		cancel()
		pool.Close()
		logger.Sync()
	}()

	reg := prometheus.NewRegistry()

	mux := chi.NewRouter()
	application := server.NewServer(ctx, logger, mux, db, conf)
	application.Init(atom, reg)

	return application.Start(addr)
}

func loggerInit() (*zap.Logger, zap.AtomicLevel) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC1123Z)
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	fileEncoder := zapcore.NewJSONEncoder(encoderConfig)
	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)

	file, err := os.OpenFile("./logs/logs.txt", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		panic("Error with creating or opening file")
	}

	writeSyncer := zapcore.AddSync(file)
	atom := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core := zapcore.NewTee(
		zapcore.NewCore(fileEncoder, writeSyncer, atom),
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), atom),
	)

	logger := zap.New(core)

	return logger, atom
}

func tracerProvider(url string) (*tracesdk.TracerProvider, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(url)))
	if err != nil {
		return nil, err
	}
	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(service),
			attribute.String("environment", environment),
			attribute.Int64("ID", id),
		)),
	)
	return tp, nil
}
