package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/projetoatleta/athlete_registration/pkg/athlete"
	"github.com/projetoatleta/athlete_registration/pkg/config"
	"github.com/projetoatleta/athlete_registration/pkg/database"
	"github.com/projetoatleta/athlete_registration/pkg/export"
	"github.com/projetoatleta/athlete_registration/pkg/mail"
	"github.com/projetoatleta/athlete_registration/pkg/parser"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Server struct {
	ctx    context.Context
	logger *zap.Logger
	mux    *chi.Mux
	db     *database.Postgres
	serv   *http.Server
	cfg    *config.Entity
}

func NewServer(ctx context.Context, logger *zap.Logger, mux *chi.Mux, db *database.Postgres, conf *config.Entity) *Server {
	return &Server{ctx: ctx, logger: logger, mux: mux, db: db, cfg: conf}
}

func (s *Server) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	s.mux.ServeHTTP(writer, request)
}

func (s *Server) Init(atom zap.AtomicLevel, reg *prometheus.Registry) {
	store := athlete.NewService(s.db)
	handler := athlete.NewHandler(s.ctx, s.logger, store, parser.Impl{}, export.Excel{})

	s.mux.With(RequestsMetricsMiddleware(reg), s.recoverer).Mount("/api", handler.Routes())

	internal := chi.NewRouter()
	internal.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	internal.Handle("/log-level", atom)

	if len(s.cfg.Mail.Hostname) > 0 {
		mailServ := mail.NewService(s.ctx, mail.Credentials{
			Hostname:     s.cfg.Mail.Hostname,
			Port:         s.cfg.Mail.Port,
			Username:     s.cfg.Mail.Username,
			Password:     s.cfg.Mail.Password,
			CountOfMails: s.cfg.Mail.CountOfMails,
		}, s.logger, store, parser.Impl{})

		// The pass runs by request for now, later a goroutine with a
		// ticker will call it on a schedule.
		internal.Get("/mail/check", func(writer http.ResponseWriter, request *http.Request) {
			mailServ.CheckMails()
			writer.WriteHeader(http.StatusAccepted)
		})

		// Using dynamic change value of countMails need to check in mailbox
		viper.OnConfigChange(func(e fsnotify.Event) {
			s.logger.Info(fmt.Sprintf("Config file changed: %s", e.Name))
			mailServ.ChangeCountOfMailsPerReq(viper.GetUint32(config.MAIL_COUNT_OF_MAILS))
		})
		viper.WatchConfig()
	}

	s.mux.Mount("/internal", internal)

	// Registration form and admin view are static files, the client
	// talks to /api.
	s.mux.Handle("/*", http.FileServer(http.Dir(s.cfg.Web.Dir)))
}

func (s *Server) Start(addr string) error {
	s.serv = &http.Server{
		Addr:    addr,
		Handler: s,
	}

	s.logger.Info("Service successfully started")
	return s.serv.ListenAndServe()
}

func (s *Server) recoverer(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

		defer func() {
			if err := recover(); err != nil {
				writer.WriteHeader(http.StatusInternalServerError)
				writer.Write([]byte("Something going wrong..."))
				s.logger.Error("panic occurred", zap.Any("panic", err))
			}
		}()
		handler.ServeHTTP(writer, request)
	})
}
