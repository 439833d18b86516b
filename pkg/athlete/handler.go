package athlete

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RosterResult is what a bulk roster file parses into. The map is keyed
// by CPF so a file repeating the same athlete collapses to one entry.
type RosterResult struct {
	PercentErrs int
	Athletes    map[string]Athlete
}

type RosterParser interface {
	ParseXlsx(r io.Reader) (*RosterResult, error)
}

type RosterExporter interface {
	Write(w io.Writer, athletes []Athlete) error
}

type Handler struct {
	ctx      context.Context
	logger   *zap.Logger
	store    Store
	parser   RosterParser
	exporter RosterExporter
}

func NewHandler(ctx context.Context, logger *zap.Logger, store Store, parser RosterParser, exporter RosterExporter) *Handler {
	return &Handler{ctx: ctx, logger: logger, store: store, parser: parser, exporter: exporter}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.register)
	r.Post("/register/bulk", h.registerBulk)
	r.Get("/athletes", h.listAthletes)
	r.Get("/athletes/export", h.exportAthletes)
	r.Delete("/athletes/{id}", h.deleteAthlete)

	return r
}

type envelope struct {
	Success bool   `json:"success"`
	ID      *int64 `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var a Athlete
	if err := json.NewDecoder(request.Body).Decode(&a); err != nil {
		h.writeFailure(writer, fmt.Errorf("register failed: %w", err))
		return
	}

	if err := Validate(&a); err != nil {
		h.writeFailure(writer, err)
		return
	}

	id, err := h.store.Create(request.Context(), a)
	if err != nil {
		h.writeFailure(writer, err)
		return
	}

	h.logger.Info("Athlete registered", zap.Int64("id", id), zap.String("cpf", a.CPF))
	h.writeJSON(writer, http.StatusOK, envelope{Success: true, ID: &id})
}

func (h *Handler) listAthletes(writer http.ResponseWriter, request *http.Request) {
	athletes, err := h.store.List(request.Context())
	if err != nil {
		h.writeFailure(writer, err)
		return
	}

	h.writeJSON(writer, http.StatusOK, athletes)
}

func (h *Handler) deleteAthlete(writer http.ResponseWriter, request *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(request, "id"), 10, 64)
	if err != nil {
		h.writeFailure(writer, fmt.Errorf("deleteAthlete failed: %w", err))
		return
	}

	// Deleting an id that never existed still reports success, the row
	// is equally gone either way.
	if err := h.store.DeleteByID(request.Context(), id); err != nil {
		h.writeFailure(writer, err)
		return
	}

	h.writeJSON(writer, http.StatusOK, envelope{Success: true})
}

type bulkResponse struct {
	Success     bool     `json:"success"`
	Added       int      `json:"added"`
	Failed      int      `json:"failed"`
	PercentErrs int      `json:"percent_errs"`
	FailedCPFs  []string `json:"failed_cpfs,omitempty"`
}

// registerBulk lets a coach register a whole team from one xlsx roster.
// Rows are created independently, a duplicate CPF fails that row only.
func (h *Handler) registerBulk(writer http.ResponseWriter, request *http.Request) {
	file, _, err := request.FormFile("file")
	if err != nil {
		h.writeFailure(writer, fmt.Errorf("registerBulk failed: %w", err))
		return
	}
	defer file.Close()

	res, err := h.parser.ParseXlsx(file)
	if err != nil {
		h.writeFailure(writer, err)
		return
	}

	resp := bulkResponse{Success: true, PercentErrs: res.PercentErrs}
	for cpf, a := range res.Athletes {
		if err := Validate(&a); err != nil {
			resp.Failed++
			resp.FailedCPFs = append(resp.FailedCPFs, cpf)
			h.logger.Warn("Roster row rejected", zap.String("cpf", cpf), zap.Error(err))
			continue
		}

		if _, err := h.store.Create(request.Context(), a); err != nil {
			resp.Failed++
			resp.FailedCPFs = append(resp.FailedCPFs, cpf)
			h.logger.Warn("Roster row not stored", zap.String("cpf", cpf), zap.Error(err))
			continue
		}
		resp.Added++
	}

	h.writeJSON(writer, http.StatusOK, resp)
}

func (h *Handler) exportAthletes(writer http.ResponseWriter, request *http.Request) {
	athletes, err := h.store.List(request.Context())
	if err != nil {
		h.writeFailure(writer, err)
		return
	}

	name := fmt.Sprintf("atletas-%s.xlsx", time.Now().Format("02-01-2006"))
	writer.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	writer.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	if err := h.exporter.Write(writer, athletes); err != nil {
		h.logger.Error("Roster export failed", zap.Error(err))
	}
}

func (h *Handler) writeJSON(writer http.ResponseWriter, status int, body interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(body); err != nil {
		h.logger.Error("Response encoding failed", zap.Error(err))
	}
}

// writeFailure surfaces the underlying message verbatim. The admin UI
// shows it as-is, existing clients parse only the success flag.
func (h *Handler) writeFailure(writer http.ResponseWriter, err error) {
	h.logger.Error("Request failed", zap.Error(err))
	h.writeJSON(writer, http.StatusInternalServerError, envelope{Success: false, Error: err.Error()})
}
