package server

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/iwvelando/tax-calculator/internal/config"
	"github.com/iwvelando/tax-calculator/internal/worksheet"
	"github.com/iwvelando/tax-calculator/pkg/constants"
	"github.com/iwvelando/tax-calculator/pkg/income"
	"github.com/iwvelando/tax-calculator/pkg/output"
	"github.com/iwvelando/tax-calculator/pkg/report"
	"github.com/iwvelando/tax-calculator/pkg/tax"
	"github.com/iwvelando/tax-calculator/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

var errInvalidBody = errors.New("invalid value in request body")

type handler struct {
	logger      *zap.Logger
	calculator  *tax.Calculator
	store       *worksheet.Store
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the web UI, the
// stateless calculation API and the worksheet API.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		calculator:  tax.NewCalculator(logger),
		store:       worksheet.NewStore(),
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}

	router := chi.NewRouter()
	router.Use(requestID)
	router.Use(h.accessLog)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)
		r.Post("/calculate", h.handleCalculate)

		r.Post("/worksheets", h.handleCreateWorksheet)
		r.Route("/worksheets/{worksheetID}", func(r chi.Router) {
			r.Get("/", h.handleGetWorksheet)
			r.Delete("/", h.handleDeleteWorksheet)
			r.Get("/export", h.handleExport)
			r.Post("/rows", h.handleAddRow)
			r.Put("/rows/{rowID}", h.handleUpdateRow)
			r.Delete("/rows/{rowID}", h.handleDeleteRow)
		})
	})

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	router.Handle("/*", http.FileServer(http.FS(sub)))

	return router
}

type calculateRequest struct {
	Rows []config.RowConfig `json:"rows"`
}

type calculateResponse struct {
	Rows     []income.Row      `json:"rows"`
	Summary  tax.Summary       `json:"summary"`
	Years    []tax.YearSummary `json:"years"`
	CSV      string            `json:"csv"`
	Warnings []string          `json:"warnings,omitempty"`
	Duration string            `json:"duration"`
}

type worksheetResponse struct {
	ID        string            `json:"id"`
	Row       *income.Row       `json:"row,omitempty"`
	Rows      []income.Row      `json:"rows"`
	Summary   tax.Summary       `json:"summary"`
	Years     []tax.YearSummary `json:"years"`
	Warnings  []string          `json:"warnings,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	start := time.Now()

	var req calculateRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	conf := config.Configuration{Rows: req.Rows}
	rows, err := conf.Validate()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	summary := h.calculator.Summarize(rows)
	elapsed := time.Since(start)
	response := calculateResponse{
		Rows:     rows,
		Summary:  summary,
		Years:    h.calculator.SummarizeByYear(rows),
		CSV:      output.CsvString(rows, summary),
		Warnings: validation.RowWarnings(rows),
		Duration: elapsed.String(),
	}

	h.logger.Info("income calculated",
		zap.String("op", op),
		zap.Int("rows", len(rows)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleCreateWorksheet(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateWorksheet"

	id := h.store.Create()
	var response worksheetResponse
	err := h.store.Update(id, func(ws *worksheet.Worksheet) error {
		response = buildWorksheetResponse(ws)
		return nil
	})
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}

	h.logger.Info("worksheet created",
		zap.String("op", op),
		zap.String("worksheet", id),
	)
	h.writeJSON(w, http.StatusCreated, response)
}

func (h *handler) handleGetWorksheet(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetWorksheet"

	var response worksheetResponse
	err := h.store.Update(chi.URLParam(r, "worksheetID"), func(ws *worksheet.Worksheet) error {
		response = buildWorksheetResponse(ws)
		return nil
	})
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleDeleteWorksheet(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteWorksheet"

	id := chi.URLParam(r, "worksheetID")
	if err := h.store.Delete(id); err != nil {
		h.respondStoreError(w, err, op)
		return
	}

	h.logger.Info("worksheet deleted",
		zap.String("op", op),
		zap.String("worksheet", id),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleAddRow(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddRow"

	var payload config.RowConfig
	if !h.decode(w, r, &payload, op) {
		return
	}

	var response worksheetResponse
	err := h.store.Update(chi.URLParam(r, "worksheetID"), func(ws *worksheet.Worksheet) error {
		kind, err := income.ParseKind(payload.Kind)
		if err != nil {
			return err
		}

		var added income.Row
		switch {
		case payload.KindOnly() && kind == income.KindSalaried:
			added = ws.AppendSalaried()
		case payload.KindOnly() && kind == income.KindFreelance:
			added = ws.AppendFreelance()
		default:
			row, err := payload.ToRow()
			if err != nil {
				return err
			}
			if added, err = ws.Append(row); err != nil {
				return err
			}
		}
		response = buildWorksheetResponse(ws)
		response.Row = &added
		return nil
	})
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, response)
}

// handleUpdateRow merges the body into the stored row: fields left out of the
// body keep their current values.
func (h *handler) handleUpdateRow(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateRow"

	body, ok := h.readBody(w, r, op)
	if !ok {
		return
	}

	rowID := chi.URLParam(r, "rowID")
	var response worksheetResponse
	err := h.store.Update(chi.URLParam(r, "worksheetID"), func(ws *worksheet.Worksheet) error {
		existing, ok := ws.Row(rowID)
		if !ok {
			return fmt.Errorf("%w: %s", worksheet.ErrRowNotFound, rowID)
		}
		payload := config.FromRow(existing)
		if err := unmarshalBody(body, &payload); err != nil {
			return err
		}
		row, err := payload.ToRow()
		if err != nil {
			return err
		}
		updated, err := ws.Update(rowID, row)
		if err != nil {
			return err
		}
		response = buildWorksheetResponse(ws)
		response.Row = &updated
		return nil
	})
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteRow"

	rowID := chi.URLParam(r, "rowID")
	var response worksheetResponse
	err := h.store.Update(chi.URLParam(r, "worksheetID"), func(ws *worksheet.Worksheet) error {
		if err := ws.Remove(rowID); err != nil {
			return err
		}
		response = buildWorksheetResponse(ws)
		return nil
	})
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	var rows []income.Row
	var summary tax.Summary
	err := h.store.Update(chi.URLParam(r, "worksheetID"), func(ws *worksheet.Worksheet) error {
		rows = ws.Rows()
		summary = ws.Totals()
		return nil
	})
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "yaml"
	}

	var buf bytes.Buffer
	var contentType, filename string
	switch format {
	case "yaml":
		conf := config.FromRows(rows)
		data, err := yaml.Marshal(conf)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode rows: %v", err), op)
			return
		}
		buf.Write(data)
		contentType, filename = "application/yaml", "config.yaml"
	case constants.OutputFormatCSV:
		output.CsvFormat(&buf, rows, summary)
		contentType, filename = "text/csv", "income.csv"
	case constants.OutputFormatPDF:
		if err := report.Render(&buf, rows, summary); err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render report: %v", err), op)
			return
		}
		contentType, filename = "application/pdf", constants.DefaultPDFOutputFile
	default:
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("unsupported export format %q", format), op)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, &buf); err != nil {
		h.logger.Warn("failed to write export",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func buildWorksheetResponse(ws *worksheet.Worksheet) worksheetResponse {
	rows := ws.Rows()
	return worksheetResponse{
		ID:        ws.ID,
		Rows:      rows,
		Summary:   ws.Totals(),
		Years:     ws.TotalsByYear(),
		Warnings:  validation.RowWarnings(rows),
		UpdatedAt: ws.UpdatedAt,
	}
}

// decode reads a JSON body of at most maxBodySize bytes into v. An empty body
// leaves v untouched. It writes the error response itself and reports whether
// the handler may continue.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, v interface{}, op string) bool {
	body, ok := h.readBody(w, r, op)
	if !ok {
		return false
	}
	if err := unmarshalBody(body, v); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return false
	}
	return true
}

func (h *handler) readBody(w http.ResponseWriter, r *http.Request, op string) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return nil, false
	}
	return body, true
}

// unmarshalBody decodes body into v, leaving v untouched when body is blank.
// Decoder errors are reworded because their offsets mean nothing to callers.
func unmarshalBody(body []byte, v interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	err := json.Unmarshal(body, v)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Errorf("%w: %s must be a %s", errInvalidBody, typeErr.Field, typeErr.Type)
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) && !json.Valid(body) {
		return fmt.Errorf("%w: malformed JSON", errInvalidBody)
	}
	return fmt.Errorf("%w: check that numbers such as year are whole where required", errInvalidBody)
}

func (h *handler) respondStoreError(w http.ResponseWriter, err error, op string) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, worksheet.ErrWorksheetNotFound), errors.Is(err, worksheet.ErrRowNotFound):
		status = http.StatusNotFound
	case errors.Is(err, worksheet.ErrKindChange):
		status = http.StatusConflict
	}
	h.respondErrorWithOp(w, status, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
