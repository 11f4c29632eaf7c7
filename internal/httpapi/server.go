package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"production/internal/app"
	"production/internal/model"
)

const maxBody = 1 << 20

type Server struct {
	app    *app.App
	log    *slog.Logger
	router *mux.Router
	srv    *http.Server
}

func New(a *app.App, log *slog.Logger) *Server {
	s := &Server{app: a, log: log, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	s.router.HandleFunc("/template", s.handleGetTemplate).Methods(http.MethodGet)
	s.router.HandleFunc("/template", s.handleSaveTemplate).Methods(http.MethodPut)
	s.router.HandleFunc("/template/reset", s.handleResetTemplate).Methods(http.MethodPost)

	s.router.HandleFunc("/order-data", s.handleListOrderData).Methods(http.MethodGet)
	s.router.HandleFunc("/order-data/{orderId}", s.handleGetOrderData).Methods(http.MethodGet)
	s.router.HandleFunc("/order-data/{orderId}", s.handleSaveOrderData).Methods(http.MethodPut)
	s.router.HandleFunc("/order-data/{orderId}", s.handleRemoveOrderData).Methods(http.MethodDelete)
	s.router.HandleFunc("/order-data/{orderId}/stages", s.handleEffectiveStages).Methods(http.MethodGet)
}

func (s *Server) Handler() http.Handler { return s.router }

// Listen serves until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.Info("http listen", "addr", addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Template(r.Context()))
}

func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	var rec model.TemplateRecord
	if !decode(w, r, &rec) {
		return
	}
	saved, err := s.app.SaveTemplate(r.Context(), rec)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleResetTemplate(w http.ResponseWriter, r *http.Request) {
	saved, err := s.app.ResetTemplate(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleListOrderData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.OrderData(r.Context()))
}

func (s *Server) handleGetOrderData(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["orderId"]
	rec, ok := s.app.OrderRecord(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "order data not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type saveOrderDataRequest struct {
	Stages              []model.StageValue `json:"stages"`
	SelectedSupplierIDs []string           `json:"selectedSupplierIds"`
}

func (s *Server) handleSaveOrderData(w http.ResponseWriter, r *http.Request) {
	var req saveOrderDataRequest
	if !decode(w, r, &req) {
		return
	}
	rec, err := s.app.SaveOrderData(r.Context(), mux.Vars(r)["orderId"], req.Stages, req.SelectedSupplierIDs)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRemoveOrderData(w http.ResponseWriter, r *http.Request) {
	if _, err := s.app.RemoveOrderData(r.Context(), mux.Vars(r)["orderId"]); err != nil {
		s.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type stagesResponse struct {
	OrderID    string             `json:"orderId"`
	Overridden bool               `json:"overridden"`
	Stages     []model.StageValue `json:"stages"`
}

func (s *Server) handleEffectiveStages(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["orderId"]
	stages, overridden := s.app.EffectiveStages(r.Context(), id)
	writeJSON(w, http.StatusOK, stagesResponse{OrderID: id, Overridden: overridden, Stages: stages})
}

func (s *Server) writeErr(w http.ResponseWriter, err error) {
	if app.IsBadInput(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "storage failure")
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
