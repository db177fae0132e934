package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/insureco/advisor-cli/internal/content"
	"github.com/insureco/advisor-cli/internal/model"
	"github.com/insureco/advisor-cli/internal/pipeline"
	"github.com/insureco/advisor-cli/internal/store"
	"github.com/insureco/advisor-cli/internal/workbook"
)

var servePort int

// serverState holds the latest analysis for the dashboard endpoints.
// Upload swaps the whole snapshot under the write lock.
type serverState struct {
	mu        sync.RWMutex
	res       *model.AnalysisResult
	tables    *model.Tables
	contacted map[string]bool
}

func (s *serverState) snapshot() (*model.AnalysisResult, *model.Tables) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.res, s.tables
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pipe, err := newPipeline()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
		}

		state := &serverState{contacted: map[string]bool{}}
		if err := warmStart(ctx, st, state); err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(pipe, st, state),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// warmStart restores the most recent stored run, including the table
// snapshot the content endpoints need, plus the contact marks. With no
// store or no prior run the server starts empty.
func warmStart(ctx context.Context, st store.Store, state *serverState) error {
	if st == nil {
		return nil
	}

	run, err := st.LatestRun(ctx)
	switch {
	case err == nil:
		state.res = run.Result
		state.tables = run.Tables
		zap.L().Info("loaded latest run", zap.String("run_id", run.ID))
	case !eris.Is(err, store.ErrNotFound):
		return err
	}

	marks, err := st.Contacted(ctx)
	if err != nil {
		return err
	}
	state.contacted = marks
	return nil
}

func newRouter(pipe *pipeline.Pipeline, st store.Store, state *serverState) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/upload", handleUpload(pipe, st, state))
	r.Get("/api/opportunities", handleOpportunities(state))
	r.Get("/api/opportunities/{idx}/proposal", handleProposal(state))
	r.Get("/api/opportunities/{idx}/prep", handlePrep(state))
	r.Get("/api/opportunities/{idx}/email", handleEmail(state))
	r.Get("/api/opportunities/{idx}/objections", handleObjections(state))
	r.Get("/api/clients/{id}/lifeevents", handleLifeEvents(state))
	r.Post("/api/contacted", handleContacted(st, state))

	return r
}

func handleUpload(pipe *pipeline.Pipeline, st store.Store, state *serverState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
			return
		}
		defer file.Close()

		raw, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "cannot buffer upload")
			return
		}

		book, err := xlsx.OpenBinary(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "not a valid xlsx workbook")
			return
		}

		tables, err := workbook.Parse(book)
		if err != nil {
			zap.L().Warn("upload rejected", zap.Error(err))
			writeError(w, http.StatusUnprocessableEntity, eris.Cause(err).Error())
			return
		}

		res, err := pipe.Compute(tables, time.Now())
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		state.mu.Lock()
		state.res = res
		state.tables = tables
		state.mu.Unlock()

		if st != nil {
			if _, err := st.SaveRun(r.Context(), header.Filename, res, tables); err != nil {
				zap.L().Error("failed to persist run", zap.Error(err))
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"clients":       res.ClientCount,
			"opportunities": len(res.Opportunities),
		})
	}
}

// opportunityView is an Opportunity plus its index and contact state,
// as served to the dashboard.
type opportunityView struct {
	Index     int  `json:"index"`
	Contacted bool `json:"contacted"`
	model.Opportunity
}

func handleOpportunities(state *serverState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, _ := state.snapshot()
		if res == nil {
			writeError(w, http.StatusNotFound, "no analysis loaded, upload a workbook first")
			return
		}

		q := r.URL.Query()
		category := q.Get("category")
		persona := q.Get("persona")
		rep := q.Get("rep")
		minScore, _ := strconv.ParseFloat(q.Get("min_score"), 64)

		state.mu.RLock()
		marks := make(map[string]bool, len(state.contacted))
		for k, v := range state.contacted {
			marks[k] = v
		}
		state.mu.RUnlock()

		views := make([]opportunityView, 0, len(res.Opportunities))
		for i, op := range res.Opportunities {
			if category != "" && string(op.Category) != category {
				continue
			}
			if persona != "" && string(op.Persona) != persona {
				continue
			}
			if rep != "" && strconv.FormatInt(op.SalesRepID, 10) != rep {
				continue
			}
			if op.Score < minScore {
				continue
			}
			views = append(views, opportunityView{
				Index:       i,
				Contacted:   marks[store.ContactKey(op.ClientID, op.Category)],
				Opportunity: op,
			})
		}

		writeJSON(w, http.StatusOK, views)
	}
}

func handleProposal(state *serverState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		op, tables, ok := opportunityFromPath(w, r, state)
		if !ok {
			return
		}
		proposal := content.BuildTieredProposal(op, tables.Products)
		if proposal == nil {
			writeError(w, http.StatusNotFound, "no products available for this category")
			return
		}
		writeJSON(w, http.StatusOK, proposal)
	}
}

func handlePrep(state *serverState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		op, tables, ok := opportunityFromPath(w, r, state)
		if !ok {
			return
		}
		res, _ := state.snapshot()

		client, ok := clientByID(tables, op.ClientID)
		if !ok {
			writeError(w, http.StatusNotFound, "client not found")
			return
		}

		var clientOpps []model.Opportunity
		for _, o := range res.Opportunities {
			if o.ClientID == op.ClientID {
				clientOpps = append(clientOpps, o)
			}
		}

		prep := content.BuildMeetingPrep(client, res.Personas[op.ClientID], clientOpps, res.LifeEvents[op.ClientID])
		writeJSON(w, http.StatusOK, prep)
	}
}

func handleEmail(state *serverState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		op, _, ok := opportunityFromPath(w, r, state)
		if !ok {
			return
		}
		kind := content.EmailKind(r.URL.Query().Get("kind"))
		if kind == "" {
			kind = content.EmailInitial
		}
		writeJSON(w, http.StatusOK, map[string]string{"email": content.BuildEmail(op, kind)})
	}
}

func handleObjections(state *serverState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		op, tables, ok := opportunityFromPath(w, r, state)
		if !ok {
			return
		}
		client, ok := clientByID(tables, op.ClientID)
		if !ok {
			writeError(w, http.StatusNotFound, "client not found")
			return
		}
		objections := content.PredictObjections(op, client)
		if objections == nil {
			objections = []content.Objection{}
		}
		writeJSON(w, http.StatusOK, objections)
	}
}

func handleLifeEvents(state *serverState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, _ := state.snapshot()
		if res == nil {
			writeError(w, http.StatusNotFound, "no analysis loaded, upload a workbook first")
			return
		}
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid client id")
			return
		}
		events := res.LifeEvents[id]
		if events == nil {
			events = []model.LifeEvent{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"client_id":  id,
			"persona":    res.Personas[id],
			"lifeevents": events,
		})
	}
}

func handleContacted(st store.Store, state *serverState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ClientID  int64  `json:"client_id"`
			Category  string `json:"category"`
			Contacted bool   `json:"contacted"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ClientID == 0 || req.Category == "" {
			writeError(w, http.StatusBadRequest, "client_id and category are required")
			return
		}

		key := store.ContactKey(req.ClientID, model.Category(req.Category))
		state.mu.Lock()
		if req.Contacted {
			state.contacted[key] = true
		} else {
			delete(state.contacted, key)
		}
		state.mu.Unlock()

		if st != nil {
			if err := st.SetContacted(r.Context(), req.ClientID, model.Category(req.Category), req.Contacted); err != nil {
				zap.L().Error("failed to persist contact mark", zap.Error(err))
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{"key": key, "contacted": req.Contacted})
	}
}

// opportunityFromPath resolves the {idx} path param against the current
// snapshot. Writes the error response itself when resolution fails.
func opportunityFromPath(w http.ResponseWriter, r *http.Request, state *serverState) (model.Opportunity, *model.Tables, bool) {
	res, tables := state.snapshot()
	if res == nil || tables == nil {
		writeError(w, http.StatusNotFound, "no analysis loaded, upload a workbook first")
		return model.Opportunity{}, nil, false
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
	if err != nil || idx < 0 || idx >= len(res.Opportunities) {
		writeError(w, http.StatusBadRequest, "invalid opportunity index")
		return model.Opportunity{}, nil, false
	}
	return res.Opportunities[idx], tables, true
}

func clientByID(tables *model.Tables, id int64) (model.Client, bool) {
	for _, c := range tables.Clients {
		if c.ClientID == id {
			return c, true
		}
	}
	return model.Client{}, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": strings.TrimSpace(msg)})
}
