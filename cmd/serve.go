package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/ornamentum/db"
	"github.com/jsphweid/ornamentum/key"
	"github.com/jsphweid/ornamentum/metrics"
	"github.com/jsphweid/ornamentum/model"
	"github.com/jsphweid/ornamentum/ornament"
	"github.com/jsphweid/ornamentum/score"
	"github.com/jsphweid/ornamentum/util"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const maxBodyBytes = 1 << 20

// upper bound for ?limit=
const maxServedNotes = 4096

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves realizations over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

type Server struct {
	engine *engine
	sentry *metrics.SentryMetrics
	// nil when DYNAMODB_ENDPOINT is unset
	store *db.Store
}

func NewServer(defaultKey *key.Signature, logger *slog.Logger, store *db.Store, sentryEnabled bool) *Server {
	return &Server{
		engine: &engine{defaultKey: defaultKey, logger: logger, metrics: metrics.NewRealizations()},
		sentry: metrics.NewSentryMetrics(sentryEnabled),
		store:  store,
	}
}

func (s *Server) Router() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/realize", s.HandleRealize).Methods("POST")
	router.HandleFunc("/realizations/{id}", s.HandleGetRealization).Methods("GET")
	router.HandleFunc("/kinds", s.HandleKinds).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(s.engine.metrics.Registry, promhttp.HandlerOpts{})).Methods("GET")
	return cors.Default().Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

// statusFor maps realization failures to 422 and everything else to 400.
func statusFor(err error) int {
	for _, target := range []error{ornament.ErrUnrealizable, ornament.ErrUntimed, ornament.ErrTooShort, ornament.ErrUnpitched} {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusBadRequest
}

// HandleRealize takes a score as JSON or YAML and answers with the
// realized score. ?events=true adds the performance's note events, with
// optional ?from= (tick) and ?limit= (note count).
func (s *Server) HandleRealize(w http.ResponseWriter, r *http.Request) {
	tx := sentry.StartTransaction(r.Context(), "POST /realize")
	defer tx.Finish()
	ctx := tx.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("could not read request body: %w", err))
		return
	}
	f, err := score.Parse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	res, err := s.engine.realize(f)
	s.sentry.RecordRealization(ctx, len(f.Measures), int(notesOf(res)), time.Since(start), err)
	s.engine.metrics.Request(time.Since(start), int(notesOf(res)), err == nil)
	if err != nil {
		tx.SetTag("success", "false")
		writeError(w, statusFor(err), err)
		return
	}
	tx.SetTag("success", "true")

	resp := model.RealizeResponse{Id: uuid.NewString(), Score: res.score, NumNotes: res.numNotes}
	q := r.URL.Query()
	if b, _ := strconv.ParseBool(q.Get("events")); b {
		from, _ := strconv.ParseUint(q.Get("from"), 10, 64)
		limit := maxServedNotes
		if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
			limit = util.Min(l, maxServedNotes)
		}
		resp.Events, err = res.events(from, limit)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
	}

	if s.store != nil {
		s.save(resp, body)
	}
	writeJSON(w, http.StatusOK, resp)
}

func notesOf(res *realized) uint64 {
	if res == nil {
		return 0
	}
	return res.numNotes
}

// save failures are logged, not returned.
func (s *Server) save(resp model.RealizeResponse, input []byte) {
	output, err := resp.Score.Marshal()
	if err != nil {
		s.engine.logger.Error("could not marshal realization", "err", err)
		return
	}
	rec := db.Record{
		Id:        uuid.MustParse(resp.Id),
		Title:     resp.Score.Title,
		CreatedAt: time.Now(),
		Input:     string(input),
		Output:    string(output),
		NumNotes:  resp.NumNotes,
	}
	if err := s.store.SaveRealization(rec); err != nil {
		s.engine.logger.Error("could not save realization", "id", resp.Id, "err", err)
	}
}

func (s *Server) HandleGetRealization(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, errors.New("realizations are not stored"))
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rec, ok, err := s.store.GetRealization(id)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no realization %s", id))
		return
	}
	f, err := score.Parse([]byte(rec.Output))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, model.RealizeResponse{Id: rec.Id.String(), Score: f, NumNotes: rec.NumNotes})
}

func kindsList() []model.Kind {
	res := make([]model.Kind, 0)
	for _, k := range ornament.Kinds() {
		o := ornament.MustNew(k)
		mk := model.Kind{Name: k.String(), Realizable: o.Realizable()}
		if size, ok := o.Size(); ok {
			mk.Size = size.Name()
		}
		res = append(res, mk)
	}
	return res
}

func (s *Server) HandleKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.KindsResponse{Kinds: kindsList()})
}

func serve() error {
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, EnableTracing: true, TracesSampleRate: 1.0}); err != nil {
			return fmt.Errorf("sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	var store *db.Store
	if cfg.DynamoEndpoint != "" {
		var err error
		store, err = db.Connect(cfg.DynamoEndpoint, cfg.Table)
		if err != nil {
			return err
		}
	}

	s := NewServer(cfg.DefaultKey, logger, store, cfg.SentryDSN != "")
	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("serving", "addr", addr, "store", store != nil)
	return http.ListenAndServe(addr, s.Router())
}
