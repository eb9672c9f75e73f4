package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"racetrack/models"
	"racetrack/reinforcement"
	"racetrack/server/cell_views"
	"racetrack/server/publisher"
	"racetrack/track"

	"github.com/gorilla/mux"
	channerics "github.com/niceyeti/channerics/channels"
)

const (
	// statsPeriod is how often live stats are pushed to websocket clients.
	statsPeriod = 250 * time.Millisecond
	// shutdownGracePeriod bounds how long in-flight requests may take once serving is cancelled.
	shutdownGracePeriod = 5 * time.Second
)

// Results is what a finished run exposes. The table is only read once training is over.
type Results struct {
	Track  *track.Track
	Solver reinforcement.Solver
	Race   reinforcement.Result
}

// Server is a read-only view of a single run: live training stats while it trains,
// then its learned table and demonstration once published.
type Server struct {
	addr    string
	stats   *reinforcement.Stats
	results atomic.Pointer[Results]
	router  *mux.Router
}

// NewServer builds the routes. Table and history routes answer 503 until Publish.
func NewServer(addr string, stats *reinforcement.Stats) *Server {
	server := &Server{
		addr:  addr,
		stats: stats,
	}

	router := mux.NewRouter()
	router.HandleFunc("/stats", server.serveStats).Methods(http.MethodGet)
	router.HandleFunc("/ws", server.serveWebsocket)
	router.HandleFunc("/cells", server.serveCells).Methods(http.MethodGet)
	router.HandleFunc("/policy/{x}/{y}/{vx}/{vy}", server.servePolicy).Methods(http.MethodGet)
	router.HandleFunc("/history", server.serveHistory).Methods(http.MethodGet)
	server.router = router

	return server
}

// Handler returns the server's routes, e.g. for testing.
func (server *Server) Handler() http.Handler {
	return server.router
}

// Publish makes the results of a finished run visible.
func (server *Server) Publish(results *Results) {
	server.results.Store(results)
}

// Serve listens until ctx is done.
func (server *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              server.addr,
		Handler:           server.router,
		ReadHeaderTimeout: time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", server.addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (server *Server) serveStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, server.stats.Snapshot())
}

// serveWebsocket pushes a stats snapshot every statsPeriod until the client leaves.
func (server *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	done := make(chan struct{})
	defer close(done)

	snapshots := sample(done, channerics.NewTicker(done, statsPeriod), server.stats.Snapshot)

	pub, err := publisher.New(snapshots, w, r)
	if err != nil {
		log.Println("[server] upgrade:", err)
		return
	}
	if err := pub.Sync(); err != nil {
		log.Println("[server] websocket:", err)
	}
}

// sample calls fn on every tick.
func sample[T, U any](done <-chan struct{}, ticks <-chan T, fn func() U) <-chan U {
	return channerics.Convert(done, ticks, func(T) U {
		return fn()
	})
}

func (server *Server) serveCells(w http.ResponseWriter, _ *http.Request) {
	results := server.published(w)
	if results == nil {
		return
	}
	writeJSON(w, cell_views.Convert(results.Track, results.Solver))
}

// PolicyView is the learned entry of one state.
type PolicyView struct {
	State  models.State
	Action models.Action
	Value  float64
}

func (server *Server) servePolicy(w http.ResponseWriter, r *http.Request) {
	results := server.published(w)
	if results == nil {
		return
	}

	vars := mux.Vars(r)
	var coords [4]int
	for i, key := range []string{"x", "y", "vx", "vy"} {
		n, err := strconv.Atoi(vars[key])
		if err != nil {
			http.Error(w, fmt.Sprintf("bad %s: %v", key, err), http.StatusBadRequest)
			return
		}
		coords[i] = n
	}

	s := models.State{X: coords[0], Y: coords[1], VX: coords[2], VY: coords[3]}
	if !results.Track.Space().Contains(s) || !results.Track.Passable(s.X, s.Y) {
		http.Error(w, fmt.Sprintf("state %+v is not on the track", s), http.StatusNotFound)
		return
	}
	writeJSON(w, PolicyView{
		State:  s,
		Action: results.Solver.Policy(s),
		Value:  results.Solver.Value(s),
	})
}

func (server *Server) serveHistory(w http.ResponseWriter, _ *http.Request) {
	results := server.published(w)
	if results == nil {
		return
	}
	writeJSON(w, results.Race)
}

// published returns the published results, or answers 503 and returns nil.
func (server *Server) published(w http.ResponseWriter) *Results {
	results := server.results.Load()
	if results == nil {
		http.Error(w, "training in progress", http.StatusServiceUnavailable)
	}
	return results
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("[server] encode:", err)
	}
}
