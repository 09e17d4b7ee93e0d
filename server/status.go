package server

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/zeu5/tetris-rl/tetris"
	"github.com/zeu5/tetris-rl/types"
)

// ExperimentStatus is the progress of a single experiment
type ExperimentStatus struct {
	Name       string             `json:"name"`
	Episode    int                `json:"episode"`
	Phase      types.Phase        `json:"phase"`
	Alpha      float64            `json:"alpha"`
	Epsilon    float64            `json:"epsilon"`
	LastStats  tetris.GameStats   `json:"last_stats"`
	LastEnding string             `json:"last_ending"`
	BestScore  int                `json:"best_score"`
	Episodes   int                `json:"episodes"`
	Errors     int                `json:"errors"`
	Weights    map[string]float64 `json:"weights"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// StatusServer serves a read-only view of the running experiments.
// It observes the episodes of a comparison or trainer.
type StatusServer struct {
	Port   int
	ctx    context.Context
	server *http.Server
	router *gin.Engine

	lock        *sync.Mutex
	experiments map[string]*ExperimentStatus
}

var _ types.EpisodeObserver = &StatusServer{}

func NewStatusServer(ctx context.Context, port int) *StatusServer {
	s := &StatusServer{
		Port:        port,
		ctx:         ctx,
		lock:        new(sync.Mutex),
		experiments: make(map[string]*ExperimentStatus),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/status", s.handleStatus)
	r.GET("/status/:experiment", s.handleExperiment)
	r.GET("/weights/:experiment", s.handleWeights)
	s.router = r
	s.server = &http.Server{
		Addr:    fmt.Sprintf("localhost:%d", port),
		Handler: r,
	}

	return s
}

func (s *StatusServer) Handler() http.Handler {
	return s.router
}

// ObserveEpisode updates the status of the experiment with a finished episode
func (s *StatusServer) ObserveEpisode(name string, eCtx *types.EpisodeContext) {
	s.lock.Lock()
	defer s.lock.Unlock()

	status, ok := s.experiments[name]
	if !ok {
		status = &ExperimentStatus{Name: name}
		s.experiments[name] = status
	}
	status.Episode = eCtx.Episode
	status.Phase = eCtx.Phase
	status.Alpha = eCtx.Alpha
	status.Epsilon = eCtx.Epsilon
	status.LastStats = eCtx.Stats
	status.LastEnding = eCtx.Ending()
	status.Episodes += 1
	if eCtx.Err != nil {
		status.Errors += 1
	}
	if eCtx.Stats.Score > status.BestScore {
		status.BestScore = eCtx.Stats.Score
	}
	status.Weights = make(map[string]float64, len(eCtx.Weights))
	for k, v := range eCtx.Weights {
		status.Weights[k] = v
	}
	status.UpdatedAt = time.Now()
}

func (s *StatusServer) get(name string) (ExperimentStatus, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	status, ok := s.experiments[name]
	if !ok {
		return ExperimentStatus{}, false
	}
	return *status, true
}

func (s *StatusServer) handleStatus(c *gin.Context) {
	s.lock.Lock()
	out := make([]ExperimentStatus, 0, len(s.experiments))
	for _, status := range s.experiments {
		out = append(out, *status)
	}
	s.lock.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	c.JSON(http.StatusOK, gin.H{"experiments": out})
}

func (s *StatusServer) handleExperiment(c *gin.Context) {
	status, ok := s.get(c.Param("experiment"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown experiment"})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *StatusServer) handleWeights(c *gin.Context) {
	status, ok := s.get(c.Param("experiment"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown experiment"})
		return
	}
	c.JSON(http.StatusOK, status.Weights)
}

// Start serves until the context of the server is done
func (s *StatusServer) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Int("port", s.Port).Msg("status server stopped")
		}
	}()

	go func() {
		<-s.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.server.Shutdown(ctx)
	}()
	log.Info().Int("port", s.Port).Msg("status server started")
}
