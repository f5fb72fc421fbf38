package rest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"

	"voyager.com/truco/game"
	"voyager.com/truco/logging"
	"voyager.com/truco/player"
	"voyager.com/truco/truco"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var restLogger = log.With().Str("logger_name", "truco::rest").Logger()

//
// APP error definition
//
type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *appError) Error() string {
	return e.Message
}

type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type playerConfig struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	APIKey string `json:"apiKey,omitempty"`
}

type createMatchRequest struct {
	MatchID          string         `json:"matchId"`
	TeamA            []playerConfig `json:"teamA"`
	TeamB            []playerConfig `json:"teamB"`
	StartRoundPlayer int            `json:"startRoundPlayer"`
}

type matchList struct {
	Count   int      `json:"count"`
	Matches []string `json:"matches"`
}

type Server struct {
	mediator      *game.Mediator
	factory       *player.Factory
	watchInterval time.Duration
}

func NewServer(mediator *game.Mediator, factory *player.Factory, watchInterval time.Duration) *Server {
	if watchInterval <= 0 {
		watchInterval = time.Second
	}
	return &Server{
		mediator:      mediator,
		factory:       factory,
		watchInterval: watchInterval,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), JSONAppErrorReporter())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "activeMatches": s.mediator.Count()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/matches")
	api.POST("", s.createMatch)
	api.GET("", s.listMatches)
	api.DELETE("/:id", s.endMatch)
	api.GET("/:id/state", s.matchState)
	api.GET("/:id/comments", s.matchComments)
	api.GET("/:id/result", s.matchResult)
	api.GET("/:id/watch", s.watchMatch)
	return r
}

func RunRestServer(s *Server, port string) error {
	restLogger.Info().Msgf("REST server listening on port %s", port)
	return s.Router().Run(":" + port)
}

//
// Middleware Error Handler
//
func JSONAppErrorReporter() gin.HandlerFunc {
	return jsonAppErrorReporterT(gin.ErrorTypeAny)
}

func jsonAppErrorReporterT(errType gin.ErrorType) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		detectedErrors := c.Errors.ByType(errType)
		if len(detectedErrors) == 0 || c.Writer.Written() {
			return
		}
		parsedError := toAppError(detectedErrors[0].Err)
		if parsedError.Code >= http.StatusInternalServerError {
			restLogger.Error().Err(detectedErrors[0].Err).Str("path", c.FullPath()).Msg("Request failed")
		}
		c.JSON(parsedError.Code, response{Success: false, Message: parsedError.Message})
		c.Abort()
	}
}

func toAppError(err error) *appError {
	if ae, ok := err.(*appError); ok {
		return ae
	}
	cause := errors.Cause(err)
	switch cause.(type) {
	case truco.InvalidRosterError, player.UnknownStrategyError, player.MissingAPIKeyError:
		return &appError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	switch cause {
	case truco.ErrSessionExists:
		return &appError{Code: http.StatusConflict, Message: err.Error()}
	case truco.ErrSessionNotFound, game.ErrMatchNotFound:
		return &appError{Code: http.StatusNotFound, Message: err.Error()}
	}
	return &appError{Code: http.StatusInternalServerError, Message: "Internal Server Error"}
}

func newMatchID() string {
	return fmt.Sprintf("match-%s", strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

func (s *Server) buildTeam(configs []playerConfig, strategies map[int]player.Strategy) ([]truco.Player, error) {
	team := make([]truco.Player, 0, len(configs))
	for _, pc := range configs {
		strategy, err := s.factory.New(pc.Type, pc.APIKey)
		if err != nil {
			return nil, errors.Wrapf(err, "Player %d", pc.ID)
		}
		name := pc.Name
		if name == "" {
			name = fmt.Sprintf("player%d", pc.ID)
		}
		team = append(team, truco.Player{ID: pc.ID, Name: name})
		strategies[pc.ID] = strategy
	}
	return team, nil
}

func (s *Server) createMatch(c *gin.Context) {
	var req createMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		restLogger.Error().Msgf("Failed to parse match configuration. Error: %v", err)
		c.Error(&appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	if len(req.TeamA) != 2 || len(req.TeamB) != 2 {
		c.Error(&appError{Code: http.StatusBadRequest, Message: "Each team needs exactly 2 players"})
		return
	}
	if req.MatchID == "" {
		req.MatchID = newMatchID()
	}

	strategies := make(map[int]player.Strategy)
	teamA, err := s.buildTeam(req.TeamA, strategies)
	if err != nil {
		c.Error(err)
		return
	}
	teamB, err := s.buildTeam(req.TeamB, strategies)
	if err != nil {
		c.Error(err)
		return
	}
	err = s.mediator.CreateMatch(game.MatchConfig{
		MatchID:        req.MatchID,
		TeamA:          teamA,
		TeamB:          teamB,
		Strategies:     strategies,
		StartingPlayer: req.StartRoundPlayer,
	})
	if err != nil {
		c.Error(err)
		return
	}
	restLogger.Info().Str(logging.MatchIDKey, req.MatchID).Msg("New match is received")
	c.JSON(http.StatusOK, response{
		Success: true,
		Message: "Match created and started",
		Data:    gin.H{"matchId": req.MatchID},
	})
}

func (s *Server) listMatches(c *gin.Context) {
	ids := s.mediator.ActiveMatchIDs()
	c.JSON(http.StatusOK, response{Success: true, Data: matchList{Count: len(ids), Matches: ids}})
}

func (s *Server) endMatch(c *gin.Context) {
	id := c.Param("id")
	if err := s.mediator.EndMatch(id); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response{Success: true, Message: fmt.Sprintf("Match %s ended", id)})
}

func (s *Server) matchState(c *gin.Context) {
	st, err := s.mediator.State(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response{Success: true, Data: st})
}

func (s *Server) matchComments(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.mediator.State(id); err != nil {
		c.Error(err)
		return
	}
	entries, err := s.mediator.Relay().DrainAll(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response{Success: true, Data: entries})
}

func (s *Server) matchResult(c *gin.Context) {
	id := c.Param("id")
	st, ok := s.mediator.Result(id)
	if !ok {
		c.Error(&appError{Code: http.StatusNotFound, Message: fmt.Sprintf("No result for match %s", id)})
		return
	}
	c.JSON(http.StatusOK, response{Success: true, Data: st})
}

// watchMatch streams snapshots until the client leaves or the match is gone.
func (s *Server) watchMatch(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.mediator.State(id); err != nil {
		c.Error(err)
		return
	}
	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		restLogger.Warn().Err(err).Str(logging.MatchIDKey, id).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	ctx := conn.CloseRead(c.Request.Context())
	ticker := time.NewTicker(s.watchInterval)
	defer ticker.Stop()
	for {
		st, err := s.mediator.State(id)
		if err != nil {
			conn.Close(websocket.StatusNormalClosure, "match ended")
			return
		}
		if err := writeJSON(ctx, conn, st); err != nil {
			restLogger.Debug().Err(err).Str(logging.MatchIDKey, id).Msg("Watcher left")
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func writeJSON(ctx context.Context, conn *websocket.Conn, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, b)
}
