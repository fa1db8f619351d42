// Package server is the answer provider: it turns a submitted form into a model prompt and
// returns the step answer with the rendered session history.
package server

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TAKIS21345/SeniorHelp/internal/document"
	"github.com/TAKIS21345/SeniorHelp/internal/knowledge"
	"github.com/TAKIS21345/SeniorHelp/internal/llm"
	"github.com/TAKIS21345/SeniorHelp/internal/provider"
	"github.com/TAKIS21345/SeniorHelp/internal/transcript"
)

// SessionCookie names the cookie carrying the conversation id.
const SessionCookie = "seniorhelp_session"

const shutdownGrace = 5 * time.Second

// Config holds the HTTP settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
	RatePerMinute  int
	RateBurst      int
	SessionTTL     time.Duration
	// AnswerTimeout bounds a single model call.
	AnswerTimeout time.Duration
}

// Server answers questions over HTTP.
type Server struct {
	cfg      Config
	model    llm.Client
	recorder *knowledge.Recorder
	sessions *sessionStore
	limiter  *clientLimiter
	logger   *zap.Logger
	router   *gin.Engine
}

// New wires the routes. recorder may be nil to disable the knowledge base.
func New(cfg Config, model llm.Client, recorder *knowledge.Recorder, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		model:    model,
		recorder: recorder,
		sessions: newSessionStore(cfg.SessionTTL),
		limiter:  newClientLimiter(cfg.RatePerMinute, cfg.RateBurst),
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger))
	router.MaxMultipartMemory = document.MaxUploadBytes

	if len(s.cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     s.cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
			AllowCredentials: true,
		}))
	}

	router.GET("/healthz", s.handleHealth)
	router.POST("/", s.limiter.middleware(), s.handleAsk)
	router.POST("/reset", s.handleReset)
	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("answer provider listening", zap.String("addr", s.cfg.Addr), zap.String("model", s.model.Name()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		<-errCh
		return nil
	}
}

type askResponse struct {
	Context     string `json:"context"`
	Answer      string `json:"answer"`
	HistoryHTML string `json:"history_html"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model": s.model.Name()})
}

func (s *Server) handleAsk(c *gin.Context) {
	sessionID := s.session(c)
	ctx := c.Request.Context()

	prompt := strings.TrimSpace(c.PostForm(provider.FieldPrompt))
	var parts []string
	if prompt != "" {
		parts = append(parts, "Text: "+prompt)
		s.recordQuestion(ctx, prompt)
	}
	if fh, err := c.FormFile(provider.FieldDocument); err == nil && fh.Filename != "" {
		text, err := readUpload(fh)
		switch {
		case err != nil:
			parts = append(parts, fmt.Sprintf("PDF: [Error: %v]", err))
		case text != "":
			parts = append(parts, "PDF: "+text)
		}
	}
	if fh, err := c.FormFile("image"); err == nil && fh.Filename != "" {
		parts = append(parts, "Image OCR: [Error: reading text from images is not supported]")
	}
	if fh, err := c.FormFile("voice"); err == nil && fh.Filename != "" {
		parts = append(parts, "Voice: [Could not transcribe audio: voice input is not supported]")
	}
	if len(parts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please type a question or attach a document."})
		return
	}
	contextText := strings.Join(parts, "\n")

	history, index, generation := s.sessions.begin(sessionID, contextText)
	askCtx := ctx
	if s.cfg.AnswerTimeout > 0 {
		var cancel context.CancelFunc
		askCtx, cancel = context.WithTimeout(ctx, s.cfg.AnswerTimeout)
		defer cancel()
	}
	answer, err := s.model.Answer(askCtx, llm.AnswerRequest{
		Context:  contextText,
		History:  history,
		Question: prompt,
	})
	if err != nil {
		s.logger.Error("model call failed", zap.Error(err), zap.String("model", s.model.Name()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred: " + err.Error()})
		return
	}

	history = s.sessions.finish(sessionID, index, generation, answer)
	if prompt != "" {
		s.recordExchange(ctx, prompt, answer)
	}
	fragment, err := transcript.RenderHTML(historyTurns(history))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, askResponse{Context: contextText, Answer: answer, HistoryHTML: fragment})
}

func (s *Server) handleReset(c *gin.Context) {
	if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
		s.sessions.reset(id)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// session returns the caller's session id, issuing a cookie for new callers.
func (s *Server) session(c *gin.Context) string {
	current, _ := c.Cookie(SessionCookie)
	id, issued := s.sessions.resolve(current)
	if issued {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
	}
	return id
}

func (s *Server) recordQuestion(ctx context.Context, question string) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordQuestion(ctx, question); err != nil && !errors.Is(err, knowledge.ErrDuplicate) {
		s.logger.Warn("knowledge base question not recorded", zap.Error(err))
	}
}

func (s *Server) recordExchange(ctx context.Context, question, answer string) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.RecordExchange(ctx, question, answer)
	switch {
	case errors.Is(err, knowledge.ErrDuplicate):
		s.logger.Debug("similar question already answered", zap.String("question", question))
	case err != nil:
		s.logger.Warn("knowledge base answer not recorded", zap.Error(err))
	}
}

func readUpload(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return document.ReadPDF(f)
}

// historyTurns lays the session out as chat rows; unanswered exchanges show only the user.
func historyTurns(history []llm.Exchange) []transcript.Turn {
	turns := make([]transcript.Turn, 0, 2*len(history))
	for _, h := range history {
		turns = append(turns, transcript.Turn{Role: transcript.RoleUser, Content: h.User})
		if h.AI != "" {
			turns = append(turns, transcript.Turn{Role: transcript.RoleAssistant, Content: h.AI})
		}
	}
	return turns
}
