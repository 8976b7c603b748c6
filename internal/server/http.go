package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"notehub/internal/biz"
	"notehub/internal/domain"
	"notehub/pkg/auth"
)

// HTTPServer is the gin-backed transport layer. It translates between HTTP
// and the usecases and owns no business rules of its own.
type HTTPServer struct {
	engine  *gin.Engine
	server  *http.Server
	notes   *biz.NoteUsecase
	collabs *biz.CollaborationUsecase
	users   *biz.UserUsecase
	auth    *biz.AuthUsecase
	jwt     *auth.JWTManager
	logger  log.Logger
}

// NewHTTPServer creates the HTTP server with all middleware and routes
// registered.
func NewHTTPServer(
	notes *biz.NoteUsecase,
	collabs *biz.CollaborationUsecase,
	users *biz.UserUsecase,
	authUC *biz.AuthUsecase,
	jwtManager *auth.JWTManager,
	requestTimeout time.Duration,
	logger log.Logger,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	s := &HTTPServer{
		engine:  engine,
		notes:   notes,
		collabs: collabs,
		users:   users,
		auth:    authUC,
		jwt:     jwtManager,
		logger:  logger,
	}

	engine.Use(RecoveryMiddleware(logger))
	engine.Use(CORSMiddleware())
	engine.Use(LoggingMiddleware(logger))
	engine.Use(MetricsMiddleware())
	engine.Use(TimeoutMiddleware(requestTimeout))

	s.registerRoutes()

	return s
}

func (s *HTTPServer) registerRoutes() {
	s.engine.POST("/users", s.postUser)
	s.engine.GET("/users", s.getUsers)
	s.engine.GET("/users/:id", s.getUserByID)

	s.engine.POST("/authentications", s.postAuthentication)
	s.engine.PUT("/authentications", s.putAuthentication)
	s.engine.DELETE("/authentications", s.deleteAuthentication)

	notes := s.engine.Group("/notes")
	notes.Use(AuthMiddleware(s.jwt))
	{
		notes.POST("", s.postNote)
		notes.GET("", s.getNotes)
		notes.GET("/:id", s.getNoteByID)
		notes.PUT("/:id", s.putNoteByID)
		notes.DELETE("/:id", s.deleteNoteByID)

		notes.POST("/:id/collaborations", s.postCollaboration)
		notes.DELETE("/:id/collaborations", s.deleteCollaboration)
	}

	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Start begins serving on addr and blocks until the listener stops.
func (s *HTTPServer) Start(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// ---- users ----

func (s *HTTPServer) postUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Fullname string `json:"fullname" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	userID, err := s.users.AddUser(c.Request.Context(), req.Username, req.Password, req.Fullname)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, gin.H{"userId": userID})
}

func (s *HTTPServer) getUsers(c *gin.Context) {
	username := c.Query("username")

	users, err := s.users.GetUsersByUsername(c.Request.Context(), username)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, gin.H{"users": toUserViews(users)})
}

func (s *HTTPServer) getUserByID(c *gin.Context) {
	user, err := s.users.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, gin.H{"user": toUserView(user)})
}

// ---- authentications ----

func (s *HTTPServer) postAuthentication(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	accessToken, refreshToken, err := s.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

func (s *HTTPServer) putAuthentication(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	accessToken, err := s.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, gin.H{"accessToken": accessToken})
}

func (s *HTTPServer) deleteAuthentication(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	if err := s.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		Error(c, err)
		return
	}

	Success(c, nil)
}

// ---- notes ----

func (s *HTTPServer) postNote(c *gin.Context) {
	var req struct {
		Title string   `json:"title" binding:"required"`
		Body  string   `json:"body"`
		Tags  []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	owner := c.GetString("user_id")
	noteID, err := s.notes.AddNote(c.Request.Context(), req.Title, req.Body, req.Tags, owner)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, gin.H{"noteId": noteID})
}

func (s *HTTPServer) getNotes(c *gin.Context) {
	userID := c.GetString("user_id")

	notes, err := s.notes.GetNotes(c.Request.Context(), userID)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, gin.H{"notes": notes})
}

func (s *HTTPServer) getNoteByID(c *gin.Context) {
	ctx := c.Request.Context()
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	if err := s.notes.VerifyNoteAccess(ctx, noteID, userID); err != nil {
		Error(c, err)
		return
	}

	note, err := s.notes.GetNoteByID(ctx, noteID)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, gin.H{"note": note})
}

func (s *HTTPServer) putNoteByID(c *gin.Context) {
	var req struct {
		Title string   `json:"title" binding:"required"`
		Body  string   `json:"body"`
		Tags  []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	if err := s.notes.VerifyNoteAccess(ctx, noteID, userID); err != nil {
		Error(c, err)
		return
	}

	if err := s.notes.EditNoteByID(ctx, noteID, req.Title, req.Body, req.Tags); err != nil {
		Error(c, err)
		return
	}

	Success(c, nil)
}

func (s *HTTPServer) deleteNoteByID(c *gin.Context) {
	ctx := c.Request.Context()
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	// Deletion is owner-only; collaborators cannot remove a shared note.
	if err := s.notes.VerifyNoteOwner(ctx, noteID, userID); err != nil {
		Error(c, err)
		return
	}

	if err := s.notes.DeleteNoteByID(ctx, noteID); err != nil {
		Error(c, err)
		return
	}

	Success(c, nil)
}

// ---- collaborations ----

func (s *HTTPServer) postCollaboration(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	noteID := c.Param("id")
	callerID := c.GetString("user_id")

	// Only the owner grants access.
	if err := s.notes.VerifyNoteOwner(ctx, noteID, callerID); err != nil {
		Error(c, err)
		return
	}

	if _, err := s.users.GetUserByID(ctx, req.UserID); err != nil {
		Error(c, err)
		return
	}

	collabID, err := s.collabs.AddCollaboration(ctx, noteID, req.UserID)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, gin.H{"collaborationId": collabID})
}

func (s *HTTPServer) deleteCollaboration(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	noteID := c.Param("id")
	callerID := c.GetString("user_id")

	if err := s.notes.VerifyNoteOwner(ctx, noteID, callerID); err != nil {
		Error(c, err)
		return
	}

	if err := s.collabs.DeleteCollaboration(ctx, noteID, req.UserID); err != nil {
		Error(c, err)
		return
	}

	Success(c, nil)
}

// ---- views ----

// userView is the public shape of a user; the password hash never leaves the
// service.
type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
}

func toUserView(user *domain.User) userView {
	return userView{
		ID:       user.ID,
		Username: user.Username,
		Fullname: user.Fullname,
	}
}

func toUserViews(users []*domain.User) []userView {
	views := make([]userView, 0, len(users))
	for _, user := range users {
		views = append(views, toUserView(user))
	}
	return views
}
