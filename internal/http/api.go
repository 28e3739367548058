package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stock-tracker/internal/domain"
	"stock-tracker/internal/service"
)

const userContextKey = "authUser"

// Handler wires HTTP routes to domain services.
type Handler struct {
	market    service.MarketService
	users     service.UserService
	watchlist service.WatchlistService
	logger    *logrus.Logger
	devMode   bool
}

func NewHandler(market service.MarketService, users service.UserService, watchlist service.WatchlistService, logger *logrus.Logger, devMode bool) *Handler {
	return &Handler{
		market:    market,
		users:     users,
		watchlist: watchlist,
		logger:    logger,
		devMode:   devMode,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(h.recoveryMiddleware())

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.GET("/profile", h.requireAuth, h.profile)
		}

		stocks := api.Group("/stocks")
		{
			stocks.GET("", h.listStocks)
			stocks.GET("/:symbol", h.getStock)
			stocks.GET("/:symbol/historical", h.getHistorical)
			stocks.GET("/search/:query", h.search)
		}

		api.GET("/indices", h.listIndices)

		watchlist := api.Group("/watchlist", h.requireAuth)
		{
			watchlist.GET("", h.listWatchlist)
			watchlist.POST("/:symbol", h.addToWatchlist)
			watchlist.DELETE("/:symbol", h.removeFromWatchlist)
		}

		api.GET("/health", h.health)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Route Not Found",
		})
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// recoveryMiddleware converts panics into the uniform 500 envelope; the
// panic detail is only echoed in dev mode.
func (h *Handler) recoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.logger.WithField("panic", recovered).Error("unhandled panic")
		resp := gin.H{
			"success": false,
			"message": "Something went wrong",
		}
		if h.devMode {
			resp["error"] = recovered
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
	})
}

// requireAuth extracts and validates the bearer token, storing the
// resolved user on the request context.
func (h *Handler) requireAuth(c *gin.Context) {
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Token required",
		})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), header[len(prefix):])
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "User not found",
			})
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid token",
		})
		return
	}

	c.Set(userContextKey, user)
	c.Next()
}

func currentUser(c *gin.Context) *domain.User {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := value.(*domain.User)
	return user
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func userToResponse(user *domain.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	user, token, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			h.internalError(c, "Registration failed", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"token":   token,
		"user":    userToResponse(user),
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	user, token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
			return
		}
		h.internalError(c, "Login failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    userToResponse(user),
	})
}

func (h *Handler) profile(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"watchlist": user.Watchlist,
		},
	})
}

func (h *Handler) listStocks(c *gin.Context) {
	stocks := h.market.TrackedStocks(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stocks})
}

func (h *Handler) getStock(c *gin.Context) {
	symbol := c.Param("symbol")
	quote, err := h.market.GetQuote(c.Request.Context(), symbol)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Stock not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": quote})
}

func (h *Handler) getHistorical(c *gin.Context) {
	symbol := c.Param("symbol")
	interval := c.DefaultQuery("interval", "1d")
	rng := c.DefaultQuery("range", "1mo")

	points := h.market.GetHistory(c.Request.Context(), symbol, interval, rng)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": points})
}

func (h *Handler) search(c *gin.Context) {
	results := h.market.Search(c.Request.Context(), c.Param("query"))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": results})
}

func (h *Handler) listIndices(c *gin.Context) {
	indices := h.market.Indices(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true, "data": indices})
}

func (h *Handler) listWatchlist(c *gin.Context) {
	user := currentUser(c)
	items, err := h.watchlist.List(c.Request.Context(), user.ID)
	if err != nil {
		h.internalError(c, "Failed to fetch watchlist", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

func (h *Handler) addToWatchlist(c *gin.Context) {
	user := currentUser(c)
	symbol := c.Param("symbol")

	entry, err := h.watchlist.Add(c.Request.Context(), user.ID, symbol)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStockNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Stock not found"})
		case errors.Is(err, service.ErrAlreadyInWatchlist):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Stock already in watchlist"})
		default:
			h.internalError(c, "Failed to add to watchlist", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Stock added to watchlist",
		"data": gin.H{
			"symbol":      entry.Symbol,
			"companyName": entry.CompanyName,
		},
	})
}

func (h *Handler) removeFromWatchlist(c *gin.Context) {
	user := currentUser(c)
	if err := h.watchlist.Remove(c.Request.Context(), user.ID, c.Param("symbol")); err != nil {
		h.internalError(c, "Failed to remove from watchlist", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Stock removed from watchlist",
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"message": "Server is running",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) internalError(c *gin.Context, message string, err error) {
	h.logger.WithError(err).Error(message)
	resp := gin.H{"success": false, "message": message}
	if h.devMode {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}
