package security

import (
	"net/http"
	"strings"
	"time"

	"procurement/internal/rate_limiter"
	"procurement/internal/repository"
	"procurement/pkg/auditlog"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

type LoginHandler struct {
	repo        *repository.Repository
	auditLog    *auditlog.Auditlog
	rateLimiter *rate_limiter.RateLimiter
}

func NewLoginHandler(r *repository.Repository, auditLog *auditlog.Auditlog) *LoginHandler {
	return &LoginHandler{
		repo:        r,
		auditLog:    auditLog,
		rateLimiter: rate_limiter.NewRateLimiter(10, 5*time.Minute),
	}
}

func (l *LoginHandler) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", l.Login)
		auth.GET("/me", JWTMiddleware(), l.Me)
	}
}

func (l *LoginHandler) Login(c *gin.Context) {
	clientIP := clientKey(c)

	if !l.rateLimiter.IsAllowed(clientIP) {
		remaining := l.rateLimiter.GetRemainingRequests(clientIP)
		c.Header("X-RateLimit-Limit", "10")
		c.Header("X-RateLimit-Reset", time.Now().Add(5*time.Minute).Format(time.RFC3339))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":     "Too many login attempts, try again later",
			"remaining": remaining,
		})
		return
	}

	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	user, err := AuthenticateUser(req.Email, req.Password, l.repo)
	if err != nil {
		l.auditLog.Log("auth", 0, "login_failed", nil, map[string]interface{}{"email": req.Email})
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := GenerateJWT(user.ID, user.Role, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	l.auditLog.Log("auth", user.ID, "login", &user.ID, map[string]interface{}{"email": user.Email})

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func (l *LoginHandler) Me(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	var user struct {
		ID           int    `json:"id" db:"id"`
		Email        string `json:"email" db:"email"`
		Fullname     string `json:"fullname" db:"fullname"`
		Role         string `json:"role" db:"role"`
		DepartmentID *int   `json:"department_id" db:"department_id"`
	}

	query := l.repo.GoquDBWrapper.
		Select("id", "email", "fullname", "role", "department_id").
		From("users").
		Where(goqu.Ex{"id": userID})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil || !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to find user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// clientKey derives the rate-limit bucket key. Proxied IPs are unwrapped;
// private addresses get the User-Agent mixed in to keep office NATs from
// sharing one bucket.
func clientKey(c *gin.Context) string {
	clientIP := c.GetHeader("X-Forwarded-For")
	if clientIP == "" {
		clientIP = c.GetHeader("X-Real-IP")
	}
	if clientIP == "" {
		clientIP = c.ClientIP()
	}

	if strings.Contains(clientIP, ",") {
		clientIP = strings.Split(clientIP, ",")[0]
	}

	if isPrivateIP(clientIP) {
		clientIP = clientIP + ":" + c.GetHeader("User-Agent")
	}

	return clientIP
}
