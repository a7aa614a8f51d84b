package security

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"procurement/internal/repository"
	"procurement/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret []byte

// Init sets the signing secret. Must be called once before any token is
// issued or verified.
func Init(secret string) {
	jwtSecret = []byte(secret)
}

func AuthenticateUser(email, password string, repo *repository.Repository) (*models.User, error) {
	var user models.User

	query := repo.GoquDBWrapper.
		Select("id", "email", "fullname", "password_hash", "role", "department_id").
		From("users").
		Where(goqu.Ex{"email": email})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}

func GenerateJWT(userID int, role string, email string) (string, error) {
	claims := jwt.MapClaims{
		"userID": strconv.Itoa(userID),
		"role":   role,
		"email":  email,
		"exp":    time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func getTokenFromContext(c *gin.Context) (*jwt.Token, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header missing")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return token, nil
}

// GetUserIDFromContext reads the acting user's id set by JWTMiddleware.
func GetUserIDFromContext(c *gin.Context) (int, error) {
	raw, exists := c.Get("userID")
	if !exists {
		return 0, fmt.Errorf("userID missing from context")
	}

	idString, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("userID is not a string")
	}

	return strconv.Atoi(idString)
}

func GetRoleFromContext(c *gin.Context) (string, error) {
	raw, exists := c.Get("role")
	if !exists {
		return "", fmt.Errorf("role missing from context")
	}

	role, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("role is not a string")
	}

	return role, nil
}
