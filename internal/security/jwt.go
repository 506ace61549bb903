package security

import (
	"context"
	"crm-file-server/config"
	"crm-file-server/internal/util"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

const RoleAdmin = "admin"

// Claims : access-токен выпускает внешний сервис аутентификации,
// здесь он только проверяется. Несёт пользователя, организацию и роль.
type Claims struct {
	UserUUID string `json:"user_uuid"`
	OrgUUID  string `json:"org_uuid"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

type JWTService struct {
	*config.JWTConfig
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{cfg}
}

func (service *JWTService) ValidateJWT(jwtTokenStr string, secretKey []byte) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return secretKey, nil
	})

	if err != nil || jwtToken.Valid == false {
		return nil, util.LogError("невалидный токен", err)
	}

	if claims.UserUUID == "" || claims.OrgUUID == "" {
		return nil, fmt.Errorf("токен не содержит пользователя или организацию")
	}

	return claims, nil
}

// JWTMiddleware : проверяет Bearer токен и кладёт claims в context
func JWTMiddleware(secretKey []byte, jwtService *JWTService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || strings.HasPrefix(authHeader, "Bearer ") == false {
				util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := jwtService.ValidateJWT(tokenStr, secretKey)
			if err != nil {
				util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	if ok == false || claims == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return claims, nil
}
