package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims são as credenciais extraídas do token JWT emitido pelo serviço de
// identidade. A emissão de tokens acontece fora desta aplicação.
type Claims struct {
	UserID     int    `json:"user_id"`
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	UserRoleID int    `json:"user_role_id"`
	jwt.RegisteredClaims
}
