package handlers

import (
	"database/sql"
	"errors"
	"os"
	"strconv"
	"time"

	"gerenciador-tarefas/models"
	"gerenciador-tarefas/utilities"

	"github.com/golang-jwt/jwt/v5"
)

var db *sql.DB

var (
	jwtSecret  []byte
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

// Erros de autenticação expostos aos handlers e ao middleware.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// InitDB inicializa a conexão compartilhada com o banco de dados
func InitDB(database *sql.DB) {
	utilities.LogInfo("Inicializando conexão com o banco de dados")
	db = database
}

// InitAuth carrega o segredo e as durações dos tokens a partir do ambiente.
// JWT_ACCESS_TTL e JWT_REFRESH_TTL são opcionais, em minutos.
func InitAuth() error {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return errors.New("JWT_SECRET não definida")
	}
	jwtSecret = []byte(secret)

	if v := os.Getenv("JWT_ACCESS_TTL"); v != "" {
		minutos, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("JWT_ACCESS_TTL inválida")
		}
		accessTTL = time.Duration(minutos) * time.Minute
	}
	if v := os.Getenv("JWT_REFRESH_TTL"); v != "" {
		minutos, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("JWT_REFRESH_TTL inválida")
		}
		refreshTTL = time.Duration(minutos) * time.Minute
	}

	utilities.LogInfo("Autenticação JWT configurada (access: %v, refresh: %v)", accessTTL, refreshTTL)
	return nil
}

// Claims carrega a identidade do usuário dentro do token. TokenType separa tokens
// de acesso de tokens de refresh.
type Claims struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	IsStaff   bool   `json:"is_staff"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair é o corpo devolvido por /token e /token/refresh.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func gerarToken(u *models.Usuario, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    u.ID,
		Username:  u.Username,
		IsStaff:   u.IsStaff,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "gerenciador-tarefas",
			Subject:   strconv.FormatInt(u.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// GerarParDeTokens emite o par access+refresh para o usuário.
func GerarParDeTokens(u *models.Usuario) (*TokenPair, error) {
	access, err := gerarToken(u, "access", accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := gerarToken(u, "refresh", refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func validarToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidarAccessToken valida um token de acesso e devolve as claims.
func ValidarAccessToken(tokenString string) (*Claims, error) {
	claims, err := validarToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "access" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidarRefreshToken valida um token de refresh e devolve as claims.
func ValidarRefreshToken(tokenString string) (*Claims, error) {
	claims, err := validarToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
