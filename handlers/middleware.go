package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gerenciador-tarefas/models"
	"gerenciador-tarefas/utilities"

	"github.com/google/uuid"
)

type contextKey string

const (
	usuarioAtualKey contextKey = "usuarioAtual"
	requestIDKey    contextKey = "requestID"
)

// RequestIDMiddleware atribui um ID único a cada requisição, devolvido no header
// X-Request-ID e propagado pelo contexto para os logs.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID devolve o ID da requisição atual, se houver.
func RequestID(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		return id
	}
	return "-"
}

// LoggingMiddleware registra informações sobre cada requisição HTTP
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Criar um ResponseWriter personalizado para capturar o status code
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		utilities.LogRequest(RequestID(r), r.Method, r.URL.Path, r.RemoteAddr, rw.statusCode, duration)
	})
}

// responseWriter é um wrapper para http.ResponseWriter que captura o status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captura o status code antes de escrevê-lo
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// AuthMiddleware valida o Bearer token de acesso e injeta o ator autenticado no
// contexto. Erros de autenticação são avaliados antes de qualquer outra regra.
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utilities.LogError(fmt.Errorf("header de autorização ausente"), "Autenticação falhou")
			writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := ValidarAccessToken(tokenString)
		if err != nil {
			utilities.LogError(err, "Token inválido")
			writeError(w, http.StatusUnauthorized, "Given token not valid for any token type.")
			return
		}

		// O ator vem inteiro das claims; os handlers recebem a identidade de forma
		// explícita, nunca de um estado ambiente.
		ator := models.Usuario{
			ID:       claims.UserID,
			Username: claims.Username,
			IsStaff:  claims.IsStaff,
		}
		ctx := context.WithValue(r.Context(), usuarioAtualKey, ator)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// CurrentUser extrai o ator autenticado colocado no contexto pelo AuthMiddleware.
func CurrentUser(r *http.Request) (models.Usuario, bool) {
	u, ok := r.Context().Value(usuarioAtualKey).(models.Usuario)
	return u, ok
}
