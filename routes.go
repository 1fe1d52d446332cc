package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"gerenciador-tarefas/handlers"
	"gerenciador-tarefas/utilities"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func LoadRoutes() {
	r := mux.NewRouter()

	// Middlewares globais: ID de requisição e log de acesso
	r.Use(handlers.RequestIDMiddleware)
	r.Use(handlers.LoggingMiddleware)

	// --- Rotas públicas: registro e emissão de tokens ---
	r.HandleFunc("/auth/register", handlers.RegisterHandler).Methods("POST")
	r.HandleFunc("/token", handlers.TokenHandler).Methods("POST")
	r.HandleFunc("/token/refresh", handlers.TokenRefreshHandler).Methods("POST")

	// --- Rotas de Tarefas (protegidas, sempre restritas ao dono) ---
	r.HandleFunc("/tasks", handlers.AuthMiddleware(handlers.ListTasksHandler)).Methods("GET")
	r.HandleFunc("/tasks", handlers.AuthMiddleware(handlers.CreateTaskHandler)).Methods("POST")
	r.HandleFunc("/tasks/{id}", handlers.AuthMiddleware(handlers.GetTaskHandler)).Methods("GET")
	r.HandleFunc("/tasks/{id}", handlers.AuthMiddleware(handlers.UpdateTaskHandler)).Methods("PUT", "PATCH")
	r.HandleFunc("/tasks/{id}", handlers.AuthMiddleware(handlers.DeleteTaskHandler)).Methods("DELETE")
	r.HandleFunc("/tasks/{id}/complete", handlers.AuthMiddleware(handlers.CompleteTaskHandler)).Methods("POST")
	r.HandleFunc("/tasks/{id}/incomplete", handlers.AuthMiddleware(handlers.IncompleteTaskHandler)).Methods("POST")

	// --- Rotas de Usuários (listagem só para staff; instância para staff ou o próprio) ---
	r.HandleFunc("/users", handlers.AuthMiddleware(handlers.GetAllUsersHandler)).Methods("GET")
	r.HandleFunc("/users", handlers.RegisterHandler).Methods("POST") // criação aberta, mesma do registro
	r.HandleFunc("/users/{id}", handlers.AuthMiddleware(handlers.GetUserHandler)).Methods("GET")
	r.HandleFunc("/users/{id}", handlers.AuthMiddleware(handlers.UpdateUserHandler)).Methods("PUT", "PATCH")
	r.HandleFunc("/users/{id}", handlers.AuthMiddleware(handlers.DeleteUserHandler)).Methods("DELETE")

	// Configuração do CORS
	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"})
	methods := gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})

	allowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if allowedOriginsEnv == "" {
		allowedOrigins = []string{"*"}
		utilities.LogInfo("CORS_ALLOWED_ORIGINS não definida, permitindo todas as origens ('*'). Defina para maior segurança em produção.")
	} else {
		allowedOrigins = strings.Split(allowedOriginsEnv, ",")
	}
	origins := gorillahandlers.AllowedOrigins(allowedOrigins)
	utilities.LogInfo("Configurando CORS com origens permitidas: %v", allowedOrigins)

	handler := gorillahandlers.CORS(headers, methods, origins)(r)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	utilities.LogInfo("Servidor iniciado na porta %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
