package main

import (
	"log"

	"gerenciador-tarefas/database"
	"gerenciador-tarefas/handlers"
	"gerenciador-tarefas/utilities"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Arquivo .env não encontrado, usando variáveis do ambiente")
	}

	utilities.InitLogger()

	db, err := database.ConnectPostgres()
	if err != nil {
		log.Fatalf("Erro ao conectar ao banco de dados: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("Erro ao preparar o esquema do banco de dados: %v", err)
	}

	handlers.InitDB(db)
	if err := handlers.InitAuth(); err != nil {
		log.Fatalf("Erro ao configurar a autenticação: %v", err)
	}

	LoadRoutes()
}
