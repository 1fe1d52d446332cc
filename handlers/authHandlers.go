package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gerenciador-tarefas/models"
	"gerenciador-tarefas/utilities"
)

// RegisterHandler cria uma conta nova. Rota pública: o registro é aberto e não
// consulta o componente de autorização.
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando registro de novo usuário")

	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "Erro ao decodificar JSON do corpo da requisição")
		writeError(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	// Validações
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" {
		utilities.LogError(fmt.Errorf("username não fornecido"), "Validação falhou")
		writeValidationError(w, &models.ValidationError{Field: "username", Reason: "This field is required."})
		return
	}
	if err := models.ValidarSenha(input.Password); err != nil {
		utilities.LogError(err, "Validação falhou")
		writeValidationError(w, err)
		return
	}

	existe, err := models.UsernameExists(db, input.Username)
	if err != nil {
		utilities.LogError(err, "Erro ao verificar username no banco de dados")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if existe {
		utilities.LogInfo("Tentativa de registro com username já existente: %s", input.Username)
		writeValidationError(w, &models.ValidationError{Field: "username", Reason: models.ErrUsernameEmUso.Error()})
		return
	}

	usuario := models.Usuario{
		Username: input.Username,
		Email:    input.Email,
	}
	// O hash acontece em toda escrita de senha
	if err := usuario.SetPassword(input.Password); err != nil {
		utilities.LogError(err, "Erro ao gerar hash da senha")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	if err := models.CreateUsuario(db, &usuario); err != nil {
		utilities.LogError(err, "Erro ao salvar usuário no banco de dados")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	utilities.LogInfo("Usuário registrado com sucesso: %s (ID: %d)", usuario.Username, usuario.ID)
	writeJSON(w, http.StatusCreated, usuario)
}

// TokenHandler autentica por username e senha e emite o par access+refresh.
func TokenHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "Erro ao decodificar credenciais")
		writeError(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	usuario, err := models.GetUsuarioByUsername(db, input.Username)
	if err != nil {
		if !errors.Is(err, models.ErrUserNotFound) {
			utilities.LogError(err, "Erro ao buscar usuário para login")
			writeError(w, http.StatusInternalServerError, "Internal server error.")
			return
		}
		// Mesma resposta para usuário inexistente e senha errada
		writeError(w, http.StatusUnauthorized, "No active account found with the given credentials")
		return
	}
	if !usuario.CheckPassword(input.Password) {
		utilities.LogInfo("Senha incorreta para o usuário %s", input.Username)
		writeError(w, http.StatusUnauthorized, "No active account found with the given credentials")
		return
	}

	par, err := GerarParDeTokens(usuario)
	if err != nil {
		utilities.LogError(err, "Erro ao gerar tokens")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	utilities.LogInfo("Tokens emitidos para o usuário %s", usuario.Username)
	writeJSON(w, http.StatusOK, par)
}

// TokenRefreshHandler troca um refresh token válido por um novo par de tokens.
func TokenRefreshHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "Erro ao decodificar refresh token")
		writeError(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	claims, err := ValidarRefreshToken(input.Refresh)
	if err != nil {
		utilities.LogError(err, "Refresh token inválido")
		writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}

	// Confere se a conta ainda existe antes de renovar as credenciais
	usuario, err := models.GetUsuarioByID(db, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
			return
		}
		utilities.LogError(err, "Erro ao buscar usuário do refresh token")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	par, err := GerarParDeTokens(usuario)
	if err != nil {
		utilities.LogError(err, "Erro ao gerar tokens")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	writeJSON(w, http.StatusOK, par)
}
