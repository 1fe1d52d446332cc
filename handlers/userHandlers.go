package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gerenciador-tarefas/models"
	"gerenciador-tarefas/permissions"
	"gerenciador-tarefas/utilities"

	"github.com/gorilla/mux"
)

// buscarUsuarioAutorizado resolve o usuário alvo da rota e consulta a permissão.
// Ao contrário das tarefas, o registro de usuário é resolvido antes da decisão:
// quem não pode tocá-lo recebe 403, não 404.
func buscarUsuarioAutorizado(w http.ResponseWriter, r *http.Request, action permissions.Action) (*models.Usuario, bool) {
	ator, ok := CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return nil, false
	}

	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return nil, false
	}

	alvo, err := models.GetUsuarioByID(db, id)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "Not found.")
			return nil, false
		}
		utilities.LogError(err, "Erro ao buscar usuário no banco de dados")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return nil, false
	}

	if !permissions.CanAccessUser(ator, action, *alvo) {
		utilities.LogInfo("Usuário %d sem permissão para %s no usuário %d", ator.ID, action, alvo.ID)
		writeError(w, http.StatusForbidden, "You do not have permission to perform this action.")
		return nil, false
	}

	return alvo, true
}

// GetAllUsersHandler lista todos os usuários. Privilégio de staff.
func GetAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	ator, ok := CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	if !permissions.CanAccessUser(ator, permissions.ActionList, models.Usuario{}) {
		utilities.LogInfo("Usuário %d tentou listar usuários sem ser staff", ator.ID)
		writeError(w, http.StatusForbidden, "You do not have permission to perform this action.")
		return
	}

	usuarios, err := models.ListUsuarios(db)
	if err != nil {
		utilities.LogError(err, "Erro ao buscar usuários")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	writeJSON(w, http.StatusOK, usuarios)
}

// GetUserHandler devolve um usuário específico (staff ou o próprio).
func GetUserHandler(w http.ResponseWriter, r *http.Request) {
	alvo, ok := buscarUsuarioAutorizado(w, r, permissions.ActionRetrieve)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, alvo)
}

// UpdateUserHandler atualiza username, email e/ou senha (staff ou o próprio).
// Senha nova passa pelas mesmas regras do registro e é re-hasheada.
func UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	alvo, ok := buscarUsuarioAutorizado(w, r, permissions.ActionUpdate)
	if !ok {
		return
	}

	var patch models.UsuarioPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utilities.LogError(err, "Erro ao decodificar dados de atualização")
		writeError(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	if patch.Username != nil {
		novo := strings.TrimSpace(*patch.Username)
		if novo == "" {
			writeValidationError(w, &models.ValidationError{Field: "username", Reason: "This field may not be blank."})
			return
		}
		if novo != alvo.Username {
			existe, err := models.UsernameExists(db, novo)
			if err != nil {
				utilities.LogError(err, "Erro ao verificar username no banco de dados")
				writeError(w, http.StatusInternalServerError, "Internal server error.")
				return
			}
			if existe {
				writeValidationError(w, &models.ValidationError{Field: "username", Reason: models.ErrUsernameEmUso.Error()})
				return
			}
		}
		alvo.Username = novo
	}

	if patch.Email != nil {
		alvo.Email = *patch.Email
	}

	if patch.Password != nil {
		if err := models.ValidarSenha(*patch.Password); err != nil {
			writeValidationError(w, err)
			return
		}
		if err := alvo.SetPassword(*patch.Password); err != nil {
			utilities.LogError(err, "Erro ao gerar hash da senha")
			writeError(w, http.StatusInternalServerError, "Internal server error.")
			return
		}
	}

	if err := models.UpdateUsuario(db, alvo); err != nil {
		utilities.LogError(err, "Erro ao atualizar usuário")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	utilities.LogInfo("Usuário atualizado com sucesso: %d", alvo.ID)
	writeJSON(w, http.StatusOK, alvo)
}

// DeleteUserHandler remove um usuário (staff ou o próprio).
func DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	alvo, ok := buscarUsuarioAutorizado(w, r, permissions.ActionDelete)
	if !ok {
		return
	}

	if err := models.DeleteUsuario(db, alvo.ID); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		utilities.LogError(err, "Erro ao excluir usuário")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	utilities.LogInfo("Usuário excluído com sucesso: %d", alvo.ID)
	w.WriteHeader(http.StatusNoContent)
}
