package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gerenciador-tarefas/models"
	"gerenciador-tarefas/permissions"
	"gerenciador-tarefas/utilities"

	"github.com/gorilla/mux"
)

// parseTaskFilter lê os parâmetros de query da listagem. Valores de ordering fora
// da lista aceita são rejeitados em vez de ignorados.
func parseTaskFilter(q url.Values) (models.TaskFilter, error) {
	f := models.TaskFilter{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
	}

	if !models.OrdenacaoValida(f.Ordering) {
		return models.TaskFilter{}, &models.ValidationError{Field: "ordering", Reason: "Ordering must be one of: due_date, priority, created_at."}
	}

	if v := q.Get("due_date_before"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return models.TaskFilter{}, &models.ValidationError{Field: "due_date_before", Reason: "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."}
		}
		d := models.NewDate(t.Year(), t.Month(), t.Day())
		f.DueDateBefore = &d
	}

	if v := q.Get("due_date_after"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return models.TaskFilter{}, &models.ValidationError{Field: "due_date_after", Reason: "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."}
		}
		d := models.NewDate(t.Year(), t.Month(), t.Day())
		f.DueDateAfter = &d
	}

	return f, nil
}

// taskIDFromRequest lê e converte o {id} da rota.
func taskIDFromRequest(r *http.Request) (int64, error) {
	vars := mux.Vars(r)
	return strconv.ParseInt(vars["id"], 10, 64)
}

// buscarTarefaAutorizada resolve a tarefa da rota e consulta o componente de
// autorização. Escreve a resposta de erro e devolve ok=false quando o fluxo deve
// parar: 404 para tarefa inexistente, 403 quando o ator não é o dono.
func buscarTarefaAutorizada(w http.ResponseWriter, r *http.Request, action permissions.Action) (*models.Task, bool) {
	ator, ok := CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return nil, false
	}

	id, err := taskIDFromRequest(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return nil, false
	}

	tarefa, err := models.GetTaskByID(db, id)
	if err != nil {
		if errors.Is(err, models.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "Not found.")
			return nil, false
		}
		utilities.LogError(err, "Erro ao buscar tarefa no banco de dados")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return nil, false
	}

	// Recusa explícita (403), distinta de "não encontrado": a permissão de objeto
	// é testada depois de a tarefa ser resolvida.
	if !permissions.CanAccessTask(ator, action, *tarefa) {
		utilities.LogInfo("Usuário %d sem permissão para %s na tarefa %d", ator.ID, action, tarefa.ID)
		writeError(w, http.StatusForbidden, "You do not have permission to perform this action.")
		return nil, false
	}

	return tarefa, true
}

// CreateTaskHandler cria uma nova tarefa para o ator autenticado
func CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando criação de nova tarefa")

	ator, ok := CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	var patch models.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utilities.LogError(err, "Erro ao decodificar JSON da tarefa")
		writeValidationError(w, err)
		return
	}

	if patch.Title == nil || strings.TrimSpace(*patch.Title) == "" {
		utilities.LogError(errors.New("título não fornecido"), "Validação falhou")
		writeValidationError(w, &models.ValidationError{Field: "title", Reason: "This field is required."})
		return
	}

	tarefa, err := models.ValidateAndApply(nil, patch, time.Now())
	if err != nil {
		utilities.LogError(err, "Validação da tarefa falhou")
		writeValidationError(w, err)
		return
	}

	// O dono é sempre o requisitante autenticado, nunca vem do payload
	tarefa.UsuarioID = ator.ID

	if err := models.CreateTask(db, tarefa); err != nil {
		utilities.LogError(err, "Erro ao inserir tarefa no banco de dados")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	utilities.LogInfo("Tarefa criada com sucesso: %s (ID: %d)", tarefa.Title, tarefa.ID)
	writeJSON(w, http.StatusCreated, tarefa)
}

// ListTasksHandler lista as tarefas do ator autenticado, com filtros, ordenação e
// busca livre
func ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	ator, ok := CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	filtro, err := parseTaskFilter(r.URL.Query())
	if err != nil {
		writeValidationError(w, err)
		return
	}

	utilities.LogDebug("Buscando tarefas do usuário %d com filtros - status: %s, prioridade: %s",
		ator.ID, filtro.Status, filtro.Priority)

	tarefas, err := models.ListTasks(db, ator.ID, filtro)
	if err != nil {
		utilities.LogError(err, "Erro ao buscar tarefas no banco de dados")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	utilities.LogInfo("Tarefas listadas com sucesso - total: %d", len(tarefas))
	writeJSON(w, http.StatusOK, tarefas)
}

// GetTaskHandler devolve uma tarefa do ator autenticado
func GetTaskHandler(w http.ResponseWriter, r *http.Request) {
	tarefa, ok := buscarTarefaAutorizada(w, r, permissions.ActionRetrieve)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tarefa)
}

// aplicarPatch executa a sequência ler-validar-gravar dentro de uma transação,
// evitando perder atualizações entre a validação e a escrita.
func aplicarPatch(taskID int64, patch models.TaskPatch, now time.Time) (*models.Task, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	existente, err := models.GetTaskByIDTx(tx, taskID)
	if err != nil {
		return nil, err
	}

	atualizada, err := models.ValidateAndApply(existente, patch, now)
	if err != nil {
		return nil, err
	}

	if err := models.UpdateTaskTx(tx, atualizada); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return atualizada, nil
}

// UpdateTaskHandler atualiza uma tarefa existente (PUT e PATCH tratam o corpo como
// atualização parcial)
func UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando atualização de tarefa")

	tarefa, ok := buscarTarefaAutorizada(w, r, permissions.ActionUpdate)
	if !ok {
		return
	}

	var patch models.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utilities.LogError(err, "Erro ao decodificar JSON de atualização")
		writeValidationError(w, err)
		return
	}

	atualizada, err := aplicarPatch(tarefa.ID, patch, time.Now())
	if err != nil {
		var ve *models.ValidationError
		switch {
		case errors.As(err, &ve):
			utilities.LogError(err, "Validação da atualização falhou")
			writeValidationError(w, err)
		case errors.Is(err, models.ErrTaskNotFound):
			writeError(w, http.StatusNotFound, "Not found.")
		default:
			utilities.LogError(err, "Erro ao atualizar tarefa no banco de dados")
			writeError(w, http.StatusInternalServerError, "Internal server error.")
		}
		return
	}

	utilities.LogInfo("Tarefa atualizada com sucesso: %d", atualizada.ID)
	writeJSON(w, http.StatusOK, atualizada)
}

// DeleteTaskHandler remove uma tarefa do ator autenticado
func DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando exclusão de tarefa")

	tarefa, ok := buscarTarefaAutorizada(w, r, permissions.ActionDelete)
	if !ok {
		return
	}

	if err := models.DeleteTask(db, tarefa.ID); err != nil {
		if errors.Is(err, models.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		utilities.LogError(err, "Erro ao excluir tarefa do banco de dados")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	utilities.LogInfo("Tarefa excluída com sucesso: %d", tarefa.ID)
	w.WriteHeader(http.StatusNoContent)
}

// mudarStatus implementa os atalhos complete/incomplete. Quando a tarefa já está
// no estado alvo, responde sucesso sem mexer em nada (atalho idempotente, não é
// erro de cliente).
func mudarStatus(w http.ResponseWriter, r *http.Request, action permissions.Action, alvo string, jaEstava string) {
	tarefa, ok := buscarTarefaAutorizada(w, r, action)
	if !ok {
		return
	}

	if tarefa.Status == alvo {
		utilities.LogDebug("Tarefa %d já estava em %s, nenhum efeito", tarefa.ID, alvo)
		writeJSON(w, http.StatusOK, map[string]string{"detail": jaEstava})
		return
	}

	status := alvo
	atualizada, err := aplicarPatch(tarefa.ID, models.TaskPatch{Status: &status}, time.Now())
	if err != nil {
		utilities.LogError(err, "Erro ao mudar status da tarefa")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	utilities.LogInfo("Tarefa %d agora está em %s", atualizada.ID, atualizada.Status)
	writeJSON(w, http.StatusOK, atualizada)
}

// CompleteTaskHandler marca a tarefa como concluída
func CompleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	mudarStatus(w, r, permissions.ActionComplete, models.StatusCompleted, "Task already completed.")
}

// IncompleteTaskHandler reverte a tarefa para pendente
func IncompleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	mudarStatus(w, r, permissions.ActionIncomplete, models.StatusPending, "Task already pending.")
}
