package permissions

import (
	"testing"

	"gerenciador-tarefas/models"

	"github.com/stretchr/testify/assert"
)

func TestCanAccessTask_SomenteODono(t *testing.T) {
	dono := models.Usuario{ID: 1}
	outro := models.Usuario{ID: 2}
	staff := models.Usuario{ID: 3, IsStaff: true}
	tarefa := models.Task{ID: 10, UsuarioID: 1}

	acoes := []Action{ActionRetrieve, ActionUpdate, ActionDelete, ActionComplete, ActionIncomplete}
	for _, acao := range acoes {
		assert.True(t, CanAccessTask(dono, acao, tarefa), "dono deveria poder %s", acao)
		assert.False(t, CanAccessTask(outro, acao, tarefa), "não-dono não deveria poder %s", acao)
		// Para tarefas o privilégio de staff não conta
		assert.False(t, CanAccessTask(staff, acao, tarefa), "staff não deveria poder %s", acao)
	}
}

func TestCanAccessUser_ListagemSoParaStaff(t *testing.T) {
	staff := models.Usuario{ID: 1, IsStaff: true}
	comum := models.Usuario{ID: 2}

	assert.True(t, CanAccessUser(staff, ActionList, models.Usuario{}))
	assert.False(t, CanAccessUser(comum, ActionList, models.Usuario{}))
}

func TestCanAccessUser_StaffOuOProprio(t *testing.T) {
	staff := models.Usuario{ID: 1, IsStaff: true}
	comum := models.Usuario{ID: 2}
	alvo := models.Usuario{ID: 2}
	terceiro := models.Usuario{ID: 3}

	for _, acao := range []Action{ActionRetrieve, ActionUpdate, ActionDelete} {
		assert.True(t, CanAccessUser(staff, acao, alvo))
		assert.True(t, CanAccessUser(comum, acao, alvo), "o próprio registro é sempre acessível")
		assert.False(t, CanAccessUser(terceiro, acao, alvo))
	}
}
