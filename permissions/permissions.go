// Package permissions concentra as decisões de autorização da API. As funções são
// puras: recebem o ator autenticado explicitamente e devolvem apenas a decisão;
// quem transforma um "false" em resposta 403 é a camada HTTP.
package permissions

import "gerenciador-tarefas/models"

// Action identifica a operação pretendida sobre o recurso.
type Action string

const (
	ActionList       Action = "list"
	ActionRetrieve   Action = "retrieve"
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionComplete   Action = "complete"
	ActionIncomplete Action = "incomplete"
)

// CanAccessTask decide o acesso de instância a uma tarefa: só o dono, para qualquer
// ação. O privilégio de staff não vale aqui. A visibilidade da listagem é garantida
// antes, restringindo a query ao dono, então esta função nunca vê tarefas alheias
// num fluxo de list.
func CanAccessTask(actor models.Usuario, _ Action, tarefa models.Task) bool {
	return tarefa.UsuarioID == actor.ID
}

// CanAccessUser decide o acesso a registros de usuário: listar é privilégio de
// staff; as demais ações de instância exigem staff ou o próprio registro. A criação
// (registro aberto) nem passa por aqui.
func CanAccessUser(actor models.Usuario, action Action, alvo models.Usuario) bool {
	if action == ActionList {
		return actor.IsStaff
	}
	return actor.IsStaff || alvo.ID == actor.ID
}
