package models

import (
	"database/sql"
	"fmt"
	"strings"
)

// TaskFilter agrupa os filtros de listagem aceitos pela API.
type TaskFilter struct {
	Status        string // comparação exata sem diferenciar maiúsculas
	Priority      string // idem
	DueDateBefore *Date  // data_limite <= valor
	DueDateAfter  *Date  // data_limite >= valor
	Search        string // busca livre em title e descricao
	Ordering      string // due_date | priority | created_at, prefixo "-" inverte
}

// camposDeOrdenacao mapeia os nomes aceitos na API para as colunas reais.
var camposDeOrdenacao = map[string]string{
	"due_date":   "t.data_limite",
	"priority":   "t.prioridade",
	"created_at": "t.created_at",
}

// OrdenacaoValida informa se o valor de ordering é aceito (com ou sem prefixo "-").
func OrdenacaoValida(ordering string) bool {
	if ordering == "" {
		return true
	}
	_, ok := camposDeOrdenacao[strings.TrimPrefix(ordering, "-")]
	return ok
}

const taskSelectColunas = `t.id, t.title, t.descricao, t.data_limite, t.prioridade, t.status,
       t.concluida_em, t.created_at, t.updated_at, t.usuario_id, u.username`

// BuildListQuery monta a query de listagem restrita ao dono, com filtros opcionais.
// A visibilidade da coleção é garantida aqui: a query nunca enxerga tarefas de
// outros usuários.
func BuildListQuery(ownerID int64, f TaskFilter) (string, []interface{}) {
	query := fmt.Sprintf(`SELECT %s
        FROM tarefas t
        JOIN users u ON t.usuario_id = u.id
        WHERE t.usuario_id = $1`, taskSelectColunas)
	params := []interface{}{ownerID}
	paramCount := 2

	if f.Status != "" {
		query += fmt.Sprintf(" AND LOWER(t.status) = LOWER($%d)", paramCount)
		params = append(params, f.Status)
		paramCount++
	}

	if f.Priority != "" {
		query += fmt.Sprintf(" AND LOWER(t.prioridade) = LOWER($%d)", paramCount)
		params = append(params, f.Priority)
		paramCount++
	}

	if f.DueDateBefore != nil {
		query += fmt.Sprintf(" AND t.data_limite <= $%d", paramCount)
		params = append(params, *f.DueDateBefore)
		paramCount++
	}

	if f.DueDateAfter != nil {
		query += fmt.Sprintf(" AND t.data_limite >= $%d", paramCount)
		params = append(params, *f.DueDateAfter)
		paramCount++
	}

	if f.Search != "" {
		query += fmt.Sprintf(" AND (t.title ILIKE $%d OR t.descricao ILIKE $%d)", paramCount, paramCount)
		params = append(params, "%"+f.Search+"%")
		paramCount++
	}

	// Ordenação padrão: data limite crescente, mais recentes primeiro no empate.
	orderBy := "t.data_limite ASC NULLS LAST, t.created_at DESC"
	if f.Ordering != "" {
		campo := strings.TrimPrefix(f.Ordering, "-")
		if coluna, ok := camposDeOrdenacao[campo]; ok {
			direcao := "ASC"
			if strings.HasPrefix(f.Ordering, "-") {
				direcao = "DESC"
			}
			orderBy = coluna + " " + direcao
		}
	}
	query += " ORDER BY " + orderBy

	return query, params
}

func scanTask(scanner interface{ Scan(...interface{}) error }) (*Task, error) {
	var t Task
	var dataLimite sql.NullTime
	var concluidaEm sql.NullTime
	err := scanner.Scan(
		&t.ID, &t.Title, &t.Description, &dataLimite, &t.Priority, &t.Status,
		&concluidaEm, &t.CreatedAt, &t.UpdatedAt, &t.UsuarioID, &t.Owner,
	)
	if err != nil {
		return nil, err
	}
	if dataLimite.Valid {
		d := NewDate(dataLimite.Time.Year(), dataLimite.Time.Month(), dataLimite.Time.Day())
		t.DueDate = &d
	}
	if concluidaEm.Valid {
		horario := concluidaEm.Time
		t.CompletedAt = &horario
	}
	return &t, nil
}

// ListTasks devolve as tarefas do dono aplicando os filtros.
func ListTasks(db *sql.DB, ownerID int64, f TaskFilter) ([]Task, error) {
	query, params := BuildListQuery(ownerID, f)
	rows, err := db.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// CreateTask insere a tarefa e preenche os campos gerados pelo banco. O dono já
// deve estar definido em UsuarioID (nunca vem do cliente).
func CreateTask(db *sql.DB, t *Task) error {
	query := `INSERT INTO tarefas (title, descricao, data_limite, prioridade, status, concluida_em, usuario_id)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING id, created_at, updated_at,
                        (SELECT username FROM users WHERE id = $7)`
	var dataLimite interface{}
	if t.DueDate != nil {
		dataLimite = *t.DueDate
	}
	var concluidaEm interface{}
	if t.CompletedAt != nil {
		concluidaEm = *t.CompletedAt
	}
	return db.QueryRow(query, t.Title, t.Description, dataLimite, t.Priority, t.Status, concluidaEm, t.UsuarioID).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.Owner)
}

// GetTaskByID busca uma tarefa pelo ID, sem restringir ao dono. A autorização de
// instância é decidida depois, pelo pacote permissions.
func GetTaskByID(db *sql.DB, id int64) (*Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tarefas t JOIN users u ON t.usuario_id = u.id WHERE t.id = $1`,
		taskSelectColunas)
	t, err := scanTask(db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTaskByIDTx é a variante transacional de GetTaskByID, travando a linha para a
// sequência ler-validar-gravar de uma atualização.
func GetTaskByIDTx(tx *sql.Tx, id int64) (*Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tarefas t JOIN users u ON t.usuario_id = u.id
        WHERE t.id = $1 FOR UPDATE OF t`, taskSelectColunas)
	t, err := scanTask(tx.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTaskTx grava todos os campos mutáveis da tarefa dentro da transação e
// renova updated_at no banco.
func UpdateTaskTx(tx *sql.Tx, t *Task) error {
	query := `UPDATE tarefas
              SET title = $1, descricao = $2, data_limite = $3, prioridade = $4,
                  status = $5, concluida_em = $6, updated_at = NOW()
              WHERE id = $7 RETURNING updated_at`
	var dataLimite interface{}
	if t.DueDate != nil {
		dataLimite = *t.DueDate
	}
	var concluidaEm interface{}
	if t.CompletedAt != nil {
		concluidaEm = *t.CompletedAt
	}
	err := tx.QueryRow(query, t.Title, t.Description, dataLimite, t.Priority, t.Status, concluidaEm, t.ID).
		Scan(&t.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrTaskNotFound
	}
	return err
}

// DeleteTask remove a tarefa.
func DeleteTask(db *sql.DB, id int64) error {
	res, err := db.Exec("DELETE FROM tarefas WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}
