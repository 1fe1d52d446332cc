package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Status possíveis de uma tarefa. O valor é armazenado na forma canônica.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)

// Prioridades possíveis de uma tarefa.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *Date      `json:"due_date"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	UsuarioID   int64      `json:"-"`
	Owner       string     `json:"owner"` // username do dono, somente leitura
}

// TaskPatch representa uma atualização parcial. Campos nil não são alterados.
type TaskPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *Date   `json:"due_date"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}

// temMudancasAlemDoStatus informa se o patch altera algo além do campo status.
func (p TaskPatch) temMudancasAlemDoStatus() bool {
	return p.Title != nil || p.Description != nil || p.DueDate != nil || p.Priority != nil
}

// Date é uma data de calendário (sem hora), serializada como "AAAA-MM-DD".
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return &ValidationError{Field: "due_date", Reason: "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."}
	}
	d.Time = t
	return nil
}

// Scan implementa sql.Scanner para colunas DATE.
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("tipo inesperado para Date: %T", value)
	}
}

// Value implementa driver.Valuer para colunas DATE.
func (d Date) Value() (driver.Value, error) {
	return d.Format(dateLayout), nil
}

// DepoisDe compara apenas a parte de calendário das duas datas.
func (d Date) DepoisDe(outra time.Time) bool {
	a := d.Year()*10000 + int(d.Month())*100 + d.Day()
	b := outra.Year()*10000 + int(outra.Month())*100 + outra.Day()
	return a > b
}

// NormalizeStatus aceita o status sem diferenciar maiúsculas e devolve a forma canônica.
func NormalizeStatus(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "completed":
		return StatusCompleted, nil
	default:
		return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("%q is not a valid choice.", s)}
	}
}

// NormalizePriority aceita a prioridade sem diferenciar maiúsculas e devolve a forma canônica.
func NormalizePriority(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return "", &ValidationError{Field: "priority", Reason: fmt.Sprintf("%q is not a valid choice.", s)}
	}
}

// ValidateAndApply valida um patch e o aplica sobre a tarefa existente (ou monta uma
// nova, quando existing é nil). Função pura: não toca no banco. Regras, nesta ordem:
//
//  1. data limite, quando presente, precisa ser estritamente futura;
//  2. tarefa concluída não pode ser editada, exceto para reverter o status a Pending
//     (a reversão pode vir acompanhada de outras alterações no mesmo patch);
//  3. transições de status ajustam concluida_em: entrar em Completed grava o instante,
//     voltar a Pending limpa o campo.
func ValidateAndApply(existing *Task, patch TaskPatch, now time.Time) (*Task, error) {
	if patch.DueDate != nil && !patch.DueDate.DepoisDe(now) {
		return nil, &ValidationError{Field: "due_date", Reason: "Due date must be a future date."}
	}

	var novoStatus string
	if patch.Status != nil {
		s, err := NormalizeStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		novoStatus = s
	}

	var novaPrioridade string
	if patch.Priority != nil {
		p, err := NormalizePriority(*patch.Priority)
		if err != nil {
			return nil, err
		}
		novaPrioridade = p
	}

	// Trava de edição: tarefa concluída só aceita mudanças se o patch reverter o status.
	if existing != nil && existing.Status == StatusCompleted {
		if novoStatus != StatusPending && patch.temMudancasAlemDoStatus() {
			return nil, &ValidationError{Reason: "Completed tasks cannot be edited. To make changes, first mark the task as Pending."}
		}
	}

	var task Task
	statusAnterior := ""
	if existing != nil {
		task = *existing
		statusAnterior = existing.Status
	} else {
		task.Status = StatusPending
		task.Priority = PriorityMedium
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if novaPrioridade != "" {
		task.Priority = novaPrioridade
	}
	if novoStatus != "" {
		task.Status = novoStatus
	}

	if task.Status != statusAnterior {
		switch task.Status {
		case StatusCompleted:
			concluida := now
			task.CompletedAt = &concluida
		case StatusPending:
			task.CompletedAt = nil
		}
	}

	return &task, nil
}
