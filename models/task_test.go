package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var agora = time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func datePtr(d Date) *Date { return &d }

func tarefaPendente() *Task {
	return &Task{
		ID:        1,
		Title:     "Relatório mensal",
		Priority:  PriorityMedium,
		Status:    StatusPending,
		UsuarioID: 7,
	}
}

func tarefaConcluida() *Task {
	concluida := agora.Add(-24 * time.Hour)
	return &Task{
		ID:          2,
		Title:       "Revisar contrato",
		Priority:    PriorityHigh,
		Status:      StatusCompleted,
		CompletedAt: &concluida,
		UsuarioID:   7,
	}
}

func TestValidateAndApply_CriaComPadroes(t *testing.T) {
	task, err := ValidateAndApply(nil, TaskPatch{Title: strPtr("Nova tarefa")}, agora)
	require.NoError(t, err)

	assert.Equal(t, "Nova tarefa", task.Title)
	assert.Equal(t, StatusPending, task.Status)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Nil(t, task.CompletedAt)
}

func TestValidateAndApply_DataLimiteFutura(t *testing.T) {
	amanha := NewDate(2025, time.March, 11)
	task, err := ValidateAndApply(nil, TaskPatch{Title: strPtr("x"), DueDate: datePtr(amanha)}, agora)
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2025-03-11", task.DueDate.String())
}

func TestValidateAndApply_DataLimiteHojeFalha(t *testing.T) {
	// O limite é estrito: a data de hoje já é inválida
	hoje := NewDate(2025, time.March, 10)
	_, err := ValidateAndApply(nil, TaskPatch{Title: strPtr("x"), DueDate: datePtr(hoje)}, agora)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "due_date", ve.Field)
	assert.Contains(t, ve.Reason, "future date")
}

func TestValidateAndApply_DataLimitePassadaFalha(t *testing.T) {
	ontem := NewDate(2025, time.March, 9)
	_, err := ValidateAndApply(tarefaPendente(), TaskPatch{DueDate: datePtr(ontem)}, agora)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "due_date", ve.Field)
}

func TestValidateAndApply_ConcluirDefineCompletedAt(t *testing.T) {
	task, err := ValidateAndApply(tarefaPendente(), TaskPatch{Status: strPtr("Completed")}, agora)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, agora, *task.CompletedAt)
}

func TestValidateAndApply_ReverterLimpaCompletedAt(t *testing.T) {
	task, err := ValidateAndApply(tarefaConcluida(), TaskPatch{Status: strPtr("Pending")}, agora)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, task.Status)
	assert.Nil(t, task.CompletedAt)
}

func TestValidateAndApply_TravaDeEdicaoDaConcluida(t *testing.T) {
	_, err := ValidateAndApply(tarefaConcluida(), TaskPatch{Title: strPtr("outro título")}, agora)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Reason, "Completed tasks cannot be edited")
}

func TestValidateAndApply_ReverterPodeVirComOutrasMudancas(t *testing.T) {
	// A reversão para Pending destrava a edição no mesmo patch
	task, err := ValidateAndApply(tarefaConcluida(), TaskPatch{
		Status: strPtr("Pending"),
		Title:  strPtr("título novo"),
	}, agora)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, task.Status)
	assert.Equal(t, "título novo", task.Title)
	assert.Nil(t, task.CompletedAt)
}

func TestValidateAndApply_PatchVazioNaConcluidaNaoFalha(t *testing.T) {
	original := tarefaConcluida()
	task, err := ValidateAndApply(original, TaskPatch{}, agora)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, task.Status)
	assert.Equal(t, original.CompletedAt, task.CompletedAt)
}

func TestValidateAndApply_ConcluirDeNovoPreservaCompletedAt(t *testing.T) {
	original := tarefaConcluida()
	task, err := ValidateAndApply(original, TaskPatch{Status: strPtr("Completed")}, agora)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, *original.CompletedAt, *task.CompletedAt)
}

func TestValidateAndApply_InvarianteCompletedAt(t *testing.T) {
	// status == Completed se e somente se completed_at != nil, em toda a sequência
	task, err := ValidateAndApply(nil, TaskPatch{Title: strPtr("ciclo")}, agora)
	require.NoError(t, err)
	assert.Nil(t, task.CompletedAt)

	task, err = ValidateAndApply(task, TaskPatch{Status: strPtr("completed")}, agora)
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)

	task, err = ValidateAndApply(task, TaskPatch{Status: strPtr("pending")}, agora)
	require.NoError(t, err)
	assert.Nil(t, task.CompletedAt)
}

func TestValidateAndApply_StatusInvalido(t *testing.T) {
	_, err := ValidateAndApply(tarefaPendente(), TaskPatch{Status: strPtr("done")}, agora)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)
}

func TestValidateAndApply_PrioridadeInvalida(t *testing.T) {
	_, err := ValidateAndApply(tarefaPendente(), TaskPatch{Priority: strPtr("urgent")}, agora)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "priority", ve.Field)
}

func TestNormalizeStatus(t *testing.T) {
	s, err := NormalizeStatus("pending")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, s)

	s, err = NormalizeStatus("COMPLETED")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, s)

	_, err = NormalizeStatus("in_progress")
	assert.Error(t, err)
}

func TestNormalizePriority(t *testing.T) {
	p, err := NormalizePriority("HIGH")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = NormalizePriority("")
	assert.Error(t, err)
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2025, time.December, 5)
	encoded, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-12-05"`, string(encoded))

	var decodificada Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-01-31"`), &decodificada))
	assert.Equal(t, "2026-01-31", decodificada.String())

	err = json.Unmarshal([]byte(`"31/01/2026"`), &decodificada)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "due_date", ve.Field)
}

func TestDate_DepoisDe(t *testing.T) {
	d := NewDate(2025, time.March, 11)
	assert.True(t, d.DepoisDe(agora))

	mesmoDia := NewDate(2025, time.March, 10)
	assert.False(t, mesmoDia.DepoisDe(agora))

	// Só o calendário conta: mais tarde no mesmo dia não é "depois"
	fimDoDia := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)
	assert.False(t, mesmoDia.DepoisDe(fimDoDia))
}
