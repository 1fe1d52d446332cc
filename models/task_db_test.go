package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQuery_SoDono(t *testing.T) {
	query, params := BuildListQuery(7, TaskFilter{})

	assert.Contains(t, query, "WHERE t.usuario_id = $1")
	assert.Contains(t, query, "ORDER BY t.data_limite ASC NULLS LAST, t.created_at DESC")
	require.Len(t, params, 1)
	assert.Equal(t, int64(7), params[0])
}

func TestBuildListQuery_Filtros(t *testing.T) {
	antes := NewDate(2025, time.June, 1)
	depois := NewDate(2025, time.January, 1)
	query, params := BuildListQuery(7, TaskFilter{
		Status:        "pending",
		Priority:      "HIGH",
		DueDateBefore: &antes,
		DueDateAfter:  &depois,
		Search:        "relatório",
	})

	assert.Contains(t, query, "LOWER(t.status) = LOWER($2)")
	assert.Contains(t, query, "LOWER(t.prioridade) = LOWER($3)")
	assert.Contains(t, query, "t.data_limite <= $4")
	assert.Contains(t, query, "t.data_limite >= $5")
	assert.Contains(t, query, "t.title ILIKE $6 OR t.descricao ILIKE $6")
	require.Len(t, params, 6)
	assert.Equal(t, "pending", params[1])
	assert.Equal(t, "%relatório%", params[5])
}

func TestBuildListQuery_Ordenacao(t *testing.T) {
	query, _ := BuildListQuery(7, TaskFilter{Ordering: "priority"})
	assert.Contains(t, query, "ORDER BY t.prioridade ASC")

	query, _ = BuildListQuery(7, TaskFilter{Ordering: "-created_at"})
	assert.Contains(t, query, "ORDER BY t.created_at DESC")

	// Valor desconhecido cai na ordenação padrão; a API rejeita antes de chegar aqui
	query, _ = BuildListQuery(7, TaskFilter{Ordering: "owner"})
	assert.Contains(t, query, "ORDER BY t.data_limite ASC NULLS LAST")
}

func TestOrdenacaoValida(t *testing.T) {
	assert.True(t, OrdenacaoValida(""))
	assert.True(t, OrdenacaoValida("due_date"))
	assert.True(t, OrdenacaoValida("-priority"))
	assert.True(t, OrdenacaoValida("created_at"))
	assert.False(t, OrdenacaoValida("owner"))
	assert.False(t, OrdenacaoValida("--due_date"))
}
