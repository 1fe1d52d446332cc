package handlers

import (
	"net/url"
	"testing"

	"gerenciador-tarefas/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskFilter_Vazio(t *testing.T) {
	f, err := parseTaskFilter(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, models.TaskFilter{}, f)
}

func TestParseTaskFilter_Completo(t *testing.T) {
	q := url.Values{}
	q.Set("status", "pending")
	q.Set("priority", "high")
	q.Set("due_date_before", "2025-06-30")
	q.Set("due_date_after", "2025-01-01")
	q.Set("search", "relatório")
	q.Set("ordering", "-due_date")

	f, err := parseTaskFilter(q)
	require.NoError(t, err)

	assert.Equal(t, "pending", f.Status)
	assert.Equal(t, "high", f.Priority)
	assert.Equal(t, "relatório", f.Search)
	assert.Equal(t, "-due_date", f.Ordering)
	require.NotNil(t, f.DueDateBefore)
	assert.Equal(t, "2025-06-30", f.DueDateBefore.String())
	require.NotNil(t, f.DueDateAfter)
	assert.Equal(t, "2025-01-01", f.DueDateAfter.String())
}

func TestParseTaskFilter_OrderingInvalido(t *testing.T) {
	q := url.Values{}
	q.Set("ordering", "owner")

	_, err := parseTaskFilter(q)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "ordering", ve.Field)
}

func TestParseTaskFilter_DataInvalida(t *testing.T) {
	q := url.Values{}
	q.Set("due_date_before", "30/06/2025")

	_, err := parseTaskFilter(q)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "due_date_before", ve.Field)
}
