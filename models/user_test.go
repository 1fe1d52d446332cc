package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsuario_SetPassword(t *testing.T) {
	var u Usuario
	require.NoError(t, u.SetPassword("senha-segura-123"))

	// O hash nunca é a senha em texto claro
	assert.NotEqual(t, "senha-segura-123", u.SenhaHash)
	assert.True(t, u.CheckPassword("senha-segura-123"))
	assert.False(t, u.CheckPassword("senha-errada"))
}

func TestUsuario_HashNuncaSerializado(t *testing.T) {
	u := Usuario{ID: 1, Username: "maria", Email: "maria@example.com"}
	require.NoError(t, u.SetPassword("senha-segura-123"))

	encoded, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), u.SenhaHash)
	assert.NotContains(t, string(encoded), "senha_hash")
	assert.Contains(t, string(encoded), `"username":"maria"`)
}

func TestValidarSenha(t *testing.T) {
	assert.NoError(t, ValidarSenha("12345678"))

	err := ValidarSenha("1234567")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)
	assert.Contains(t, ve.Reason, "at least 8")

	longa := make([]byte, 73)
	for i := range longa {
		longa[i] = 'a'
	}
	err = ValidarSenha(string(longa))
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Reason, "at most 72")
}
