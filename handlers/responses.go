package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gerenciador-tarefas/models"
)

// writeJSON serializa o corpo com o status informado.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError devolve um corpo de erro no formato {"detail": ...}.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeValidationError traduz um erro de validação para 400, apontando o campo
// ofensor quando houver. Erros de decodificação sem campo conhecido também caem
// aqui como payload inválido.
func writeValidationError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		if ve.Field != "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"detail": ve.Reason,
				"field":  ve.Field,
			})
			return
		}
		writeError(w, http.StatusBadRequest, ve.Reason)
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request payload.")
}
