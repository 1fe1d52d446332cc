package models

import "errors"

// Erros sentinela usados pelas camadas de persistência e handlers.
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameEmUso   = errors.New("a user with that username already exists")
	ErrSenhaFraca      = errors.New("password must be at least 8 characters")
	ErrSenhaMuitoLonga = errors.New("password must be at most 72 characters")
)

// ValidationError descreve uma entrada inválida do cliente, apontando o campo
// ofensor quando houver um. É sempre recuperável (vira resposta 400, nunca derruba
// o processo).
type ValidationError struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Reason
	}
	return e.Reason
}
