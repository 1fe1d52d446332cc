package database

import "database/sql"

// EnsureSchema cria as tabelas caso ainda não existam. O updated_at é renovado
// pelas próprias queries de escrita (updated_at = NOW()).
func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			senha_hash TEXT NOT NULL,
			is_staff BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS tarefas (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			descricao TEXT NOT NULL DEFAULT '',
			data_limite DATE,
			prioridade TEXT NOT NULL DEFAULT 'Medium',
			status TEXT NOT NULL DEFAULT 'Pending',
			concluida_em TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			usuario_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tarefas_usuario ON tarefas(usuario_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
