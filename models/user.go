package models

import (
	"database/sql"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Usuario struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	SenhaHash string    `json:"-"` // nunca serializada
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UsuarioPatch representa uma atualização parcial de usuário.
type UsuarioPatch struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// ValidarSenha aplica as regras de senha (mínimo 8 caracteres, limite do bcrypt).
func ValidarSenha(senha string) error {
	if len(senha) < 8 {
		return &ValidationError{Field: "password", Reason: ErrSenhaFraca.Error()}
	}
	if len(senha) > 72 {
		return &ValidationError{Field: "password", Reason: ErrSenhaMuitoLonga.Error()}
	}
	return nil
}

// SetPassword grava o hash bcrypt da senha. Toda escrita de senha passa por aqui.
func (u *Usuario) SetPassword(senha string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.SenhaHash = string(hash)
	return nil
}

// CheckPassword compara a senha em texto claro com o hash armazenado.
func (u *Usuario) CheckPassword(senha string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.SenhaHash), []byte(senha)) == nil
}

// UsernameExists verifica se já há um usuário com esse username.
func UsernameExists(db *sql.DB, username string) (bool, error) {
	var exists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", username).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// CreateUsuario insere o usuário e preenche ID e timestamps gerados pelo banco.
func CreateUsuario(db *sql.DB, u *Usuario) error {
	query := `INSERT INTO users (username, email, senha_hash, is_staff)
              VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`
	return db.QueryRow(query, u.Username, u.Email, u.SenhaHash, u.IsStaff).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

// GetUsuarioByID busca um usuário pelo ID.
func GetUsuarioByID(db *sql.DB, id int64) (*Usuario, error) {
	var u Usuario
	err := db.QueryRow(`SELECT id, username, email, senha_hash, is_staff, created_at, updated_at
                        FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.SenhaHash, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUsuarioByUsername busca um usuário pelo username.
func GetUsuarioByUsername(db *sql.DB, username string) (*Usuario, error) {
	var u Usuario
	err := db.QueryRow(`SELECT id, username, email, senha_hash, is_staff, created_at, updated_at
                        FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.SenhaHash, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsuarios devolve todos os usuários ordenados por ID.
func ListUsuarios(db *sql.DB) ([]Usuario, error) {
	rows, err := db.Query(`SELECT id, username, email, senha_hash, is_staff, created_at, updated_at
                           FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usuarios := []Usuario{}
	for rows.Next() {
		var u Usuario
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.SenhaHash, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		usuarios = append(usuarios, u)
	}
	return usuarios, rows.Err()
}

// UpdateUsuario persiste username, email e hash de senha, renovando updated_at.
func UpdateUsuario(db *sql.DB, u *Usuario) error {
	query := `UPDATE users SET username = $1, email = $2, senha_hash = $3, updated_at = NOW()
              WHERE id = $4 RETURNING updated_at`
	err := db.QueryRow(query, u.Username, u.Email, u.SenhaHash, u.ID).Scan(&u.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrUserNotFound
	}
	return err
}

// DeleteUsuario remove o usuário; as tarefas dele caem junto por ON DELETE CASCADE.
func DeleteUsuario(db *sql.DB, id int64) error {
	res, err := db.Exec("DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
