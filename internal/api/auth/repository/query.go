package authRepository

const (
	queryCreateOperator = `
		INSERT INTO operators (id, username, email, password_hash, role, created_at)
		VALUES (:id, :username, :email, :password_hash, :role, :created_at)
	`

	queryGetByUsername = `
		SELECT id, username, email, password_hash, role, created_at
		FROM operators
		WHERE username = :username
	`
)
