package store

import (
	"database/sql"

	"github.com/hibari-app/hibari/internal/models"
)

// CreateAccount inserts a new external account for a provider and returns
// it with its assigned ID. Auth and user data start empty.
func (s *Store) CreateAccount(provider string) (*models.ExternalAccount, error) {
	res, err := s.db.Exec("INSERT INTO external_accounts (provider) VALUES (?)", provider)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetAccount(id)
}

// GetAccount fetches a single external account by ID.
func (s *Store) GetAccount(id int64) (*models.ExternalAccount, error) {
	row := s.db.QueryRow(accountQuery+" WHERE id = ?", id)
	account, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return account, err
}

// ListAccounts fetches all linked external accounts.
func (s *Store) ListAccounts() ([]*models.ExternalAccount, error) {
	rows, err := s.db.Query(accountQuery + " ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.ExternalAccount
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// UpdateAccountAuth replaces the credential bag of an account. A nil auth
// clears it.
func (s *Store) UpdateAccountAuth(id int64, auth *models.AccountAuth) error {
	var username, password, token sql.NullString
	if auth != nil {
		username = sql.NullString{String: auth.Username, Valid: true}
		password = sql.NullString{String: auth.Password, Valid: true}
		token = sql.NullString{String: auth.Token, Valid: true}
	}
	_, err := s.db.Exec(
		"UPDATE external_accounts SET auth_username = ?, auth_password = ?, auth_token = ? WHERE id = ?",
		username, password, token, id,
	)
	return err
}

// UpdateAccountUser replaces the verified remote identity of an account.
func (s *Store) UpdateAccountUser(id int64, user *models.UserData) error {
	var remoteID, name, imageURL sql.NullString
	if user != nil {
		remoteID = sql.NullString{String: user.ID, Valid: true}
		name = sql.NullString{String: user.Name, Valid: true}
		imageURL = sql.NullString{String: user.ImageURL, Valid: true}
	}
	_, err := s.db.Exec(
		"UPDATE external_accounts SET user_remote_id = ?, user_name = ?, user_image_url = ? WHERE id = ?",
		remoteID, name, imageURL, id,
	)
	return err
}

// DeleteAccount unlinks an external account. Library and media records
// imported through it are untouched.
func (s *Store) DeleteAccount(id int64) error {
	_, err := s.db.Exec("DELETE FROM external_accounts WHERE id = ?", id)
	return err
}

const accountQuery = `
	SELECT id, provider, auth_username, auth_password, auth_token,
	       user_remote_id, user_name, user_image_url, created_at
	FROM external_accounts
`

func scanAccount(row rowScanner) (*models.ExternalAccount, error) {
	var account models.ExternalAccount
	var authUsername, authPassword, authToken sql.NullString
	var userRemoteID, userName, userImageURL sql.NullString

	err := row.Scan(
		&account.ID, &account.Provider,
		&authUsername, &authPassword, &authToken,
		&userRemoteID, &userName, &userImageURL,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if authUsername.Valid || authPassword.Valid || authToken.Valid {
		account.Auth = &models.AccountAuth{
			Username: authUsername.String,
			Password: authPassword.String,
			Token:    authToken.String,
		}
	}
	if userRemoteID.Valid {
		account.User = &models.UserData{
			ID:       userRemoteID.String,
			Name:     userName.String,
			ImageURL: userImageURL.String,
		}
	}
	return &account, nil
}
