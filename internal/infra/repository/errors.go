package repository

import (
	"errors"
	"strings"

	repo "pos/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQLの一意制約違反
const pgUniqueViolation = "23505"

// DBドライバのエラーをrepositoryのエラーに寄せる。
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repo.ErrDuplicate
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return repo.ErrDuplicate
	}

	//sqlite（開発・テスト用）
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return repo.ErrDuplicate
	}
	return err
}
