// Package adapters はaccountフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"signup_backend/internal/feature/account/domain"
	"signup_backend/internal/feature/account/domain/entity"
	"signup_backend/internal/feature/account/usecase"
)

const (
	// mysqlDuplicateEntry はMySQLのユニークキー重複エラー番号です。
	mysqlDuplicateEntry = 1062
	// pgUniqueViolation はPostgreSQLのunique_violationのSQLSTATEです。
	pgUniqueViolation = "23505"
)

// errNilAccount is returned when CreateUnique is called without an account.
var errNilAccount = errors.New("account is nil")

// accountRepository はAccountRepositoryインターフェースのGORM実装です。
// MySQL・PostgreSQL・SQLiteのいずれのダイアレクトでも動作します。
type accountRepository struct {
	db *gorm.DB
}

// accountRepositoryがAccountRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.AccountRepository = (*accountRepository)(nil)

// NewAccountRepository は指定されたgorm.DB接続でaccountRepositoryの新しいインスタンスを生成します。
func NewAccountRepository(db *gorm.DB) *accountRepository {
	return &accountRepository{db: db}
}

// CreateUnique は重複チェックと挿入を1つのトランザクション内で実行します。
// 同時サインアップの競合はユニークインデックスが最終的に防ぎ、その場合もdomain.ErrDuplicateAccountを返します。
func (r *accountRepository) CreateUnique(ctx context.Context, a *entity.Account) error {
	if a == nil {
		return errNilAccount
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.Account{}).
			Where("username_key = ? OR email = ?", entity.UsernameKey(a.Username), a.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrDuplicateAccount
		}
		return tx.Create(a).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return domain.ErrDuplicateAccount
		}
		return err
	}
	return nil
}

// FindByID はIDでアカウントを取得します。
// アカウントが存在しない場合、domain.ErrAccountNotFoundを返します。
func (r *accountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	var a entity.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByLogin はユーザー名（大文字小文字を区別しない）またはメールアドレスでアカウントを取得します。
func (r *accountRepository) FindByLogin(ctx context.Context, username, email string) (*entity.Account, error) {
	var a entity.Account
	if err := r.db.WithContext(ctx).
		Where("username_key = ? OR email = ?", entity.UsernameKey(username), email).
		First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ExistsByUsername はユーザー名が使用済みかどうかを大文字小文字を区別せずに返します。
func (r *accountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username_key = ?", entity.UsernameKey(username))
}

// ExistsByEmail はメールアドレスが使用済みかどうかを返します。
func (r *accountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *accountRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Account{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// isDuplicateKey はエラーがユニーク制約違反かどうかを判定します。
// TranslateErrorが有効ならgorm.ErrDuplicatedKeyに変換済みですが、ドライバーのエラーも直接確認します。
func isDuplicateKey(err error) bool {
	if errors.Is(err, domain.ErrDuplicateAccount) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	return false
}
