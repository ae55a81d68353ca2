package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Kardex-api/internal/domain"
)

func pgErr(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestIsRetryable(t *testing.T) {
	// Fallo de serialización, deadlock y lock timeout son transitorios.
	assert.True(t, IsRetryable(pgErr("40001")))
	assert.True(t, IsRetryable(pgErr("40P01")))
	assert.True(t, IsRetryable(pgErr("55P03")))

	// Errores de datos no lo son.
	assert.False(t, IsRetryable(pgErr("23505")))
	assert.False(t, IsRetryable(pgErr("23503")))
	assert.False(t, IsRetryable(errors.New("conexión caída")))
	assert.False(t, IsRetryable(nil))

	// También envueltos.
	assert.True(t, IsRetryable(fmt.Errorf("update stock: %w", pgErr("40P01"))))
}

func TestViolationHelpers(t *testing.T) {
	assert.True(t, isUniqueViolation(pgErr("23505")))
	assert.False(t, isUniqueViolation(pgErr("23503")))
	assert.True(t, isForeignKeyViolation(fmt.Errorf("create in_transfers: %w", pgErr("23503"))))
	assert.False(t, isForeignKeyViolation(errors.New("otro error")))
}

func TestClassify(t *testing.T) {
	err := classify(fmt.Errorf("commit transaction: %w", pgErr("40001")))
	assert.ErrorIs(t, err, domain.ErrRetryTx)

	plain := errors.New("error de negocio")
	assert.Equal(t, plain, classify(plain))
}
