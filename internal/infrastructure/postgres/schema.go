package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema DDL completo del kardex. Cada par entidad/historial comparte
// columnas; history_id es monotónico por entidad y lo asigna el
// repositorio dentro de la transacción que muta. seq ordena las líneas
// dentro de su transacción: los ids son UUID y no ordenan nada.
const schema = `
CREATE EXTENSION IF NOT EXISTS unaccent;

CREATE TABLE IF NOT EXISTS units (
    id   VARCHAR(36) PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS items (
    id         VARCHAR(36) PRIMARY KEY,
    name       TEXT NOT NULL UNIQUE,
    unit_id    VARCHAR(36) NOT NULL REFERENCES units(id),
    stock      BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    deleted_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_items_keyset ON items (created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS item_histories (
    history_id   BIGINT NOT NULL,
    history_user TEXT NOT NULL,
    id           VARCHAR(36) NOT NULL,
    name         TEXT NOT NULL,
    unit_id      VARCHAR(36) NOT NULL,
    stock        BIGINT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL,
    deleted_at   TIMESTAMPTZ,
    PRIMARY KEY (id, history_id)
);

CREATE TABLE IF NOT EXISTS in_transactions (
    id                       VARCHAR(36) PRIMARY KEY,
    supplier                 TEXT NOT NULL,
    delivery_receipt         TEXT,
    date_of_delivery_receipt TIMESTAMPTZ,
    date_received            TIMESTAMPTZ,
    void                     BOOLEAN NOT NULL DEFAULT FALSE,
    created_at               TIMESTAMPTZ NOT NULL,
    updated_at               TIMESTAMPTZ NOT NULL,
    deleted_at               TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_in_transactions_keyset
    ON in_transactions (created_at DESC, id DESC) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS in_transaction_histories (
    history_id               BIGINT NOT NULL,
    history_user             TEXT NOT NULL,
    id                       VARCHAR(36) NOT NULL,
    supplier                 TEXT NOT NULL,
    delivery_receipt         TEXT,
    date_of_delivery_receipt TIMESTAMPTZ,
    date_received            TIMESTAMPTZ,
    void                     BOOLEAN NOT NULL,
    created_at               TIMESTAMPTZ NOT NULL,
    updated_at               TIMESTAMPTZ NOT NULL,
    deleted_at               TIMESTAMPTZ,
    PRIMARY KEY (id, history_id)
);

CREATE TABLE IF NOT EXISTS out_transactions (
    id                       VARCHAR(36) PRIMARY KEY,
    customer                 TEXT NOT NULL,
    delivery_receipt         TEXT,
    date_of_delivery_receipt TIMESTAMPTZ,
    void                     BOOLEAN NOT NULL DEFAULT FALSE,
    created_at               TIMESTAMPTZ NOT NULL,
    updated_at               TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_out_transactions_keyset
    ON out_transactions (created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS out_transaction_histories (
    history_id               BIGINT NOT NULL,
    history_user             TEXT NOT NULL,
    id                       VARCHAR(36) NOT NULL,
    customer                 TEXT NOT NULL,
    delivery_receipt         TEXT,
    date_of_delivery_receipt TIMESTAMPTZ,
    void                     BOOLEAN NOT NULL,
    created_at               TIMESTAMPTZ NOT NULL,
    updated_at               TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (id, history_id)
);

CREATE TABLE IF NOT EXISTS transactions (
    id              VARCHAR(36) PRIMARY KEY,
    in_transaction  VARCHAR(36) REFERENCES in_transactions(id),
    out_transaction VARCHAR(36) REFERENCES out_transactions(id),
    created_at      TIMESTAMPTZ NOT NULL,
    updated_at      TIMESTAMPTZ NOT NULL,
    CHECK ((in_transaction IS NULL) <> (out_transaction IS NULL))
);

CREATE TABLE IF NOT EXISTS in_transfers (
    id          VARCHAR(36) PRIMARY KEY,
    transaction VARCHAR(36) NOT NULL REFERENCES in_transactions(id),
    item        VARCHAR(36) NOT NULL REFERENCES items(id),
    seq         BIGINT NOT NULL,
    quantity    BIGINT NOT NULL CHECK (quantity > 0),
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_in_transfers_transaction_seq
    ON in_transfers (transaction, seq);

CREATE TABLE IF NOT EXISTS out_transfers (
    id          VARCHAR(36) PRIMARY KEY,
    transaction VARCHAR(36) NOT NULL REFERENCES out_transactions(id),
    item        VARCHAR(36) NOT NULL REFERENCES items(id),
    seq         BIGINT NOT NULL,
    quantity    BIGINT NOT NULL CHECK (quantity > 0),
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_out_transfers_transaction_seq
    ON out_transfers (transaction, seq);

CREATE TABLE IF NOT EXISTS transfers (
    id           VARCHAR(36) PRIMARY KEY,
    in_transfer  VARCHAR(36) REFERENCES in_transfers(id),
    out_transfer VARCHAR(36) REFERENCES out_transfers(id),
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL,
    CHECK ((in_transfer IS NULL) <> (out_transfer IS NULL))
);
`

// seedUnits catálogo inicial de unidades de medida.
const seedUnits = `
INSERT INTO units (id, name) VALUES
    ('b3bb2098-31b1-4b4a-9e8d-4b1dbb0d4c9e', 'piece'),
    ('2b1f7b55-6a5e-4d60-8c26-6b3f0d8a2f11', 'box'),
    ('7de52ab0-9d9c-4bd2-a9cf-8f4a2f1be0d3', 'kg'),
    ('e0a6cdd7-44c8-4f4e-b8c1-1d2a9a7e5b42', 'liter'),
    ('9f51c6a3-7ec0-4f89-b3d0-5a8e2c4d1f76', 'meter')
ON CONFLICT (name) DO NOTHING;
`

// EnsureSchema crea tablas, índices y el catálogo de unidades si no
// existen. Todas las sentencias son idempotentes.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("crear schema: %w", err)
	}
	if _, err := pool.Exec(ctx, seedUnits); err != nil {
		return fmt.Errorf("seed units: %w", err)
	}
	return nil
}
