package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createEventsTable,
		createTicketsTable,
		createTransactionsTable,
		createAttendeesTable,
		createBookingAuditTable,
		createTransactionsUserEventIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    user_id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64) NOT NULL,
    first_name VARCHAR(100) NOT NULL,
    surname VARCHAR(100) NOT NULL,
    role VARCHAR(20) NOT NULL DEFAULT 'user',
    registered_at TIMESTAMP NOT NULL DEFAULT NOW(),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,

    CHECK (role IN ('user', 'organizer', 'admin'))
);`

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id SERIAL PRIMARY KEY,
    name VARCHAR(500) NOT NULL,
    category VARCHAR(100) NOT NULL DEFAULT 'general',
    location VARCHAR(500),
    organizer_id INTEGER NOT NULL REFERENCES users(user_id),
    starts_at TIMESTAMP NOT NULL,
    ends_at TIMESTAMP NOT NULL,
    registration_starts_at TIMESTAMP NOT NULL,
    registration_ends_at TIMESTAMP NOT NULL,
    published BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (ends_at >= starts_at),
    CHECK (registration_ends_at >= registration_starts_at)
);`

const createTicketsTable = `
CREATE TABLE IF NOT EXISTS tickets (
    id SERIAL PRIMARY KEY,
    event_id INTEGER NOT NULL REFERENCES events(id),
    name VARCHAR(200) NOT NULL,
    price_cents BIGINT NOT NULL DEFAULT 0,
    max_per_user INTEGER NOT NULL DEFAULT 10,
    max_total INTEGER NOT NULL,
    sold_count INTEGER NOT NULL DEFAULT 0,
    sale_starts_at TIMESTAMP,
    sale_ends_at TIMESTAMP,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (price_cents >= 0),
    CHECK (max_per_user >= 1),
    CHECK (max_total >= 0),
    CHECK (sold_count >= 0 AND sold_count <= max_total)
);`

const createTransactionsTable = `
CREATE TABLE IF NOT EXISTS transactions (
    id SERIAL PRIMARY KEY,
    booking_code VARCHAR(40) UNIQUE NOT NULL,
    user_id INTEGER NOT NULL REFERENCES users(user_id),
    event_id INTEGER NOT NULL REFERENCES events(id),
    ticket_id INTEGER NOT NULL REFERENCES tickets(id),
    quantity INTEGER NOT NULL,
    total_amount_cents BIGINT NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'completed',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (quantity >= 1),
    CHECK (status IN ('completed', 'refunded'))
);`

const createAttendeesTable = `
CREATE TABLE IF NOT EXISTS attendees (
    id SERIAL PRIMARY KEY,
    transaction_id INTEGER NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
    name VARCHAR(200) NOT NULL,
    email VARCHAR(255) NOT NULL,
    phone VARCHAR(50),
    gender VARCHAR(20),
    credential VARCHAR(64) UNIQUE NOT NULL,
    attended BOOLEAN NOT NULL DEFAULT FALSE,
    checked_in_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createBookingAuditTable = `
CREATE TABLE IF NOT EXISTS booking_audit (
    id SERIAL PRIMARY KEY,
    subject VARCHAR(100) NOT NULL,
    booking_id BIGINT,
    event_id BIGINT,
    payload JSONB NOT NULL,
    recorded_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createTransactionsUserEventIndex = `
CREATE INDEX IF NOT EXISTS transactions_user_event_idx
ON transactions (user_id, event_id);`
