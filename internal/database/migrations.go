package database

import (
	"context"
	"fmt"
	"log/slog"
)

// RunMigrations installs the schema, the capacity triggers and the remote
// procedures called by the repositories. Every statement is idempotent.
func (db *DB) RunMigrations(ctx context.Context) error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createReservationTypeTable,
		createTimeSlotsTable,
		createReservationSlotsTable,
		createReservationAvailabilityTable,
		createUserProfilesTable,
		createCustomersTable,
		createReservationsTable,
		createAvailabilityDateIndex,
		createCapacityTrigger,
		createMonthAvailabilityExists,
		createSeedMonthAvailability,
		createGetDailySchedule,
		createReservationTypeWithSchedule,
	}

	for i, migration := range migrations {
		slog.Debug("Running migration", "step", i+1)
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully", "count", len(migrations))
	return nil
}

const createReservationTypeTable = `
CREATE TABLE IF NOT EXISTS reservation_type (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    description TEXT,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    price_per_person DECIMAL(10,2),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (price_per_person IS NULL OR price_per_person >= 0)
);`

const createTimeSlotsTable = `
CREATE TABLE IF NOT EXISTS time_slots (
    id BIGSERIAL PRIMARY KEY,
    start_time TIME NOT NULL,
    end_time TIME NOT NULL,
    days_of_week INTEGER[] NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createReservationSlotsTable = `
CREATE TABLE IF NOT EXISTS reservation_slots (
    id BIGSERIAL PRIMARY KEY,
    reservation_type_id BIGINT NOT NULL REFERENCES reservation_type(id) ON DELETE CASCADE,
    time_slot_id BIGINT NOT NULL REFERENCES time_slots(id) ON DELETE CASCADE,
    max_capacity INTEGER NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (max_capacity > 0)
);`

const createReservationAvailabilityTable = `
CREATE TABLE IF NOT EXISTS reservation_availability (
    id BIGSERIAL PRIMARY KEY,
    reservation_slot_id BIGINT NOT NULL REFERENCES reservation_slots(id) ON DELETE CASCADE,
    available_date DATE NOT NULL,
    current_capacity INTEGER NOT NULL DEFAULT 0,
    pending INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    UNIQUE(reservation_slot_id, available_date),
    CHECK (current_capacity >= 0),
    CHECK (pending >= 0)
);`

const createUserProfilesTable = `
CREATE TABLE IF NOT EXISTS user_profiles (
    id UUID PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    email VARCHAR(255),
    phone VARCHAR(50),
    role VARCHAR(20) NOT NULL DEFAULT 'user',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createCustomersTable = `
CREATE TABLE IF NOT EXISTS customers (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    email VARCHAR(255),
    phone VARCHAR(50),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createReservationsTable = `
CREATE TABLE IF NOT EXISTS reservations (
    id BIGSERIAL PRIMARY KEY,
    guest_count INTEGER NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'reserved',
    special_requirements TEXT,
    user_id UUID REFERENCES user_profiles(id) ON DELETE SET NULL,
    customer_id BIGINT REFERENCES customers(id) ON DELETE SET NULL,
    reservation_availability_id BIGINT NOT NULL REFERENCES reservation_availability(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (guest_count > 0),
    CHECK (status IN ('reserved', 'pending', 'confirmed', 'cancelled', 'hold'))
);`

const createAvailabilityDateIndex = `
CREATE INDEX IF NOT EXISTS reservation_availability_date_idx
ON reservation_availability (available_date);`

// The trigger owns the booked-seat counter: 0 <= current_capacity <= max_capacity.
// Pending and hold reservations count against pending instead of current_capacity.
const createCapacityTrigger = `
CREATE OR REPLACE FUNCTION reservations_capacity() RETURNS trigger AS $$
DECLARE
    v_max INTEGER;
    v_current INTEGER;
    v_pending INTEGER;
    v_delta_current INTEGER := 0;
    v_delta_pending INTEGER := 0;
    v_availability BIGINT;
BEGIN
    IF TG_OP = 'INSERT' THEN
        v_availability := NEW.reservation_availability_id;
        IF NEW.status IN ('pending', 'hold') THEN
            v_delta_pending := NEW.guest_count;
        ELSIF NEW.status <> 'cancelled' THEN
            v_delta_current := NEW.guest_count;
        END IF;
    ELSIF TG_OP = 'UPDATE' THEN
        v_availability := NEW.reservation_availability_id;
        IF OLD.status IN ('pending', 'hold') THEN
            v_delta_pending := v_delta_pending - OLD.guest_count;
        ELSIF OLD.status <> 'cancelled' THEN
            v_delta_current := v_delta_current - OLD.guest_count;
        END IF;
        IF NEW.status IN ('pending', 'hold') THEN
            v_delta_pending := v_delta_pending + NEW.guest_count;
        ELSIF NEW.status <> 'cancelled' THEN
            v_delta_current := v_delta_current + NEW.guest_count;
        END IF;
    ELSE
        v_availability := OLD.reservation_availability_id;
        IF OLD.status IN ('pending', 'hold') THEN
            v_delta_pending := -OLD.guest_count;
        ELSIF OLD.status <> 'cancelled' THEN
            v_delta_current := -OLD.guest_count;
        END IF;
    END IF;

    SELECT rs.max_capacity, ra.current_capacity, ra.pending
      INTO v_max, v_current, v_pending
      FROM reservation_availability ra
      JOIN reservation_slots rs ON rs.id = ra.reservation_slot_id
     WHERE ra.id = v_availability
       FOR UPDATE OF ra;

    IF v_delta_current + v_delta_pending > 0
       AND v_current + v_pending + v_delta_current + v_delta_pending > v_max THEN
        RAISE EXCEPTION 'only % seats available', GREATEST(0, v_max - v_current - v_pending);
    END IF;

    UPDATE reservation_availability
       SET current_capacity = GREATEST(0, current_capacity + v_delta_current),
           pending = GREATEST(0, pending + v_delta_pending)
     WHERE id = v_availability;

    IF TG_OP = 'DELETE' THEN
        RETURN OLD;
    END IF;
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS reservations_capacity_trg ON reservations;
CREATE TRIGGER reservations_capacity_trg
BEFORE INSERT OR UPDATE OF status, guest_count OR DELETE ON reservations
FOR EACH ROW EXECUTE FUNCTION reservations_capacity();`

const createMonthAvailabilityExists = `
CREATE OR REPLACE FUNCTION month_availability_exists(p_month DATE) RETURNS BOOLEAN AS $$
    SELECT EXISTS (
        SELECT 1 FROM reservation_availability
         WHERE available_date >= date_trunc('month', p_month)::date
           AND available_date < (date_trunc('month', p_month) + INTERVAL '1 month')::date
    );
$$ LANGUAGE sql STABLE;`

// Days of week follow the 0 = Sunday convention of extract(dow).
const createSeedMonthAvailability = `
CREATE OR REPLACE FUNCTION seed_month_availability(p_month DATE) RETURNS INTEGER AS $$
DECLARE
    v_created INTEGER;
BEGIN
    INSERT INTO reservation_availability (reservation_slot_id, available_date)
    SELECT rs.id, d::date
      FROM reservation_slots rs
      JOIN time_slots ts ON ts.id = rs.time_slot_id
      JOIN reservation_type rt ON rt.id = rs.reservation_type_id
     CROSS JOIN generate_series(
            date_trunc('month', p_month),
            date_trunc('month', p_month) + INTERVAL '1 month' - INTERVAL '1 day',
            INTERVAL '1 day') AS d
     WHERE rs.is_active AND rt.is_active
       AND EXTRACT(DOW FROM d)::int = ANY(ts.days_of_week)
    ON CONFLICT (reservation_slot_id, available_date) DO NOTHING;

    GET DIAGNOSTICS v_created = ROW_COUNT;
    RETURN v_created;
END;
$$ LANGUAGE plpgsql;`

const createGetDailySchedule = `
CREATE OR REPLACE FUNCTION get_daily_schedule(p_date DATE) RETURNS JSON AS $$
    SELECT COALESCE(json_agg(slot ORDER BY slot.start_time), '[]'::json)
    FROM (
        SELECT rs.id AS reservation_slot_id,
               to_char(ts.start_time, 'HH24:MI') AS start_time,
               to_char(ts.end_time, 'HH24:MI') AS end_time,
               rt.name AS reservation_type_name,
               rs.max_capacity,
               ra.current_capacity,
               COALESCE((
                   SELECT json_agg(json_build_object(
                              'id', r.id,
                              'guest_name', COALESCE(up.name, c.name),
                              'guest_count', r.guest_count,
                              'status', r.status,
                              'special_requirements', r.special_requirements)
                          ORDER BY r.created_at)
                     FROM reservations r
                     LEFT JOIN user_profiles up ON up.id = r.user_id
                     LEFT JOIN customers c ON c.id = r.customer_id
                    WHERE r.reservation_availability_id = ra.id
                      AND r.status <> 'cancelled'
               ), '[]'::json) AS reservations
          FROM reservation_availability ra
          JOIN reservation_slots rs ON rs.id = ra.reservation_slot_id
          JOIN time_slots ts ON ts.id = rs.time_slot_id
          JOIN reservation_type rt ON rt.id = rs.reservation_type_id
         WHERE ra.available_date = p_date
    ) AS slot;
$$ LANGUAGE sql STABLE;`

const createReservationTypeWithSchedule = `
CREATE OR REPLACE FUNCTION create_reservation_type_with_schedule(
    p_name TEXT,
    p_description TEXT,
    p_price_per_person NUMERIC,
    p_is_active BOOLEAN,
    p_max_capacity INTEGER,
    p_start_time TIME,
    p_end_time TIME,
    p_days_of_week INTEGER[]
) RETURNS BIGINT AS $$
DECLARE
    v_type_id BIGINT;
    v_time_slot_id BIGINT;
BEGIN
    IF p_end_time <= p_start_time THEN
        RAISE EXCEPTION 'End time must be after start time';
    END IF;

    INSERT INTO reservation_type (name, description, price_per_person, is_active)
    VALUES (p_name, p_description, p_price_per_person, p_is_active)
    RETURNING id INTO v_type_id;

    INSERT INTO time_slots (start_time, end_time, days_of_week)
    VALUES (p_start_time, p_end_time, p_days_of_week)
    RETURNING id INTO v_time_slot_id;

    INSERT INTO reservation_slots (reservation_type_id, time_slot_id, max_capacity, is_active)
    VALUES (v_type_id, v_time_slot_id, p_max_capacity, p_is_active);

    RETURN v_type_id;
END;
$$ LANGUAGE plpgsql;`
