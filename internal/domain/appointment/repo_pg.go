package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGRepo struct{ pool *pgxpool.Pool }

// NewRepoPG returns the postgres-backed appointment repository. It also
// implements SlotBooker.
func NewRepoPG(pool *pgxpool.Pool) *PGRepo { return &PGRepo{pool: pool} }

const apptCols = `id, token, doctor_id, doctor_name, doctor_specialization, doctor_avatar,
	patient_id, patient_name, patient_age, appt_date::text, appt_time, mode,
	consultation_fee, payment_method, location, reason, notes, rating,
	status, created_at, updated_at`

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.Token, &a.DoctorID, &a.DoctorName, &a.DoctorSpecialization, &a.DoctorAvatar,
		&a.PatientID, &a.PatientName, &a.PatientAge, &a.Date, &a.Time, &a.Mode,
		&a.ConsultationFee, &a.PaymentMethod, &a.Location, &a.Reason, &a.Notes, &a.Rating,
		&a.Status, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *PGRepo) listBy(ctx context.Context, column string, value interface{}, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE `+column+` = $1`, value).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+apptCols+` FROM appointments WHERE `+column+` = $1
		ORDER BY appt_date DESC, appt_time DESC LIMIT $2 OFFSET $3`, value, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+apptCols+` FROM appointments
		ORDER BY appt_date DESC, appt_time DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *PGRepo) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Appointment, int, error) {
	return r.listBy(ctx, "patient_id", patientID, limit, offset)
}

func (r *PGRepo) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.listBy(ctx, "doctor_id", doctorID, limit, offset)
}

func (r *PGRepo) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppt(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *PGRepo) GetByToken(ctx context.Context, token string) (*Appointment, error) {
	a, err := scanAppt(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE token = $1`, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *PGRepo) TokenExists(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM appointments WHERE token = $1)`, token).Scan(&exists)
	return exists, err
}

const apptInsert = `
	INSERT INTO appointments (id, token, doctor_id, doctor_name, doctor_specialization, doctor_avatar,
		patient_id, patient_name, patient_age, appt_date, appt_time, mode,
		consultation_fee, payment_method, location, reason, notes, rating, status)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`

func insertArgs(a *Appointment) []interface{} {
	return []interface{}{
		a.ID, a.Token, a.DoctorID, a.DoctorName, a.DoctorSpecialization, a.DoctorAvatar,
		a.PatientID, a.PatientName, a.PatientAge, a.Date, a.Time, a.Mode,
		a.ConsultationFee, a.PaymentMethod, a.Location, a.Reason, a.Notes, a.Rating, a.Status,
	}
}

func (r *PGRepo) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, apptInsert, insertArgs(a)...)
	return err
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) UpdateFields(ctx context.Context, id uuid.UUID, p Partial) error {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	idx := 2

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}
	if p.Date != nil {
		add("appt_date", *p.Date)
	}
	if p.Time != nil {
		add("appt_time", *p.Time)
	}
	if p.PaymentMethod != nil {
		add("payment_method", *p.PaymentMethod)
	}
	if p.Location != nil {
		add("location", *p.Location)
	}
	if p.Reason != nil {
		add("reason", *p.Reason)
	}
	if p.Notes != nil {
		add("notes", *p.Notes)
	}
	if p.Rating != nil {
		add("rating", *p.Rating)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}

	tag, err := r.pool.Exec(ctx, `UPDATE appointments SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	return err
}

// -- SlotBooker --

const reserveSlot = `
	UPDATE doctor_slots SET available = FALSE
	WHERE doctor_id = $1 AND mode = $2 AND slot_date = $3 AND slot_time = $4 AND available`

const releaseSlot = `
	UPDATE doctor_slots SET available = TRUE
	WHERE doctor_id = $1 AND mode = $2 AND slot_date = $3 AND slot_time = $4`

func (r *PGRepo) BookWithSlot(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, reserveSlot, a.DoctorID, a.Mode, a.Date, a.Time)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotTaken
	}
	if _, err := tx.Exec(ctx, apptInsert, insertArgs(a)...); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) SwapSlot(ctx context.Context, a *Appointment, newDate, newTime string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, reserveSlot, a.DoctorID, a.Mode, newDate, newTime)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotTaken
	}
	// The old slot may have aged out of the booking window; releasing zero
	// rows is fine.
	if _, err := tx.Exec(ctx, releaseSlot, a.DoctorID, a.Mode, a.Date, a.Time); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE appointments SET appt_date = $2, appt_time = $3, status = $4, updated_at = NOW()
		WHERE id = $1`, a.ID, newDate, newTime, StatusRescheduled); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	a.Date, a.Time, a.Status = newDate, newTime, StatusRescheduled
	return nil
}

func (r *PGRepo) ReleaseSlot(ctx context.Context, a *Appointment) error {
	_, err := r.pool.Exec(ctx, releaseSlot, a.DoctorID, a.Mode, a.Date, a.Time)
	return err
}
