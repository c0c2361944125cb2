package prescription

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const rxCols = `id, appointment_id, doctor_id, patient_id, issue_date::text, diagnosis, notes, status, created_at, updated_at`

func scanRx(row pgx.Row) (*Prescription, error) {
	var p Prescription
	err := row.Scan(&p.ID, &p.AppointmentID, &p.DoctorID, &p.PatientID,
		&p.Date, &p.Diagnosis, &p.Notes, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

// Create inserts the prescription and its items in one transaction so a
// half-written prescription never becomes visible.
func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO prescriptions (id, appointment_id, doctor_id, patient_id, issue_date, diagnosis, notes, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.AppointmentID, p.DoctorID, p.PatientID, p.Date, p.Diagnosis, p.Notes, p.Status)
	if err != nil {
		return err
	}
	for i := range p.Items {
		item := &p.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO prescription_items (id, prescription_id, name, dosage, duration, instructions)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			item.ID, p.ID, item.Name, item.Dosage, item.Duration, item.Instructions)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	p, err := scanRx(r.pool.QueryRow(ctx, `SELECT `+rxCols+` FROM prescriptions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, []*Prescription{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repoPG) listBy(ctx context.Context, column string, value interface{}, limit, offset int) ([]*Prescription, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM prescriptions WHERE `+column+` = $1`, value).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+rxCols+` FROM prescriptions WHERE `+column+` = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, value, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Prescription
	for rows.Next() {
		p, err := scanRx(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	if err := r.loadItems(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Prescription, int, error) {
	return r.listBy(ctx, "patient_id", patientID, limit, offset)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	return r.listBy(ctx, "doctor_id", doctorID, limit, offset)
}

func (r *repoPG) loadItems(ctx context.Context, prescriptions []*Prescription) error {
	if len(prescriptions) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(prescriptions))
	byID := make(map[uuid.UUID]*Prescription, len(prescriptions))
	for i, p := range prescriptions {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Items = nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, prescription_id, name, dosage, duration, instructions
		FROM prescription_items WHERE prescription_id = ANY($1) ORDER BY created_at ASC`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			item Item
			rxID uuid.UUID
		)
		if err := rows.Scan(&item.ID, &rxID, &item.Name, &item.Dosage, &item.Duration, &item.Instructions); err != nil {
			return err
		}
		if p := byID[rxID]; p != nil {
			p.Items = append(p.Items, item)
		}
	}
	return rows.Err()
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE prescriptions SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
