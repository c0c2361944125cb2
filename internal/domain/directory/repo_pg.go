package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// =========== Doctor Repository ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

const doctorCols = `id, name, specialization, avatar, location, rating,
	experience_years, consultation_fee, available`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Specialization, &d.Avatar, &d.Location,
		&d.Rating, &d.ExperienceYears, &d.ConsultationFee, &d.Available)
	return &d, err
}

func (r *doctorRepoPG) List(ctx context.Context, specialization string, limit, offset int) ([]*Doctor, int, error) {
	query := `SELECT ` + doctorCols + ` FROM doctors WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM doctors WHERE 1=1`
	var args []interface{}
	idx := 1

	if specialization != "" {
		query += fmt.Sprintf(` AND specialization = $%d`, idx)
		countQuery += fmt.Sprintf(` AND specialization = $%d`, idx)
		args = append(args, specialization)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY name ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	if err := r.loadCalendars(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := scanDoctor(r.pool.QueryRow(ctx, `SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadCalendars(ctx, []*Doctor{d}); err != nil {
		return nil, err
	}
	return d, nil
}

// loadCalendars attaches the rolling booking window's slot rows to each
// doctor, grouped mode -> date -> slots in canonical label order.
func (r *doctorRepoPG) loadCalendars(ctx context.Context, doctors []*Doctor) error {
	if len(doctors) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(doctors))
	byID := make(map[uuid.UUID]*Doctor, len(doctors))
	for i, d := range doctors {
		ids[i] = d.ID
		byID[d.ID] = d
		d.Calendar = make(Calendar)
	}

	from := time.Now().Format(DateLayout)
	to := time.Now().AddDate(0, 0, CalendarDays-1).Format(DateLayout)
	rows, err := r.pool.Query(ctx, `
		SELECT doctor_id, mode, slot_date::text, slot_time, available
		FROM doctor_slots
		WHERE doctor_id = ANY($1) AND slot_date BETWEEN $2 AND $3
		ORDER BY slot_date ASC, slot_pos ASC`, ids, from, to)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			doctorID   uuid.UUID
			mode, date string
			slot       Slot
		)
		if err := rows.Scan(&doctorID, &mode, &date, &slot.Time, &slot.Available); err != nil {
			return err
		}
		d := byID[doctorID]
		if d == nil {
			continue
		}
		if d.Calendar[mode] == nil {
			d.Calendar[mode] = make(map[string][]Slot, CalendarDays)
		}
		d.Calendar[mode][date] = append(d.Calendar[mode][date], slot)
	}
	return rows.Err()
}

// =========== Medicine Repository ===========

type medicineRepoPG struct{ pool *pgxpool.Pool }

func NewMedicineRepoPG(pool *pgxpool.Pool) MedicineRepository { return &medicineRepoPG{pool: pool} }

const medicineCols = `id, name, manufacturer, price_per_unit, in_stock`

func scanMedicine(row pgx.Row) (*Medicine, error) {
	var m Medicine
	err := row.Scan(&m.ID, &m.Name, &m.Manufacturer, &m.PricePerUnit, &m.InStock)
	return &m, err
}

func (r *medicineRepoPG) List(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medicines`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+medicineCols+` FROM medicines ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}

func (r *medicineRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	m, err := scanMedicine(r.pool.QueryRow(ctx, `SELECT `+medicineCols+` FROM medicines WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}
