package directory

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed populates the catalogue tables with a generated demo data set:
// doctors with slot rows for the rolling booking window, plus the medicine
// catalogue. Intended for the seed command against a freshly migrated
// database.
func Seed(ctx context.Context, pool *pgxpool.Pool, bias float64, rng *rand.Rand) error {
	today := time.Now()
	doctors := GenerateDoctors(DefaultDoctorCount, today, bias, rng)
	medicines := GenerateMedicines(rng)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, d := range doctors {
		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (id, name, specialization, avatar, location,
				rating, experience_years, consultation_fee, available)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			d.ID, d.Name, d.Specialization, d.Avatar, d.Location,
			d.Rating, d.ExperienceYears, d.ConsultationFee, d.Available)
		if err != nil {
			return fmt.Errorf("seed doctor %s: %w", d.Name, err)
		}
		for mode, days := range d.Calendar {
			for date, slots := range days {
				for pos, slot := range slots {
					_, err := tx.Exec(ctx, `
						INSERT INTO doctor_slots (doctor_id, mode, slot_date, slot_time, slot_pos, available)
						VALUES ($1,$2,$3,$4,$5,$6)`,
						d.ID, mode, date, slot.Time, pos, slot.Available)
					if err != nil {
						return fmt.Errorf("seed slot %s %s %s: %w", mode, date, slot.Time, err)
					}
				}
			}
		}
	}

	for _, m := range medicines {
		_, err := tx.Exec(ctx, `
			INSERT INTO medicines (id, name, manufacturer, price_per_unit, in_stock)
			VALUES ($1,$2,$3,$4,$5)`,
			m.ID, m.Name, m.Manufacturer, m.PricePerUnit, m.InStock)
		if err != nil {
			return fmt.Errorf("seed medicine %s: %w", m.Name, err)
		}
	}

	return tx.Commit(ctx)
}
