package directory

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// DefaultDoctorCount is the size of the generated demo catalogue.
const DefaultDoctorCount = 12

var doctorFirstNames = []string{
	"Aarav", "Ananya", "Vikram", "Priya", "Rohan", "Sneha",
	"Karan", "Meera", "Arjun", "Divya", "Nikhil", "Kavya",
	"Rahul", "Isha", "Sanjay", "Pooja",
}

var doctorLastNames = []string{
	"Sharma", "Patel", "Reddy", "Iyer", "Khan", "Gupta",
	"Nair", "Desai", "Mehta", "Rao", "Singh", "Joshi",
}

var specializations = []string{
	"Cardiologist", "Dermatologist", "Pediatrician", "Neurologist",
	"Orthopedic", "General Physician", "ENT Specialist", "Gynecologist",
	"Psychiatrist", "Ophthalmologist",
}

var clinicLocations = []string{
	"Apollo Clinic, MG Road", "City Care Hospital, Indiranagar",
	"Sunrise Medical Center, Koramangala", "Green Cross Clinic, Whitefield",
	"Lifeline Hospital, Jayanagar", "Wellness Point, HSR Layout",
}

type medicineSeed struct {
	name         string
	manufacturer string
	price        float64
}

var medicineSeeds = []medicineSeed{
	{"Paracetamol 500mg", "Cipla", 2.50},
	{"Amoxicillin 250mg", "Sun Pharma", 8.75},
	{"Cetirizine 10mg", "Dr. Reddy's", 3.20},
	{"Azithromycin 500mg", "Zydus", 18.40},
	{"Ibuprofen 400mg", "Cipla", 4.10},
	{"Omeprazole 20mg", "Lupin", 6.90},
	{"Metformin 500mg", "USV", 5.30},
	{"Amlodipine 5mg", "Torrent", 7.25},
	{"Vitamin D3 60K", "Mankind", 28.00},
	{"Cough Syrup 100ml", "Himalaya", 72.50},
	{"ORS Sachet", "FDC", 21.00},
	{"Insulin Glargine", "Biocon", 420.00},
}

// GenerateDoctors builds a randomized demo doctor catalogue. Identity fields
// are drawn once per doctor; calendars come from BuildCalendar and should be
// refreshed with RefreshCalendars on every catalogue load.
func GenerateDoctors(n int, today time.Time, bias float64, rng *rand.Rand) []*Doctor {
	doctors := make([]*Doctor, 0, n)
	for i := 0; i < n; i++ {
		first := doctorFirstNames[rng.Intn(len(doctorFirstNames))]
		last := doctorLastNames[rng.Intn(len(doctorLastNames))]
		d := &Doctor{
			ID:              uuid.New(),
			Name:            fmt.Sprintf("Dr. %s %s", first, last),
			Specialization:  specializations[rng.Intn(len(specializations))],
			Avatar:          fmt.Sprintf("/avatars/doctor-%02d.png", i+1),
			Location:        clinicLocations[rng.Intn(len(clinicLocations))],
			Rating:          3.5 + rng.Float64()*1.5,
			ExperienceYears: 3 + rng.Intn(25),
			ConsultationFee: float64(300 + rng.Intn(13)*50),
			Available:       rng.Float64() < 0.85,
			Calendar:        BuildCalendar(today, bias, rng),
		}
		doctors = append(doctors, d)
	}
	return doctors
}

// GenerateMedicines builds the demo medicine catalogue from the fixed seed
// table, randomizing only stock state.
func GenerateMedicines(rng *rand.Rand) []*Medicine {
	medicines := make([]*Medicine, 0, len(medicineSeeds))
	for _, s := range medicineSeeds {
		medicines = append(medicines, &Medicine{
			ID:           uuid.New(),
			Name:         s.name,
			Manufacturer: s.manufacturer,
			PricePerUnit: s.price,
			InStock:      rng.Float64() < 0.9,
		})
	}
	return medicines
}
