// Package seed holds the records a fresh store starts with.
package seed

import "github.com/ankurdental/dentaldesk/internal/domain"

const (
	pdfStub = "data:application/pdf;base64,JVBERi0xLjQKJcOkw7zDtsO"
	pngStub = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="
)

// Users returns the seeded accounts with plaintext passwords; the store
// hashes them before they are written.
func Users() []domain.User {
	return []domain.User{
		{ID: "1", Role: domain.RoleAdmin, Email: "admin@entnt.in", Password: "admin123"},
		{ID: "2", Role: domain.RolePatient, Email: "john@entnt.in", Password: "patient123", PatientID: "p1"},
		{ID: "3", Role: domain.RolePatient, Email: "priya.patel@entnt.in", Password: "patient123", PatientID: "p2"},
		{ID: "4", Role: domain.RolePatient, Email: "rahul.verma@entnt.in", Password: "patient123", PatientID: "p3"},
		{ID: "5", Role: domain.RolePatient, Email: "sneha.nair@entnt.in", Password: "patient123", PatientID: "p4"},
		{ID: "6", Role: domain.RolePatient, Email: "amit.singh@entnt.in", Password: "patient123", PatientID: "p5"},
	}
}

func Patients() []domain.Patient {
	return []domain.Patient{
		{ID: "p1", Name: "Arjun Sharma", DOB: domain.MustDate("1992-04-15"), Contact: "+91-9876543210", HealthInfo: "Allergic to sulfa drugs"},
		{ID: "p2", Name: "Priya Patel", DOB: domain.MustDate("1988-11-23"), Contact: "+91-9812345678", HealthInfo: "Asthma, vegetarian"},
		{ID: "p3", Name: "Rahul Verma", DOB: domain.MustDate("1995-07-09"), Contact: "+91-9001234567", HealthInfo: "Diabetes type 2, no known allergies"},
		{ID: "p4", Name: "Sneha Nair", DOB: domain.MustDate("1990-02-28"), Contact: "+91-9123456780", HealthInfo: "No known allergies, mild hypertension"},
		{ID: "p5", Name: "Amit Singh", DOB: domain.MustDate("1985-12-12"), Contact: "+91-9988776655", HealthInfo: "Thyroid disorder, lactose intolerant"},
	}
}

func Incidents() []domain.Incident {
	return []domain.Incident{
		{
			ID:              "i1",
			PatientID:       "p1",
			Title:           "Toothache (दांत में दर्द)",
			Description:     "Severe pain in lower right molar, started after eating sweets.",
			Comments:        "Patient prefers ayurvedic pain relief. Suggested clove oil as temporary relief.",
			AppointmentDate: domain.MustTimestamp("2025-01-15T10:00:00"),
			Cost:            domain.Cost(1200),
			Status:          domain.StatusCompleted,
			Treatment:       "Root canal treatment (RCT) performed. Prescribed antibiotics.",
			NextDate:        next("2025-02-15T10:00:00"),
			Files: []domain.FileAttachment{
				{Name: "invoice.pdf", URL: pdfStub, Type: "application/pdf", Size: 1024},
				{Name: "xray.png", URL: pngStub, Type: "image/png", Size: 2048},
			},
		},
		{
			ID:              "i2",
			PatientID:       "p2",
			Title:           "Routine Dental Checkup",
			Description:     "Annual checkup and cleaning. No major issues found.",
			Comments:        "Patient follows good oral hygiene. Suggested regular flossing.",
			AppointmentDate: domain.MustTimestamp("2025-01-20T14:00:00"),
			Cost:            domain.Cost(500),
			Status:          domain.StatusCompleted,
			Treatment:       "Scaling and polishing done.",
			NextDate:        next("2025-07-20T14:00:00"),
			Files: []domain.FileAttachment{
				{Name: "checkup_report.pdf", URL: pdfStub, Type: "application/pdf", Size: 512},
			},
		},
		{
			ID:              "i3",
			PatientID:       "p3",
			Title:           "Cavity Filling",
			Description:     "Cavity in upper left premolar. Patient reported sensitivity to cold water.",
			Comments:        "Used composite filling. Advised to avoid sweets.",
			AppointmentDate: domain.MustTimestamp("2025-01-25T09:00:00"),
			Cost:            domain.Cost(1500),
			Status:          domain.StatusCompleted,
			Treatment:       "Composite filling done. No complications.",
			NextDate:        next("2025-04-25T09:00:00"),
			Files: []domain.FileAttachment{
				{Name: "treatment_plan.pdf", URL: pdfStub, Type: "application/pdf", Size: 1536},
			},
		},
		{
			ID:              "i4",
			PatientID:       "p1",
			Title:           "Follow-up Appointment",
			Description:     "Post-RCT checkup. Healing well, no pain reported.",
			Comments:        "Patient asked about dietary restrictions. Suggested soft food for 3 days.",
			AppointmentDate: domain.MustTimestamp("2025-02-15T10:00:00"),
			Status:          domain.StatusPending,
			Files:           []domain.FileAttachment{},
		},
		{
			ID:              "i5",
			PatientID:       "p4",
			Title:           "Emergency Visit (Tooth Broken)",
			Description:     "Accidental fall at home. Upper incisor chipped.",
			Comments:        "Patient was anxious. Provided reassurance and pain relief.",
			AppointmentDate: domain.MustTimestamp("2025-01-30T16:00:00"),
			Cost:            domain.Cost(2500),
			Status:          domain.StatusCompleted,
			Treatment:       "Temporary crown placed. Advised permanent crown in 2 weeks.",
			NextDate:        next("2025-03-30T16:00:00"),
			Files: []domain.FileAttachment{
				{Name: "emergency_report.pdf", URL: pdfStub, Type: "application/pdf", Size: 768},
			},
		},
		{
			ID:              "i6",
			PatientID:       "p5",
			Title:           "Wisdom Tooth Extraction",
			Description:     "Impacted lower wisdom tooth. Swelling and pain for 3 days.",
			Comments:        "Patient from rural area, requested minimal medication.",
			AppointmentDate: domain.MustTimestamp("2025-02-05T11:00:00"),
			Cost:            domain.Cost(3500),
			Status:          domain.StatusCompleted,
			Treatment:       "Surgical extraction done. Prescribed painkillers and antibiotics.",
			NextDate:        next("2025-03-05T11:00:00"),
			Files: []domain.FileAttachment{
				{Name: "surgery_consent.pdf", URL: pdfStub, Type: "application/pdf", Size: 1024},
				{Name: "post_op_instructions.pdf", URL: pdfStub, Type: "application/pdf", Size: 512},
			},
		},
		{
			ID:              "i7",
			PatientID:       "p2",
			Title:           "Teeth Whitening",
			Description:     "Patient requested whitening for wedding. Used safe bleaching agents.",
			Comments:        "Explained post-whitening sensitivity. Advised Sensodyne toothpaste.",
			AppointmentDate: domain.MustTimestamp("2025-02-10T13:00:00"),
			Cost:            domain.Cost(2000),
			Status:          domain.StatusCompleted,
			Treatment:       "Professional whitening completed in one sitting.",
			NextDate:        next("2025-05-10T13:00:00"),
			Files: []domain.FileAttachment{
				{Name: "whitening_consent.pdf", URL: pdfStub, Type: "application/pdf", Size: 768},
			},
		},
		{
			ID:              "i8",
			PatientID:       "p2",
			Title:           "Dental Cleaning",
			Description:     "Routine cleaning and scaling. Mild tartar observed.",
			Comments:        "Advised regular cleaning every 6 months.",
			AppointmentDate: domain.MustTimestamp("2025-03-15T10:00:00"),
			Cost:            domain.Cost(800),
			Status:          domain.StatusCompleted,
			Treatment:       "Deep cleaning and scaling done.",
			NextDate:        next("2025-06-15T10:00:00"),
			Files: []domain.FileAttachment{
				{Name: "cleaning_report.pdf", URL: pdfStub, Type: "application/pdf", Size: 512},
			},
		},
		{
			ID:              "i9",
			PatientID:       "p3",
			Title:           "Orthodontic Consultation",
			Description:     "Patient interested in braces for teeth alignment.",
			Comments:        "Explained duration and cost. Patient to decide.",
			AppointmentDate: domain.MustTimestamp("2025-02-20T15:00:00"),
			Cost:            domain.Cost(500),
			Status:          domain.StatusCompleted,
			Treatment:       "Consultation and treatment plan provided.",
			NextDate:        next("2025-03-20T15:00:00"),
			Files: []domain.FileAttachment{
				{Name: "ortho_consultation.pdf", URL: pdfStub, Type: "application/pdf", Size: 1024},
			},
		},
		{
			ID:              "i10",
			PatientID:       "p3",
			Title:           "Braces Installation",
			Description:     "Metal braces installed. Patient from Delhi, student.",
			Comments:        "Explained oral hygiene with braces. Next visit in 1 month.",
			AppointmentDate: domain.MustTimestamp("2025-03-20T14:00:00"),
			Cost:            domain.Cost(25000),
			Status:          domain.StatusCompleted,
			Treatment:       "Metal braces installation completed.",
			NextDate:        next("2025-04-20T14:00:00"),
			Files: []domain.FileAttachment{
				{Name: "braces_consent.pdf", URL: pdfStub, Type: "application/pdf", Size: 1536},
			},
		},
		{
			ID:              "i11",
			PatientID:       "p4",
			Title:           "Dental Implant Consultation",
			Description:     "Consultation for missing lower molar. Patient wants fixed teeth.",
			Comments:        "Explained implant vs bridge. Patient to discuss with family.",
			AppointmentDate: domain.MustTimestamp("2025-02-25T11:00:00"),
			Cost:            domain.Cost(700),
			Status:          domain.StatusCompleted,
			Treatment:       "Implant consultation and planning done.",
			NextDate:        next("2025-04-25T11:00:00"),
			Files: []domain.FileAttachment{
				{Name: "implant_consultation.pdf", URL: pdfStub, Type: "application/pdf", Size: 1024},
			},
		},
		{
			ID:              "i12",
			PatientID:       "p5",
			Title:           "Gum Disease Treatment",
			Description:     "Early stage gum disease. Bleeding gums while brushing.",
			Comments:        "Advised use of soft brush and mouthwash.",
			AppointmentDate: domain.MustTimestamp("2025-03-10T09:00:00"),
			Cost:            domain.Cost(1200),
			Status:          domain.StatusCompleted,
			Treatment:       "Deep cleaning and antibiotics prescribed.",
			NextDate:        next("2025-04-10T09:00:00"),
			Files: []domain.FileAttachment{
				{Name: "gum_treatment_plan.pdf", URL: pdfStub, Type: "application/pdf", Size: 768},
			},
		},
		{
			ID:              "i13",
			PatientID:       "p1",
			Title:           "Dental Crown",
			Description:     "Crown placement for weakened molar after RCT.",
			Comments:        "Patient chose zirconia crown. Advised care for 1 week.",
			AppointmentDate: domain.MustTimestamp("2025-03-05T16:00:00"),
			Cost:            domain.Cost(8000),
			Status:          domain.StatusCompleted,
			Treatment:       "Zirconia crown placed successfully.",
			NextDate:        next("2025-04-05T16:00:00"),
			Files: []domain.FileAttachment{
				{Name: "crown_consent.pdf", URL: pdfStub, Type: "application/pdf", Size: 1024},
			},
		},
		{
			ID:              "i14",
			PatientID:       "p1",
			Title:           "Regular Checkup",
			Description:     "Six-month checkup. No new complaints.",
			Comments:        "Routine examination. Advised to continue regular brushing.",
			AppointmentDate: domain.MustTimestamp("2025-04-15T10:00:00"),
			Cost:            domain.Cost(600),
			Status:          domain.StatusPending,
			Files:           []domain.FileAttachment{},
		},
	}
}

func next(s string) *domain.Timestamp {
	ts := domain.MustTimestamp(s)
	return &ts
}
