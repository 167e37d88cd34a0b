package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/scholarhub/internal/app/models"
)

// AdminProvisioner grants the bootstrap admin role
type AdminProvisioner interface {
	EnsureAdmin(ctx context.Context, email string) error
}

// Catalogue is the part of the scholarship service the seed needs
type Catalogue interface {
	ListAllScholarships(ctx context.Context) ([]*appModels.Scholarship, error)
	CreateScholarship(ctx context.Context, s *appModels.Scholarship, postedBy string) (*appModels.Scholarship, error)
}

// CreateDefaultData grants adminEmail the admin role and, on an empty
// catalogue, inserts a few sample scholarships.
func CreateDefaultData(ctx context.Context, users AdminProvisioner, catalogue Catalogue, adminEmail string, lgr zerolog.Logger) error {
	var finalErr error

	if adminEmail != "" {
		if err := users.EnsureAdmin(ctx, adminEmail); err != nil {
			lgr.Error().Err(err).Str("email", adminEmail).Msg("Error provisioning admin user")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Info().Str("email", adminEmail).Msg("Admin user ensured")
		}
	}

	existing, err := catalogue.ListAllScholarships(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking existing scholarships")
		return errors.Join(finalErr, err)
	}
	if len(existing) > 0 {
		lgr.Debug().Int("count", len(existing)).Msg("Catalogue already populated, skipping sample scholarships")
		return finalErr
	}

	lgr.Info().Msg("Creating sample scholarships...")
	for _, s := range sampleScholarships() {
		if _, err := catalogue.CreateScholarship(ctx, s, adminEmail); err != nil {
			lgr.Error().Err(err).Str("scholarship", s.ScholarshipName).Msg("Error creating sample scholarship")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}

func sampleScholarships() []*appModels.Scholarship {
	deadline := time.Now().AddDate(0, 6, 0)
	return []*appModels.Scholarship{
		{
			ScholarshipName:     "Global Excellence Scholarship",
			UniversityName:      "University of Toronto",
			UniversityCountry:   "Canada",
			UniversityCity:      "Toronto",
			UniversityWorldRank: 21,
			ScholarshipCategory: appModels.CategoryFullFund,
			SubjectCategory:     "Engineering",
			Degree:              appModels.DegreeMasters,
			ApplicationFees:     50,
			ServiceCharge:       10,
			ApplicationDeadline: deadline,
		},
		{
			ScholarshipName:     "Nordic Open Access Grant",
			UniversityName:      "University of Oslo",
			UniversityCountry:   "Norway",
			UniversityCity:      "Oslo",
			UniversityWorldRank: 117,
			ScholarshipCategory: appModels.CategoryPartial,
			SubjectCategory:     "Arts",
			Degree:              appModels.DegreeBachelor,
			ApplicationDeadline: deadline,
		},
		{
			ScholarshipName:     "Doctoral Research Fellowship",
			UniversityName:      "Technical University of Munich",
			UniversityCountry:   "Germany",
			UniversityCity:      "Munich",
			UniversityWorldRank: 28,
			ScholarshipCategory: appModels.CategorySelfFund,
			SubjectCategory:     "Science",
			Degree:              appModels.DegreePhD,
			TuitionFees:         1500,
			ApplicationFees:     25,
			ApplicationDeadline: deadline,
		},
	}
}
