package rating

import (
	"github.com/shopspring/decimal"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// ratingScale matches the two decimal places ratings are stored with.
const ratingScale = 2

// Average returns the mean rating of reviews rounded to two places, or an
// invalid NullDecimal when there are none.
func Average(reviews []*domain.Review) decimal.NullDecimal {
	if len(reviews) == 0 {
		return decimal.NullDecimal{}
	}
	sum := decimal.Zero
	for _, r := range reviews {
		sum = sum.Add(decimal.NewFromInt(int64(r.Rating)))
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(reviews)))).Round(ratingScale)
	return decimal.NewNullDecimal(avg)
}

// UpdateRating clamps avg into the rating range, stores it on profile under
// kind and returns the stored value. The caller computes avg.
func UpdateRating(profile *domain.Profile, kind domain.RatingKind, avg decimal.NullDecimal) (decimal.Decimal, error) {
	return profile.UpdateRating(kind, avg)
}
