package usecase

import (
	"strconv"

	"TrueArk/internal/domain/models"
)

// MapHouses derives the Whole Sign house mapping from the Ascendant sign:
// house N carries the sign at cyclic offset (asc + N - 1) mod 12. Total for
// every valid sign; the invalid-sign branch is a defensive check that the
// angle calculator makes unreachable.
func MapHouses(asc models.ZodiacSign) (models.Houses, error) {
	if !asc.Valid() {
		return nil, &models.ValidationError{
			Check: "ascendant_sign", Field: "angles.Ascendant.sign",
			Expected: "a zodiac sign index in [0,12)", Observed: int(asc),
		}
	}
	h := make(models.Houses, models.SignCount)
	for n := 1; n <= models.SignCount; n++ {
		sign := (asc + models.ZodiacSign(n-1)) % models.SignCount
		h[strconv.Itoa(n)] = sign.String()
	}
	return h, nil
}
