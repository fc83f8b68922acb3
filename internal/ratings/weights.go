package ratings

import "github.com/xaitan80/footbase/internal/auth"

// roleWeights gives admin and editor votes more pull in the average.
var roleWeights = map[string]float64{
	auth.RoleAdmin:  3.0,
	auth.RoleEditor: 2.0,
	auth.RoleUser:   1.0,
}

// WeightForRole returns the vote weight for a role, defaulting to the
// plain-user weight for anything unknown.
func WeightForRole(role string) float64 {
	if w, ok := roleWeights[role]; ok {
		return w
	}
	return roleWeights[auth.RoleUser]
}

// WeightedAverage computes the role-weighted mean of the given ratings.
// Returns 0 for an empty slice.
func WeightedAverage(rs []Rating) float64 {
	var sum, weights float64
	for _, r := range rs {
		w := WeightForRole(r.Role)
		sum += w * float64(r.Stars)
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}
