//go:build !race

package accounts

// DefaultHashCost is the bcrypt work factor applied to every credential hash.
// Tune it here, not at call sites.
const DefaultHashCost = 10

func passwordHashCost() int {
	return DefaultHashCost
}
