package booking

// FeeBasisPoints is the platform fee added on top of the base hourly rate
// (500 bp = 5%). Creation-time totals and display-time breakdowns both read it.
const FeeBasisPoints = 500

const basisPoints = 10_000

// Total returns price_per_hour * duration * 1.05 in cents, rounded half up.
func Total(pricePerHour, durationHours int64) int64 {
	base := pricePerHour * durationHours
	return mulBP(base, basisPoints+FeeBasisPoints)
}

// Subtotal is the base amount before the platform fee.
func Subtotal(pricePerHour, durationHours int64) int64 {
	return pricePerHour * durationHours
}

// Breakdown back-derives base and fee from a stored total: fee is 5% of the
// total and base is the remainder, so base+fee always equals total. Note this
// is not the inverse of Total: Breakdown(Total(1000, 2)) is (1995, 105), not
// (2000, 100).
func Breakdown(total int64) (base, fee int64) {
	fee = mulBP(total, FeeBasisPoints)
	return total - fee, fee
}

// OwnerPayout is what the screen owner receives once the platform fee is kept.
func OwnerPayout(total int64) int64 {
	base, _ := Breakdown(total)
	return base
}

func mulBP(amount, bp int64) int64 {
	if amount < 0 {
		return -mulBP(-amount, bp)
	}
	return (amount*bp + basisPoints/2) / basisPoints
}
