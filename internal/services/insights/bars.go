package insights

// ProportionalWidths returns each value as a percentage of the largest value
// in the collection. A collection whose maximum is not positive yields zero
// widths.
func ProportionalWidths(values []float64) []float64 {
	widths := make([]float64, len(values))
	if len(values) == 0 {
		return widths
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		return widths
	}
	for i, v := range values {
		widths[i] = v * 100 / max
	}
	return widths
}
