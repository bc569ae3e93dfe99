package data

// Sample is one observation: years of experience and salary.
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Dataset struct {
	XName   string
	YName   string
	Samples []Sample
}

func (d *Dataset) Len() int { return len(d.Samples) }

func (d *Dataset) Xs() []float64 { return Xs(d.Samples) }

func (d *Dataset) Ys() []float64 { return Ys(d.Samples) }

func Xs(s []Sample) []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].X
	}
	return out
}

func Ys(s []Sample) []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Y
	}
	return out
}

// Bounds returns the smallest and largest x. Both are zero for an empty slice.
func Bounds(s []Sample) (min, max float64) {
	for i, v := range s {
		if i == 0 || v.X < min {
			min = v.X
		}
		if i == 0 || v.X > max {
			max = v.X
		}
	}
	return min, max
}
