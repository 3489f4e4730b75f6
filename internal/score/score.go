// Package score turns an area split into points.
package score

import "math"

// PerfectTolerance is how far from 50% a split may be and still score 100.
const PerfectTolerance = 0.05

// Max is the best possible score.
const Max = 100.0

// Result is the scored outcome of one cut.
type Result struct {
	Score      float64 `json:"score"`
	Perfect    bool    `json:"perfect"`
	Commentary string  `json:"commentary"`
}

// Cut scores a cut from its smaller share. The score drops two points for
// every percentage point away from an even split and is rounded to one
// decimal.
func Cut(leftPercentage float64) Result {
	s := Score(leftPercentage)
	return Result{
		Score:      s,
		Perfect:    s == Max,
		Commentary: Commentary(s),
	}
}

// Score is max(0, 100 - 2*|left-50|) rounded to one decimal, or exactly 100
// within PerfectTolerance of 50. NaN scores 0.
func Score(leftPercentage float64) float64 {
	if math.IsNaN(leftPercentage) {
		return 0
	}
	deviation := math.Abs(leftPercentage - 50)
	if deviation <= PerfectTolerance {
		return Max
	}
	return Round1(math.Max(0, Max-2*deviation))
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

var commentary = []struct {
	min  float64
	text string
}{
	{98, "Amazing!"},
	{94, "Excellent!"},
	{90, "Great job!"},
	{84, "Nice cut!"},
	{76, "Good effort!"},
	{66, "Not bad!"},
	{50, "Keep trying!"},
}

// Commentary is the line shown after a cut.
func Commentary(score float64) string {
	if score >= Max {
		return "PERFECT CUT!!!"
	}
	for _, c := range commentary {
		if score >= c.min {
			return c.text
		}
	}
	return "Shapes can be hard..."
}

// Average is the mean of scores rounded to one decimal. It is used for a
// shape's attempts and for the whole day.
func Average(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return Round1(sum / float64(len(scores)))
}

// DayTotal sums the day's cut scores.
func DayTotal(scores []float64) float64 {
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return Round1(sum)
}
