package utils

import (
	"math"
	"time"
)

type RankConfig struct {
	Gravity    float64 // time decay exponent
	TimeOffset float64 // hours added before decay, keeps fresh posts finite
}

var DefaultRankConfig = RankConfig{
	Gravity:    1.8,
	TimeOffset: 2.0,
}

// CalculateHotScore ranks a post by points against its age:
// points / (age_hours + offset)^gravity. New posts surface without
// dominating; old posts need sustained votes to stay up.
func CalculateHotScore(createdAt time.Time, points int) float64 {
	hours := time.Since(createdAt).Hours()
	if hours < 0 {
		hours = 0
	}
	decay := math.Pow(hours+DefaultRankConfig.TimeOffset, DefaultRankConfig.Gravity)
	return float64(points) / decay
}
