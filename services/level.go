package services

import "math"

// CalculateLevel maps a lifetime point total to a level on a square-root
// curve: level thresholds grow quadratically, so each level costs more than
// the last. Anything under 100 points is level 1.
func CalculateLevel(totalPoints int) int {
	if totalPoints < 100 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(totalPoints)/50))) + 1
}

// PointsForNextLevel returns the point total required to reach the level
// after currentLevel.
func PointsForNextLevel(currentLevel int) int {
	if currentLevel == 1 {
		return 100
	}
	return currentLevel * currentLevel * 50
}

// PointsForLevelStart returns the point total at which the given level begins
func PointsForLevelStart(level int) int {
	switch {
	case level <= 1:
		return 0
	case level == 2:
		return 100
	default:
		return (level - 1) * (level - 1) * 50
	}
}
