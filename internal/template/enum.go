package template

// Goal states what the target suggestion should steer toward for a recurring
// task. A nil goal means hold the target steady.
type Goal string

const (
	GoalMaximize Goal = "MAXIMIZE"
	GoalMinimize Goal = "MINIMIZE"
)

func (g Goal) Valid() bool {
	return g == GoalMaximize || g == GoalMinimize
}

// storyPointScale is the fixed ordinal complexity scale.
var storyPointScale = map[int]struct{}{
	1: {}, 2: {}, 3: {}, 5: {}, 8: {}, 13: {},
}

func ValidStoryPoints(n int) bool {
	_, ok := storyPointScale[n]
	return ok
}
