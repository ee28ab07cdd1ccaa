package domain

// Difficulty is the 10-level ordinal ladder an exercise is graded on.
type Difficulty string

const (
	DifficultyBeginnerI       Difficulty = "BEGINNER_I"
	DifficultyBeginnerII      Difficulty = "BEGINNER_II"
	DifficultyBeginnerIII     Difficulty = "BEGINNER_III"
	DifficultyIntermediateI   Difficulty = "INTERMEDIATE_I"
	DifficultyIntermediateII  Difficulty = "INTERMEDIATE_II"
	DifficultyIntermediateIII Difficulty = "INTERMEDIATE_III"
	DifficultyAdvancedI       Difficulty = "ADVANCED_I"
	DifficultyAdvancedII      Difficulty = "ADVANCED_II"
	DifficultyAdvancedIII     Difficulty = "ADVANCED_III"
	DifficultyMaster          Difficulty = "MASTER"
)

// difficultyLadder maps each level to its position on the ladder (1-based).
var difficultyLadder = map[Difficulty]int{
	DifficultyBeginnerI:       1,
	DifficultyBeginnerII:      2,
	DifficultyBeginnerIII:     3,
	DifficultyIntermediateI:   4,
	DifficultyIntermediateII:  5,
	DifficultyIntermediateIII: 6,
	DifficultyAdvancedI:       7,
	DifficultyAdvancedII:      8,
	DifficultyAdvancedIII:     9,
	DifficultyMaster:          10,
}

// Ordinal returns the 1-based position of d on the ladder, or 0 for an
// unknown level.
func (d Difficulty) Ordinal() int {
	return difficultyLadder[d]
}

// IsValid reports whether d is one of the ladder levels.
func (d Difficulty) IsValid() bool {
	return difficultyLadder[d] != 0
}

// IsAdvanced reports whether d sits in the advanced tier (ADVANCED_I and up).
func (d Difficulty) IsAdvanced() bool {
	return d.Ordinal() >= DifficultyAdvancedI.Ordinal()
}

// IsHighRisk reports whether d belongs to the set of levels that trigger
// medical review and stricter safety compliance.
func (d Difficulty) IsHighRisk() bool {
	return d == DifficultyAdvancedIII || d == DifficultyMaster
}
