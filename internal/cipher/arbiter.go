package cipher

// substitutionMargin is how far a substitution result must beat the Caesar
// result to be preferred.
const substitutionMargin = 50

// Arbitrate picks between the Caesar and the substitution result. The
// substitution wins on a margin above 50 or when it came from the expert
// mapping. The loser is returned as the alternative.
func Arbitrate(caesar, substitution Candidate) (winner, alternative Candidate) {
	if substitution.Score > caesar.Score+substitutionMargin || substitution.Strategy == StrategyExpert {
		return substitution, caesar
	}
	return caesar, substitution
}
