package ranking

import (
	"strings"

	"github.com/jonathan/career-recommender/internal/parsing"
	"github.com/jonathan/career-recommender/internal/types"
)

// computeSkillScore counts the career's required skills matched by any query
// term. Each required skill contributes at most 1.
func computeSkillScore(career *types.Career, skills []string, matcher Matcher) int {
	score := 0
	for _, required := range career.RequiredSkills {
		req := strings.ToLower(strings.TrimSpace(required))
		if req == "" {
			continue
		}
		for _, term := range skills {
			if matcher.Match(req, term) {
				score++
				break
			}
		}
	}
	return score
}

// careerText is the lowercase descriptive text searched for interests.
func careerText(career *types.Career) string {
	if career.LongDescription == "" {
		return strings.ToLower(career.Description)
	}
	return strings.ToLower(career.Description + " " + career.LongDescription)
}

// computeInterestScore counts interest terms found in the career's text.
func computeInterestScore(career *types.Career, interests []string, mode InterestMode) int {
	if len(interests) == 0 {
		return 0
	}
	text := careerText(career)

	score := 0
	for _, interest := range interests {
		term := strings.ToLower(strings.TrimSpace(interest))
		if term == "" {
			continue
		}
		if mode == InterestModeFrequency {
			score += strings.Count(text, term)
		} else if strings.Contains(text, term) {
			score++
		}
	}
	return score
}

// ratingOrNeutral returns the stored 1-10 rating or the neutral midpoint.
func ratingOrNeutral(v *int) float64 {
	if v == nil {
		return neutralRating
	}
	return float64(*v)
}

// salaryBounds prefers stored bounds and otherwise parses the display range.
func salaryBounds(career *types.Career) (*int, *int) {
	if career.SalaryMin != nil && career.SalaryMax != nil {
		return career.SalaryMin, career.SalaryMax
	}
	return parsing.ParseSalaryRange(career.SalaryRange)
}

// salaryFactor scales the upper salary bound; unparsed salaries are neutral.
func salaryFactor(salaryMax *int) float64 {
	if salaryMax == nil {
		return neutralSalaryFactor
	}
	return float64(*salaryMax) / salaryFactorDivisor
}

// matchScore is the weighted skill and interest part of the total score.
func matchScore(w Weights, skillScore, interestScore int) float64 {
	return float64(skillScore)*w.Skill + float64(interestScore)*w.Interest
}

// scoreCareer builds the ScoredCareer for one catalog entry.
func scoreCareer(career *types.Career, q types.Query, p Policy, matcher Matcher) types.ScoredCareer {
	skillScore := computeSkillScore(career, q.Skills, matcher)
	interestScore := computeInterestScore(career, q.Interests, p.InterestMode)
	salaryMin, salaryMax := salaryBounds(career)

	w := p.Weights
	total := matchScore(w, skillScore, interestScore) +
		ratingOrNeutral(career.Demand)*w.Demand +
		ratingOrNeutral(career.GrowthPotential)*w.Growth +
		salaryFactor(salaryMax)*w.Salary

	sc := toScoredCareer(career, salaryMin, salaryMax)
	sc.SkillScore = skillScore
	sc.InterestScore = interestScore
	sc.TotalScore = total
	return sc
}

func toScoredCareer(career *types.Career, salaryMin, salaryMax *int) types.ScoredCareer {
	skills := make([]string, len(career.RequiredSkills))
	copy(skills, career.RequiredSkills)
	return types.ScoredCareer{
		ID:              career.ID,
		Title:           career.Title,
		Description:     career.Description,
		RequiredSkills:  skills,
		Industry:        career.Industry,
		Demand:          career.Demand,
		GrowthPotential: career.GrowthPotential,
		SalaryMin:       salaryMin,
		SalaryMax:       salaryMax,
	}
}
