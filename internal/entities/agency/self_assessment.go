package agency

// AssessmentOption is one answer to a self-assessment question.
// Attribute is empty for answers that grant no bonus.
type AssessmentOption struct {
	Text      string
	Attribute AttributeName
}

// SelectSelfAssessment records optionIndex as the answer to questionID.
//
// A previous answer's bonus is reversed first (floored at zero). Choosing the answer that
// is already selected clears it. The new answer adds SelfAssessmentBonus to its attribute
// with no upper clamp, so any sequence of selections can be undone exactly.
func (c *Character) SelectSelfAssessment(questionID string, options []AssessmentOption, optionIndex int) bool {
	if optionIndex < 0 || optionIndex >= len(options) {
		return false
	}
	if c.SelfAssessment == nil {
		c.SelfAssessment = make(map[string]int)
	}

	if prev, ok := c.SelfAssessment[questionID]; ok {
		if prev >= 0 && prev < len(options) {
			c.adjustAttributeCurrent(options[prev].Attribute, -SelfAssessmentBonus)
		}
		delete(c.SelfAssessment, questionID)
		if prev == optionIndex {
			if len(c.SelfAssessment) == 0 {
				c.SelfAssessment = nil
			}
			return true
		}
	}

	c.SelfAssessment[questionID] = optionIndex
	c.adjustAttributeCurrent(options[optionIndex].Attribute, SelfAssessmentBonus)
	return true
}

// SelectedAssessment returns the selected option index for a question
func (c *Character) SelectedAssessment(questionID string) (int, bool) {
	idx, ok := c.SelfAssessment[questionID]
	return idx, ok
}
