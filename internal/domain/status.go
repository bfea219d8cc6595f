package domain

// ExerciseStatus is the categorical mastery label of an exercise
type ExerciseStatus string

const (
	StatusUnseen   ExerciseStatus = "unseen"
	StatusLearned  ExerciseStatus = "learned"
	StatusWrong    ExerciseStatus = "wrong"
	StatusSomewhat ExerciseStatus = "somewhat"
)

// recentAnswers is how far back a wrong answer marks an exercise as wrong
const recentAnswers = 3

// Classify derives the status of a record. Rules are checked in order:
// no record is unseen, more than two answers all correct is learned,
// a wrong answer among the last three is wrong, anything else is somewhat.
func Classify(rec *ExerciseRecord) ExerciseStatus {
	if rec == nil {
		return StatusUnseen
	}

	answers := rec.LastAnswersCorrect
	if len(answers) > 2 && allTrue(answers) {
		return StatusLearned
	}

	start := len(answers) - recentAnswers
	if start < 0 {
		start = 0
	}
	for _, correct := range answers[start:] {
		if !correct {
			return StatusWrong
		}
	}

	return StatusSomewhat
}

// Status classifies the exercise with the given id
func (k LanguageKnowledge) Status(exerciseID string) ExerciseStatus {
	return Classify(k[exerciseID])
}

func allTrue(answers []bool) bool {
	for _, a := range answers {
		if !a {
			return false
		}
	}
	return true
}

// Progress counts exercises per status
type Progress struct {
	Wrong    int
	Somewhat int
	Learned  int
	Unseen   int
}

// Total returns the number of counted exercises
func (p Progress) Total() int {
	return p.Wrong + p.Somewhat + p.Learned + p.Unseen
}

// Add counts one exercise with the given status
func (p *Progress) Add(status ExerciseStatus) {
	switch status {
	case StatusWrong:
		p.Wrong++
	case StatusSomewhat:
		p.Somewhat++
	case StatusLearned:
		p.Learned++
	default:
		p.Unseen++
	}
}

// ProgressFor counts the statuses of the given exercises
func (k LanguageKnowledge) ProgressFor(exercises []Translation) Progress {
	var p Progress
	for _, e := range exercises {
		p.Add(k.Status(e.ID))
	}
	return p
}
