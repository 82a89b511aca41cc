package models

// Question is an arithmetic problem presented to the player. Options always
// contain the correct answer exactly once; a question is immutable once
// produced and consumed exactly once by the UI.
type Question struct {
	ID         string     `json:"id"`
	Prompt     string     `json:"question"`
	Answer     int        `json:"answer"`
	Options    []int      `json:"options"`
	Difficulty Difficulty `json:"difficulty"`
}

// CheckAnswer reports whether the selected value is the correct answer
func (q *Question) CheckAnswer(selected int) bool {
	return q != nil && q.Answer == selected
}
