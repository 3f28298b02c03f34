// Package quiz manages the post-click awareness quiz: a categorized
// question bank, deterministic per-campaign quiz assembly, and grading.
package quiz

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Question is one multiple-choice question. CorrectAnswer indexes into
// Options. The explanation is shown after submission as part of the
// lesson, never before.
type Question struct {
	ID            string   `yaml:"id" json:"id"`
	Question      string   `yaml:"question" json:"question"`
	Options       []string `yaml:"options" json:"options"`
	CorrectAnswer int      `yaml:"correct_answer" json:"-"`
	Explanation   string   `yaml:"explanation" json:"-"`
}

// Bank holds all known questions grouped by category.
type Bank struct {
	categories map[string][]Question
}

// LoadBank reads a YAML question bank:
//
//	phishing_indicators:
//	  - id: sender_mismatch
//	    question: ...
//	    options: [...]
//	    correct_answer: 0
//	    explanation: ...
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question bank: %w", err)
	}
	var cats map[string][]Question
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("parsing question bank: %w", err)
	}
	b := &Bank{categories: cats}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bank) validate() error {
	seen := map[string]bool{}
	for cat, qs := range b.categories {
		for _, q := range qs {
			if q.ID == "" || q.Question == "" || len(q.Options) < 2 {
				return fmt.Errorf("malformed question %q in category %q", q.ID, cat)
			}
			if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				return fmt.Errorf("question %q: correct_answer out of range", q.ID)
			}
			if seen[q.ID] {
				return fmt.Errorf("duplicate question id %q", q.ID)
			}
			seen[q.ID] = true
		}
	}
	return nil
}

// Size returns the total number of questions in the bank.
func (b *Bank) Size() int {
	n := 0
	for _, qs := range b.categories {
		n += len(qs)
	}
	return n
}

// Question returns a question by id, or nil.
func (b *Bank) Question(id string) *Question {
	for _, qs := range b.categories {
		for i := range qs {
			if qs[i].ID == id {
				return &qs[i]
			}
		}
	}
	return nil
}

// Quiz is a fixed selection of questions presented to one recipient.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// MaxScore is the highest achievable score: one point per question.
func (q Quiz) MaxScore() int { return len(q.Questions) }

// Grade scores submitted answers (question id -> selected option index).
// Unanswered or unknown question ids score zero; answers for questions
// outside the quiz are ignored.
func (q Quiz) Grade(answers map[string]int) int {
	score := 0
	for _, question := range q.Questions {
		if idx, ok := answers[question.ID]; ok && idx == question.CorrectAnswer {
			score++
		}
	}
	return score
}

// AnswerTexts maps submitted answers to option texts for the audit
// record, keeping event payloads readable without the bank.
func (q Quiz) AnswerTexts(answers map[string]int) map[string]string {
	out := make(map[string]string, len(answers))
	for _, question := range q.Questions {
		if idx, ok := answers[question.ID]; ok && idx >= 0 && idx < len(question.Options) {
			out[question.ID] = question.Options[idx]
		}
	}
	return out
}

// QuizFor assembles a quiz of up to n questions for a campaign. The
// selection is seeded by the campaign id, so every request for the same
// campaign sees the same questions and the max score is stable between
// serving the quiz and grading the submission.
func (b *Bank) QuizFor(campaignID string, n int) Quiz {
	all := make([]Question, 0, b.Size())
	cats := make([]string, 0, len(b.categories))
	for cat := range b.categories {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	for _, cat := range cats {
		all = append(all, b.categories[cat]...)
	}

	h := fnv.New64a()
	h.Write([]byte(campaignID))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))
	rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })

	if n <= 0 || n > len(all) {
		n = len(all)
	}
	return Quiz{Questions: all[:n]}
}
