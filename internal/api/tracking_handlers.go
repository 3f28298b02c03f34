package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ignite/phishing-trainer/internal/pkg/logger"
	"github.com/ignite/phishing-trainer/internal/service/recorder"
)

// HandleTrack processes a tracking-link visit:
//
//	GET /track?track=1&cid=<campaign>&rid=<recipient>&sig=<hmac>
//
// A valid signed click is recorded and answered with the lesson page.
// Forged or truncated signatures get 403 with no hint about which part
// failed; links for unknown targets get 404.
func (h *Handlers) HandleTrack(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("track") != "1" {
		respondError(w, http.StatusBadRequest, "not a tracking link")
		return
	}
	cid, rid, sig := q.Get("cid"), q.Get("rid"), q.Get("sig")
	if cid == "" || rid == "" || sig == "" {
		respondError(w, http.StatusBadRequest, "missing tracking parameters")
		return
	}

	res, err := h.recorder.RecordClick(r.Context(), recorder.ClickInput{
		CampaignID:  cid,
		RecipientID: rid,
		Signature:   sig,
		IP:          realIP(r),
		UserAgent:   r.UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, recorder.ErrInvalidSignature):
			respondError(w, http.StatusForbidden, "invalid tracking link")
		case errors.Is(err, recorder.ErrUnknownTarget):
			respondError(w, http.StatusNotFound, "unknown tracking link")
		default:
			logger.Error("recording click", "error", err.Error())
			respondError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	companyName := ""
	if c, err := h.campaigns.Get(r.Context(), cid); err == nil {
		companyName = c.Company.Name
	}
	quizURL := fmt.Sprintf("/quiz?cid=%s&rid=%s", url.QueryEscape(cid), url.QueryEscape(rid))
	page, err := h.renderer.RenderLesson(companyName, quizURL)
	if err != nil {
		logger.Error("rendering lesson page", "error", err.Error())
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if res.FirstClick {
		logger.Debug("serving lesson page for first click", "campaign_id", cid)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Write([]byte(page))
}

// quizQuestionView is a question as served to the recipient: no correct
// answer, no explanation.
type quizQuestionView struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// HandleGetQuiz serves the quiz for a campaign:
//
//	GET /quiz?cid=<campaign>&rid=<recipient>
//
// The question set is deterministic per campaign, so the max score the
// recipient sees here matches the one used at grading.
func (h *Handlers) HandleGetQuiz(w http.ResponseWriter, r *http.Request) {
	cid, rid := r.URL.Query().Get("cid"), r.URL.Query().Get("rid")
	if cid == "" || rid == "" {
		respondError(w, http.StatusBadRequest, "missing quiz parameters")
		return
	}
	c, err := h.campaigns.Get(r.Context(), cid)
	if err != nil {
		respondError(w, http.StatusNotFound, "unknown campaign")
		return
	}
	if c.Target(rid) == nil {
		respondError(w, http.StatusNotFound, "unknown recipient")
		return
	}

	qz := h.bank.QuizFor(cid, h.questionsPerQuiz)
	views := make([]quizQuestionView, len(qz.Questions))
	for i, question := range qz.Questions {
		views[i] = quizQuestionView{ID: question.ID, Question: question.Question, Options: question.Options}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"campaign_id": cid,
		"max_score":   qz.MaxScore(),
		"questions":   views,
	})
}

// quizSubmission maps question id to the selected option index.
type quizSubmission struct {
	CampaignID  string         `json:"campaign_id"`
	RecipientID string         `json:"recipient_id"`
	Answers     map[string]int `json:"answers"`
}

type quizResultView struct {
	Score        int               `json:"score"`
	MaxScore     int               `json:"max_score"`
	Status       string            `json:"status"`
	Explanations map[string]string `json:"explanations"`
}

// HandleSubmitQuiz grades a submission and records the completion.
// Explanations for every question in the quiz come back with the score,
// right or wrong: the point of the exercise is the lesson.
func (h *Handlers) HandleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	var sub quizSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if sub.CampaignID == "" || sub.RecipientID == "" {
		respondError(w, http.StatusBadRequest, "missing campaign_id or recipient_id")
		return
	}

	qz := h.bank.QuizFor(sub.CampaignID, h.questionsPerQuiz)
	score := qz.Grade(sub.Answers)

	res, err := h.recorder.RecordQuiz(r.Context(), recorder.QuizInput{
		CampaignID:  sub.CampaignID,
		RecipientID: sub.RecipientID,
		Score:       score,
		MaxScore:    qz.MaxScore(),
		Answers:     qz.AnswerTexts(sub.Answers),
	})
	if err != nil {
		switch {
		case errors.Is(err, recorder.ErrUnknownTarget):
			respondError(w, http.StatusNotFound, "unknown recipient")
		case errors.Is(err, recorder.ErrInvalidState):
			respondError(w, http.StatusConflict, "quiz not available for this recipient")
		case errors.Is(err, recorder.ErrInvalidScore):
			respondError(w, http.StatusBadRequest, "invalid score")
		default:
			logger.Error("recording quiz completion", "error", err.Error())
			respondError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	explanations := make(map[string]string, len(qz.Questions))
	for _, question := range qz.Questions {
		explanations[question.ID] = question.Explanation
	}
	respondJSON(w, http.StatusOK, quizResultView{
		Score:        score,
		MaxScore:     qz.MaxScore(),
		Status:       string(res.Status),
		Explanations: explanations,
	})
}
