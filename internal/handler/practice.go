package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"drillbot/internal/answer"
	"drillbot/internal/domain"
	"drillbot/internal/service"
	"drillbot/internal/session"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStartSession starts a practice session over the chosen selection
func (h *Handler) handleStartSession(c tele.Context, data string) error {
	userID := c.Sender().ID

	sel, err := domain.ParseSelection(strings.TrimPrefix(data, prefixSelection))
	if err != nil {
		h.logger.Warn("Invalid selection", zap.String("data", data), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Неверное занятие"})
	}

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	course, err := h.activeCourse(c, userID)
	if course == nil {
		return err
	}

	sess, err := h.practiceService.StartSession(course, sel)
	if errors.Is(err, service.ErrNothingToPractice) {
		return c.Respond(&tele.CallbackResponse{
			Text:      "Здесь пока нечего тренировать",
			ShowAlert: true,
		})
	}
	if err != nil {
		h.logger.Error("Failed to start session", zap.Error(err), zap.String("selection", sel.String()))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при загрузке занятия"})
	}

	h.SetSession(userID, sess)
	h.logger.Info("Session opened",
		zap.Int64("user_id", userID),
		zap.String("session_id", sess.ID.String()),
	)

	return h.showExercise(c, userID, course, sess)
}

// handlePick answers a pick mode exercise with the chosen option
func (h *Handler) handlePick(c tele.Context, data string) error {
	userID := c.Sender().ID

	idx, ok := parseIndex(data, prefixOption)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Неверный вариант"})
	}

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	sess := h.GetSession(userID)
	if sess == nil || sess.Current == nil {
		return c.Respond()
	}
	sess.CancelCountdown()
	if sess.Answered() || idx >= len(sess.Current.Options) {
		return c.Respond()
	}

	return h.confirm(c, userID, sess, sess.Current.Options[idx].Text)
}

// handleSuggestion appends a tapped word to the typed answer
func (h *Handler) handleSuggestion(c tele.Context, data string) error {
	userID := c.Sender().ID

	idx, ok := parseIndex(data, prefixSuggestion)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Неверное слово"})
	}

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	sess := h.GetSession(userID)
	if sess == nil || sess.Current == nil {
		return c.Respond()
	}
	sess.CancelCountdown()
	if sess.Answered() || idx >= len(sess.Current.Suggestions) {
		return c.Respond()
	}

	sess.Answer = answer.AppendSuggestion(sess.Answer, sess.Current.Suggestions[idx])
	return h.showCurrent(c, userID, sess)
}

// handleClear erases the typed answer
func (h *Handler) handleClear(c tele.Context) error {
	userID := c.Sender().ID

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	sess := h.GetSession(userID)
	if sess == nil || sess.Current == nil {
		return c.Respond()
	}
	sess.CancelCountdown()
	if sess.Answered() || sess.Answer == "" {
		return c.Respond()
	}

	sess.Answer = ""
	return h.showCurrent(c, userID, sess)
}

// handleConfirm checks the typed answer, or moves on once the exercise was answered
func (h *Handler) handleConfirm(c tele.Context) error {
	userID := c.Sender().ID

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	sess := h.GetSession(userID)
	if sess == nil || sess.Current == nil {
		return c.Respond()
	}
	if !sess.Answered() && strings.TrimSpace(sess.Answer) == "" {
		return c.Respond(&tele.CallbackResponse{Text: "Сначала составьте ответ"})
	}

	return h.confirm(c, userID, sess, sess.Answer)
}

// confirm runs a confirmation and renders the outcome. The user lock must be held.
func (h *Handler) confirm(c tele.Context, userID int64, sess *session.Session, text string) error {
	course, err := h.courseService.Get(sess.CourseKey)
	if err != nil {
		h.logger.Error("Failed to load session course", zap.Error(err), zap.String("course", sess.CourseKey))
		h.EndSession(userID)
		return c.Send(genericError)
	}

	res, err := h.practiceService.Confirm(course, sess, text)
	if errors.Is(err, service.ErrNoSession) {
		return c.Respond()
	}
	if err != nil {
		h.logger.Error("Failed to confirm answer", zap.Error(err), zap.Int64("user_id", userID))
		return c.Send(genericError)
	}

	switch {
	case !res.Evaluated && res.Finished:
		return h.showFinished(c, userID, course, sess)
	case !res.Evaluated:
		return h.showExercise(c, userID, course, sess)
	case res.Correct && h.autoAdvance <= 0:
		return h.next(c, userID, course, sess)
	case res.Correct:
		if err := h.showSession(c, userID, sess, h.autoAdvance); err != nil {
			return err
		}
		h.armCountdown(userID, sess)
		return nil
	default:
		return h.showExercise(c, userID, course, sess)
	}
}

// handleSkip moves on without recording an answer
func (h *Handler) handleSkip(c tele.Context) error {
	userID := c.Sender().ID

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	sess := h.GetSession(userID)
	if sess == nil || sess.Current == nil {
		return c.Respond()
	}

	course, err := h.courseService.Get(sess.CourseKey)
	if err != nil {
		h.logger.Error("Failed to load session course", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при загрузке"})
	}

	h.logger.Debug("Exercise skipped",
		zap.String("session_id", sess.ID.String()),
		zap.String("exercise_id", sess.CurrentID()),
	)
	return h.next(c, userID, course, sess)
}

// handleAbort ends the session and returns to the lessons
func (h *Handler) handleAbort(c tele.Context) error {
	userID := c.Sender().ID

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if sess := h.GetSession(userID); sess != nil {
		h.logger.Info("Session aborted",
			zap.Int64("user_id", userID),
			zap.String("session_id", sess.ID.String()),
			zap.Int("position", sess.Position()),
			zap.Int("total", sess.Total()),
		)
	}
	h.EndSession(userID)

	course, err := h.activeCourse(c, userID)
	if course == nil {
		return err
	}
	return h.showLessons(c, userID, course)
}

// handleShowInfo opens the definition overlay of a sentence
func (h *Handler) handleShowInfo(c tele.Context, data string) error {
	userID := c.Sender().ID
	sentenceID := strings.TrimPrefix(data, prefixInfo)

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	sess := h.GetSession(userID)
	if sess == nil || sess.Current == nil {
		return c.Respond()
	}

	course, err := h.courseService.Get(sess.CourseKey)
	if err != nil {
		h.logger.Error("Failed to load session course", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при загрузке"})
	}

	sess.CancelCountdown()
	sess.ShowDefinition(sentenceID)

	text, markup := definitionView(course, sentenceID)
	return h.show(c, userID, text, markup)
}

// handleHideInfo closes the definition overlay
func (h *Handler) handleHideInfo(c tele.Context) error {
	userID := c.Sender().ID

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	sess := h.GetSession(userID)
	if sess == nil || sess.Current == nil {
		return c.Respond()
	}

	sess.CancelCountdown()
	sess.HideDefinition()
	return h.showSession(c, userID, sess, 0)
}

// next advances the session and shows the next exercise or the summary
func (h *Handler) next(c tele.Context, userID int64, course *domain.Course, sess *session.Session) error {
	more, err := h.practiceService.Next(course, sess)
	if err != nil {
		h.logger.Error("Failed to advance session", zap.Error(err))
		return c.Send(genericError)
	}
	if !more {
		return h.showFinished(c, userID, course, sess)
	}
	return h.showExercise(c, userID, course, sess)
}

// showExercise renders the current exercise, or the summary when the
// session has nothing left to present
func (h *Handler) showExercise(c tele.Context, userID int64, course *domain.Course, sess *session.Session) error {
	if sess.Current == nil {
		return h.showFinished(c, userID, course, sess)
	}
	return h.showSession(c, userID, sess, 0)
}

// showCurrent re-renders the current exercise after an edit of the answer
func (h *Handler) showCurrent(c tele.Context, userID int64, sess *session.Session) error {
	text, markup := exerciseView(sess, 0)
	return h.show(c, userID, text, markup)
}

// showSession renders the session message and remembers its id for countdown edits
func (h *Handler) showSession(c tele.Context, userID int64, sess *session.Session, remaining time.Duration) error {
	text, markup := exerciseView(sess, remaining)

	if cb := c.Callback(); cb != nil && cb.Message != nil {
		err := c.Edit(text, markup)
		if err == nil {
			sess.MessageID = cb.Message.ID
			return c.Respond()
		}
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
	}

	msg, err := h.bot.Send(c.Recipient(), text, markup)
	if err != nil {
		return err
	}
	sess.MessageID = msg.ID
	return nil
}

func (h *Handler) showFinished(c tele.Context, userID int64, course *domain.Course, sess *session.Session) error {
	p, err := h.practiceService.Progress(course, sess)
	if err != nil {
		h.logger.Error("Failed to compute session progress", zap.Error(err))
	}

	h.logger.Info("Session finished",
		zap.Int64("user_id", userID),
		zap.String("session_id", sess.ID.String()),
		zap.Int("learned", p.Learned),
		zap.Int("wrong", p.Wrong),
	)
	h.EndSession(userID)

	text, markup := finishedView(sess, p)
	return h.show(c, userID, text, markup)
}

// armCountdown schedules the advance after a correct answer.
// The user lock must be held; the callbacks take it again and give up
// when another interaction replaced or cancelled the countdown.
func (h *Handler) armCountdown(userID int64, sess *session.Session) {
	var cd *session.Countdown
	cd = session.StartCountdown(h.autoAdvance, session.DefaultTick,
		func(remaining time.Duration) {
			lock := h.userLock(userID)
			lock.Lock()
			defer lock.Unlock()

			if !sess.IsArmed(cd) {
				return
			}
			text, markup := exerciseView(sess, remaining)
			h.editSession(userID, sess, text, markup)
		},
		func() {
			lock := h.userLock(userID)
			lock.Lock()
			defer lock.Unlock()

			if !sess.IsArmed(cd) || h.GetSession(userID) != sess {
				return
			}
			h.autoAdvanceSession(userID, sess)
		},
	)
	sess.ArmCountdown(cd)
}

// autoAdvanceSession moves to the next exercise outside of any interaction.
// The user lock must be held.
func (h *Handler) autoAdvanceSession(userID int64, sess *session.Session) {
	course, err := h.courseService.Get(sess.CourseKey)
	if err != nil {
		h.logger.Error("Failed to load session course", zap.Error(err))
		return
	}

	more, err := h.practiceService.Next(course, sess)
	if err != nil {
		h.logger.Error("Failed to advance session", zap.Error(err))
		return
	}

	if !more {
		p, err := h.practiceService.Progress(course, sess)
		if err != nil {
			h.logger.Error("Failed to compute session progress", zap.Error(err))
		}
		h.EndSession(userID)
		text, markup := finishedView(sess, p)
		h.editSession(userID, sess, text, markup)
		return
	}

	text, markup := exerciseView(sess, 0)
	h.editSession(userID, sess, text, markup)
}

// editSession edits the stored session message of a private chat
func (h *Handler) editSession(userID int64, sess *session.Session, text string, markup *tele.ReplyMarkup) {
	msg := tele.StoredMessage{
		MessageID: strconv.Itoa(sess.MessageID),
		ChatID:    userID,
	}
	if _, err := h.bot.Edit(msg, text, markup); err != nil {
		h.logger.Debug("Failed to edit session message",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("session_id", sess.ID.String()),
		)
	}
}
