package handler

import (
	"strings"
	"unicode"

	"drillbot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// If message is not modified, it was already edited by another callback
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// show edits the message on callbacks and sends a new one otherwise
func (h *Handler) show(c tele.Context, userID int64, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() != nil {
		if err := c.Edit(text, markup); err != nil {
			if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
				return nil // Message was already modified, just acknowledged
			}
			return c.Send(text, markup)
		}
		return c.Respond()
	}
	return c.Send(text, markup)
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("id", callback.ID),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	// Static buttons whose Unique didn't come through
	key := callback.Unique
	if key == "" {
		key = data
	}
	switch key {
	case btnCourses.Unique:
		return h.handleCourses(c)
	case btnLessons.Unique:
		return h.handleLessons(c)
	case btnContributors.Unique:
		return h.handleContributors(c)
	case btnMainMenu.Unique:
		return h.handleStart(c)
	case btnConfirm.Unique:
		return h.handleConfirm(c)
	case btnClear.Unique:
		return h.handleClear(c)
	case btnSkip.Unique:
		return h.handleSkip(c)
	case btnAbort.Unique:
		return h.handleAbort(c)
	case btnHideInfo.Unique:
		return h.handleHideInfo(c)
	}

	// Handle by Data prefix (dynamic buttons)
	switch {
	case strings.HasPrefix(data, prefixCourse):
		return h.handleCourseSelection(c, data)
	case strings.HasPrefix(data, prefixSelection):
		return h.handleStartSession(c, data)
	case strings.HasPrefix(data, prefixOption):
		return h.handlePick(c, data)
	case strings.HasPrefix(data, prefixSuggestion):
		return h.handleSuggestion(c, data)
	case strings.HasPrefix(data, prefixInfo):
		return h.handleShowInfo(c, data)
	}

	// If it's not handled, acknowledge it anyway
	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// handleCourses shows the course index
func (h *Handler) handleCourses(c tele.Context) error {
	userID := c.Sender().ID

	metas, err := h.courseService.List()
	if err != nil {
		h.logger.Error("Failed to list courses", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при загрузке курсов"})
	}

	active := ""
	if course, err := h.courseService.Active(userID); err == nil && course != nil {
		active = course.Key()
	}

	text, markup := coursesView(metas, active)
	return h.show(c, userID, text, markup)
}

// handleCourseSelection makes the chosen course active and opens its lessons
func (h *Handler) handleCourseSelection(c tele.Context, data string) error {
	userID := c.Sender().ID

	key, ok := parseCourseData(data)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Неверный курс"})
	}

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	course, err := h.courseService.Select(userID, key)
	if err != nil {
		h.logger.Error("Failed to select course", zap.Error(err), zap.String("course", key))
		return c.Respond(&tele.CallbackResponse{Text: "Курс недоступен", ShowAlert: true})
	}

	h.EndSession(userID)
	h.logger.Info("Course selected", zap.Int64("user_id", userID), zap.String("course", key))

	return h.showLessons(c, userID, course)
}

// handleLessons shows the lessons of the active course
func (h *Handler) handleLessons(c tele.Context) error {
	userID := c.Sender().ID

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	h.EndSession(userID)

	course, err := h.activeCourse(c, userID)
	if course == nil {
		return err
	}
	return h.showLessons(c, userID, course)
}

func (h *Handler) showLessons(c tele.Context, userID int64, course *domain.Course) error {
	total, err := h.statsService.CourseProgress(course)
	if err != nil {
		h.logger.Error("Failed to compute course progress", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при загрузке"})
	}

	lessons := course.SortedLessons()
	lessonProgress := make([]domain.Progress, len(lessons))
	for i, lesson := range lessons {
		if lessonProgress[i], err = h.statsService.LessonProgress(course, lesson); err != nil {
			h.logger.Error("Failed to compute lesson progress", zap.Error(err))
			return c.Respond(&tele.CallbackResponse{Text: "Ошибка при загрузке"})
		}
	}

	text, markup := lessonsView(course, total, lessonProgress)
	return h.show(c, userID, text, markup)
}

// handleContributors shows the top authors of the active course
func (h *Handler) handleContributors(c tele.Context) error {
	userID := c.Sender().ID

	course, err := h.activeCourse(c, userID)
	if course == nil {
		return err
	}
	return h.show(c, userID, contributorsText(course), contributorsMarkup())
}

// activeCourse loads the active course, answering the callback when there is none.
// A nil course means the interaction is already handled and err should be returned.
func (h *Handler) activeCourse(c tele.Context, userID int64) (*domain.Course, error) {
	course, err := h.courseService.Active(userID)
	if err != nil {
		h.logger.Error("Failed to load active course", zap.Error(err), zap.Int64("user_id", userID))
		return nil, c.Respond(&tele.CallbackResponse{Text: "Ошибка при загрузке"})
	}
	if course == nil {
		return nil, c.Respond(&tele.CallbackResponse{Text: "Сначала выберите курс", ShowAlert: true})
	}
	return course, nil
}
