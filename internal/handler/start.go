package handler

import (
	"strings"

	"drillbot/internal/session"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	passwordPrompt = "Привет! Это закрытый тренажёр. Введите пароль:"
	genericError   = "Произошла ошибка. Попробуйте позже."
)

// handleStart handles /start command and the main menu button
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User opened main menu",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	// Ensure learner exists in database
	if err := h.authService.EnsureLearner(userID); err != nil {
		h.logger.Error("Failed to ensure learner exists", zap.Error(err))
		return c.Send(genericError)
	}

	// Check if authorized
	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(genericError)
	}

	if !authorized {
		return c.Send(passwordPrompt)
	}

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	h.EndSession(userID)

	course, err := h.courseService.Active(userID)
	if err != nil {
		h.logger.Error("Failed to load active course", zap.Error(err), zap.Int64("user_id", userID))
		return c.Send(genericError)
	}

	return h.show(c, userID, mainMenuText(course), mainMenuMarkup(course != nil))
}

// handleText handles the password and typed answers
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	// Ensure learner exists
	if err := h.authService.EnsureLearner(userID); err != nil {
		h.logger.Error("Failed to ensure learner exists", zap.Error(err))
		return nil
	}

	// Check authorization first
	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(genericError)
	}

	// If not authorized, check password
	if !authorized {
		if !h.authService.CheckPassword(text) {
			return c.Send("Неверный пароль")
		}
		if err := h.authService.Authorize(userID); err != nil {
			h.logger.Error("Failed to authorize user", zap.Error(err))
			return c.Send(genericError)
		}

		h.logger.Info("User authorized", zap.Int64("user_id", userID))

		course, err := h.courseService.Active(userID)
		if err != nil {
			h.logger.Error("Failed to load active course", zap.Error(err))
			return c.Send(genericError)
		}
		return c.Send("✅ Доступ разрешён!\n\n"+mainMenuText(course), mainMenuMarkup(course != nil))
	}

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	// A typed message answers the exercise on screen
	sess := h.GetSession(userID)
	if sess == nil || sess.Current == nil {
		return c.Send("Откройте занятие, чтобы тренироваться: /start")
	}
	sess.CancelCountdown()
	if sess.Current.Mode != session.ModeType || sess.Answered() {
		return c.Send("Воспользуйтесь кнопками под упражнением")
	}

	return h.confirm(c, userID, sess, text)
}
