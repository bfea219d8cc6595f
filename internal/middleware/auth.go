package middleware

import (
	"strings"

	"drillbot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const passwordPrompt = "Привет! Это закрытый тренажёр. Введите пароль:"

// AuthMiddleware creates authentication middleware.
// Unauthorized chats only get through with /start or plain text, which is
// checked as the password.
func AuthMiddleware(authService *service.AuthService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}
			userID := sender.ID

			// Ensure learner exists
			if err := authService.EnsureLearner(userID); err != nil {
				logger.Error("Failed to ensure learner exists in middleware", zap.Error(err))
				return c.Send("Произошла ошибка. Попробуйте позже.")
			}

			// Check authorization
			authorized, err := authService.IsAuthorized(userID)
			if err != nil {
				logger.Error("Failed to check authorization in middleware", zap.Error(err))
				return c.Send("Произошла ошибка. Попробуйте позже.")
			}

			if authorized || isPasswordAttempt(c) {
				return next(c)
			}

			logger.Debug("Unauthorized interaction blocked", zap.Int64("user_id", userID))
			if c.Callback() != nil {
				c.Respond()
			}
			return c.Send(passwordPrompt)
		}
	}
}

// isPasswordAttempt reports whether the update is /start or a plain text message
func isPasswordAttempt(c tele.Context) bool {
	if c.Callback() != nil || c.Message() == nil {
		return false
	}
	text := strings.TrimSpace(c.Text())
	return text == "/start" || (text != "" && !strings.HasPrefix(text, "/"))
}
