package handler

import (
	"sync"
	"time"

	"drillbot/internal/service"
	"drillbot/internal/session"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot             *tele.Bot
	authService     *service.AuthService
	courseService   *service.CourseService
	practiceService *service.PracticeService
	statsService    *service.StatsService
	autoAdvance     time.Duration
	logger          *zap.Logger

	// Practice sessions by chat
	sessions map[int64]*session.Session
	sessMux  sync.RWMutex

	// Per-user locks serializing callbacks, typed answers and countdowns
	callbackLocks map[int64]*sync.Mutex
	callbackMux   sync.Mutex
}

// NewHandler creates a new handler instance.
// autoAdvance is how long the correct answer feedback stays before the next
// exercise; zero advances at once.
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	courseService *service.CourseService,
	practiceService *service.PracticeService,
	statsService *service.StatsService,
	autoAdvance time.Duration,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:             bot,
		authService:     authService,
		courseService:   courseService,
		practiceService: practiceService,
		statsService:    statsService,
		autoAdvance:     autoAdvance,
		logger:          logger,
		sessions:        make(map[int64]*session.Session),
		callbackLocks:   make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)

	// Text messages: password and typed answers
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnCourses, h.handleCourses)
	h.bot.Handle(&btnLessons, h.handleLessons)
	h.bot.Handle(&btnContributors, h.handleContributors)
	h.bot.Handle(&btnMainMenu, h.handleStart)
	h.bot.Handle(&btnConfirm, h.handleConfirm)
	h.bot.Handle(&btnClear, h.handleClear)
	h.bot.Handle(&btnSkip, h.handleSkip)
	h.bot.Handle(&btnAbort, h.handleAbort)
	h.bot.Handle(&btnHideInfo, h.handleHideInfo)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// userLock returns the lock serializing the interactions of one user
func (h *Handler) userLock(userID int64) *sync.Mutex {
	h.callbackMux.Lock()
	defer h.callbackMux.Unlock()

	lock, exists := h.callbackLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		h.callbackLocks[userID] = lock
	}
	return lock
}

// GetSession returns the running session of the user, nil if there is none
func (h *Handler) GetSession(userID int64) *session.Session {
	h.sessMux.RLock()
	defer h.sessMux.RUnlock()
	return h.sessions[userID]
}

// SetSession replaces the running session of the user
func (h *Handler) SetSession(userID int64, sess *session.Session) {
	h.sessMux.Lock()
	defer h.sessMux.Unlock()

	if old := h.sessions[userID]; old != nil && old != sess {
		old.CancelCountdown()
	}
	h.sessions[userID] = sess
}

// EndSession drops the running session of the user
func (h *Handler) EndSession(userID int64) {
	h.sessMux.Lock()
	defer h.sessMux.Unlock()

	if sess := h.sessions[userID]; sess != nil {
		sess.CancelCountdown()
	}
	delete(h.sessions, userID)
}

// StopSessions cancels every pending countdown
func (h *Handler) StopSessions() {
	h.sessMux.Lock()
	defer h.sessMux.Unlock()

	for _, sess := range h.sessions {
		sess.CancelCountdown()
	}
}

// Inline keyboard buttons
var (
	btnCourses = tele.Btn{
		Unique: "courses",
		Text:   "📚 Курсы",
	}
	btnLessons = tele.Btn{
		Unique: "lessons",
		Text:   "🎯 Занятия",
	}
	btnContributors = tele.Btn{
		Unique: "contributors",
		Text:   "👥 Авторы",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Главное меню",
	}
	btnConfirm = tele.Btn{
		Unique: "confirm",
		Text:   "✔️ Проверить",
	}
	btnNext = tele.Btn{
		Unique: "confirm",
		Text:   "▶️ Дальше",
	}
	btnClear = tele.Btn{
		Unique: "clear",
		Text:   "⌫ Стереть",
	}
	btnSkip = tele.Btn{
		Unique: "skip",
		Text:   "⏭ Пропустить",
	}
	btnAbort = tele.Btn{
		Unique: "abort",
		Text:   "⏹ Завершить",
	}
	btnHideInfo = tele.Btn{
		Unique: "hide_info",
		Text:   "◀️ Назад",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup(hasCourse bool) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	rows := []tele.Row{menu.Row(btnCourses)}
	if hasCourse {
		rows = append(rows, menu.Row(btnLessons), menu.Row(btnContributors))
	}
	menu.Inline(rows...)
	return menu
}
