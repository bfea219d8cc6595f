package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"drillbot/internal/domain"
	"drillbot/internal/session"

	tele "gopkg.in/telebot.v3"
)

// Dynamic callback data prefixes
const (
	prefixCourse     = "course_"
	prefixSelection  = "sel_"
	prefixOption     = "opt_"
	prefixSuggestion = "sug_"
	prefixInfo       = "info_"
)

const (
	suggestionsPerRow = 3
	contributorsShown = 10
)

var selectionTitles = map[domain.SelectionKind]string{
	domain.SelectAll:      "📖 Весь курс",
	domain.SelectTraining: "🔁 Тренировка ошибок",
	domain.SelectShort:    "✂️ Короткие предложения",
	domain.SelectFewWords: "🔤 Мало слов",
	domain.SelectNew:      "🆕 Новые",
}

// courseData encodes a course key for callback data, e.g. "course_eng:deu"
func courseData(meta domain.CourseMeta) string {
	return prefixCourse + meta.From + ":" + meta.To
}

// parseCourseData decodes the output of courseData into a course key
func parseCourseData(data string) (string, bool) {
	from, to, ok := strings.Cut(strings.TrimPrefix(data, prefixCourse), ":")
	if !ok || from == "" || to == "" {
		return "", false
	}
	return domain.CourseKey(from, to), true
}

// parseIndex decodes the numeric suffix of "opt_2" style data
func parseIndex(data, prefix string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func progressLine(p domain.Progress) string {
	return fmt.Sprintf("✅ %d · 🟡 %d · ❌ %d · ⚪ %d", p.Learned, p.Somewhat, p.Wrong, p.Unseen)
}

func mainMenuText(course *domain.Course) string {
	if course == nil {
		return "🏠 Главное меню\n\nКурс не выбран. Выберите курс:"
	}
	return fmt.Sprintf("🏠 Главное меню\n\nКурс: %s\n\nВыберите действие:", course.Key())
}

func coursesView(metas []domain.CourseMeta, active string) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(metas)+1)
	for _, meta := range metas {
		text := fmt.Sprintf("%s (%d)", meta.Key(), meta.Exercises)
		if meta.Key() == active {
			text = "• " + text
		}
		rows = append(rows, markup.Row(markup.Data(text, courseData(meta))))
	}
	rows = append(rows, markup.Row(btnMainMenu))
	markup.Inline(rows...)

	if len(metas) == 0 {
		return "📚 Курсов пока нет", markup
	}
	return "📚 Выберите курс:", markup
}

// lessonsView lists the dynamic selections and the curated lessons with their progress.
// lessonProgress is indexed like course.SortedLessons.
func lessonsView(course *domain.Course, total domain.Progress, lessonProgress []domain.Progress) (string, *tele.ReplyMarkup) {
	text := fmt.Sprintf("🎯 %s\n\n%s", course.Key(), progressLine(total))

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{
		markup.Row(markup.Data(selectionTitles[domain.SelectAll], prefixSelection+string(domain.SelectAll))),
	}
	for _, kind := range domain.DynamicSelections {
		rows = append(rows, markup.Row(markup.Data(selectionTitles[kind], prefixSelection+string(kind))))
	}
	for i, lesson := range course.SortedLessons() {
		label := fmt.Sprintf("%d. %s", i+1, course.LessonTitle(lesson))
		if i < len(lessonProgress) {
			label += fmt.Sprintf(" (%d/%d)", lessonProgress[i].Learned, lessonProgress[i].Total())
		}
		sel := domain.Selection{Kind: domain.SelectLesson, Lesson: i}
		rows = append(rows, markup.Row(markup.Data(label, prefixSelection+sel.String())))
	}
	rows = append(rows, markup.Row(btnMainMenu))
	markup.Inline(rows...)
	return text, markup
}

func contributorsText(course *domain.Course) string {
	contributors := course.Contributors(contributorsShown)
	if len(contributors) == 0 {
		return "👥 У этого курса нет указанных авторов"
	}

	var b strings.Builder
	b.WriteString("👥 Авторы предложений:\n\n")
	for i, c := range contributors {
		fmt.Fprintf(&b, "%d. %s (%d)\n", i+1, c.Author, c.Sentences)
	}
	return b.String()
}

func contributorsMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnLessons, btnMainMenu))
	return markup
}

// exerciseView renders the current exercise of the session.
// remaining is the time left before auto advance after a correct answer.
func exerciseView(sess *session.Session, remaining time.Duration) (string, *tele.ReplyMarkup) {
	ex := sess.Current

	var b strings.Builder
	fmt.Fprintf(&b, "📝 %d/%d\n\nПереведи:\n%s\n", sess.Position(), sess.Total(), ex.Question.Text)

	if ex.Mode == session.ModeType || sess.Answered() {
		answer := sess.Answer
		if answer == "" {
			answer = "…"
		}
		fmt.Fprintf(&b, "\n✏️ %s\n", answer)
	}

	switch {
	case sess.Solved:
		b.WriteString("\n✅ Верно!")
		if remaining > 0 {
			fmt.Fprintf(&b, " Дальше через %d с", session.Seconds(remaining))
		}
	case sess.HintVisible:
		fmt.Fprintf(&b, "\n❌ Неверно. Правильный ответ:\n%s", ex.Correct.Text)
	}

	return b.String(), exerciseMarkup(sess)
}

func exerciseMarkup(sess *session.Session) *tele.ReplyMarkup {
	ex := sess.Current
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row

	switch {
	case sess.Answered():
		rows = append(rows,
			markup.Row(btnNext),
			markup.Row(markup.Data("ℹ️ Подробнее", prefixInfo+ex.Correct.ID)),
		)

	case ex.Mode == session.ModePick:
		for i, o := range ex.Options {
			rows = append(rows, markup.Row(markup.Data(o.Text, prefixOption+strconv.Itoa(i))))
		}
		rows = append(rows, markup.Row(btnSkip))

	default:
		var row tele.Row
		for i, s := range ex.Suggestions {
			row = append(row, markup.Data(s, prefixSuggestion+strconv.Itoa(i)))
			if len(row) == suggestionsPerRow {
				rows = append(rows, row)
				row = nil
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
		rows = append(rows, markup.Row(btnClear, btnConfirm), markup.Row(btnSkip))
	}

	rows = append(rows, markup.Row(btnAbort))
	markup.Inline(rows...)
	return markup
}

// definitionView renders the definition overlay of a sentence
func definitionView(course *domain.Course, sentenceID string) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnHideInfo))

	def, ok := course.Definition(sentenceID)
	if !ok {
		return "Предложение не найдено", markup
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ℹ️ %s\n", def.Sentence.Text)
	b.WriteString(attribution(def.Sentence))

	if len(def.Translations) > 0 {
		fmt.Fprintf(&b, "\nПереводы (%s):\n", def.TranslationLanguage)
		for _, t := range def.Translations {
			fmt.Fprintf(&b, "• %s\n", t.Text)
			b.WriteString(attribution(t))
		}
	}
	return b.String(), markup
}

// attribution formats the source, author and licence of a sentence
func attribution(t domain.Translation) string {
	var parts []string
	if t.Source != "" {
		parts = append(parts, domain.SourceHost(t.Source))
	}
	if t.Author != "" {
		parts = append(parts, t.Author)
	}
	if t.Licence != "" {
		parts = append(parts, domain.LicenceName(t.Licence))
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, " · ") + "\n"
}

func finishedView(sess *session.Session, p domain.Progress) (string, *tele.ReplyMarkup) {
	text := fmt.Sprintf("🏁 Занятие завершено! Упражнений: %d\n\n%s", sess.Total(), progressLine(p))

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("🔁 Ещё раз", prefixSelection+sess.Selection.String())),
		markup.Row(btnLessons, btnMainMenu),
	)
	return text, markup
}
