package handler

import (
	"testing"
	"time"

	"drillbot/internal/domain"
	"drillbot/internal/session"
	"drillbot/internal/testutil"

	"github.com/stretchr/testify/assert"
)

var renderNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func sentence(course *domain.Course, id string) domain.Translation {
	t, _ := course.Sentence(id)
	return t
}

func TestParseCourseData(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected string
		ok       bool
	}{
		{name: "valid", data: "course_eng:deu", expected: "eng to deu", ok: true},
		{name: "missing separator", data: "course_engdeu"},
		{name: "missing target", data: "course_eng:"},
		{name: "empty", data: "course_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := parseCourseData(tt.data)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, key)
		})
	}

	meta := domain.CourseMeta{From: "eng", To: "deu"}
	key, ok := parseCourseData(courseData(meta))
	assert.True(t, ok)
	assert.Equal(t, meta.Key(), key)
}

func TestParseIndex(t *testing.T) {
	n, ok := parseIndex("opt_2", prefixOption)
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = parseIndex("opt_x", prefixOption)
	assert.False(t, ok)

	_, ok = parseIndex("opt_-1", prefixOption)
	assert.False(t, ok)
}

func TestExerciseView_Pick(t *testing.T) {
	course := testutil.NewTestCourse()
	sess := session.New(course.Key(), domain.Selection{Kind: domain.SelectAll}, []string{"d1", "d2"}, renderNow)
	sess.Current = &session.Exercise{
		ID:       "d1",
		Question: sentence(course, "e1"),
		Correct:  sentence(course, "d1"),
		Accepted: []string{"Hallo.", "Servus."},
		Mode:     session.ModePick,
		Options:  []domain.Translation{sentence(course, "d2"), sentence(course, "d1"), sentence(course, "d3")},
	}

	text, markup := exerciseView(sess, 0)

	assert.Equal(t, "📝 1/2\n\nПереведи:\nHello.\n", text)
	assert.Equal(t, []string{"opt_0", "opt_1", "opt_2", "skip", "abort"}, testutil.ButtonUniques(markup))
	assert.Equal(t, "Hallo.", testutil.ButtonTexts(markup)[1])
}

func TestExerciseView_Type(t *testing.T) {
	course := testutil.NewTestCourse()
	sess := session.New(course.Key(), domain.Selection{Kind: domain.SelectAll}, []string{"d2"}, renderNow)
	sess.Current = &session.Exercise{
		ID:          "d2",
		Question:    sentence(course, "e2"),
		Correct:     sentence(course, "d2"),
		Accepted:    []string{"Tom ist hier."},
		Mode:        session.ModeType,
		Suggestions: []string{"hier", "Tom", ".", "ist"},
	}

	text, markup := exerciseView(sess, 0)
	assert.Contains(t, text, "Tom is here.")
	assert.Contains(t, text, "✏️ …")
	assert.Equal(t,
		[]string{"sug_0", "sug_1", "sug_2", "sug_3", "clear", "confirm", "skip", "abort"},
		testutil.ButtonUniques(markup),
	)
	assert.Len(t, markup.InlineKeyboard[0], suggestionsPerRow)
	assert.Len(t, markup.InlineKeyboard[1], 1)

	sess.Answer = "Tom ist"
	text, _ = exerciseView(sess, 0)
	assert.Contains(t, text, "✏️ Tom ist")
}

func TestExerciseView_Feedback(t *testing.T) {
	course := testutil.NewTestCourse()
	newSession := func() *session.Session {
		sess := session.New(course.Key(), domain.Selection{Kind: domain.SelectAll}, []string{"d1"}, renderNow)
		sess.Current = &session.Exercise{
			ID:       "d1",
			Question: sentence(course, "e1"),
			Correct:  sentence(course, "d1"),
			Mode:     session.ModePick,
			Options:  []domain.Translation{sentence(course, "d1")},
		}
		return sess
	}

	t.Run("solved with countdown", func(t *testing.T) {
		sess := newSession()
		sess.Answer = "Hallo."
		sess.Solved = true

		text, markup := exerciseView(sess, 1500*time.Millisecond)

		assert.Contains(t, text, "✏️ Hallo.")
		assert.Contains(t, text, "✅ Верно! Дальше через 2 с")
		assert.Equal(t, []string{"confirm", "info_d1", "abort"}, testutil.ButtonUniques(markup))
	})

	t.Run("solved without countdown", func(t *testing.T) {
		sess := newSession()
		sess.Solved = true

		text, _ := exerciseView(sess, 0)

		assert.Contains(t, text, "✅ Верно!")
		assert.NotContains(t, text, "Дальше через")
	})

	t.Run("wrong answer shows the correct one", func(t *testing.T) {
		sess := newSession()
		sess.Answer = "Servus"
		sess.HintVisible = true

		text, markup := exerciseView(sess, 0)

		assert.Contains(t, text, "✏️ Servus")
		assert.Contains(t, text, "❌ Неверно. Правильный ответ:\nHallo.")
		assert.Equal(t, []string{"confirm", "info_d1", "abort"}, testutil.ButtonUniques(markup))
	})
}

func TestDefinitionView(t *testing.T) {
	course := testutil.NewTestCourse()
	course.Sentences["deu"][0].Source = "https://tatoeba.org/sentences/show/1"
	course.Sentences["deu"][0].Licence = "https://creativecommons.org/licenses/by/2.0/fr/"

	text, markup := definitionView(course, "d1")

	assert.Equal(t,
		"ℹ️ Hallo.\n"+
			"  tatoeba.org · ann · Attribution 2.0 France (CC BY 2.0 FR)\n"+
			"\nПереводы (eng):\n"+
			"• Hello.\n"+
			"  ann\n",
		text,
	)
	assert.Equal(t, []string{"hide_info"}, testutil.ButtonUniques(markup))

	text, _ = definitionView(course, "missing")
	assert.Equal(t, "Предложение не найдено", text)
}

func TestLessonsView(t *testing.T) {
	course := testutil.NewTestCourse()
	total := domain.Progress{Learned: 1, Wrong: 1, Unseen: 4}
	lessons := []domain.Progress{{Learned: 1, Unseen: 2}, {Unseen: 1}}

	text, markup := lessonsView(course, total, lessons)

	assert.Equal(t, "🎯 eng to deu\n\n✅ 1 · 🟡 0 · ❌ 1 · ⚪ 4", text)
	assert.Equal(t, []string{
		"sel_all", "sel_training", "sel_short", "sel_few_words", "sel_new",
		"sel_lesson:0", "sel_lesson:1", "main_menu",
	}, testutil.ButtonUniques(markup))

	texts := testutil.ButtonTexts(markup)
	assert.Equal(t, "1. Greetings (1/3)", texts[5])
	assert.Equal(t, "2. Essen (0/1)", texts[6])
}

func TestCoursesView(t *testing.T) {
	metas := []domain.CourseMeta{
		{From: "eng", To: "deu", Exercises: 6},
		{From: "eng", To: "fra", Exercises: 10},
	}

	text, markup := coursesView(metas, "eng to fra")

	assert.Equal(t, "📚 Выберите курс:", text)
	assert.Equal(t, []string{"course_eng:deu", "course_eng:fra", "main_menu"}, testutil.ButtonUniques(markup))
	assert.Equal(t, []string{"eng to deu (6)", "• eng to fra (10)", btnMainMenu.Text}, testutil.ButtonTexts(markup))

	text, _ = coursesView(nil, "")
	assert.Equal(t, "📚 Курсов пока нет", text)
}

func TestContributorsText(t *testing.T) {
	assert.Equal(t,
		"👥 Авторы предложений:\n\n1. ann (4)\n2. bob (1)\n3. cid (1)\n",
		contributorsText(testutil.NewTestCourse()),
	)

	empty := &domain.Course{From: "eng", To: "deu"}
	assert.Equal(t, "👥 У этого курса нет указанных авторов", contributorsText(empty))
}

func TestFinishedView(t *testing.T) {
	sel := domain.Selection{Kind: domain.SelectLesson, Lesson: 1}
	sess := session.New("eng to deu", sel, []string{"d3"}, renderNow)

	text, markup := finishedView(sess, domain.Progress{Somewhat: 1})

	assert.Equal(t, "🏁 Занятие завершено! Упражнений: 1\n\n✅ 0 · 🟡 1 · ❌ 0 · ⚪ 0", text)
	assert.Equal(t, []string{"sel_lesson:1", "lessons", "main_menu"}, testutil.ButtonUniques(markup))
}
