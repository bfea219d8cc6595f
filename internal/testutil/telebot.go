package testutil

import (
	tele "gopkg.in/telebot.v3"
)

// Output is one message a handler sent or edited
type Output struct {
	Text   string
	Markup *tele.ReplyMarkup
	Edit   bool
}

// FakeContext is a telebot context recording what handlers send.
// Methods it does not override panic through the nil embedded Context.
type FakeContext struct {
	tele.Context

	User      *tele.User
	Msg       *tele.Message
	Cb        *tele.Callback
	Outputs   []Output
	Responses []*tele.CallbackResponse
	EditErr   error
}

// NewTextContext creates a context for a text message from userID
func NewTextContext(userID int64, text string) *FakeContext {
	user := &tele.User{ID: userID}
	return &FakeContext{
		User: user,
		Msg:  &tele.Message{ID: 1, Sender: user, Text: text},
	}
}

// NewCallbackContext creates a context for an inline button press from userID
func NewCallbackContext(userID int64, unique, data string) *FakeContext {
	user := &tele.User{ID: userID}
	msg := &tele.Message{ID: 42, Sender: user}
	return &FakeContext{
		User: user,
		Msg:  msg,
		Cb:   &tele.Callback{ID: "cb", Sender: user, Message: msg, Unique: unique, Data: data},
	}
}

func (c *FakeContext) Sender() *tele.User        { return c.User }
func (c *FakeContext) Message() *tele.Message    { return c.Msg }
func (c *FakeContext) Callback() *tele.Callback  { return c.Cb }
func (c *FakeContext) Recipient() tele.Recipient { return c.User }

func (c *FakeContext) Text() string {
	if c.Msg == nil {
		return ""
	}
	return c.Msg.Text
}

func (c *FakeContext) Send(what interface{}, opts ...interface{}) error {
	c.record(what, opts, false)
	return nil
}

func (c *FakeContext) Edit(what interface{}, opts ...interface{}) error {
	if c.EditErr != nil {
		return c.EditErr
	}
	c.record(what, opts, true)
	return nil
}

func (c *FakeContext) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) == 0 {
		c.Responses = append(c.Responses, nil)
		return nil
	}
	c.Responses = append(c.Responses, resp...)
	return nil
}

// Last returns the last sent or edited message
func (c *FakeContext) Last() Output {
	if len(c.Outputs) == 0 {
		return Output{}
	}
	return c.Outputs[len(c.Outputs)-1]
}

// ButtonUniques lists the callback unique of every inline button of a markup
func ButtonUniques(m *tele.ReplyMarkup) []string {
	if m == nil {
		return nil
	}
	var uniques []string
	for _, row := range m.InlineKeyboard {
		for _, btn := range row {
			uniques = append(uniques, btn.Unique)
		}
	}
	return uniques
}

// ButtonTexts lists the text of every inline button of a markup
func ButtonTexts(m *tele.ReplyMarkup) []string {
	if m == nil {
		return nil
	}
	var texts []string
	for _, row := range m.InlineKeyboard {
		for _, btn := range row {
			texts = append(texts, btn.Text)
		}
	}
	return texts
}

func (c *FakeContext) record(what interface{}, opts []interface{}, edit bool) {
	text, _ := what.(string)
	out := Output{Text: text, Edit: edit}
	for _, o := range opts {
		if m, ok := o.(*tele.ReplyMarkup); ok {
			out.Markup = m
		}
	}
	c.Outputs = append(c.Outputs, out)
}
