package responder

import "jamp-chat/internal/msgcat"

// Template answers from fixed acknowledgement pools without looking at the question.
type Template struct {
	renderer
}

func NewTemplate(cat *msgcat.Catalog, names Names, picker Picker) *Template {
	return &Template{renderer{cat: cat, names: names, picker: picker}}
}

func (t *Template) Directed(sender, question string) (string, bool) {
	if question == "" {
		return t.pick("responder.usage", t.vars(sender)), false
	}
	return t.pick("responder.directed", t.vars(sender)), true
}

func (t *Template) Mentioned(sender, _ string) string {
	return t.pick("responder.mention", t.vars(sender))
}

func (t *Template) Greeting(sender string) string {
	return t.pick("responder.greeting", t.vars(sender))
}
