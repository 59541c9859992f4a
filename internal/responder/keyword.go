package responder

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"jamp-chat/internal/msgcat"
)

type Category string

const (
	CategoryGreeting Category = "greeting"
	CategoryFarewell Category = "farewell"
	CategoryThanks   Category = "thanks"
	CategoryWeather  Category = "weather"
	CategoryTime     Category = "time"
	CategoryIdentity Category = "identity"
	CategoryHelp     Category = "help"
	CategoryMovie    Category = "movie"
	CategoryChitchat Category = "chitchat"
	CategoryQuestion Category = "question"
	CategoryFallback Category = "fallback"
)

type rule struct {
	category Category
	keywords []string
}

// rules are checked in order; the first category with a matching keyword wins.
var rules = []rule{
	{CategoryGreeting, []string{"你好", "您好", "嗨", "哈喽", "早上好", "晚上好", "hello"}},
	{CategoryFarewell, []string{"再见", "拜拜", "晚安", "回头见", "bye"}},
	{CategoryThanks, []string{"谢谢", "感谢", "多谢", "thank"}},
	{CategoryWeather, []string{"天气", "下雨", "温度", "晴天", "weather"}},
	{CategoryTime, []string{"几点", "时间", "日期", "星期几", "几号", "time"}},
	{CategoryIdentity, []string{"你是谁", "你叫什么", "名字", "介绍一下你", "who are you"}},
	{CategoryHelp, []string{"帮助", "怎么用", "功能", "help"}},
	{CategoryMovie, []string{"电影", "看片", "影视", "movie"}},
	{CategoryChitchat, []string{"无聊", "哈哈", "聊天", "心情", "开心"}},
}

var weekdays = [...]string{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"}

// Classify maps free text to a reply category.
func Classify(text string) Category {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, r := range rules {
		if lo.SomeBy(r.keywords, func(k string) bool { return strings.Contains(t, k) }) {
			return r.category
		}
	}
	if strings.HasSuffix(t, "?") || strings.HasSuffix(t, "？") {
		return CategoryQuestion
	}
	return CategoryFallback
}

// FormatNow renders t as 2006年01月02日 星期X 15:04:05.
func FormatNow(t time.Time) string {
	return t.Format("2006年01月02日 ") + weekdays[t.Weekday()] + t.Format(" 15:04:05")
}

// Keyword classifies what was said and answers from the matching pool.
type Keyword struct {
	renderer
	clock   func() time.Time
	context *Context
}

func NewKeyword(cat *msgcat.Catalog, names Names, picker Picker, clock func() time.Time) *Keyword {
	if clock == nil {
		clock = time.Now
	}
	return &Keyword{
		renderer: renderer{cat: cat, names: names, picker: picker},
		clock:    clock,
		context:  NewContext(DefaultHistoryLimit),
	}
}

// Context exposes the per-sender memory.
func (k *Keyword) Context() *Context {
	return k.context
}

// Forget drops what was remembered about sender.
func (k *Keyword) Forget(sender string) {
	k.context.Forget(sender)
}

func (k *Keyword) Directed(sender, question string) (string, bool) {
	if question == "" {
		return k.pick("responder.usage", k.vars(sender)), false
	}
	return k.Answer(sender, question), true
}

func (k *Keyword) Mentioned(sender, text string) string {
	return k.Answer(sender, k.stripBotMention(text))
}

func (k *Keyword) Greeting(sender string) string {
	return k.pick("responder.greeting", k.vars(sender))
}

// Answer replies to question and records the exchange.
func (k *Keyword) Answer(sender, question string) string {
	v := k.vars(sender)
	cat := Classify(question)
	if cat == CategoryTime {
		v.Now = FormatNow(k.clock())
	}
	answer := k.pick("keyword."+string(cat), v)
	k.context.Add(sender, question, answer)
	return answer
}

func (k *Keyword) stripBotMention(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "@"+k.names.Bot, ""))
}
