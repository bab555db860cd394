package chat

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var (
	builder = catalog.NewBuilder()
	printer = message.NewPrinter(language.AmericanEnglish, message.Catalog(builder))
)

// Translation is a message registered under a translation key. Messages are
// registered once at package init time and resolved when sent to a user.
type Translation struct {
	key string
}

// Register registers a message under the key passed and returns a Translation
// that resolves to it. Register panics if the message cannot be stored, which
// only happens for malformed format strings.
func Register(key, msg string) Translation {
	if err := builder.SetString(language.AmericanEnglish, key, msg); err != nil {
		panic("chat: register " + key + ": " + err.Error())
	}
	return Translation{key: key}
}

// Resolve formats the translation with the arguments passed.
func (t Translation) Resolve(a ...any) string {
	return printer.Sprintf(t.key, a...)
}

// Money formats a currency amount with digit grouping, so 1234567 renders as
// "1,234,567".
func Money(n int64) string {
	return printer.Sprintf("%d", n)
}
