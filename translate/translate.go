// Package translate formats user visible messages for the user's locale.
package translate

import (
	"sync"

	"github.com/jeandeaual/go-locale"
	"github.com/sirupsen/logrus"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	lock     sync.RWMutex
	printer  *message.Printer
	selected language.Tag
)

func init() {
	SetLanguage()
}

// SetLanguage selects the message language from a list of BCP 47 tags.
// With no tags, the locales of the current user are used, falling back
// to en-US.
func SetLanguage(tags ...string) {
	if len(tags) == 0 {
		locales, err := locale.GetLocales()
		if err != nil {
			logrus.Warnf("translate: locale: %v", err)
		}
		tags = locales
	}

	if len(tags) == 0 {
		tags = []string{"en-US"}
	}

	lock.Lock()
	defer lock.Unlock()

	selected = message.MatchLanguage(tags...)
	printer = message.NewPrinter(selected)
}

// Language returns the tag of the selected message language.
func Language() language.Tag {
	lock.RLock()
	defer lock.RUnlock()

	return selected
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	lock.RLock()
	defer lock.RUnlock()

	return printer.Sprintf(key, args...)
}
