// Package core holds the application context shared by every view: the
// signed-in user, the display language and the session epoch.
package core

import (
	"sync"

	"edupath/internal/i18n"
	"edupath/internal/models"
	"edupath/internal/utils"
)

// AppContext is the single owner of process-wide UI state. Views receive it
// as a parameter and only change it through its setters.
type AppContext struct {
	mu      sync.RWMutex
	lang    models.Language
	user    *models.UserIdentity
	epoch   uint64
	catalog *i18n.Catalog
}

// New starts anonymous, in English.
func New(catalog *i18n.Catalog) *AppContext {
	if catalog == nil {
		catalog = i18n.Default()
	}
	return &AppContext{lang: models.DefaultLanguage, catalog: catalog}
}

func (a *AppContext) Language() models.Language {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lang
}

// SetLanguage switches the display language. It never touches the network
// or the session.
func (a *AppContext) SetLanguage(lang models.Language) error {
	if !lang.Valid() {
		return utils.ErrUnsupportedLanguage
	}
	a.mu.Lock()
	a.lang = lang
	a.mu.Unlock()
	return nil
}

// User returns a copy of the signed-in identity.
func (a *AppContext) User() (models.UserIdentity, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return models.UserIdentity{}, false
	}
	return *a.user, true
}

// Role is empty when nobody is signed in.
func (a *AppContext) Role() models.Role {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return ""
	}
	return a.user.Role
}

func (a *AppContext) SignedIn() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user != nil
}

// T translates key in the language active at call time.
func (a *AppContext) T(key string) string {
	return a.catalog.Lookup(a.Language(), key)
}

// Epoch identifies the current session. It changes on every SignIn and
// SignOut; work started under an older epoch must not be applied.
func (a *AppContext) Epoch() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.epoch
}

// Current reports whether epoch is still the live session.
func (a *AppContext) Current(epoch uint64) bool {
	return a.Epoch() == epoch
}

// SignIn replaces the identity and adopts its preferred language. It returns
// the new epoch.
func (a *AppContext) SignIn(user models.UserIdentity) uint64 {
	lang := user.PreferredLanguage
	if !lang.Valid() {
		lang = models.DefaultLanguage
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = &user
	a.lang = lang
	a.epoch++
	return a.epoch
}

// SignOut clears the identity and keeps the language.
func (a *AppContext) SignOut() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = nil
	a.epoch++
	return a.epoch
}
