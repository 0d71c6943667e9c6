// Package persistauth provides persistent-login (remember-me) tokens with
// hashed-at-rest storage, CSRF protection, and the symmetric crypto helpers
// both are built on. Packages ship fx providers so a host application can
// assemble only what it needs.
package persistauth

import (
	"github.com/tech-arch1tect/persistauth/config"
	"github.com/tech-arch1tect/persistauth/database"
	"github.com/tech-arch1tect/persistauth/services/logging"
	"github.com/tech-arch1tect/persistauth/services/rememberme"
	"github.com/tech-arch1tect/persistauth/session"
	"go.uber.org/fx"
)

// Module wires the full stack: config, logging, database, sessions and the
// remember-me service. Hosts that bring their own database or sessions can
// compose the per-package modules instead.
func Module(cfg *config.Config) fx.Option {
	return fx.Options(
		config.NewProvider(cfg),
		logging.Module,
		fx.Supply(database.WithModels(rememberme.Models()...)),
		database.Module,
		fx.Provide(func() *session.Options { return nil }),
		session.Module,
		rememberme.Module,
	)
}
