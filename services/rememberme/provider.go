package rememberme

import (
	"github.com/tech-arch1tect/persistauth/config"
	"github.com/tech-arch1tect/persistauth/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type ServiceParams struct {
	fx.In

	Config *config.Config
	Store  TokenStore
	Users  UserProvider     `optional:"true"`
	Logger *logging.Service `optional:"true"`
}

func ProvideTokenStore(db *gorm.DB) TokenStore {
	return NewGormStore(db)
}

func ProvideService(p ServiceParams) *Service {
	return NewService(&p.Config.RememberMe, p.Store, p.Users, p.Logger)
}

var Module = fx.Options(
	fx.Provide(ProvideTokenStore),
	fx.Provide(ProvideService),
)
