package app

import (
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
	"github.com/yungbote/coincollector-backend/internal/services"
)

type Services struct {
	Auth    services.AuthService
	Authz   services.Authorizer
	Library services.LibraryService
}

func wireServices(cfg Config, log *logger.Logger, st Storage, sessions services.SessionStore) Services {
	log.Info("Wiring services...")
	authz := services.NewAuthorizer(log, st.Groups, st.Collections, st.Coins)
	return Services{
		Auth:    services.NewAuthService(log, st.Users, sessions, cfg.SessionSecret, cfg.SessionTTL),
		Authz:   authz,
		Library: services.NewLibraryService(log, st.Runner, authz, st.Groups, st.Collections, st.Coins),
	}
}
