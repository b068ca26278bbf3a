package aggregates

import (
	"github.com/yungbote/coincollector-backend/internal/data/repos"
	types "github.com/yungbote/coincollector-backend/internal/domain"
	domainagg "github.com/yungbote/coincollector-backend/internal/domain/aggregates"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

type UserStorage interface {
	// Save inserts user; a taken id or username is reported as a conflict.
	Save(dbc dbctx.Context, user *types.User) error
	GetByID(dbc dbctx.Context, id string) (*types.User, error)
	GetByUsername(dbc dbctx.Context, username string) (*types.User, error)
	Update(dbc dbctx.Context, user *types.User) error
	Delete(dbc dbctx.Context, id string) error
}

type userStorage struct {
	deps BaseDeps
	repo repos.UserRepo
	log  *logger.Logger
}

func NewUserStorage(deps BaseDeps, repo repos.UserRepo) UserStorage {
	deps = deps.withDefaults()
	return &userStorage{deps: deps, repo: repo, log: deps.Log.With("service", "UserStorage")}
}

func (s *userStorage) Save(dbc dbctx.Context, user *types.User) error {
	const op = "user.save"
	if err := validateUser(user, op); err != nil {
		return err
	}
	u := unit{op: op, entity: domainagg.EntityUser, id: user.ID, fail: domainagg.CodeSaveFailed}
	return inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		exists, err := s.repo.Exists(dbc, user.ID)
		if err != nil {
			return err
		}
		if !exists {
			exists, err = s.repo.UsernameExists(dbc, user.Username)
			if err != nil {
				return err
			}
		}
		if !exists {
			err = withSavepoint(dbc, func(dbc dbctx.Context) error {
				return s.repo.Create(dbc, user)
			})
			exists = isUniqueViolation(err)
		}
		if exists {
			return domainagg.EntityError(domainagg.CodeConflict, domainagg.EntityUser, user.ID, op, ConflictError("user already exists"))
		}
		return err
	})
}

func (s *userStorage) GetByID(dbc dbctx.Context, id string) (*types.User, error) {
	return s.get(dbc, "user.get_by_id", id, func(dbc dbctx.Context) (*types.User, error) {
		return s.repo.Read(dbc, id)
	})
}

func (s *userStorage) GetByUsername(dbc dbctx.Context, username string) (*types.User, error) {
	return s.get(dbc, "user.get_by_username", username, func(dbc dbctx.Context) (*types.User, error) {
		return s.repo.GetByUsername(dbc, username)
	})
}

// get reports both an absent row and a failed read as NotFound.
func (s *userStorage) get(dbc dbctx.Context, op, key string, read func(dbc dbctx.Context) (*types.User, error)) (*types.User, error) {
	var out *types.User
	u := unit{op: op, entity: domainagg.EntityUser, id: key, fail: domainagg.CodeNotFound}
	err := inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		user, err := read(dbc)
		if err != nil || user == nil {
			return domainagg.EntityError(domainagg.CodeNotFound, domainagg.EntityUser, key, op, err)
		}
		out = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *userStorage) Update(dbc dbctx.Context, user *types.User) error {
	const op = "user.update"
	if err := validateUser(user, op); err != nil {
		return err
	}
	u := unit{op: op, entity: domainagg.EntityUser, id: user.ID, fail: domainagg.CodeUpdateFailed}
	return inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		return s.repo.Update(dbc, user)
	})
}

func (s *userStorage) Delete(dbc dbctx.Context, id string) error {
	u := unit{op: "user.delete", entity: domainagg.EntityUser, id: id, fail: domainagg.CodeDeleteFailed}
	return inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		return s.repo.Delete(dbc, id)
	})
}

func validateUser(user *types.User, op string) error {
	if user == nil {
		return invalid(domainagg.EntityUser, "", op, ValidationError("user is nil"))
	}
	if err := user.Validate(); err != nil {
		return invalid(domainagg.EntityUser, user.ID, op, err)
	}
	return nil
}
