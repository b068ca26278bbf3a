package aggregates

import (
	"github.com/yungbote/coincollector-backend/internal/data/repos"
	types "github.com/yungbote/coincollector-backend/internal/domain"
	domainagg "github.com/yungbote/coincollector-backend/internal/domain/aggregates"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

type CoinStorage interface {
	// Save inserts coin; an existing id is reported as a conflict.
	Save(dbc dbctx.Context, coin *types.Coin) error
	// Insert is Save for cascading parents: an existing id is reported as
	// AlreadyExisted instead of an error.
	Insert(dbc dbctx.Context, coin *types.Coin) (domainagg.SaveOutcome, error)
	GetByID(dbc dbctx.Context, id string) (*types.Coin, error)
	Update(dbc dbctx.Context, coin *types.Coin) error
	Delete(dbc dbctx.Context, id string) error
	GetAll(dbc dbctx.Context) ([]*types.Coin, error)
	GetByCollectionIDs(dbc dbctx.Context, collectionIDs []string) ([]*types.Coin, error)
	DeleteByCollectionID(dbc dbctx.Context, collectionID string) error
}

type coinStorage struct {
	deps BaseDeps
	repo repos.CoinRepo
	log  *logger.Logger
}

func NewCoinStorage(deps BaseDeps, repo repos.CoinRepo) CoinStorage {
	deps = deps.withDefaults()
	return &coinStorage{deps: deps, repo: repo, log: deps.Log.With("service", "CoinStorage")}
}

func (s *coinStorage) Save(dbc dbctx.Context, coin *types.Coin) error {
	const op = "coin.save"
	if err := validateCoin(coin, op); err != nil {
		return err
	}
	u := unit{op: op, entity: domainagg.EntityCoin, id: coin.ID, fail: domainagg.CodeSaveFailed}
	return inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		outcome, err := s.insert(dbc, coin)
		if err != nil {
			return err
		}
		if outcome == domainagg.AlreadyExisted {
			return domainagg.EntityError(domainagg.CodeConflict, domainagg.EntityCoin, coin.ID, op, ConflictError("coin already exists"))
		}
		return nil
	})
}

func (s *coinStorage) Insert(dbc dbctx.Context, coin *types.Coin) (domainagg.SaveOutcome, error) {
	const op = "coin.insert"
	if err := validateCoin(coin, op); err != nil {
		return domainagg.OutcomeUnknown, err
	}
	outcome := domainagg.OutcomeUnknown
	u := unit{op: op, entity: domainagg.EntityCoin, id: coin.ID, fail: domainagg.CodeSaveFailed}
	err := inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		var err error
		outcome, err = s.insert(dbc, coin)
		return err
	})
	if err != nil {
		return domainagg.OutcomeUnknown, err
	}
	return outcome, nil
}

func (s *coinStorage) insert(dbc dbctx.Context, coin *types.Coin) (domainagg.SaveOutcome, error) {
	exists, err := s.repo.Exists(dbc, coin.ID)
	if err != nil {
		return domainagg.OutcomeUnknown, err
	}
	if exists {
		return domainagg.AlreadyExisted, nil
	}
	err = withSavepoint(dbc, func(dbc dbctx.Context) error {
		return s.repo.Create(dbc, coin)
	})
	if isUniqueViolation(err) {
		s.log.Debug("Coin inserted concurrently", "coin_id", coin.ID)
		return domainagg.AlreadyExisted, nil
	}
	if err != nil {
		return domainagg.OutcomeUnknown, err
	}
	return domainagg.Inserted, nil
}

// GetByID reports both an absent row and a failed read as NotFound.
func (s *coinStorage) GetByID(dbc dbctx.Context, id string) (*types.Coin, error) {
	const op = "coin.get_by_id"
	var out *types.Coin
	u := unit{op: op, entity: domainagg.EntityCoin, id: id, fail: domainagg.CodeNotFound}
	err := inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		coin, err := s.repo.Read(dbc, id)
		if err != nil {
			return domainagg.EntityError(domainagg.CodeNotFound, domainagg.EntityCoin, id, op, err)
		}
		if coin == nil {
			return domainagg.EntityError(domainagg.CodeNotFound, domainagg.EntityCoin, id, op, nil)
		}
		out = coin
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *coinStorage) Update(dbc dbctx.Context, coin *types.Coin) error {
	const op = "coin.update"
	if err := validateCoin(coin, op); err != nil {
		return err
	}
	u := unit{op: op, entity: domainagg.EntityCoin, id: coin.ID, fail: domainagg.CodeUpdateFailed}
	return inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		return s.repo.Update(dbc, coin)
	})
}

func (s *coinStorage) Delete(dbc dbctx.Context, id string) error {
	u := unit{op: "coin.delete", entity: domainagg.EntityCoin, id: id, fail: domainagg.CodeDeleteFailed}
	return inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		return s.repo.Delete(dbc, id)
	})
}

func (s *coinStorage) GetAll(dbc dbctx.Context) ([]*types.Coin, error) {
	var out []*types.Coin
	u := unit{op: "coin.get_all", entity: domainagg.EntityCoin, fail: domainagg.CodeGetAllFailed}
	err := inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		coins, err := s.repo.GetAll(dbc)
		out = coins
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *coinStorage) GetByCollectionIDs(dbc dbctx.Context, collectionIDs []string) ([]*types.Coin, error) {
	var out []*types.Coin
	u := unit{op: "coin.get_by_collections", entity: domainagg.EntityCoin, fail: domainagg.CodeGetAllFailed}
	err := inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		coins, err := s.repo.GetByCollectionIDs(dbc, collectionIDs)
		out = coins
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *coinStorage) DeleteByCollectionID(dbc dbctx.Context, collectionID string) error {
	u := unit{op: "coin.delete_by_collection", entity: domainagg.EntityCollection, id: collectionID, fail: domainagg.CodeDeleteFailed}
	return inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		n, err := s.repo.DeleteByCollectionID(dbc, collectionID)
		if err == nil {
			s.log.Debug("Deleted coins of collection", "collection_id", collectionID, "count", n)
		}
		return err
	})
}

func validateCoin(coin *types.Coin, op string) error {
	if coin == nil {
		return invalid(domainagg.EntityCoin, "", op, ValidationError("coin is nil"))
	}
	if err := coin.Validate(); err != nil {
		return invalid(domainagg.EntityCoin, coin.ID, op, err)
	}
	return nil
}
