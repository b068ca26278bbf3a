package aggregates

import (
	"strings"

	"github.com/yungbote/coincollector-backend/internal/data/repos"
	types "github.com/yungbote/coincollector-backend/internal/domain"
	domainagg "github.com/yungbote/coincollector-backend/internal/domain/aggregates"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

type CollectionStorage interface {
	// Save inserts the collection and upserts its coins in one unit of work.
	// An existing collection id is reported as a conflict and no coin is touched.
	Save(dbc dbctx.Context, collection *types.Collection) error
	// Insert is Save for cascading parents: an existing id is reported as
	// AlreadyExisted instead of an error.
	Insert(dbc dbctx.Context, collection *types.Collection) (domainagg.SaveOutcome, error)
	GetByID(dbc dbctx.Context, id string) (*types.Collection, error)
	// UpdateMetadata writes name and group id; coins are saved independently.
	UpdateMetadata(dbc dbctx.Context, collection *types.Collection) error
	// Delete removes the collection row only.
	Delete(dbc dbctx.Context, id string) error
	// DeleteCascade removes the collection and all of its coins.
	DeleteCascade(dbc dbctx.Context, id string) error
	GetAll(dbc dbctx.Context) ([]*types.Collection, error)
	GetByGroupIDs(dbc dbctx.Context, groupIDs []string) ([]*types.Collection, error)
	// DeleteByGroupID cascades DeleteCascade over every collection of a group.
	DeleteByGroupID(dbc dbctx.Context, groupID string) error
}

type collectionStorage struct {
	deps  BaseDeps
	repo  repos.CollectionRepo
	coins CoinStorage
	log   *logger.Logger
}

func NewCollectionStorage(deps BaseDeps, repo repos.CollectionRepo, coins CoinStorage) CollectionStorage {
	deps = deps.withDefaults()
	return &collectionStorage{
		deps:  deps,
		repo:  repo,
		coins: coins,
		log:   deps.Log.With("service", "CollectionStorage"),
	}
}

func (s *collectionStorage) Save(dbc dbctx.Context, collection *types.Collection) error {
	const op = "collection.save"
	if err := validateCollection(collection, op); err != nil {
		return err
	}
	u := unit{op: op, entity: domainagg.EntityCollection, id: collection.ID, fail: domainagg.CodeSaveFailed}
	return inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		outcome, err := s.insert(dbc, collection, op)
		if err != nil {
			return err
		}
		if outcome == domainagg.AlreadyExisted {
			return domainagg.EntityError(domainagg.CodeConflict, domainagg.EntityCollection, collection.ID, op, ConflictError("collection already exists"))
		}
		return nil
	})
}

func (s *collectionStorage) Insert(dbc dbctx.Context, collection *types.Collection) (domainagg.SaveOutcome, error) {
	const op = "collection.insert"
	if err := validateCollection(collection, op); err != nil {
		return domainagg.OutcomeUnknown, err
	}
	outcome := domainagg.OutcomeUnknown
	u := unit{op: op, entity: domainagg.EntityCollection, id: collection.ID, fail: domainagg.CodeSaveFailed}
	err := inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		var err error
		outcome, err = s.insert(dbc, collection, op)
		return err
	})
	if err != nil {
		return domainagg.OutcomeUnknown, err
	}
	return outcome, nil
}

func (s *collectionStorage) insert(dbc dbctx.Context, collection *types.Collection, op string) (domainagg.SaveOutcome, error) {
	exists, err := s.repo.Exists(dbc, collection.ID)
	if err != nil {
		return domainagg.OutcomeUnknown, err
	}
	if exists {
		return domainagg.AlreadyExisted, nil
	}
	err = withSavepoint(dbc, func(dbc dbctx.Context) error {
		return s.repo.Create(dbc, collection)
	})
	if isUniqueViolation(err) {
		return domainagg.AlreadyExisted, nil
	}
	if err != nil {
		return domainagg.OutcomeUnknown, err
	}

	for _, coin := range collection.Coins {
		outcome, err := s.coins.Insert(dbc, coin)
		if err == nil && outcome == domainagg.AlreadyExisted {
			err = s.coins.Update(dbc, coin)
		}
		if err != nil {
			return domainagg.OutcomeUnknown, domainagg.EntityError(domainagg.CodeSaveFailed, domainagg.EntityCollection, collection.ID, op, err)
		}
	}
	return domainagg.Inserted, nil
}

func (s *collectionStorage) GetByID(dbc dbctx.Context, id string) (*types.Collection, error) {
	const op = "collection.get_by_id"
	var out *types.Collection
	u := unit{op: op, entity: domainagg.EntityCollection, id: id, fail: domainagg.CodeGetByIDFailed}
	err := inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		collection, err := s.repo.Read(dbc, id)
		if err != nil {
			return err
		}
		if collection == nil {
			return domainagg.EntityError(domainagg.CodeNotFound, domainagg.EntityCollection, id, op, nil)
		}
		coins, err := s.coins.GetByCollectionIDs(dbc, []string{id})
		if err != nil {
			return domainagg.EntityError(domainagg.CodeCoinsLoadFailed, domainagg.EntityCollection, id, op, err)
		}
		attachCoins([]*types.Collection{collection}, coins, s.log)
		out = collection
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *collectionStorage) UpdateMetadata(dbc dbctx.Context, collection *types.Collection) error {
	const op = "collection.update_metadata"
	if collection == nil {
		return domainagg.EntityError(domainagg.CodeUpdateFailed, domainagg.EntityCollection, "", op, ValidationError("collection is nil"))
	}
	if err := validateCollectionMetadata(collection); err != nil {
		return invalid(domainagg.EntityCollection, collection.ID, op, err)
	}
	u := unit{op: op, entity: domainagg.EntityCollection, id: collection.ID, fail: domainagg.CodeUpdateFailed}
	return inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		return s.repo.UpdateMetadata(dbc, collection)
	})
}

func (s *collectionStorage) Delete(dbc dbctx.Context, id string) error {
	u := unit{op: "collection.delete", entity: domainagg.EntityCollection, id: id, fail: domainagg.CodeDeleteFailed}
	return inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		return s.repo.Delete(dbc, id)
	})
}

func (s *collectionStorage) DeleteCascade(dbc dbctx.Context, id string) error {
	const op = "collection.delete_cascade"
	u := unit{op: op, entity: domainagg.EntityCollection, id: id, fail: domainagg.CodeDeleteFailed}
	return inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		return s.deleteCascade(dbc, id, op)
	})
}

func (s *collectionStorage) deleteCascade(dbc dbctx.Context, id, op string) error {
	if err := s.coins.DeleteByCollectionID(dbc, id); err != nil {
		return domainagg.EntityError(domainagg.CodeDeleteFailed, domainagg.EntityCollection, id, op, err)
	}
	return s.repo.Delete(dbc, id)
}

func (s *collectionStorage) DeleteByGroupID(dbc dbctx.Context, groupID string) error {
	const op = "collection.delete_by_group"
	u := unit{op: op, entity: domainagg.EntityGroup, id: groupID, fail: domainagg.CodeDeleteFailed}
	return inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		collections, err := s.repo.GetByGroupIDs(dbc, []string{groupID})
		if err != nil {
			return err
		}
		for _, c := range collections {
			if err := s.deleteCascade(dbc, c.ID, op); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetAll loads every collection, then every coin once, attaching coins by
// collection id. Coins of unknown collections are skipped.
func (s *collectionStorage) GetAll(dbc dbctx.Context) ([]*types.Collection, error) {
	const op = "collection.get_all"
	var out []*types.Collection
	u := unit{op: op, entity: domainagg.EntityCollection, fail: domainagg.CodeGetAllFailed}
	err := inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		collections, err := s.repo.GetAll(dbc)
		if err != nil {
			return err
		}
		coins, err := s.coins.GetAll(dbc)
		if err != nil {
			return domainagg.EntityError(domainagg.CodeGetAllFailed, domainagg.EntityCollection, "", op, err)
		}
		attachCoins(collections, coins, s.log)
		out = collections
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *collectionStorage) GetByGroupIDs(dbc dbctx.Context, groupIDs []string) ([]*types.Collection, error) {
	const op = "collection.get_by_groups"
	var out []*types.Collection
	u := unit{op: op, entity: domainagg.EntityCollection, fail: domainagg.CodeGetAllFailed}
	err := inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		collections, err := s.repo.GetByGroupIDs(dbc, groupIDs)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(collections))
		for _, c := range collections {
			ids = append(ids, c.ID)
		}
		coins, err := s.coins.GetByCollectionIDs(dbc, ids)
		if err != nil {
			return domainagg.EntityError(domainagg.CodeCoinsLoadFailed, domainagg.EntityCollection, "", op, err)
		}
		attachCoins(collections, coins, s.log)
		out = collections
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func attachCoins(collections []*types.Collection, coins []*types.Coin, log *logger.Logger) {
	byID := make(map[string]*types.Collection, len(collections))
	for _, c := range collections {
		if c.Coins == nil {
			c.Coins = []*types.Coin{}
		}
		byID[c.ID] = c
	}
	for _, coin := range coins {
		c, ok := byID[coin.CollectionID]
		if !ok {
			log.Debug("Skipping coin of unknown collection", "coin_id", coin.ID, "collection_id", coin.CollectionID)
			continue
		}
		c.Coins = append(c.Coins, coin)
	}
}

func validateCollection(collection *types.Collection, op string) error {
	if collection == nil {
		return invalid(domainagg.EntityCollection, "", op, ValidationError("collection is nil"))
	}
	if err := collection.Validate(); err != nil {
		return invalid(domainagg.EntityCollection, collection.ID, op, err)
	}
	return nil
}

func validateCollectionMetadata(collection *types.Collection) error {
	switch {
	case strings.TrimSpace(collection.ID) == "":
		return ValidationError("collection id is blank")
	case strings.TrimSpace(collection.Name) == "":
		return ValidationError("collection name is blank")
	case strings.TrimSpace(collection.GroupID) == "":
		return ValidationError("collection group id is blank")
	}
	return nil
}
