package aggregates

import (
	"strings"

	"github.com/yungbote/coincollector-backend/internal/data/repos"
	types "github.com/yungbote/coincollector-backend/internal/domain"
	domainagg "github.com/yungbote/coincollector-backend/internal/domain/aggregates"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

type GroupStorage interface {
	// Save upserts the group row (name only when it exists) and then its
	// collections: new ones are inserted with their coins, existing ones get
	// their metadata updated. Saving the same group twice is not an error.
	Save(dbc dbctx.Context, group *types.Group) (domainagg.SaveOutcome, error)
	GetByID(dbc dbctx.Context, id string) (*types.Group, error)
	// UpdateMetadata writes the name; the owner never changes.
	UpdateMetadata(dbc dbctx.Context, group *types.Group) error
	// Delete removes the group row only.
	Delete(dbc dbctx.Context, id string) error
	// DeleteCascade removes the group, its collections and their coins.
	DeleteCascade(dbc dbctx.Context, id string) error
	GetAllByUser(dbc dbctx.Context, userID string) ([]*types.Group, error)
}

type groupStorage struct {
	deps        BaseDeps
	repo        repos.GroupRepo
	collections CollectionStorage
	log         *logger.Logger
}

func NewGroupStorage(deps BaseDeps, repo repos.GroupRepo, collections CollectionStorage) GroupStorage {
	deps = deps.withDefaults()
	return &groupStorage{
		deps:        deps,
		repo:        repo,
		collections: collections,
		log:         deps.Log.With("service", "GroupStorage"),
	}
}

func (s *groupStorage) Save(dbc dbctx.Context, group *types.Group) (domainagg.SaveOutcome, error) {
	const op = "group.save"
	if group == nil {
		return domainagg.OutcomeUnknown, invalid(domainagg.EntityGroup, "", op, ValidationError("group is nil"))
	}
	if err := group.Validate(); err != nil {
		return domainagg.OutcomeUnknown, invalid(domainagg.EntityGroup, group.ID, op, err)
	}
	outcome := domainagg.OutcomeUnknown
	u := unit{op: op, entity: domainagg.EntityGroup, id: group.ID, fail: domainagg.CodeSaveFailed}
	err := inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		var err error
		outcome, err = s.upsertRoot(dbc, group, op)
		if err != nil {
			return err
		}
		for _, c := range group.Collections {
			if err := s.saveCollection(dbc, group, c, op); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domainagg.OutcomeUnknown, err
	}
	return outcome, nil
}

// saveCollection inserts c or, when it already exists, writes its metadata.
// An existing collection is only moved into group from a group of the same
// owner.
func (s *groupStorage) saveCollection(dbc dbctx.Context, group *types.Group, c *types.Collection, op string) error {
	res, err := s.collections.Insert(dbc, c)
	if err != nil {
		return domainagg.EntityError(domainagg.CodeSaveFailed, domainagg.EntityGroup, group.ID, op, err)
	}
	if res != domainagg.AlreadyExisted {
		return nil
	}
	current, err := s.collections.GetByID(dbc, c.ID)
	if err != nil {
		return domainagg.EntityError(domainagg.CodeSaveFailed, domainagg.EntityGroup, group.ID, op, err)
	}
	if current.GroupID != group.ID {
		from, err := s.repo.Read(dbc, current.GroupID)
		if err != nil {
			return domainagg.EntityError(domainagg.CodeSaveFailed, domainagg.EntityGroup, group.ID, op, err)
		}
		if from != nil && from.OwnerID != group.OwnerID {
			return domainagg.EntityError(domainagg.CodeConflict, domainagg.EntityCollection, c.ID, op, ConflictError("collection belongs to another owner"))
		}
	}
	if err := s.collections.UpdateMetadata(dbc, c); err != nil {
		return domainagg.EntityError(domainagg.CodeSaveFailed, domainagg.EntityGroup, group.ID, op, err)
	}
	return nil
}

func (s *groupStorage) upsertRoot(dbc dbctx.Context, group *types.Group, op string) (domainagg.SaveOutcome, error) {
	existing, err := s.repo.Read(dbc, group.ID)
	if err != nil {
		return domainagg.OutcomeUnknown, err
	}
	if existing == nil {
		err = withSavepoint(dbc, func(dbc dbctx.Context) error {
			return s.repo.Create(dbc, group)
		})
		if err == nil {
			return domainagg.Inserted, nil
		}
		if !isUniqueViolation(err) {
			return domainagg.OutcomeUnknown, err
		}
		if existing, err = s.repo.Read(dbc, group.ID); err != nil {
			return domainagg.OutcomeUnknown, err
		}
		if existing == nil {
			return domainagg.OutcomeUnknown, RetryableError("group inserted and removed concurrently")
		}
	}
	if existing.OwnerID != group.OwnerID {
		return domainagg.OutcomeUnknown, domainagg.EntityError(domainagg.CodeConflict, domainagg.EntityGroup, group.ID, op, ConflictError("group belongs to another owner"))
	}
	if existing.Name != group.Name {
		if err := s.repo.UpdateName(dbc, group.ID, group.Name); err != nil {
			return domainagg.OutcomeUnknown, err
		}
	}
	return domainagg.AlreadyExisted, nil
}

func (s *groupStorage) GetByID(dbc dbctx.Context, id string) (*types.Group, error) {
	const op = "group.get_by_id"
	var out *types.Group
	u := unit{op: op, entity: domainagg.EntityGroup, id: id, fail: domainagg.CodeGetByIDFailed}
	err := inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		group, err := s.repo.Read(dbc, id)
		if err != nil {
			return err
		}
		if group == nil {
			return domainagg.EntityError(domainagg.CodeNotFound, domainagg.EntityGroup, id, op, nil)
		}
		collections, err := s.collections.GetByGroupIDs(dbc, []string{id})
		if err != nil {
			return domainagg.EntityError(domainagg.CodeGetByIDFailed, domainagg.EntityGroup, id, op, err)
		}
		attachCollections([]*types.Group{group}, collections, s.log)
		out = group
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *groupStorage) UpdateMetadata(dbc dbctx.Context, group *types.Group) error {
	const op = "group.update_metadata"
	if group == nil {
		return invalid(domainagg.EntityGroup, "", op, ValidationError("group is nil"))
	}
	if strings.TrimSpace(group.ID) == "" || strings.TrimSpace(group.Name) == "" {
		return invalid(domainagg.EntityGroup, group.ID, op, ValidationError("group id and name are required"))
	}
	u := unit{op: op, entity: domainagg.EntityGroup, id: group.ID, fail: domainagg.CodeUpdateFailed}
	return inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		return s.repo.UpdateName(dbc, group.ID, group.Name)
	})
}

func (s *groupStorage) Delete(dbc dbctx.Context, id string) error {
	u := unit{op: "group.delete", entity: domainagg.EntityGroup, id: id, fail: domainagg.CodeDeleteFailed}
	return inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		return s.repo.Delete(dbc, id)
	})
}

func (s *groupStorage) DeleteCascade(dbc dbctx.Context, id string) error {
	const op = "group.delete_cascade"
	u := unit{op: op, entity: domainagg.EntityGroup, id: id, fail: domainagg.CodeDeleteFailed}
	return inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		if err := s.collections.DeleteByGroupID(dbc, id); err != nil {
			return domainagg.EntityError(domainagg.CodeDeleteFailed, domainagg.EntityGroup, id, op, err)
		}
		return s.repo.Delete(dbc, id)
	})
}

// GetAllByUser returns the user's groups with their collections and coins.
// Groups without collections carry an empty list.
func (s *groupStorage) GetAllByUser(dbc dbctx.Context, userID string) ([]*types.Group, error) {
	const op = "group.get_all_by_user"
	var out []*types.Group
	u := unit{op: op, entity: domainagg.EntityGroup, fail: domainagg.CodeGetAllFailed}
	err := inUnit(dbc, s.deps, u, func(dbc dbctx.Context) error {
		groups, err := s.repo.GetAllByOwner(dbc, userID)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(groups))
		for _, g := range groups {
			ids = append(ids, g.ID)
		}
		collections, err := s.collections.GetByGroupIDs(dbc, ids)
		if err != nil {
			return domainagg.EntityError(domainagg.CodeGetAllFailed, domainagg.EntityGroup, "", op, err)
		}
		attachCollections(groups, collections, s.log)
		out = groups
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func attachCollections(groups []*types.Group, collections []*types.Collection, log *logger.Logger) {
	byID := make(map[string]*types.Group, len(groups))
	for _, g := range groups {
		if g.Collections == nil {
			g.Collections = []*types.Collection{}
		}
		byID[g.ID] = g
	}
	for _, c := range collections {
		g, ok := byID[c.GroupID]
		if !ok {
			log.Debug("Skipping collection of unknown group", "collection_id", c.ID, "group_id", c.GroupID)
			continue
		}
		g.Collections = append(g.Collections, c)
	}
}
