package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/yungbote/coincollector-backend/internal/data/aggregates"
	types "github.com/yungbote/coincollector-backend/internal/domain"
	"github.com/yungbote/coincollector-backend/internal/platform/apierr"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

type CollectionInput struct {
	Name    string
	GroupID string
	Coins   []types.CoinSpec
}

// CollectionPatch carries the fields to change; nil fields stay as they are.
type CollectionPatch struct {
	Name    *string
	GroupID *string
}

type CoinPatch struct {
	Year         *int
	Value        *int
	Country      *string
	Mint         *string
	Description  *string
	CollectionID *string
}

// LibraryService exposes the coin library of one user. Every call resolves
// resources through the Authorizer first.
type LibraryService interface {
	ListGroups(ctx context.Context, userID string) ([]*types.Group, error)
	GetGroup(ctx context.Context, userID, groupID string) (*types.Group, error)
	CreateGroup(ctx context.Context, userID, name string) (*types.Group, error)
	RenameGroup(ctx context.Context, userID, groupID, name string) (*types.Group, error)
	DeleteGroup(ctx context.Context, userID, groupID string) error

	GetCollection(ctx context.Context, userID, collectionID string) (*types.Collection, error)
	CreateCollection(ctx context.Context, userID string, in CollectionInput) (*types.Collection, error)
	UpdateCollection(ctx context.Context, userID, collectionID string, patch CollectionPatch) (*types.Collection, error)
	DeleteCollection(ctx context.Context, userID, collectionID string) error

	GetCoin(ctx context.Context, userID, coinID string) (*types.Coin, error)
	AddCoin(ctx context.Context, userID string, spec types.CoinSpec) (*types.Coin, error)
	// UpdateCoin applies patch. When the change alters the derived id the old
	// coin is replaced by the new one in a single unit of work.
	UpdateCoin(ctx context.Context, userID, coinID string, patch CoinPatch) (*types.Coin, error)
	DeleteCoin(ctx context.Context, userID, coinID string) error
}

type libraryService struct {
	log         *logger.Logger
	runner      aggregates.TxRunner
	authz       Authorizer
	groups      aggregates.GroupStorage
	collections aggregates.CollectionStorage
	coins       aggregates.CoinStorage
}

func NewLibraryService(
	log *logger.Logger,
	runner aggregates.TxRunner,
	authz Authorizer,
	groups aggregates.GroupStorage,
	collections aggregates.CollectionStorage,
	coins aggregates.CoinStorage,
) LibraryService {
	return &libraryService{
		log:         log.With("service", "LibraryService"),
		runner:      runner,
		authz:       authz,
		groups:      groups,
		collections: collections,
		coins:       coins,
	}
}

func badRequest(err error) error {
	return apierr.New(http.StatusBadRequest, "validation", err)
}

func (s *libraryService) ListGroups(ctx context.Context, userID string) ([]*types.Group, error) {
	return s.groups.GetAllByUser(dbctx.New(ctx), userID)
}

func (s *libraryService) GetGroup(ctx context.Context, userID, groupID string) (*types.Group, error) {
	return s.authz.Group(dbctx.New(ctx), userID, groupID)
}

func (s *libraryService) CreateGroup(ctx context.Context, userID, name string) (*types.Group, error) {
	g, err := types.NewGroup(name, userID)
	if err != nil {
		return nil, badRequest(err)
	}
	if _, err := s.groups.Save(dbctx.New(ctx), g); err != nil {
		return nil, err
	}
	s.log.Info("Group created", "group_id", g.ID, "owner_id", userID)
	return g, nil
}

func (s *libraryService) RenameGroup(ctx context.Context, userID, groupID, name string) (*types.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, badRequest(errors.New("group name is blank"))
	}
	dbc := dbctx.New(ctx)
	g, err := s.authz.Group(dbc, userID, groupID)
	if err != nil {
		return nil, err
	}
	g.Name = name
	if err := s.groups.UpdateMetadata(dbc, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *libraryService) DeleteGroup(ctx context.Context, userID, groupID string) error {
	dbc := dbctx.New(ctx)
	if _, err := s.authz.Group(dbc, userID, groupID); err != nil {
		return err
	}
	return s.groups.DeleteCascade(dbc, groupID)
}

func (s *libraryService) GetCollection(ctx context.Context, userID, collectionID string) (*types.Collection, error) {
	return s.authz.Collection(dbctx.New(ctx), userID, collectionID)
}

func (s *libraryService) CreateCollection(ctx context.Context, userID string, in CollectionInput) (*types.Collection, error) {
	dbc := dbctx.New(ctx)
	if _, err := s.authz.Group(dbc, userID, in.GroupID); err != nil {
		return nil, err
	}
	c, err := types.NewCollection(in.Name, in.GroupID)
	if err != nil {
		return nil, badRequest(err)
	}
	for _, spec := range in.Coins {
		spec.CollectionID = c.ID
		coin, err := types.NewCoin(spec)
		if err != nil {
			return nil, badRequest(err)
		}
		c.AddCoin(coin)
	}
	if err := s.collections.Save(dbc, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *libraryService) UpdateCollection(ctx context.Context, userID, collectionID string, patch CollectionPatch) (*types.Collection, error) {
	dbc := dbctx.New(ctx)
	c, err := s.authz.Collection(dbc, userID, collectionID)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		c.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.GroupID != nil && *patch.GroupID != c.GroupID {
		if _, err := s.authz.Group(dbc, userID, *patch.GroupID); err != nil {
			return nil, err
		}
		c.GroupID = *patch.GroupID
	}
	if c.Name == "" {
		return nil, badRequest(errors.New("collection name is blank"))
	}
	if err := s.collections.UpdateMetadata(dbc, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *libraryService) DeleteCollection(ctx context.Context, userID, collectionID string) error {
	dbc := dbctx.New(ctx)
	if _, err := s.authz.Collection(dbc, userID, collectionID); err != nil {
		return err
	}
	return s.collections.DeleteCascade(dbc, collectionID)
}

func (s *libraryService) GetCoin(ctx context.Context, userID, coinID string) (*types.Coin, error) {
	return s.authz.Coin(dbctx.New(ctx), userID, coinID)
}

func (s *libraryService) AddCoin(ctx context.Context, userID string, spec types.CoinSpec) (*types.Coin, error) {
	dbc := dbctx.New(ctx)
	if _, err := s.authz.Collection(dbc, userID, spec.CollectionID); err != nil {
		return nil, err
	}
	coin, err := types.NewCoin(spec)
	if err != nil {
		return nil, badRequest(err)
	}
	if err := s.coins.Save(dbc, coin); err != nil {
		return nil, err
	}
	return coin, nil
}

func (s *libraryService) UpdateCoin(ctx context.Context, userID, coinID string, patch CoinPatch) (*types.Coin, error) {
	dbc := dbctx.New(ctx)
	old, err := s.authz.Coin(dbc, userID, coinID)
	if err != nil {
		return nil, err
	}
	spec := specOf(old)
	// A changed attribute without a new description gets a regenerated one.
	if patch.Description == nil && old.Description == types.DefaultDescription(old.Value, old.Year, old.Country, old.Mint) {
		spec.Description = ""
	}
	applyCoinPatch(&spec, patch)
	if spec.CollectionID != old.CollectionID {
		if _, err := s.authz.Collection(dbc, userID, spec.CollectionID); err != nil {
			return nil, err
		}
	}
	next, err := types.NewCoin(spec)
	if err != nil {
		return nil, badRequest(err)
	}

	if next.ID == old.ID {
		if err := s.coins.Update(dbc, next); err != nil {
			return nil, err
		}
		return next, nil
	}
	err = s.runner.InTx(ctx, func(tx dbctx.Context) error {
		if err := s.coins.Delete(tx, old.ID); err != nil {
			return err
		}
		return s.coins.Save(tx, next)
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("Coin replaced", "old_id", old.ID, "new_id", next.ID)
	return next, nil
}

func (s *libraryService) DeleteCoin(ctx context.Context, userID, coinID string) error {
	dbc := dbctx.New(ctx)
	if _, err := s.authz.Coin(dbc, userID, coinID); err != nil {
		return err
	}
	return s.coins.Delete(dbc, coinID)
}

func specOf(c *types.Coin) types.CoinSpec {
	return types.CoinSpec{
		Year:         c.Year,
		Value:        c.Value.Cents(),
		Country:      c.Country.ISOCode(),
		Mint:         c.Mint.Mark(),
		Description:  c.Description,
		CollectionID: c.CollectionID,
	}
}

func applyCoinPatch(spec *types.CoinSpec, p CoinPatch) {
	if p.Year != nil {
		spec.Year = *p.Year
	}
	if p.Value != nil {
		spec.Value = *p.Value
	}
	if p.Country != nil {
		spec.Country = *p.Country
	}
	if p.Mint != nil {
		spec.Mint = *p.Mint
	}
	if p.Description != nil {
		spec.Description = *p.Description
	}
	if p.CollectionID != nil {
		spec.CollectionID = *p.CollectionID
	}
}
