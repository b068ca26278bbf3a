package services

import (
	"github.com/yungbote/coincollector-backend/internal/data/aggregates"
	types "github.com/yungbote/coincollector-backend/internal/domain"
	domainagg "github.com/yungbote/coincollector-backend/internal/domain/aggregates"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

// Authorizer resolves a resource for a user. Resources owned by someone else
// are reported as NotFound so their existence does not leak.
type Authorizer interface {
	Group(dbc dbctx.Context, userID, groupID string) (*types.Group, error)
	Collection(dbc dbctx.Context, userID, collectionID string) (*types.Collection, error)
	Coin(dbc dbctx.Context, userID, coinID string) (*types.Coin, error)
}

type authorizer struct {
	log         *logger.Logger
	groups      aggregates.GroupStorage
	collections aggregates.CollectionStorage
	coins       aggregates.CoinStorage
}

func NewAuthorizer(
	log *logger.Logger,
	groups aggregates.GroupStorage,
	collections aggregates.CollectionStorage,
	coins aggregates.CoinStorage,
) Authorizer {
	return &authorizer{
		log:         log.With("service", "Authorizer"),
		groups:      groups,
		collections: collections,
		coins:       coins,
	}
}

func (a *authorizer) Group(dbc dbctx.Context, userID, groupID string) (*types.Group, error) {
	g, err := a.groups.GetByID(dbc, groupID)
	if err != nil {
		return nil, err
	}
	if userID == "" || g.OwnerID != userID {
		a.log.Debug("Foreign group hidden", "user_id", userID, "group_id", groupID)
		return nil, domainagg.EntityError(domainagg.CodeNotFound, domainagg.EntityGroup, groupID, "authorize.group", nil)
	}
	return g, nil
}

func (a *authorizer) Collection(dbc dbctx.Context, userID, collectionID string) (*types.Collection, error) {
	c, err := a.collections.GetByID(dbc, collectionID)
	if err != nil {
		return nil, err
	}
	if _, err := a.Group(dbc, userID, c.GroupID); err != nil {
		if domainagg.IsCode(err, domainagg.CodeNotFound) {
			return nil, domainagg.EntityError(domainagg.CodeNotFound, domainagg.EntityCollection, collectionID, "authorize.collection", nil)
		}
		return nil, err
	}
	return c, nil
}

func (a *authorizer) Coin(dbc dbctx.Context, userID, coinID string) (*types.Coin, error) {
	coin, err := a.coins.GetByID(dbc, coinID)
	if err != nil {
		return nil, err
	}
	if _, err := a.Collection(dbc, userID, coin.CollectionID); err != nil {
		if domainagg.IsCode(err, domainagg.CodeNotFound) {
			return nil, domainagg.EntityError(domainagg.CodeNotFound, domainagg.EntityCoin, coinID, "authorize.coin", nil)
		}
		return nil, err
	}
	return coin, nil
}
