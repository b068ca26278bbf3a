package handlers

import (
	types "github.com/yungbote/coincollector-backend/internal/domain"
	"github.com/yungbote/coincollector-backend/internal/services"
)

type CoinResponse struct {
	ID           string  `json:"id"`
	Year         int     `json:"year"`
	Value        int     `json:"value"`
	Country      string  `json:"country"`
	Mint         *string `json:"mint"`
	Description  string  `json:"description"`
	CollectionID string  `json:"collectionId"`
}

type CollectionResponse struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	GroupID string         `json:"groupId"`
	Coins   []CoinResponse `json:"coins"`
}

type GroupResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Collections []CollectionResponse `json:"collections"`
}

func coinResponse(c *types.Coin) CoinResponse {
	out := CoinResponse{
		ID:           c.ID,
		Year:         c.Year,
		Value:        c.Value.Cents(),
		Country:      c.Country.ISOCode(),
		Description:  c.Description,
		CollectionID: c.CollectionID,
	}
	if !c.Mint.IsZero() {
		mark := c.Mint.Mark()
		out.Mint = &mark
	}
	return out
}

func collectionResponse(c *types.Collection) CollectionResponse {
	coins := make([]CoinResponse, 0, len(c.Coins))
	for _, coin := range c.Coins {
		if coin != nil {
			coins = append(coins, coinResponse(coin))
		}
	}
	return CollectionResponse{ID: c.ID, Name: c.Name, GroupID: c.GroupID, Coins: coins}
}

func groupResponse(g *types.Group) GroupResponse {
	collections := make([]CollectionResponse, 0, len(g.Collections))
	for _, c := range g.Collections {
		if c != nil {
			collections = append(collections, collectionResponse(c))
		}
	}
	return GroupResponse{ID: g.ID, Name: g.Name, Collections: collections}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type groupRequest struct {
	Name string `json:"name" binding:"required"`
}

type coinFields struct {
	Year        int    `json:"year" binding:"required,gte=1999"`
	Value       int    `json:"value" binding:"required,coinvalue"`
	Country     string `json:"country" binding:"required,coincountry"`
	Mint        string `json:"mint"`
	Description string `json:"description"`
}

func (f coinFields) spec(collectionID string) types.CoinSpec {
	return types.CoinSpec{
		Year:         f.Year,
		Value:        f.Value,
		Country:      f.Country,
		Mint:         f.Mint,
		Description:  f.Description,
		CollectionID: collectionID,
	}
}

type coinRequest struct {
	coinFields
	CollectionID string `json:"collectionId" binding:"required"`
}

type createCollectionRequest struct {
	Name    string       `json:"name" binding:"required"`
	GroupID string       `json:"groupId" binding:"required"`
	Coins   []coinFields `json:"coins" binding:"omitempty,dive"`
}

type patchCollectionRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1"`
	GroupID *string `json:"groupId" binding:"omitempty,min=1"`
}

type patchCoinRequest struct {
	Year         *int    `json:"year" binding:"omitempty,gte=1999"`
	Value        *int    `json:"value" binding:"omitempty,coinvalue"`
	Country      *string `json:"country" binding:"omitempty,coincountry"`
	Mint         *string `json:"mint"`
	Description  *string `json:"description"`
	CollectionID *string `json:"collectionId" binding:"omitempty,min=1"`
}

func (p patchCoinRequest) patch() services.CoinPatch {
	return services.CoinPatch{
		Year:         p.Year,
		Value:        p.Value,
		Country:      p.Country,
		Mint:         p.Mint,
		Description:  p.Description,
		CollectionID: p.CollectionID,
	}
}
