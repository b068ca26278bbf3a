package domain

import (
	"github.com/yungbote/coincollector-backend/internal/domain/library"
	"github.com/yungbote/coincollector-backend/internal/domain/user"
)

const (
	Germany     = library.Germany
	MinCoinYear = library.MinCoinYear
)

type Coin = library.Coin
type CoinSpec = library.CoinSpec
type CoinValue = library.CoinValue
type Country = library.Country
type Mint = library.Mint
type Collection = library.Collection
type Group = library.Group

type User = user.User

var (
	ErrInvalid     = library.ErrInvalid
	ErrInvalidUser = user.ErrInvalid
)

var (
	NewCoin            = library.NewCoin
	NewCollection      = library.NewCollection
	NewGroup           = library.NewGroup
	NewUser            = user.New
	CoinID             = library.CoinID
	DefaultDescription = library.DefaultDescription
)
