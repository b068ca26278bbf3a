// Package importer loads coin libraries from YAML files into storage.
//
// A file lists groups of collections of coins:
//
//	groups:
//	  - name: Euro
//	    collections:
//	      - name: Italy
//	        coins:
//	          - {year: 2002, value: 200, country: IT}
//	          - {year: 2002, value: 10, country: DE, mint: A}
//
// Groups and collections without an explicit id get one derived from the
// owner and their names, so importing the same file twice writes nothing new.
package importer

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/coincollector-backend/internal/data/aggregates"
	types "github.com/yungbote/coincollector-backend/internal/domain"
	domainagg "github.com/yungbote/coincollector-backend/internal/domain/aggregates"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

const maxParallelDecodes = 4

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("coincollector/import"))

type Document struct {
	Groups []GroupDoc `yaml:"groups"`
}

type GroupDoc struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Collections []CollectionDoc `yaml:"collections"`
}

type CollectionDoc struct {
	ID    string    `yaml:"id"`
	Name  string    `yaml:"name"`
	Coins []CoinDoc `yaml:"coins"`
}

type CoinDoc struct {
	Year        int    `yaml:"year"`
	Value       int    `yaml:"value"`
	Country     string `yaml:"country"`
	Mint        string `yaml:"mint"`
	Description string `yaml:"description"`
}

// Summary counts what an import touched.
type Summary struct {
	Files       int
	Groups      int
	Collections int
	Coins       int
}

type Importer struct {
	log    *logger.Logger
	runner aggregates.TxRunner
	groups aggregates.GroupStorage
	coins  aggregates.CoinStorage
}

func New(log *logger.Logger, runner aggregates.TxRunner, groups aggregates.GroupStorage, coins aggregates.CoinStorage) *Importer {
	return &Importer{
		log:    log.With("component", "Importer"),
		runner: runner,
		groups: groups,
		coins:  coins,
	}
}

// Decode parses a single YAML document.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &doc, nil
}

// DecodeFiles reads and decodes paths concurrently. Documents come back in
// the order of paths.
func DecodeFiles(ctx context.Context, paths []string) ([]*Document, error) {
	docs := make([]*Document, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDecodes)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			doc, err := Decode(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// ImportFiles decodes paths and imports every document for ownerID.
func (im *Importer) ImportFiles(ctx context.Context, ownerID string, paths []string) (Summary, error) {
	docs, err := DecodeFiles(ctx, paths)
	if err != nil {
		return Summary{}, err
	}
	var total Summary
	for i, doc := range docs {
		s, err := im.Import(ctx, ownerID, doc)
		if err != nil {
			return total, fmt.Errorf("%s: %w", paths[i], err)
		}
		total.Files++
		total.Groups += s.Groups
		total.Collections += s.Collections
		total.Coins += s.Coins
	}
	im.log.Info("Import finished", "owner_id", ownerID, "files", total.Files, "groups", total.Groups, "coins", total.Coins)
	return total, nil
}

// Import writes doc for ownerID. Each group is saved in its own transaction.
func (im *Importer) Import(ctx context.Context, ownerID string, doc *Document) (Summary, error) {
	var s Summary
	if doc == nil {
		return s, nil
	}
	for gi, gd := range doc.Groups {
		group, err := BuildGroup(ownerID, gd)
		if err != nil {
			return s, fmt.Errorf("group %d: %w", gi, err)
		}
		err = im.runner.InTx(ctx, func(tx dbctx.Context) error {
			if _, err := im.groups.Save(tx, group); err != nil {
				return err
			}
			// Collections that already existed only had their metadata written.
			for _, c := range group.Collections {
				for _, coin := range c.Coins {
					outcome, err := im.coins.Insert(tx, coin)
					if err == nil && outcome == domainagg.AlreadyExisted {
						err = im.coins.Update(tx, coin)
					}
					if err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			return s, fmt.Errorf("import group %q: %w", group.Name, err)
		}
		s.Groups++
		for _, c := range group.Collections {
			s.Collections++
			s.Coins += len(c.Coins)
		}
		im.log.Debug("Group imported", "group_id", group.ID, "collections", len(group.Collections))
	}
	return s, nil
}

// BuildGroup turns gd into a validated aggregate owned by ownerID.
func BuildGroup(ownerID string, gd GroupDoc) (*types.Group, error) {
	group, err := types.NewGroup(gd.Name, ownerID)
	if err != nil {
		return nil, err
	}
	group.ID = derivedID(gd.ID, "group", ownerID, group.Name)
	for ci, cd := range gd.Collections {
		c, err := types.NewCollection(cd.Name, group.ID)
		if err != nil {
			return nil, fmt.Errorf("collection %d: %w", ci, err)
		}
		c.ID = derivedID(cd.ID, "collection", group.ID, c.Name)
		for ki, kd := range cd.Coins {
			coin, err := types.NewCoin(types.CoinSpec{
				Year:         kd.Year,
				Value:        kd.Value,
				Country:      kd.Country,
				Mint:         kd.Mint,
				Description:  kd.Description,
				CollectionID: c.ID,
			})
			if err != nil {
				return nil, fmt.Errorf("collection %q coin %d: %w", c.Name, ki, err)
			}
			c.AddCoin(coin)
		}
		group.AddCollection(c)
	}
	return group, nil
}

func derivedID(explicit, kind, parent, name string) string {
	if id := strings.TrimSpace(explicit); id != "" {
		return id
	}
	return uuid.NewSHA1(idNamespace, []byte(kind+"/"+parent+"/"+name)).String()
}
