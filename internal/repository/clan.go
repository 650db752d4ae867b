package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/forgo/clanhub/api/internal/database"
	"github.com/forgo/clanhub/api/internal/model"
)

// clanSortColumns whitelists the columns clan listings may sort by. Anything
// else falls back to name.
var clanSortColumns = map[string]string{
	"name":       "name",
	"tag":        "tag",
	"created_on": "created_on",
}

// ClanRepository handles clan data access
type ClanRepository struct {
	db database.Database
}

// NewClanRepository creates a new clan repository
func NewClanRepository(db database.Database) *ClanRepository {
	return &ClanRepository{db: db}
}

// Create creates a new clan. The unique indexes on name and tag are the
// backstop against concurrent duplicates.
func (r *ClanRepository) Create(ctx context.Context, clan *model.Clan) error {
	query := `
		CREATE clan CONTENT {
			name: $name,
			tag: $tag,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			website: IF $website IS NOT NULL THEN $website ELSE NONE END,
			join_hash: IF $join_hash IS NOT NULL THEN $join_hash ELSE NONE END,
			created_on: time::now(),
			modified_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"name":        clan.Name,
		"tag":         clan.Tag,
		"description": ptrOrNil(clan.Description),
		"website":     ptrOrNil(clan.Website),
		"join_hash":   ptrOrNil(clan.JoinHash),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: clan name or tag already exists", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	clan.ID = created.ID
	clan.CreatedOn = created.CreatedOn
	clan.ModifiedOn = created.ModifiedOn
	return nil
}

// GetByID retrieves a clan by ID. Returns (nil, nil) when the clan does not exist.
func (r *ClanRepository) GetByID(ctx context.Context, id string) (*model.Clan, error) {
	query := `SELECT * FROM type::record($id)`
	return r.getOne(ctx, query, map[string]interface{}{"id": id})
}

// GetByName retrieves a clan by name, case-insensitively.
func (r *ClanRepository) GetByName(ctx context.Context, name string) (*model.Clan, error) {
	query := `SELECT * FROM clan WHERE string::lowercase(name) = string::lowercase($name) LIMIT 1`
	return r.getOne(ctx, query, map[string]interface{}{"name": name})
}

// GetByTag retrieves a clan by tag, case-insensitively.
func (r *ClanRepository) GetByTag(ctx context.Context, tag string) (*model.Clan, error) {
	query := `SELECT * FROM clan WHERE string::lowercase(tag) = string::lowercase($tag) LIMIT 1`
	return r.getOne(ctx, query, map[string]interface{}{"tag": tag})
}

func (r *ClanRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.Clan, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	clan, err := parseClanResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return clan, nil
}

// Update persists all mutable fields of a clan.
func (r *ClanRepository) Update(ctx context.Context, clan *model.Clan) error {
	query := `
		UPDATE type::record($id) SET
			name = $name,
			tag = $tag,
			description = $description,
			website = $website,
			modified_on = time::now()
	`

	vars := map[string]interface{}{
		"id":          clan.ID,
		"name":        clan.Name,
		"tag":         clan.Tag,
		"description": ptrOrNil(clan.Description),
		"website":     ptrOrNil(clan.Website),
	}

	err := r.db.Execute(ctx, query, vars)
	if err != nil && isUniqueConstraintError(err) {
		return fmt.Errorf("%w: clan name or tag already exists", database.ErrDuplicate)
	}
	return err
}

// UpdateJoinHash replaces a clan's join password hash.
func (r *ClanRepository) UpdateJoinHash(ctx context.Context, clanID, hash string) error {
	query := `UPDATE type::record($id) SET join_hash = $hash, modified_on = time::now()`
	vars := map[string]interface{}{
		"id":   clanID,
		"hash": hash,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes a clan together with all of its memberships in one
// transaction.
func (r *ClanRepository) Delete(ctx context.Context, id string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`DELETE membership WHERE clan = type::record($id)`, map[string]interface{}{"id": id})
	batch.Add(`DELETE type::record($id)`, map[string]interface{}{"id": id})
	return batch.Execute(ctx, r.db)
}

// List returns a page of clans plus the total count of matches. Filter
// matches name and tag, substring by default and exact when requested.
func (r *ClanRepository) List(ctx context.Context, filter model.ClanListFilter) ([]*model.Clan, int, error) {
	where := `true`
	vars := map[string]interface{}{
		"limit": filter.Limit,
		"start": (filter.Page - 1) * filter.Limit,
	}

	if filter.Filter != "" {
		if filter.Exact {
			where = `(string::lowercase(name) = string::lowercase($filter) OR string::lowercase(tag) = string::lowercase($filter))`
		} else {
			where = `(string::contains(string::lowercase(name), string::lowercase($filter)) OR string::contains(string::lowercase(tag), string::lowercase($filter)))`
		}
		vars["filter"] = filter.Filter
	}

	sortCol, ok := clanSortColumns[filter.Sort]
	if !ok {
		sortCol = "name"
	}
	direction := "ASC"
	if filter.Desc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`SELECT * FROM clan WHERE %s ORDER BY %s %s LIMIT $limit START $start`, where, sortCol, direction)
	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, 0, err
	}

	clans, err := parseClanList(results)
	if err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT count() AS count FROM clan WHERE ` + where + ` GROUP ALL`
	countResult, err := r.db.QueryOne(ctx, countQuery, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return clans, 0, nil
		}
		return nil, 0, err
	}

	return clans, extractCount(countResult), nil
}

func parseClanResult(result interface{}) (*model.Clan, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}

	if id, ok := data["id"]; ok {
		data["id"] = convertRecordID(id)
	}

	// Extract join_hash before the JSON round-trip (Clan.JoinHash has json:"-")
	var joinHash *string
	if h, ok := data["join_hash"].(string); ok {
		joinHash = &h
	}

	normalizeTimes(data, "created_on", "modified_on")

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var clan model.Clan
	if err := json.Unmarshal(jsonBytes, &clan); err != nil {
		return nil, err
	}

	clan.JoinHash = joinHash
	return &clan, nil
}

func parseClanList(results []interface{}) ([]*model.Clan, error) {
	records := unwrapRecords(results)
	clans := make([]*model.Clan, 0, len(records))
	for _, record := range records {
		clan, err := parseClanResult(record)
		if err != nil {
			return nil, err
		}
		clans = append(clans, clan)
	}
	return clans, nil
}
