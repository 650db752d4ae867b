package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/forgo/clanhub/api/internal/database"
	"github.com/forgo/clanhub/api/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. The schema-level unique indexes on email and
// nickname are the backstop; callers should still pre-check for friendlier
// errors.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		CREATE user CONTENT {
			email: $email,
			nickname: $nickname,
			hash: IF $hash IS NOT NULL THEN $hash ELSE NONE END,
			status: $status,
			email_confirmed: $email_confirmed,
			superadmin: $superadmin,
			info_mails: $info_mails,
			firstname: IF $firstname IS NOT NULL THEN $firstname ELSE NONE END,
			surname: IF $surname IS NOT NULL THEN $surname ELSE NONE END,
			registered_on: time::now(),
			modified_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"email":           user.Email,
		"nickname":        user.Nickname,
		"hash":            ptrOrNil(user.Hash),
		"status":          user.Status,
		"email_confirmed": user.EmailConfirmed,
		"superadmin":      user.Superadmin,
		"info_mails":      user.InfoMails,
		"firstname":       ptrOrNil(user.Firstname),
		"surname":         ptrOrNil(user.Surname),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email or nickname already exists", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	user.ID = created.ID
	user.RegisteredOn = created.CreatedOn
	user.ModifiedOn = created.ModifiedOn
	return nil
}

// GetByID retrieves a user by ID. Returns (nil, nil) when the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user, err := parseUserResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM user WHERE string::lowercase(email) = string::lowercase($email) LIMIT 1`
	return r.getOne(ctx, query, map[string]interface{}{"email": email})
}

// GetByNickname retrieves a user by nickname, case-insensitively.
func (r *UserRepository) GetByNickname(ctx context.Context, nickname string) (*model.User, error) {
	query := `SELECT * FROM user WHERE string::lowercase(nickname) = string::lowercase($nickname) LIMIT 1`
	return r.getOne(ctx, query, map[string]interface{}{"nickname": nickname})
}

func (r *UserRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.User, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user, err := parseUserResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Update persists all mutable fields of a user. Callers load the record,
// apply their partial changes in memory, and hand the merged entity here.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE type::record($id) SET
			email = $email,
			nickname = $nickname,
			status = $status,
			email_confirmed = $email_confirmed,
			superadmin = $superadmin,
			info_mails = $info_mails,
			firstname = $firstname,
			surname = $surname,
			postcode = $postcode,
			city = $city,
			street = $street,
			country = $country,
			phone = $phone,
			gender = $gender,
			website = $website,
			steam_account = $steam_account,
			hardware = $hardware,
			statements = $statements,
			birthdate = IF $birthdate IS NOT NULL THEN <datetime> $birthdate ELSE NONE END,
			modified_on = time::now()
	`

	vars := map[string]interface{}{
		"id":              user.ID,
		"email":           user.Email,
		"nickname":        user.Nickname,
		"status":          user.Status,
		"email_confirmed": user.EmailConfirmed,
		"superadmin":      user.Superadmin,
		"info_mails":      user.InfoMails,
		"firstname":       ptrOrNil(user.Firstname),
		"surname":         ptrOrNil(user.Surname),
		"postcode":        intPtrOrNil(user.Postcode),
		"city":            ptrOrNil(user.City),
		"street":          ptrOrNil(user.Street),
		"country":         ptrOrNil(user.Country),
		"phone":           ptrOrNil(user.Phone),
		"gender":          ptrOrNil(user.Gender),
		"website":         ptrOrNil(user.Website),
		"steam_account":   ptrOrNil(user.SteamAccount),
		"hardware":        ptrOrNil(user.Hardware),
		"statements":      ptrOrNil(user.Statements),
		"birthdate":       timePtrOrNil(user.Birthdate),
	}

	err := r.db.Execute(ctx, query, vars)
	if err != nil && isUniqueConstraintError(err) {
		return fmt.Errorf("%w: email or nickname already exists", database.ErrDuplicate)
	}
	return err
}

// UpdateHash replaces a user's password hash.
func (r *UserRepository) UpdateHash(ctx context.Context, userID, hash string) error {
	query := `UPDATE type::record($id) SET hash = $hash, modified_on = time::now()`
	vars := map[string]interface{}{
		"id":   userID,
		"hash": hash,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes a user together with all of its memberships. Both deletes
// run in one transaction so a failure cannot strand membership rows.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`DELETE membership WHERE user = type::record($id)`, map[string]interface{}{"id": id})
	batch.Add(`DELETE type::record($id)`, map[string]interface{}{"id": id})
	return batch.Execute(ctx, r.db)
}

// List returns a page of active users plus the total count of matches.
// The optional query string matches nickname, email, firstname, and surname.
func (r *UserRepository) List(ctx context.Context, filter model.UserListFilter) ([]*model.User, int, error) {
	where := `status >= 1`
	vars := map[string]interface{}{
		"limit": filter.Limit,
		"start": (filter.Page - 1) * filter.Limit,
	}

	if filter.Query != "" {
		where += ` AND (
			string::contains(string::lowercase(nickname), string::lowercase($q))
			OR string::contains(string::lowercase(email), string::lowercase($q))
			OR string::contains(string::lowercase(firstname ?? ""), string::lowercase($q))
			OR string::contains(string::lowercase(surname ?? ""), string::lowercase($q))
		)`
		vars["q"] = filter.Query
	}

	query := `SELECT * FROM user WHERE ` + where + ` ORDER BY nickname ASC LIMIT $limit START $start`
	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, 0, err
	}

	users, err := parseUserList(results)
	if err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT count() AS count FROM user WHERE ` + where + ` GROUP ALL`
	countResult, err := r.db.QueryOne(ctx, countQuery, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return users, 0, nil
		}
		return nil, 0, err
	}

	return users, extractCount(countResult), nil
}

// Search returns active users matching the given criteria. Criteria combine
// with AND; an empty request matches nothing and is rejected upstream.
func (r *UserRepository) Search(ctx context.Context, req model.SearchUsersRequest) ([]*model.User, error) {
	clauses := []string{`status >= 1`}
	vars := map[string]interface{}{}

	if req.Nickname != nil {
		clauses = append(clauses, `string::lowercase(nickname) = string::lowercase($nickname)`)
		vars["nickname"] = *req.Nickname
	}
	if req.Superadmin != nil {
		clauses = append(clauses, `superadmin = $superadmin`)
		vars["superadmin"] = *req.Superadmin
	}
	if req.InfoMails != nil {
		clauses = append(clauses, `info_mails = $info_mails`)
		vars["info_mails"] = *req.InfoMails
	}

	query := `SELECT * FROM user WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY nickname ASC`
	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseUserList(results)
}

// Helper functions

type createdRecord struct {
	ID         string
	CreatedOn  time.Time
	ModifiedOn time.Time
}

func extractCreatedRecord(result []interface{}) (*createdRecord, error) {
	if len(result) == 0 {
		return nil, errors.New("no result returned")
	}

	data, err := unwrapRecord(result[0])
	if err != nil {
		return nil, err
	}

	record := &createdRecord{}
	if id, ok := data["id"]; ok {
		record.ID = convertRecordID(id)
	}
	record.CreatedOn = parseTimeValue(firstPresent(data, "registered_on", "created_on"))
	record.ModifiedOn = parseTimeValue(data["modified_on"])

	return record, nil
}

func firstPresent(data map[string]interface{}, keys ...string) interface{} {
	for _, key := range keys {
		if v, ok := data[key]; ok {
			return v
		}
	}
	return nil
}

func parseUserResult(result interface{}) (*model.User, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}

	// The Go client returns the ID as an object, convert to string
	if id, ok := data["id"]; ok {
		data["id"] = convertRecordID(id)
	}

	// Extract hash before the JSON round-trip (User.Hash has json:"-")
	var hash *string
	if h, ok := data["hash"].(string); ok {
		hash = &h
	}

	normalizeTimes(data, "registered_on", "modified_on", "birthdate")

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(jsonBytes, &user); err != nil {
		return nil, err
	}

	user.Hash = hash
	return &user, nil
}

func parseUserList(results []interface{}) ([]*model.User, error) {
	records := unwrapRecords(results)
	users := make([]*model.User, 0, len(records))
	for _, record := range records {
		user, err := parseUserResult(record)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
