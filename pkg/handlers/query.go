package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	gabi "github.com/app-sre/gabi-console/pkg"
	"github.com/app-sre/gabi-console/pkg/middleware"
	"github.com/app-sre/gabi-console/pkg/models"
)

const (
	noRowsMessage       = "Query returned no rows"
	readOnlyMessage     = "%d rows affected (rolled back, write access is disabled)"
	rowsAffectedMessage = "%d rows affected"
)

var (
	rowKeywords = map[string]struct{}{
		"select":   {},
		"with":     {},
		"show":     {},
		"explain":  {},
		"describe": {},
		"desc":     {},
		"pragma":   {},
		"values":   {},
		"table":    {},
	}

	returningClause = regexp.MustCompile(`(?i)\breturning\b`)
	leadingComments = regexp.MustCompile(`^(\s*(--[^\n]*\n|/\*.*?\*/))*\s*`)
)

// Query executes a statement and answers with the query envelope. Every
// outcome of an executed request, including execution errors, is
// reported with a 200 status.
func Query(cfg *gabi.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := requestQuery(r)
		if err != nil {
			writeResponse(w, cfg, models.Failed(fmt.Sprintf("Invalid request: %s", err)))
			return
		}

		writeResponse(w, cfg, execute(r.Context(), cfg, query))
	}
}

func requestQuery(r *http.Request) (string, error) {
	if q, ok := r.Context().Value(middleware.ContextKeyQuery).(string); ok && q != "" {
		return q, nil
	}

	var request models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return "", err
	}

	return request.Query, nil
}

func execute(ctx context.Context, cfg *gabi.Config, query string) *models.QueryResponse {
	tx, err := cfg.DB.BeginTx(ctx, nil)
	if err != nil {
		cfg.Logger.Errorf("Unable to start database transaction: %s", err)
		return models.Failed(err.Error())
	}
	defer func() { _ = tx.Rollback() }()

	var response *models.QueryResponse
	if returnsRows(query) {
		response, err = queryRows(ctx, tx, query)
	} else {
		response, err = execStatement(ctx, tx, query, cfg.DBEnv.AllowWrite)
	}
	if err != nil {
		cfg.Logger.Errorf("Unable to query database: %s", err)
		return models.Failed(err.Error())
	}

	if !cfg.DBEnv.AllowWrite {
		if err := tx.Rollback(); err != nil {
			cfg.Logger.Errorf("Unable to roll back database changes: %s", err)
			return models.Failed(err.Error())
		}
		return response
	}

	if err := tx.Commit(); err != nil {
		cfg.Logger.Errorf("Unable to commit database changes: %s", err)
		return models.Failed(err.Error())
	}

	return response
}

func queryRows(ctx context.Context, tx *sql.Tx, query string) (*models.QueryResponse, error) {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &models.QueryResult{Columns: cols, Rows: [][]any{}}

	for rows.Next() {
		values := make([]any, len(cols))
		pointers := make([]any, len(cols))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	response := &models.QueryResponse{Success: true, Data: result}
	if len(result.Rows) == 0 {
		response.Message = noRowsMessage
	}

	return response, nil
}

func execStatement(ctx context.Context, tx *sql.Tx, query string, write bool) (*models.QueryResponse, error) {
	res, err := tx.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	format := rowsAffectedMessage
	if !write {
		format = readOnlyMessage
	}

	return &models.QueryResponse{Success: true, Message: fmt.Sprintf(format, n)}, nil
}

// returnsRows guesses from the leading keyword whether a statement
// produces a result set.
func returnsRows(query string) bool {
	q := leadingComments.ReplaceAllString(query, "")

	keyword := strings.ToLower(strings.TrimLeft(q, "("))
	if i := strings.IndexFunc(keyword, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '(' || r == ';'
	}); i >= 0 {
		keyword = keyword[:i]
	}

	if _, ok := rowKeywords[keyword]; ok {
		return true
	}

	return returningClause.MatchString(q)
}

func writeResponse(w http.ResponseWriter, cfg *gabi.Config, response *models.QueryResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		cfg.Logger.Errorf("Unable to encode query response: %s", err)
	}
}
