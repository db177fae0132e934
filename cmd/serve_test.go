package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/insureco/advisor-cli/internal/model"
	"github.com/insureco/advisor-cli/internal/pipeline"
	"github.com/insureco/advisor-cli/internal/scorer"
	"github.com/insureco/advisor-cli/internal/store"
)

func serveTestTables() *model.Tables {
	return &model.Tables{
		Clients: []model.Client{
			{ClientID: 1, FullName: "Anna Bergmann", Age: 32, IncomeBandEUR: "50k-75k", City: "Munich", SalesRepID: 10, SalesRepName: "Max Keller"},
			{ClientID: 2, FullName: "Heinrich Vogel", Age: 68, IncomeBandEUR: "35k-50k", City: "Hamburg", NumberOfPolicies: 1, SalesRepID: 11, SalesRepName: "Lena Braun"},
		},
		Products: []model.Product{
			{Category: model.CategoryHealth, ProductCode: "HEALTH-01", ProductName: "Health Essential", BaseAnnualPremiumMin: 1200, BaseAnnualPremiumMax: 1800},
			{Category: model.CategoryLife, ProductCode: "LIFE-01", ProductName: "Term Life Basic", BaseAnnualPremiumMin: 300, BaseAnnualPremiumMax: 500},
			{Category: model.CategoryLiability, ProductCode: "LIAB-01", ProductName: "Personal Liability", BaseAnnualPremiumMin: 60, BaseAnnualPremiumMax: 120},
		},
		Policies: []model.Policy{
			{ClientID: 2, Category: model.CategoryHealth, ProductCode: "HEALTH-01", Status: model.PolicyStatusActive, ContractStartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
		CommissionRules: []model.CommissionRule{
			{Category: model.CategoryHealth, CommissionRatePct: 9},
			{Category: model.CategoryLife, CommissionRatePct: 12},
		},
	}
}

func newTestServer(t *testing.T, loaded bool) (*httptest.Server, *serverState) {
	t.Helper()

	pipe, err := pipeline.New(scorer.DefaultScorerConfig())
	require.NoError(t, err)

	state := &serverState{contacted: map[string]bool{}}
	if loaded {
		tables := serveTestTables()
		res, err := pipe.Compute(tables, time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NotEmpty(t, res.Opportunities)
		state.res = res
		state.tables = tables
	}

	srv := httptest.NewServer(newRouter(pipe, nil, state))
	t.Cleanup(srv.Close)
	return srv, state
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestServeHealth(t *testing.T) {
	srv, _ := newTestServer(t, false)

	var body map[string]string
	status := getJSON(t, srv.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestServeOpportunitiesRequiresUpload(t *testing.T) {
	srv, _ := newTestServer(t, false)
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/opportunities", nil))
}

func TestServeOpportunities(t *testing.T) {
	srv, _ := newTestServer(t, true)

	var views []opportunityView
	status := getJSON(t, srv.URL+"/api/opportunities", &views)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, views)

	// Ranked descending and indexed in rank order.
	for i := 1; i < len(views); i++ {
		assert.GreaterOrEqual(t, views[i-1].Score, views[i].Score)
		assert.Equal(t, i, views[i].Index)
	}
}

func TestServeOpportunityFilters(t *testing.T) {
	srv, _ := newTestServer(t, true)

	var byCategory []opportunityView
	getJSON(t, srv.URL+"/api/opportunities?category=Life", &byCategory)
	require.NotEmpty(t, byCategory)
	for _, v := range byCategory {
		assert.Equal(t, model.CategoryLife, v.Category)
	}

	var byScore []opportunityView
	getJSON(t, srv.URL+"/api/opportunities?min_score=9999", &byScore)
	assert.Empty(t, byScore)

	var byRep []opportunityView
	getJSON(t, srv.URL+"/api/opportunities?rep=10", &byRep)
	require.NotEmpty(t, byRep)
	for _, v := range byRep {
		assert.Equal(t, int64(10), v.SalesRepID)
	}
}

func TestServeLifeEvents(t *testing.T) {
	srv, _ := newTestServer(t, true)

	var body struct {
		ClientID   int64             `json:"client_id"`
		Persona    model.Persona     `json:"persona"`
		LifeEvents []model.LifeEvent `json:"lifeevents"`
	}
	status := getJSON(t, srv.URL+"/api/clients/2/lifeevents", &body)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(2), body.ClientID)
	assert.Equal(t, model.PersonaRetiree, body.Persona)

	var types []model.LifeEventType
	for _, e := range body.LifeEvents {
		types = append(types, e.Type)
	}
	assert.Contains(t, types, model.LifeEventRetirementPlanning)
}

func TestServeContentEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, true)

	status := getJSON(t, srv.URL+"/api/opportunities/0/proposal", nil)
	assert.Equal(t, http.StatusOK, status)

	status = getJSON(t, srv.URL+"/api/opportunities/0/prep", nil)
	assert.Equal(t, http.StatusOK, status)

	var email map[string]string
	status = getJSON(t, srv.URL+"/api/opportunities/0/email?kind=followUp1Week", &email)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, email["email"], "Quick Follow-up")

	status = getJSON(t, srv.URL+"/api/opportunities/0/objections", nil)
	assert.Equal(t, http.StatusOK, status)

	status = getJSON(t, srv.URL+"/api/opportunities/9999/proposal", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestServeContacted(t *testing.T) {
	srv, _ := newTestServer(t, true)

	var views []opportunityView
	getJSON(t, srv.URL+"/api/opportunities", &views)
	require.NotEmpty(t, views)
	target := views[0]
	assert.False(t, target.Contacted)

	payload := fmt.Sprintf(`{"client_id":%d,"category":"%s","contacted":true}`, target.ClientID, target.Category)
	resp, err := http.Post(srv.URL+"/api/contacted", "application/json", bytes.NewBufferString(payload))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	getJSON(t, srv.URL+"/api/opportunities", &views)
	assert.True(t, views[0].Contacted)
}

func TestServeContactedValidation(t *testing.T) {
	srv, _ := newTestServer(t, true)

	resp, err := http.Post(srv.URL+"/api/contacted", "application/json", bytes.NewBufferString(`{"category":"Life"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServeWarmStartRestoresTables(t *testing.T) {
	ctx := context.Background()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "advisor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(ctx))

	pipe, err := pipeline.New(scorer.DefaultScorerConfig())
	require.NoError(t, err)
	tables := serveTestTables()
	res, err := pipe.Compute(tables, time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = st.SaveRun(ctx, "quarterly.xlsx", res, tables)
	require.NoError(t, err)

	// A restarted server must serve content endpoints from the stored
	// run, not just the opportunity list.
	state := &serverState{contacted: map[string]bool{}}
	require.NoError(t, warmStart(ctx, st, state))
	require.NotNil(t, state.res)
	require.NotNil(t, state.tables)

	srv := httptest.NewServer(newRouter(pipe, st, state))
	t.Cleanup(srv.Close)

	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/opportunities", nil))
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/opportunities/0/proposal", nil))
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/opportunities/0/prep", nil))
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/opportunities/0/objections", nil))
}

func TestServeWarmStartEmptyStore(t *testing.T) {
	ctx := context.Background()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "advisor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(ctx))

	state := &serverState{contacted: map[string]bool{}}
	require.NoError(t, warmStart(ctx, st, state))
	assert.Nil(t, state.res)
	assert.Nil(t, state.tables)
}

func uploadWorkbook(t *testing.T, url string, book *xlsx.File) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "portfolio.xlsx")
	require.NoError(t, err)
	require.NoError(t, book.Write(part))
	require.NoError(t, mw.Close())

	resp, err := http.Post(url+"/api/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func uploadFixture(t *testing.T) *xlsx.File {
	t.Helper()
	f := xlsx.NewFile()

	add := func(name string, rows [][]string) {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, cells := range rows {
			row := sheet.AddRow()
			for _, c := range cells {
				row.AddCell().SetString(c)
			}
		}
	}

	add("Clients", [][]string{
		{"ClientID", "FullName", "Age", "IncomeBandEUR", "City", "NumberOfPolicies", "SalesRepID", "SalesRepName"},
		{"1", "Anna Bergmann", "32", "50k-75k", "Munich", "0", "10", "Max Keller"},
	})
	add("Products", [][]string{
		{"Category", "ProductCode", "ProductName", "BaseAnnualPremiumMinEUR", "BaseAnnualPremiumMaxEUR"},
		{"Life", "LIFE-01", "Term Life Basic", "300", "500"},
	})
	add("Policies", [][]string{{"ClientID", "Category", "ProductCode", "Status", "ContractStartDate"}})
	add("SalesReps", [][]string{{"SalesRepID", "SalesRepName", "Region", "Email"}})
	add("CommissionRules", [][]string{{"Category", "CommissionRatePct"}, {"Life", "12"}})

	return f
}

func TestServeUpload(t *testing.T) {
	srv, state := newTestServer(t, false)

	resp := uploadWorkbook(t, srv.URL, uploadFixture(t))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body["clients"])
	assert.Greater(t, body["opportunities"], 0)

	res, tables := state.snapshot()
	require.NotNil(t, res)
	require.NotNil(t, tables)
}

func TestServeUploadRejectsIncompleteWorkbook(t *testing.T) {
	srv, _ := newTestServer(t, false)

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Clients")
	require.NoError(t, err)
	row := sheet.AddRow()
	row.AddCell().SetString("ClientID")

	resp := uploadWorkbook(t, srv.URL, f)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestServeUploadRequiresFile(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp, err := http.Post(srv.URL+"/api/upload", "application/json", bytes.NewBufferString("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
